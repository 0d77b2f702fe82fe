// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package metrics

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/freqdash/internal/api"
	cache "github.com/jeranaias/freqdash/internal/metrics"
	"github.com/jeranaias/freqdash/internal/ui"
	"github.com/jeranaias/freqdash/internal/ui/styles"
)

type metricsServer struct {
	calls  atomic.Int32
	status atomic.Int32
	body   string
}

func newPanel(t *testing.T, body string) (Model, *metricsServer, *time.Time) {
	t.Helper()
	srv := &metricsServer{body: body}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srv.calls.Add(1)
		assert.Equal(t, api.DefaultMetricsPath, r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		if s := srv.status.Load(); s != 0 {
			w.WriteHeader(int(s))
			return
		}
		w.Write([]byte(srv.body))
	}))
	t.Cleanup(server.Close)

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	c := cache.NewCache(api.NewClient(server.URL), cache.DefaultTTL).
		WithClock(func() time.Time { return now })

	m := New(styles.NewThemeFor("dark"), c)
	m.SetSize(100, 40)
	return m, srv, &now
}

func activate(t *testing.T, m Model) (Model, tea.Msg) {
	t.Helper()
	cmd := m.Activate()
	require.NotNil(t, cmd)
	m, next := m.Update(cmd())
	if next != nil {
		return m, next()
	}
	return m, nil
}

func TestActivate_LoadsSamples(t *testing.T) {
	m, srv, _ := newPanel(t, `[{"name":"epoch1","accuracy":0.9,"loss":0.1}]`)
	assert.Contains(t, m.View(), "No metrics loaded.")

	m, out := activate(t, m)
	assert.Nil(t, out)
	require.Len(t, m.Samples(), 1)
	assert.Equal(t, "epoch1", m.Samples()[0].Name)
	assert.Equal(t, int32(1), srv.calls.Load())

	view := m.View()
	assert.Contains(t, view, "epoch1")
	assert.Contains(t, view, "0.9000")
	assert.Contains(t, view, "accuracy")
	assert.Contains(t, view, "loss")
}

func TestActivate_HonorsTTL(t *testing.T) {
	m, srv, now := newPanel(t, `[{"name":"e1","accuracy":0.5,"loss":0.7}]`)

	m, _ = activate(t, m)
	first := m.Samples()

	*now = now.Add(time.Second)
	m, _ = activate(t, m)
	assert.Equal(t, int32(1), srv.calls.Load())
	assert.Same(t, &first[0], &m.Samples()[0])

	*now = now.Add(cache.DefaultTTL)
	m, _ = activate(t, m)
	assert.Equal(t, int32(2), srv.calls.Load())
}

func TestRefreshKey_GoesThroughCache(t *testing.T) {
	m, srv, _ := newPanel(t, `[]`)
	m, _ = activate(t, m)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	assert.Equal(t, int32(1), srv.calls.Load())
	assert.Contains(t, m.View(), "No metrics yet")
}

func TestFetchFailure_KeepsPreviousSamples(t *testing.T) {
	m, srv, now := newPanel(t, `[{"name":"e1","accuracy":0.5,"loss":null}]`)
	m, _ = activate(t, m)
	require.Len(t, m.Samples(), 1)

	srv.status.Store(http.StatusInternalServerError)
	*now = now.Add(cache.DefaultTTL + time.Millisecond)
	m, out := activate(t, m)

	perr, ok := out.(ui.PanelErrorMsg)
	require.True(t, ok, "expected PanelErrorMsg, got %T", out)
	assert.Equal(t, PanelName, perr.Panel)
	assert.Len(t, m.Samples(), 1)
	assert.False(t, m.IsFetching())
}

func TestActivate_SingleFetchInFlight(t *testing.T) {
	m, _, _ := newPanel(t, `[]`)
	first := m.Activate()
	require.NotNil(t, first)
	assert.True(t, m.IsFetching())
	assert.Contains(t, m.View(), "Loading metrics...")
	assert.Nil(t, m.Activate())
}

func TestChartSeriesKeepGaps(t *testing.T) {
	m, _, _ := newPanel(t, `[{"name":"a","accuracy":0.5},{"name":"b","loss":0.2}]`)
	m, _ = activate(t, m)

	chart := m.chart()
	require.Len(t, chart.Series, 2)
	assert.Equal(t, []string{"a", "b"}, chart.Labels)
	assert.NotNil(t, chart.Series[0].Values[0])
	assert.Nil(t, chart.Series[0].Values[1])
	assert.Nil(t, chart.Series[1].Values[0])
	assert.NotNil(t, chart.Series[1].Values[1])
}
