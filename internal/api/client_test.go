// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, NewClient(server.URL)
}

// =============================================================================
// CALL TESTS
// =============================================================================

func TestCall_SetsJSONHeaders(t *testing.T) {
	var got http.Header
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{}`))
	})

	require.NoError(t, client.Call(context.Background(), "/ping", nil, nil))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.NotEmpty(t, got.Get(RequestIDHeader))
}

func TestCall_StaticAndPerCallHeaders(t *testing.T) {
	var got http.Header
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{}`))
	})
	client.WithHeaders(map[string]string{"X-Team": "ml"})

	err := client.Call(context.Background(), "/x", &RequestOptions{
		Headers: map[string]string{"X-Trace": "abc"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ml", got.Get("X-Team"))
	assert.Equal(t, "abc", got.Get("X-Trace"))
}

func TestCall_DecodesJSON(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"Hi there"}`))
	})

	var out MessageResponse
	require.NoError(t, client.Call(context.Background(), "/m", &RequestOptions{Method: "post", Body: MessageRequest{Content: "Hello"}}, &out))
	assert.Equal(t, "Hi there", out.Response)

	state := client.State()
	assert.False(t, state.IsLoading)
	assert.Empty(t, state.Error)
}

func TestCall_HTTPErrorRecordsStatus(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := client.Call(context.Background(), "/fail", nil, nil)
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, 500, httpErr.Status)
	assert.Equal(t, "Internal Server Error", httpErr.StatusText)
	assert.Contains(t, httpErr.Body, "boom")
	assert.True(t, IsHTTPStatus(err, 500))

	state := client.State()
	assert.False(t, state.IsLoading)
	assert.Equal(t, "HTTP error! status: 500 (500)", state.Error)
}

func TestCall_MalformedJSONIsRecorded(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})

	var out map[string]any
	err := client.Call(context.Background(), "/bad", nil, &out)
	require.Error(t, err)
	assert.Contains(t, client.State().Error, "failed to parse response")

	// Invalid JSON fails even when the caller ignores the body.
	require.Error(t, client.Call(context.Background(), "/bad", nil, nil))
}

func TestCall_TransportFailureIsRecorded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url)
	err := client.Call(context.Background(), "/gone", nil, nil)
	require.Error(t, err)
	assert.Contains(t, client.State().Error, "request failed")
	assert.False(t, client.State().IsLoading)
}

func TestCall_ErrorClearedOnNextCall(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{}`))
	})

	require.Error(t, client.Call(context.Background(), "/x", nil, nil))
	assert.Contains(t, client.State().Error, "502")

	var seen []State
	var mu sync.Mutex
	client.Subscribe(func(s State) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})

	fail.Store(false)
	require.NoError(t, client.Call(context.Background(), "/x", nil, nil))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.Equal(t, State{IsLoading: true}, seen[0], "error is cleared when the call starts")
	assert.Equal(t, State{}, seen[1])
}

func TestCall_LoadingOnlyDuringFlight(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.Write([]byte(`{}`))
	})

	assert.False(t, client.State().IsLoading)

	done := make(chan error, 1)
	go func() { done <- client.Call(context.Background(), "/slow", nil, nil) }()

	<-entered
	assert.True(t, client.State().IsLoading)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, client.State().IsLoading)
}

func TestCall_OverlappingCallsKeepLoading(t *testing.T) {
	firstArrived := make(chan struct{})
	releaseFirst := make(chan struct{})
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/first" {
			close(firstArrived)
			<-releaseFirst
		}
		w.Write([]byte(`{}`))
	})

	first := make(chan error, 1)
	go func() { first <- client.Call(context.Background(), "/first", nil, nil) }()
	<-firstArrived

	require.NoError(t, client.Call(context.Background(), "/second", nil, nil))
	assert.True(t, client.State().IsLoading, "first call is still in flight")

	close(releaseFirst)
	require.NoError(t, <-first)
	assert.False(t, client.State().IsLoading)
}

func TestCall_Timeout(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	client.WithTimeout(50 * time.Millisecond)

	err := client.Call(context.Background(), "/slow", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCall_RelativeWithoutBaseURL(t *testing.T) {
	client := NewClient("")
	err := client.Call(context.Background(), "/api/metrics", nil, nil)
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.NotEmpty(t, client.State().Error)
}

func TestCall_AbsoluteEndpointIgnoresBase(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient("http://127.0.0.1:1")
	require.NoError(t, client.Call(context.Background(), server.URL+"/direct", nil, nil))
	assert.Equal(t, int32(1), hits.Load())
}

func TestResolve_KeepsBasePath(t *testing.T) {
	client := NewClient("http://example.com/prefix/")
	got, err := client.resolve("/api/metrics?x=1")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/prefix/api/metrics?x=1", got)
}

func TestUnsubscribe(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	var calls atomic.Int32
	unsub := client.Subscribe(func(State) { calls.Add(1) })
	require.NoError(t, client.Call(context.Background(), "/x", nil, nil))
	unsub()
	require.NoError(t, client.Call(context.Background(), "/x", nil, nil))
	assert.Equal(t, int32(2), calls.Load())
}

// =============================================================================
// TYPED CALL TESTS
// =============================================================================

func TestSendMessage(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, DefaultMessagePath, r.URL.Path)
		var req MessageRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Hello", req.Content)
		w.Write([]byte(`{"response":"Hi there"}`))
	})

	reply, err := client.SendMessage(context.Background(), "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there", reply)
}

func TestSendMessage_BlankMakesNoCall(t *testing.T) {
	var hits atomic.Int32
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	_, err := client.SendMessage(context.Background(), "  \n\t")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Zero(t, hits.Load())
	assert.Equal(t, State{}, client.State())
}

func TestClearHistory_IgnoresBody(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultClearHistoryPath, r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
		w.Write([]byte(`{"cleared":true}`))
	})

	require.NoError(t, client.ClearHistory(context.Background()))
}

func TestStartTraining(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultStartTrainingPath, r.URL.Path)
		var req TrainingRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "RSI mean reversion", req.Description)
		w.Write([]byte(`{"status":"training_started"}`))
	})

	status, err := client.StartTraining(context.Background(), "RSI mean reversion")
	require.NoError(t, err)
	assert.Equal(t, "training_started", status)
}

func TestFetchMetrics_CustomEndpoint(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v2/metrics", r.URL.Path)
		w.Write([]byte(`[{"name":"epoch1","accuracy":0.5,"loss":0.9}]`))
	})
	client.WithEndpoints(Endpoints{Metrics: "/v2/metrics"})
	assert.Equal(t, DefaultMessagePath, client.Endpoints().Message)

	samples, err := client.FetchMetrics(context.Background())
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "epoch1", samples[0].Name)
	assert.InDelta(t, 0.5, *samples[0].Accuracy, 1e-9)
	assert.InDelta(t, 0.9, *samples[0].Loss, 1e-9)
}

// =============================================================================
// SAMPLE DECODING TESTS
// =============================================================================

func TestMetricSample_Lenient(t *testing.T) {
	var samples []MetricSample
	data := `[
		{"name":"e1","accuracy":0.5,"loss":0.9},
		{"name":"e2","accuracy":null},
		{"name":3,"accuracy":"high","loss":0.4},
		{"accuracy":0.7,"loss":{"v":1}}
	]`
	require.NoError(t, json.Unmarshal([]byte(data), &samples))
	require.Len(t, samples, 4)

	assert.NotNil(t, samples[0].Accuracy)
	assert.Nil(t, samples[1].Accuracy)
	assert.Nil(t, samples[1].Loss)
	assert.Equal(t, "3", samples[2].Name)
	assert.Nil(t, samples[2].Accuracy)
	assert.InDelta(t, 0.4, *samples[2].Loss, 1e-9)
	assert.Equal(t, "", samples[3].Name)
	assert.Nil(t, samples[3].Loss)
}

func TestMetricSample_NotAnObject(t *testing.T) {
	var s MetricSample
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &s))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "", ErrorString(nil))
	assert.Equal(t, DefaultErrorMessage, ErrorString(errors.New("  ")))
	assert.Equal(t, "boom", ErrorString(errors.New("boom")))
	assert.Equal(t, "HTTP error! status: 404 (404)", ErrorString(&HTTPError{Status: 404}))
}
