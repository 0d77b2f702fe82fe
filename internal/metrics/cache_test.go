// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/freqdash/internal/api"
)

// fakeClock is advanced manually by tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

type stubFetcher struct {
	calls atomic.Int32
	fn    func(n int32) ([]api.MetricSample, error)
}

func (s *stubFetcher) FetchMetrics(ctx context.Context) ([]api.MetricSample, error) {
	n := s.calls.Add(1)
	return s.fn(n)
}

func epochOne() []api.MetricSample {
	return []api.MetricSample{{Name: "epoch1", Accuracy: api.Float(0.5), Loss: api.Float(0.9)}}
}

func TestCache_FreshReadSkipsFetch(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	fetcher := &stubFetcher{fn: func(int32) ([]api.MetricSample, error) { return epochOne(), nil }}
	cache := NewCache(fetcher, 0).WithClock(clock.Now)

	first, err := cache.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	clock.Advance(time.Second)
	second, err := cache.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), fetcher.calls.Load())
	// Same backing array, not just equal contents.
	assert.Same(t, &first[0], &second[0])
}

func TestCache_TTLBoundary(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	fetcher := &stubFetcher{fn: func(int32) ([]api.MetricSample, error) { return epochOne(), nil }}
	cache := NewCache(fetcher, DefaultTTL).WithClock(clock.Now)

	_, err := cache.Get(context.Background())
	require.NoError(t, err)

	clock.Advance(299_999 * time.Millisecond)
	_, err = cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), fetcher.calls.Load(), "within TTL")

	clock.Advance(2 * time.Millisecond) // 300 001 ms after the fetch
	_, err = cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), fetcher.calls.Load(), "after TTL")
}

func TestCache_ExactlyTTLIsStale(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	fetcher := &stubFetcher{fn: func(int32) ([]api.MetricSample, error) { return epochOne(), nil }}
	cache := NewCache(fetcher, DefaultTTL).WithClock(clock.Now)

	_, _ = cache.Get(context.Background())
	clock.Advance(DefaultTTL)
	_, _ = cache.Get(context.Background())
	assert.Equal(t, int32(2), fetcher.calls.Load())
}

func TestCache_FailureLeavesEntry(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	boom := errors.New("boom")
	fetcher := &stubFetcher{fn: func(n int32) ([]api.MetricSample, error) {
		if n == 1 {
			return epochOne(), nil
		}
		return nil, boom
	}}
	cache := NewCache(fetcher, time.Minute).WithClock(clock.Now)

	first, err := cache.Get(context.Background())
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = cache.Get(context.Background())
	require.ErrorIs(t, err, boom)

	entry, ok := cache.Peek()
	require.True(t, ok)
	assert.Same(t, &first[0], &entry.Data[0])
	assert.Equal(t, time.Unix(0, 0), entry.Timestamp)

	// No retry, and the stale entry is not served as fresh.
	_, err = cache.Get(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(3), fetcher.calls.Load())
}

func TestCache_FailureBeforeFirstSuccess(t *testing.T) {
	fetcher := &stubFetcher{fn: func(int32) ([]api.MetricSample, error) { return nil, errors.New("down") }}
	cache := NewCache(fetcher, 0)

	_, err := cache.Get(context.Background())
	require.Error(t, err)
	_, ok := cache.Peek()
	assert.False(t, ok)
}

func TestCache_Stats(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	fetcher := &stubFetcher{fn: func(int32) ([]api.MetricSample, error) { return epochOne(), nil }}
	cache := NewCache(fetcher, 0).WithClock(clock.Now)

	_, _ = cache.Get(context.Background())
	clock.Advance(10 * time.Second)
	_, _ = cache.Get(context.Background())

	stats := cache.Stats()
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
	assert.True(t, stats.HasData)
	assert.Equal(t, 10*time.Second, stats.Age)
	assert.Equal(t, DefaultTTL, stats.TTL)
	assert.InDelta(t, 0.5, stats.HitRate(), 1e-9)
}

// TestCache_WithAPIClient runs the cache against a real HTTP client so the
// shared error state is exercised too.
func TestCache_WithAPIClient(t *testing.T) {
	var hits atomic.Int32
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"name":"epoch1","accuracy":0.5,"loss":0.9}]`))
	}))
	defer server.Close()

	client := api.NewClient(server.URL)
	clock := &fakeClock{now: time.Unix(0, 0)}
	cache := NewCache(client, 0).WithClock(clock.Now)

	first, err := cache.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "epoch1", first[0].Name)

	fail.Store(true)
	clock.Advance(DefaultTTL + time.Millisecond)
	_, err = cache.Get(context.Background())
	require.Error(t, err)
	assert.Contains(t, client.State().Error, "500")
	assert.Equal(t, int32(2), hits.Load())

	entry, ok := cache.Peek()
	require.True(t, ok)
	assert.Same(t, &first[0], &entry.Data[0])
}
