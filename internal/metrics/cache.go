// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package metrics provides the single-entry TTL cache in front of the
// metrics endpoint.
package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/jeranaias/freqdash/internal/api"
)

// DefaultTTL is how long a successful fetch is served without a new call.
const DefaultTTL = 300_000 * time.Millisecond

// Fetcher loads the metrics series. *api.Client satisfies it.
type Fetcher interface {
	FetchMetrics(ctx context.Context) ([]api.MetricSample, error)
}

// =============================================================================
// CACHE
// =============================================================================

// Cache holds at most one metrics entry. A read within the TTL of the last
// successful fetch returns that exact slice. A failed fetch leaves the entry
// untouched. There is no manual invalidation.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	data     []api.MetricSample
	storedAt time.Time
	valid    bool

	// Statistics
	hits   int
	misses int
	errors int
}

// Entry is the cached value and when it was stored.
type Entry struct {
	Data      []api.MetricSample
	Timestamp time.Time
}

// Stats holds cache statistics.
type Stats struct {
	Hits    int
	Misses  int
	Errors  int
	HasData bool
	Age     time.Duration
	TTL     time.Duration
}

// HitRate returns hits / (hits + misses), or 0 before any read.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// NewCache creates a cache over fetcher. A ttl <= 0 selects DefaultTTL.
func NewCache(fetcher Fetcher, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.mu.Lock()
	defer c.mu.Unlock()
	if now != nil {
		c.now = now
	}
	return c
}

// TTL returns the freshness window.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached series while it is fresh, and otherwise fetches.
//
// The lock is not held across the fetch, so concurrent misses may each call
// the endpoint; the last success to store wins.
func (c *Cache) Get(ctx context.Context) ([]api.MetricSample, error) {
	c.mu.Lock()
	if c.valid && c.now().Sub(c.storedAt) < c.ttl {
		c.hits++
		data := c.data
		c.mu.Unlock()
		return data, nil
	}
	c.misses++
	c.mu.Unlock()

	data, err := c.fetcher.FetchMetrics(ctx)
	if err != nil {
		c.mu.Lock()
		c.errors++
		c.mu.Unlock()
		return nil, err
	}

	c.mu.Lock()
	c.data = data
	c.storedAt = c.now()
	c.valid = true
	c.mu.Unlock()
	return data, nil
}

// Peek returns the current entry without fetching, fresh or not.
func (c *Cache) Peek() (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid {
		return Entry{}, false
	}
	return Entry{Data: c.data, Timestamp: c.storedAt}, true
}

// Stats returns cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{
		Hits:    c.hits,
		Misses:  c.misses,
		Errors:  c.errors,
		HasData: c.valid,
		TTL:     c.ttl,
	}
	if c.valid {
		s.Age = c.now().Sub(c.storedAt)
	}
	return s
}
