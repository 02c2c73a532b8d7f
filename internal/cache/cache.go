// Package cache memoizes built time series sources.
//
// Building a source bucketizes and interpolates every sample, so the engine
// keeps the result for a while keyed by everything that affects the segment
// boundaries and values.
package cache

import (
	"encoding/binary"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/hardisty/hardisty/internal/calendar"
	"github.com/hardisty/hardisty/internal/timeseries"
)

// Key identifies one built source
type Key struct {
	Fingerprint        uint64
	Strategy           timeseries.Strategy
	Scope              calendar.Scope
	WeekStartsOnMonday bool
	Location           string
	SplitMultiMonth    bool
}

// NewKey builds a key for a snapshot fingerprint under the given settings
func NewKey(fingerprint uint64, strategy timeseries.Strategy, cal calendar.Calendar, scope calendar.Scope) Key {
	loc := "UTC"
	if cal.Location != nil {
		loc = cal.Location.String()
	}
	return Key{
		Fingerprint:        fingerprint,
		Strategy:           strategy,
		Scope:              scope,
		WeekStartsOnMonday: cal.WeekStartsOnMonday,
		Location:           loc,
		SplitMultiMonth:    cal.SplitMultiMonth,
	}
}

func (k Key) String() string {
	return fmt.Sprintf("%016x/%s/%s/monday=%t/%s/split=%t",
		k.Fingerprint, k.Strategy, k.Scope, k.WeekStartsOnMonday, k.Location, k.SplitMultiMonth)
}

// Fingerprint hashes date counts independently of map iteration order
func Fingerprint(counts map[time.Time]int) uint64 {
	times := make([]time.Time, 0, len(counts))
	for t := range counts {
		times = append(times, t)
	}
	slices.SortFunc(times, func(a, b time.Time) int { return a.Compare(b) })

	d := xxhash.New()
	var buf [16]byte
	for _, t := range times {
		binary.LittleEndian.PutUint64(buf[:8], uint64(t.UnixNano()))
		binary.LittleEndian.PutUint64(buf[8:], uint64(counts[t]))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

// Entry represents a cached source
type Entry struct {
	Source    timeseries.Source
	ExpiresAt time.Time
}

// SourceCache provides in-memory TTL caching of built sources
type SourceCache struct {
	mu       sync.RWMutex
	entries  map[Key]*Entry
	ttl      time.Duration
	hits     uint64
	misses   uint64
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewSourceCache creates a cache and starts its cleanup goroutine
func NewSourceCache(ttl time.Duration) *SourceCache {
	c := &SourceCache{
		entries: make(map[Key]*Entry),
		ttl:     ttl,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}

	go c.cleanup(time.Minute)

	return c
}

// Get retrieves an unexpired source
func (c *SourceCache) Get(key Key) (timeseries.Source, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists || c.now().After(entry.ExpiresAt) {
		c.misses++
		return nil, false
	}

	c.hits++
	return entry.Source, true
}

// Set stores a source
func (c *SourceCache) Set(key Key, src timeseries.Source) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &Entry{
		Source:    src,
		ExpiresAt: c.now().Add(c.ttl),
	}
}

// GetOrBuild returns the cached source for key, building and storing it on a miss.
// The second result reports a cache hit. Build errors are not cached.
func (c *SourceCache) GetOrBuild(key Key, build func() (timeseries.Source, error)) (timeseries.Source, bool, error) {
	if src, ok := c.Get(key); ok {
		return src, true, nil
	}

	src, err := build()
	if err != nil {
		return nil, false, err
	}

	c.Set(key, src)
	return src, false, nil
}

// Delete removes a key
func (c *SourceCache) Delete(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// DeleteFingerprint removes every source built from the given snapshot
func (c *SourceCache) DeleteFingerprint(fingerprint uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if key.Fingerprint == fingerprint {
			delete(c.entries, key)
		}
	}
}

// Clear removes all entries
func (c *SourceCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Key]*Entry)
}

// cleanup periodically removes expired entries
func (c *SourceCache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.evictExpired()
		case <-c.stopCh:
			return
		}
	}
}

func (c *SourceCache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
		}
	}
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (c *SourceCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

// Stats returns cache statistics
func (c *SourceCache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	expired := 0
	now := c.now()
	for _, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			expired++
		}
	}

	return map[string]interface{}{
		"total_entries":   len(c.entries),
		"expired_entries": expired,
		"active_entries":  len(c.entries) - expired,
		"hits":            c.hits,
		"misses":          c.misses,
		"ttl_seconds":     c.ttl.Seconds(),
	}
}
