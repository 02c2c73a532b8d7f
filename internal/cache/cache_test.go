package cache

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hardisty/hardisty/internal/calendar"
	"github.com/hardisty/hardisty/internal/timeseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func testSource(t *testing.T) timeseries.Source {
	t.Helper()
	return timeseries.NewSummingSource(calendar.New(true, time.UTC), calendar.ScopeDay, []timeseries.Sample{
		{Time: t0, Value: 1},
	})
}

func newTestCache(t *testing.T, ttl time.Duration) (*SourceCache, *time.Time) {
	t.Helper()
	c := NewSourceCache(ttl)
	t.Cleanup(c.Stop)

	clock := t0
	c.now = func() time.Time { return clock }
	return c, &clock
}

func testKey(fp uint64) Key {
	return NewKey(fp, timeseries.StrategySum, calendar.New(true, time.UTC), calendar.ScopeDay)
}

func TestFingerprint_OrderIndependent(t *testing.T) {
	a := map[time.Time]int{t0: 1, t0.Add(time.Hour): 2, t0.Add(2 * time.Hour): 3}
	b := map[time.Time]int{t0.Add(2 * time.Hour): 3, t0: 1, t0.Add(time.Hour): 2}

	for i := 0; i < 10; i++ {
		assert.Equal(t, Fingerprint(a), Fingerprint(b))
	}
}

func TestFingerprint_SensitiveToContent(t *testing.T) {
	base := map[time.Time]int{t0: 1}
	changedCount := map[time.Time]int{t0: 2}
	changedTime := map[time.Time]int{t0.Add(time.Second): 1}

	assert.NotEqual(t, Fingerprint(base), Fingerprint(changedCount))
	assert.NotEqual(t, Fingerprint(base), Fingerprint(changedTime))
}

func TestNewKey(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	cal := calendar.Calendar{WeekStartsOnMonday: false, Location: tokyo, SplitMultiMonth: true}

	key := NewKey(42, timeseries.StrategyInterpolateAndAverage, cal, calendar.ScopeWeek)

	assert.Equal(t, uint64(42), key.Fingerprint)
	assert.Equal(t, "JST", key.Location)
	assert.False(t, key.WeekStartsOnMonday)
	assert.True(t, key.SplitMultiMonth)
	assert.NotEqual(t, key, NewKey(42, timeseries.StrategyInterpolateAndAverage, calendar.New(false, tokyo), calendar.ScopeWeek))
	assert.Equal(t, "UTC", testKey(1).Location)
	assert.Contains(t, key.String(), "000000000000002a")
}

func TestSourceCache_SetAndGet(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	src := testSource(t)

	_, ok := c.Get(testKey(1))
	assert.False(t, ok)

	c.Set(testKey(1), src)
	got, ok := c.Get(testKey(1))
	require.True(t, ok)
	assert.Same(t, src, got)

	_, ok = c.Get(testKey(2))
	assert.False(t, ok)
}

func TestSourceCache_Expiry(t *testing.T) {
	c, clock := newTestCache(t, time.Minute)
	c.Set(testKey(1), testSource(t))

	*clock = clock.Add(59 * time.Second)
	_, ok := c.Get(testKey(1))
	assert.True(t, ok)

	*clock = clock.Add(2 * time.Second)
	_, ok = c.Get(testKey(1))
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, 1, stats["total_entries"])
	assert.Equal(t, 0, stats["active_entries"])

	c.evictExpired()
	assert.Equal(t, 0, c.Stats()["total_entries"])
}

func TestSourceCache_GetOrBuild(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	builds := 0
	build := func() (timeseries.Source, error) {
		builds++
		return testSource(t), nil
	}

	first, hit, err := c.GetOrBuild(testKey(1), build)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := c.GetOrBuild(testKey(1), build)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Same(t, first, second)
	assert.Equal(t, 1, builds)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats["hits"])
	assert.Equal(t, uint64(1), stats["misses"])
}

func TestSourceCache_GetOrBuildError(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	boom := errors.New("boom")

	_, _, err := c.GetOrBuild(testKey(1), func() (timeseries.Source, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	_, ok := c.Get(testKey(1))
	assert.False(t, ok)
}

func TestSourceCache_DeleteFingerprint(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	weekly := NewKey(1, timeseries.StrategySum, calendar.New(true, time.UTC), calendar.ScopeWeek)

	c.Set(testKey(1), testSource(t))
	c.Set(weekly, testSource(t))
	c.Set(testKey(2), testSource(t))

	c.DeleteFingerprint(1)

	_, ok := c.Get(testKey(1))
	assert.False(t, ok)
	_, ok = c.Get(weekly)
	assert.False(t, ok)
	_, ok = c.Get(testKey(2))
	assert.True(t, ok)
}

func TestSourceCache_DeleteAndClear(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	c.Set(testKey(1), testSource(t))
	c.Set(testKey(2), testSource(t))

	c.Delete(testKey(1))
	_, ok := c.Get(testKey(1))
	assert.False(t, ok)

	c.Clear()
	_, ok = c.Get(testKey(2))
	assert.False(t, ok)
}

func TestSourceCache_StopTwice(t *testing.T) {
	c := NewSourceCache(time.Minute)
	c.Stop()
	assert.NotPanics(t, c.Stop)
}

func TestSourceCache_ConcurrentAccess(t *testing.T) {
	c := NewSourceCache(time.Minute)
	defer c.Stop()
	src := testSource(t)

	var wg sync.WaitGroup
	for g := 0; g < 3; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				switch g {
				case 0:
					c.Set(testKey(1), src)
				case 1:
					c.Get(testKey(1))
				default:
					c.Delete(testKey(1))
				}
			}
		}(g)
	}
	wg.Wait()
}
