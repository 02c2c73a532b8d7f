package calendar

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalContaining_Boundaries(t *testing.T) {
	cal := New(true, time.UTC)

	tests := []struct {
		name      string
		input     time.Time
		scope     Scope
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "day mid afternoon",
			input:     time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC),
			scope:     ScopeDay,
			wantStart: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "day exactly at midnight",
			input:     time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			scope:     ScopeDay,
			wantStart: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "week starting monday from friday",
			input:     time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC), // Friday
			scope:     ScopeWeek,
			wantStart: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "week starting monday from sunday",
			input:     time.Date(2024, 3, 17, 23, 0, 0, 0, time.UTC), // Sunday
			scope:     ScopeWeek,
			wantStart: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "month in leap february",
			input:     time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC),
			scope:     ScopeMonth,
			wantStart: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "month december rolls year",
			input:     time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
			scope:     ScopeMonth,
			wantStart: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "year",
			input:     time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC),
			scope:     ScopeYear,
			wantStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "three months aliases year",
			input:     time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC),
			scope:     ScopeThreeMonths,
			wantStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "six months aliases year",
			input:     time.Date(2024, 11, 4, 0, 0, 0, 0, time.UTC),
			scope:     ScopeSixMonths,
			wantStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv := cal.IntervalContaining(tt.input, tt.scope)
			assert.True(t, iv.Start.Equal(tt.wantStart), "start: want %s, got %s", tt.wantStart, iv.Start)
			assert.True(t, iv.End.Equal(tt.wantEnd), "end: want %s, got %s", tt.wantEnd, iv.End)
		})
	}
}

func TestIntervalContaining_WeekStartsOnSunday(t *testing.T) {
	cal := New(false, time.UTC)

	// Friday 2024-03-15 -> week Sunday 2024-03-10 .. Sunday 2024-03-17
	iv := cal.IntervalContaining(time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC), ScopeWeek)
	assert.Equal(t, time.Sunday, iv.Start.Weekday())
	assert.True(t, iv.Start.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, iv.End.Equal(time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)))

	// Sunday itself starts a new week
	iv = cal.IntervalContaining(time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), ScopeWeek)
	assert.True(t, iv.Start.Equal(time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)))
}

func TestIntervalContaining_SplitMultiMonth(t *testing.T) {
	cal := Calendar{WeekStartsOnMonday: true, Location: time.UTC, SplitMultiMonth: true}

	q := cal.IntervalContaining(time.Date(2024, 8, 20, 0, 0, 0, 0, time.UTC), ScopeThreeMonths)
	assert.True(t, q.Start.Equal(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, q.End.Equal(time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)))

	h := cal.IntervalContaining(time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), ScopeSixMonths)
	assert.True(t, h.Start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, h.End.Equal(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)))

	next := cal.IntervalAfter(q, ScopeThreeMonths)
	assert.True(t, next.Start.Equal(time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, next.End.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestIntervalContaining_Timezone(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)
	cal := New(true, loc)

	// 2026-01-12 20:00 UTC is 2026-01-13 05:00 JST
	iv := cal.IntervalContaining(time.Date(2026, 1, 12, 20, 0, 0, 0, time.UTC), ScopeDay)
	assert.True(t, iv.Start.Equal(time.Date(2026, 1, 13, 0, 0, 0, 0, loc)))
	assert.Equal(t, 24*time.Hour, iv.Duration())
}

func TestIntervalContaining_DaylightSaving(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("time zone database unavailable: %v", err)
	}
	cal := New(true, loc)

	// 2024-03-10 is a 23 hour day in New York
	iv := cal.IntervalContaining(time.Date(2024, 3, 10, 12, 0, 0, 0, loc), ScopeDay)
	assert.Equal(t, 23*time.Hour, iv.Duration())

	next := cal.IntervalAfter(iv, ScopeDay)
	assert.True(t, next.Start.Equal(time.Date(2024, 3, 11, 0, 0, 0, 0, loc)))
	assert.Equal(t, 24*time.Hour, next.Duration())
}

func TestContainmentProperty(t *testing.T) {
	locs := []*time.Location{time.UTC, time.FixedZone("PST", -8*60*60), time.FixedZone("IST", 5*60*60+30*60)}
	base := time.Date(2023, 12, 28, 0, 0, 0, 0, time.UTC)

	for _, loc := range locs {
		for _, monday := range []bool{true, false} {
			for _, split := range []bool{true, false} {
				cal := Calendar{WeekStartsOnMonday: monday, Location: loc, SplitMultiMonth: split}
				for _, scope := range AllScopes() {
					for step := 0; step < 400; step++ {
						date := base.Add(time.Duration(step) * 7 * time.Hour)
						iv := cal.IntervalContaining(date, scope)
						require.True(t, iv.Contains(date),
							"%s scope=%s monday=%v split=%v: %s not in %s", loc, scope, monday, split, date, iv)
					}
				}
			}
		}
	}
}

func TestMonotonicStepping(t *testing.T) {
	cal := New(true, time.UTC)
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, scope := range AllScopes() {
		t.Run(scope.String(), func(t *testing.T) {
			iv := cal.IntervalContaining(start, scope)
			for i := 0; i < 50; i++ {
				next := cal.IntervalAfter(iv, scope)
				require.True(t, next.Start.After(iv.Start))
				require.True(t, next.Start.Equal(iv.End), "buckets must be adjacent")
				iv = next
			}
		})
	}
}

func TestIntervalAfter_UnalignedInput(t *testing.T) {
	cal := New(true, time.UTC)
	iv := NewInterval(time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC))

	next := cal.IntervalAfter(iv, ScopeYear)
	assert.True(t, next.Start.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestIntervalBefore(t *testing.T) {
	cal := New(true, time.UTC)
	iv := cal.IntervalContaining(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), ScopeMonth)

	prev := cal.IntervalBefore(iv, ScopeMonth)
	assert.True(t, prev.Start.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, prev.End.Equal(iv.Start))
}

func TestRange(t *testing.T) {
	cal := New(true, time.UTC)
	from := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)

	days := cal.Range(from, to, ScopeDay)
	require.Len(t, days, 4)
	for i := 1; i < len(days); i++ {
		assert.True(t, days[i].Start.Equal(days[i-1].End))
	}

	assert.Nil(t, cal.Range(to, from, ScopeDay))
}

func TestNewInterval_PanicsOnDegenerate(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Panics(t, func() { NewInterval(now, now) })
	assert.Panics(t, func() { NewInterval(now, now.Add(-time.Second)) })
	assert.NotPanics(t, func() { NewInterval(now, now.Add(time.Nanosecond)) })
}

func TestInterval_HalfOpen(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	iv := NewInterval(start, start.Add(time.Hour))

	assert.True(t, iv.Contains(start))
	assert.True(t, iv.Contains(start.Add(59*time.Minute)))
	assert.False(t, iv.Contains(start.Add(time.Hour)))
	assert.False(t, iv.Contains(start.Add(-time.Nanosecond)))
}

func TestInterval_ProgressAndPrefix(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	iv := NewInterval(start, start.Add(10*time.Hour))

	assert.InDelta(t, 0.25, iv.Progress(start.Add(150*time.Minute)), 1e-9)
	assert.Equal(t, 0.0, iv.Progress(start.Add(-time.Hour)))
	assert.Equal(t, 1.0, iv.Progress(start.Add(20*time.Hour)))

	half := iv.Prefix(0.5)
	assert.True(t, half.End.Equal(start.Add(5*time.Hour)))
	assert.Equal(t, iv, iv.Prefix(1))
	assert.NotPanics(t, func() { iv.Prefix(0) })
}

func TestParseScope(t *testing.T) {
	for _, s := range AllScopes() {
		parsed, err := ParseScope(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseScope("fortnight")
	assert.ErrorIs(t, err, ErrUnknownScope)

	scopes, err := ParseScopes([]string{"day", "Week", " month "})
	require.NoError(t, err)
	assert.Equal(t, []Scope{ScopeDay, ScopeWeek, ScopeMonth}, scopes)
}

func ExampleCalendar_IntervalContaining() {
	cal := New(true, time.UTC)
	iv := cal.IntervalContaining(time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC), ScopeWeek)
	fmt.Println(iv)
	// Output: [2024-03-11T00:00:00Z, 2024-03-18T00:00:00Z)
}
