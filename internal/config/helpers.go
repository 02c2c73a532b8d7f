package config

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/hardisty/hardisty/internal/calendar"
	"github.com/hardisty/hardisty/internal/timeseries"
	"github.com/hardisty/hardisty/internal/visualization"
)

var offsetPattern = regexp.MustCompile(`^([+-])(\d{2}):(\d{2})$`)

// Location returns the configured timezone.
// Supports formats:
//   - IANA timezone names: "Asia/Tokyo", "America/New_York", "UTC"
//   - Offset format: "+09:00", "-05:00", "+00:00"
func (c *CalendarConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}

	// Try parsing as IANA timezone name first
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc, nil
	}

	loc, err := parseOffsetTimezone(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("calendar.timezone %q is neither an IANA name nor an offset", c.Timezone)
	}
	return loc, nil
}

// Calendar builds the calendar described by this section
func (c *CalendarConfig) Calendar() (calendar.Calendar, error) {
	loc, err := c.Location()
	if err != nil {
		return calendar.Calendar{}, err
	}
	return calendar.Calendar{
		WeekStartsOnMonday: c.WeekStart != "sunday",
		Location:           loc,
		SplitMultiMonth:    c.SplitMultiMonth,
	}, nil
}

// parseOffsetTimezone parses timezone offset format like "+09:00", "-05:00"
func parseOffsetTimezone(offset string) (*time.Location, error) {
	matches := offsetPattern.FindStringSubmatch(offset)
	if len(matches) != 4 {
		return nil, fmt.Errorf("invalid offset format: %s", offset)
	}

	sign := 1
	if matches[1] == "-" {
		sign = -1
	}

	hours, err := strconv.Atoi(matches[2])
	if err != nil || hours > 14 {
		return nil, fmt.Errorf("invalid hours: %s", matches[2])
	}

	minutes, err := strconv.Atoi(matches[3])
	if err != nil || minutes > 59 {
		return nil, fmt.Errorf("invalid minutes: %s", matches[3])
	}

	offsetSeconds := sign * (hours*3600 + minutes*60)
	return time.FixedZone(offset, offsetSeconds), nil
}

// Detail builds a fully specified time series detail
func (c *TimeSeriesConfig) Detail() (visualization.TimeSeries, error) {
	strategy, err := timeseries.ParseStrategy(c.Strategy)
	if err != nil {
		return visualization.TimeSeries{}, fmt.Errorf("time_series.strategy: %w", err)
	}

	initial, err := calendar.ParseScope(c.InitialScope)
	if err != nil {
		return visualization.TimeSeries{}, fmt.Errorf("time_series.initial_scope: %w", err)
	}

	selectable, err := calendar.ParseScopes(c.SelectableScopes)
	if err != nil {
		return visualization.TimeSeries{}, fmt.Errorf("time_series.selectable_scopes: %w", err)
	}

	detail := visualization.TimeSeries{
		Strategy:         strategy,
		InitialScope:     initial,
		SelectableScopes: selectable,
		ScrollToEnd:      c.ScrollToEnd,
		ShowTrends:       c.ShowTrends,
		HigherIsBetter:   c.HigherIsBetter,
	}
	if err := detail.Validate(); err != nil {
		return visualization.TimeSeries{}, err
	}
	return detail, nil
}

// Detail builds a fully specified trending KPI detail
func (c *KPIConfig) Detail() (visualization.TrendingKPI, error) {
	scope, err := calendar.ParseScope(c.Scope)
	if err != nil {
		return visualization.TrendingKPI{}, fmt.Errorf("kpi.scope: %w", err)
	}
	return visualization.TrendingKPI{Scope: scope, HigherIsBetter: c.HigherIsBetter}, nil
}

// Detail builds a list detail
func (c *ListConfig) Detail() visualization.List {
	return visualization.List{VisibleValuesLimit: c.VisibleValuesLimit}
}

// Detail builds a distribution detail
func (c *DistributionConfig) Detail() visualization.Distribution {
	return visualization.Distribution{EstimateVisible: c.EstimateVisible, MaxCurvePoints: c.MaxCurvePoints}
}
