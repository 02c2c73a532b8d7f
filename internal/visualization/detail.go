// Package visualization describes what a caller wants computed for one view.
//
// Detail is a closed union: exactly one fully specified payload per kind. The
// engine never fills in missing fields and never falls back from one kind to
// another; defaults are the configuration layer's business.
package visualization

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hardisty/hardisty/internal/calendar"
	"github.com/hardisty/hardisty/internal/timeseries"
)

// ErrInvalidDetail is returned when a view's detail payload is incomplete or inconsistent
var ErrInvalidDetail = errors.New("invalid visualization detail")

// Kind names a detail variant
type Kind string

const (
	KindTimeSeries   Kind = "time_series"
	KindChart        Kind = "chart"
	KindTrendingKPI  Kind = "trending_kpi"
	KindList         Kind = "list"
	KindDistribution Kind = "distribution"
)

// Detail is implemented only by the payload types in this package
type Detail interface {
	Kind() Kind
	Validate() error
	isDetail()
}

// TimeSeries configures a scrollable time series with optional trends
type TimeSeries struct {
	Strategy         timeseries.Strategy
	InitialScope     calendar.Scope
	SelectableScopes []calendar.Scope
	ScrollToEnd      bool
	ShowTrends       bool
	HigherIsBetter   bool
}

// Chart configures a bar or line chart over grouped counts
type Chart struct {
	ScrollToEnd bool
}

// TrendingKPI configures a per-interval total with trend arrows
type TrendingKPI struct {
	Scope          calendar.Scope
	HigherIsBetter bool
}

// List configures a sorted list of grouped counts
type List struct {
	VisibleValuesLimit int
}

// Distribution configures the summary of a raw numeric distribution.
// EstimateVisible selects the gaussian estimate over the histogram.
type Distribution struct {
	EstimateVisible bool

	// MaxCurvePoints bounds the gaussian estimate; 0 uses the default limit
	MaxCurvePoints int
}

func (TimeSeries) Kind() Kind   { return KindTimeSeries }
func (Chart) Kind() Kind        { return KindChart }
func (TrendingKPI) Kind() Kind  { return KindTrendingKPI }
func (List) Kind() Kind         { return KindList }
func (Distribution) Kind() Kind { return KindDistribution }

func (TimeSeries) isDetail()   {}
func (Chart) isDetail()        {}
func (TrendingKPI) isDetail()  {}
func (List) isDetail()         {}
func (Distribution) isDetail() {}

// Validate checks strategy, scopes and that the initial scope is selectable
func (d TimeSeries) Validate() error {
	if d.Strategy != timeseries.StrategySum && d.Strategy != timeseries.StrategyInterpolateAndAverage {
		return fmt.Errorf("%w: unknown strategy %d", ErrInvalidDetail, int(d.Strategy))
	}
	if len(d.SelectableScopes) == 0 {
		return fmt.Errorf("%w: selectable scopes must not be empty", ErrInvalidDetail)
	}
	for _, s := range d.SelectableScopes {
		if !s.IsValid() {
			return fmt.Errorf("%w: invalid selectable scope %d", ErrInvalidDetail, int(s))
		}
	}
	if !slices.Contains(d.SelectableScopes, d.InitialScope) {
		return fmt.Errorf("%w: initial scope %s is not selectable", ErrInvalidDetail, d.InitialScope)
	}
	return nil
}

// Validate always succeeds
func (d Chart) Validate() error {
	return nil
}

// Validate checks the scope
func (d TrendingKPI) Validate() error {
	if !d.Scope.IsValid() {
		return fmt.Errorf("%w: invalid scope %d", ErrInvalidDetail, int(d.Scope))
	}
	return nil
}

// Validate checks that the limit is positive
func (d List) Validate() error {
	if d.VisibleValuesLimit <= 0 {
		return fmt.Errorf("%w: visible values limit must be positive, got %d", ErrInvalidDetail, d.VisibleValuesLimit)
	}
	return nil
}

// Validate rejects a negative curve point limit
func (d Distribution) Validate() error {
	if d.MaxCurvePoints < 0 {
		return fmt.Errorf("%w: max curve points must not be negative, got %d", ErrInvalidDetail, d.MaxCurvePoints)
	}
	return nil
}

// View is one named visualization request
type View struct {
	Name   string
	Detail Detail
}

// Validate checks that the view has a name and a valid detail
func (v View) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("%w: view name is required", ErrInvalidDetail)
	}
	if v.Detail == nil {
		return fmt.Errorf("%w: view %q has no detail", ErrInvalidDetail, v.Name)
	}
	if err := v.Detail.Validate(); err != nil {
		return fmt.Errorf("view %q: %w", v.Name, err)
	}
	return nil
}
