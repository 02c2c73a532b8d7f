// Package engine recomputes visualization results from an analytics snapshot.
//
// Recompute is a pure function of (snapshot, view, calendar, now): it holds no
// per-view state between calls, so a refreshed snapshot is handled by calling it
// again. Built time series sources are memoized by snapshot fingerprint when a
// cache is configured.
package engine

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/hardisty/hardisty/internal/analytics"
	"github.com/hardisty/hardisty/internal/cache"
	"github.com/hardisty/hardisty/internal/calendar"
	"github.com/hardisty/hardisty/internal/grouping"
	"github.com/hardisty/hardisty/internal/logging"
	"github.com/hardisty/hardisty/internal/stats"
	"github.com/hardisty/hardisty/internal/timeseries"
	"github.com/hardisty/hardisty/internal/trend"
	"github.com/hardisty/hardisty/internal/visualization"
	"golang.org/x/sync/errgroup"
)

// Engine computes view results for one calendar
type Engine struct {
	cal         calendar.Calendar
	logger      *logging.Logger
	cache       *cache.SourceCache
	parallelism int
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(logger *logging.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithCache memoizes built sources in c
func WithCache(c *cache.SourceCache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithParallelism bounds the number of views computed concurrently by RecomputeAll.
// Zero or negative means unbounded.
func WithParallelism(n int) Option {
	return func(e *Engine) { e.parallelism = n }
}

// New creates an engine
func New(cal calendar.Calendar, opts ...Option) *Engine {
	e := &Engine{
		cal:    cal,
		logger: logging.Global(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Calendar returns the calendar the engine buckets with
func (e *Engine) Calendar() calendar.Calendar {
	return e.cal
}

// Result is the outcome for one view. Exactly one of the payload pointers is
// set, matching Kind.
type Result struct {
	View string
	Kind visualization.Kind

	TimeSeries   *TimeSeriesResult
	Chart        *ChartResult
	KPI          *KPIResult
	List         *ListResult
	Distribution *DistributionResult
}

// TimeSeriesResult is a series for one scope with its selected segment
type TimeSeriesResult struct {
	Scope    calendar.Scope
	Strategy timeseries.Strategy
	Source   timeseries.Source

	// Selected is the initially selected segment: the last one when scrolled to
	// the end, else the one containing now, else the first.
	Selected     int
	HasSelection bool

	// Value is the combined value over the selected segment
	Value    float64
	HasValue bool

	// Comparison of the selected segment with its predecessor, when trends are shown
	Comparison     trend.Comparison
	HasTrend       bool
	Sentiment      trend.Sentiment
	HigherIsBetter bool
}

// Segments returns the segments of the series
func (r *TimeSeriesResult) Segments() []timeseries.Segment {
	return r.Source.Segments()
}

// ChartResult holds sorted group counts for a chart
type ChartResult struct {
	Entries      []grouping.Entry
	InitialIndex int
}

// KPIResult is a trending KPI series
type KPIResult struct {
	Series         trend.KPISeries
	HigherIsBetter bool
}

// Sentiment returns the sentiment of entry i, neutral when it has no trend
func (r *KPIResult) Sentiment(i int) trend.Sentiment {
	if i < 0 || i >= len(r.Series.Entries) || !r.Series.Entries[i].HasTrend {
		return trend.SentimentNeutral
	}
	return r.Series.Entries[i].Trend.Sentiment(r.HigherIsBetter)
}

// ListResult holds sorted group counts and the collapsed prefix
type ListResult struct {
	Entries []grouping.Entry
	Visible []grouping.Entry
	HasMore bool
	Total   int
	Limit   int
}

// Show returns the entries to render with showAll toggled
func (r *ListResult) Show(showAll bool) ([]grouping.Entry, bool) {
	return grouping.Visible(r.Entries, r.Limit, showAll)
}

// DistributionResult summarizes a raw distribution. Curve is set when the
// estimate is shown and defined, otherwise Histogram is set.
type DistributionResult struct {
	Summary    stats.Summary
	HasSummary bool
	Curve      []stats.CurvePoint
	Histogram  []stats.Bin
}

// Estimated reports whether the result carries a gaussian curve
func (r *DistributionResult) Estimated() bool {
	return len(r.Curve) > 0
}

// Recompute validates view and computes its result from snapshot
func (e *Engine) Recompute(ctx context.Context, snapshot analytics.Aggregator, view visualization.View, now time.Time) (*Result, error) {
	if err := view.Validate(); err != nil {
		return nil, newViewError(CodeInvalidView, view.Name, err)
	}

	ctx = logging.WithView(ctx, view.Name)
	res := &Result{View: view.Name, Kind: view.Detail.Kind()}

	switch d := view.Detail.(type) {
	case visualization.TimeSeries:
		ts, err := e.timeSeries(ctx, snapshot, d, d.InitialScope, now)
		if err != nil {
			return nil, newViewError(CodeBuildFailed, view.Name, err)
		}
		res.TimeSeries = ts
	case visualization.Chart:
		res.Chart = e.chart(snapshot, d)
	case visualization.TrendingKPI:
		res.KPI = e.kpi(ctx, snapshot, d, now)
	case visualization.List:
		res.List = e.list(snapshot, d)
	case visualization.Distribution:
		res.Distribution = e.distribution(ctx, snapshot, d)
	default:
		return nil, newViewError(CodeInvalidView, view.Name, fmt.Errorf("%w: unsupported kind %s", visualization.ErrInvalidDetail, view.Detail.Kind()))
	}

	return res, nil
}

// TimeSeries computes a time series view for a user selected scope, which must
// be one of the detail's selectable scopes. Failures are *ViewError values
// without a view name.
func (e *Engine) TimeSeries(ctx context.Context, snapshot analytics.DateCounter, detail visualization.TimeSeries, scope calendar.Scope, now time.Time) (*TimeSeriesResult, error) {
	if err := detail.Validate(); err != nil {
		return nil, newViewError(CodeInvalidView, "", err)
	}
	if !slices.Contains(detail.SelectableScopes, scope) {
		return nil, newViewError(CodeScopeNotSelectable, "", fmt.Errorf("%w: %s", ErrScopeNotSelectable, scope))
	}

	res, err := e.timeSeries(ctx, snapshot, detail, scope, now)
	if err != nil {
		return nil, newViewError(CodeBuildFailed, "", err)
	}
	return res, nil
}

// DateEntries presents date counts as grouped entries, one per non-empty bucket of scope
func (e *Engine) DateEntries(snapshot analytics.DateCounter, scope calendar.Scope, label grouping.Labeler) []grouping.Entry {
	return grouping.ByDate(e.cal, scope, snapshot.ValueCountsByDate(), label)
}

// RecomputeAll computes every view concurrently. Results are returned in view
// order; the first failure cancels the remaining views.
func (e *Engine) RecomputeAll(ctx context.Context, snapshot analytics.Aggregator, views []visualization.View, now time.Time) ([]*Result, error) {
	batchID := uuid.NewString()
	ctx = logging.WithBatchID(ctx, batchID)
	log := e.logger.WithContext(ctx)
	start := time.Now()

	results := make([]*Result, len(views))
	g, gctx := errgroup.WithContext(ctx)
	if e.parallelism > 0 {
		g.SetLimit(e.parallelism)
	}

	for i, view := range views {
		i, view := i, view
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return newViewError(CodeCanceled, view.Name, err)
			}
			res, err := e.Recompute(gctx, snapshot, view, now)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Warn("Recompute batch failed", "views", len(views), "error", err)
		return nil, err
	}

	log.Debug("Recompute batch completed",
		"views", len(views),
		"latency_ms", time.Since(start).Milliseconds())
	return results, nil
}

func (e *Engine) timeSeries(ctx context.Context, snapshot analytics.DateCounter, d visualization.TimeSeries, scope calendar.Scope, now time.Time) (*TimeSeriesResult, error) {
	src, err := e.source(ctx, snapshot.ValueCountsByDate(), d.Strategy, scope)
	if err != nil {
		return nil, err
	}

	res := &TimeSeriesResult{
		Scope:          scope,
		Strategy:       d.Strategy,
		Source:         src,
		HigherIsBetter: d.HigherIsBetter,
	}

	data := src.Data()
	if data.Len() == 0 {
		return res, nil
	}

	res.HasSelection = true
	switch {
	case d.ScrollToEnd:
		res.Selected = data.Len() - 1
	default:
		if i, ok := data.SegmentContaining(now); ok {
			res.Selected = i
		}
	}

	res.Value, res.HasValue = src.CombinedValue(data.Segments[res.Selected].Interval)

	if d.ShowTrends {
		res.Comparison, res.HasTrend = trend.Compare(src, res.Selected, now)
		if res.HasTrend {
			res.Sentiment = res.Comparison.Trend.Sentiment(d.HigherIsBetter)
			e.logger.WithContext(ctx).Debug("Trend classified",
				"segment", res.Selected,
				"trend", res.Comparison.Trend.String(),
				"partial", res.Comparison.Partial)
		}
	}

	return res, nil
}

// source builds or fetches the series for counts under strategy and scope
func (e *Engine) source(ctx context.Context, counts map[time.Time]int, strategy timeseries.Strategy, scope calendar.Scope) (timeseries.Source, error) {
	build := func() (timeseries.Source, error) {
		return timeseries.New(strategy, e.cal, scope, timeseries.SamplesFromCounts(counts))
	}

	if e.cache == nil {
		return build()
	}

	key := cache.NewKey(cache.Fingerprint(counts), strategy, e.cal, scope)
	src, hit, err := e.cache.GetOrBuild(key, build)
	if err != nil {
		return nil, err
	}

	e.logger.WithContext(ctx).Debug("Source resolved",
		"key", key.String(),
		"cache_hit", hit,
		"segments", src.Data().Len())
	return src, nil
}

func (e *Engine) chart(snapshot analytics.GroupCounter, d visualization.Chart) *ChartResult {
	res := &ChartResult{Entries: grouping.SortCounts(snapshot.ValueCountsByGroup())}
	if d.ScrollToEnd && len(res.Entries) > 0 {
		res.InitialIndex = len(res.Entries) - 1
	}
	return res
}

func (e *Engine) kpi(ctx context.Context, snapshot analytics.DateCounter, d visualization.TrendingKPI, now time.Time) *KPIResult {
	series := trend.BuildKPISeries(e.cal, d.Scope, snapshot.ValueCountsByDate(), now)
	e.logger.WithContext(ctx).Debug("KPI series built",
		"scope", d.Scope.String(),
		"entries", len(series.Entries),
		"current", series.CurrentIndex)
	return &KPIResult{Series: series, HigherIsBetter: d.HigherIsBetter}
}

func (e *Engine) list(snapshot analytics.GroupCounter, d visualization.List) *ListResult {
	entries := grouping.SortCounts(snapshot.ValueCountsByGroup())
	visible, more := grouping.Visible(entries, d.VisibleValuesLimit, false)
	return &ListResult{
		Entries: entries,
		Visible: visible,
		HasMore: more,
		Total:   grouping.Total(entries),
		Limit:   d.VisibleValuesLimit,
	}
}

func (e *Engine) distribution(ctx context.Context, snapshot analytics.DistributionSource, d visualization.Distribution) *DistributionResult {
	samples := snapshot.ValueDistribution()
	res := &DistributionResult{}
	res.Summary, res.HasSummary = stats.Summarize(samples)

	if d.EstimateVisible && res.Summary.HasStdDev {
		res.Curve = stats.GaussianCurve(res.Summary.Mean, res.Summary.StdDev, d.MaxCurvePoints)
	}
	if len(res.Curve) == 0 {
		res.Histogram = stats.Histogram(samples)
		if d.EstimateVisible {
			e.logger.WithContext(ctx).Debug("Gaussian estimate undefined, showing histogram",
				"samples", len(samples))
		}
	}
	return res
}
