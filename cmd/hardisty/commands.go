package main

import (
	"fmt"
	"slices"
	"sort"

	"github.com/hardisty/hardisty/internal/calendar"
	"github.com/hardisty/hardisty/internal/downsampling"
	"github.com/hardisty/hardisty/internal/engine"
	"github.com/hardisty/hardisty/internal/grouping"
	"github.com/hardisty/hardisty/internal/logging"
	"github.com/hardisty/hardisty/internal/timeseries"
	"github.com/hardisty/hardisty/internal/visualization"
	"github.com/spf13/cobra"
)

func newSeriesCmd(a *app) *cobra.Command {
	var (
		scopeName string
		maxPoints int
		thinMode  string
	)

	cmd := &cobra.Command{
		Use:   "series",
		Short: "Show the dated counts as a calendar-aligned time series",
		Long: `Bucket the snapshot's dated counts by scope and show one row per bucket.

With the sum strategy each bucket is the total of its counts. With
interpolate_and_average each bucket is the mean of its counts and empty buckets
are filled by linear interpolation between their observed neighbours.

Examples:
  # Weekly totals, selecting the last week
  hardisty series -s snapshot.json --scope week

  # Monthly averages with the trend of the current month
  hardisty series -s snapshot.json --scope month --strategy interpolate_and_average --scroll-to-end=false

  # Daily totals thinned to about 60 rows, keeping peaks
  hardisty series -s snapshot.json --scope day --max-points 60 --downsample minmax`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			detail, err := a.cfg.TimeSeries.Detail()
			if err != nil {
				return err
			}

			scope := detail.InitialScope
			if scopeName != "" {
				if scope, err = calendar.ParseScope(scopeName); err != nil {
					return err
				}
			}

			mode, err := downsampling.ParseMode(thinMode)
			if err != nil {
				return err
			}

			res, err := a.engine.TimeSeries(cmd.Context(), a.snapshot, detail, scope, a.now)
			if err != nil {
				return err
			}

			segments := res.Segments()
			if maxPoints > 0 {
				if segments, err = thinSegments(segments, res, mode, maxPoints); err != nil {
					return err
				}
				logging.DebugCtx(cmd.Context(), "Segments thinned",
					"mode", string(mode),
					"segments", len(res.Segments()),
					"shown", len(segments))
			}
			return renderTimeSeries(cmd.OutOrStdout(), res, segments, a.palette())
		},
	}

	f := cmd.Flags()
	f.StringVar(&scopeName, "scope", "", "scope to show, one of the selectable scopes (default the initial scope)")
	f.IntVar(&maxPoints, "max-points", 0, "thin the table to about this many rows (0 shows every segment)")
	f.StringVar(&thinMode, "downsample", string(downsampling.ModeAuto), "thinning algorithm: none, auto, lttb, minmax or m4")
	f.String("strategy", "", "sum or interpolate_and_average")
	f.Bool("scroll-to-end", true, "select the last segment instead of the one containing now")
	f.Bool("show-trends", true, "compare the selected segment with the previous one")
	f.Bool("higher-is-better", true, "color increases as good news")
	bindFlag(f, "strategy", "time_series.strategy")
	bindFlag(f, "scroll-to-end", "time_series.scroll_to_end")
	bindFlag(f, "show-trends", "time_series.show_trends")
	bindFlag(f, "higher-is-better", "time_series.higher_is_better")

	return cmd
}

// thinSegments downsamples segments and puts the selected segment back if the
// algorithm dropped it
func thinSegments(segments []timeseries.Segment, res *engine.TimeSeriesResult, mode downsampling.Mode, maxPoints int) ([]timeseries.Segment, error) {
	thinned, err := downsampling.Segments(segments, mode, maxPoints)
	if err != nil {
		return nil, err
	}
	if !res.HasSelection {
		return thinned, nil
	}

	pos := sort.Search(len(thinned), func(i int) bool { return thinned[i].Index >= res.Selected })
	if pos < len(thinned) && thinned[pos].Index == res.Selected {
		return thinned, nil
	}
	return slices.Insert(thinned, pos, segments[res.Selected]), nil
}

func newKPICmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kpi",
		Short: "Show per-period totals with the trend against the previous period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			detail, err := a.cfg.KPI.Detail()
			if err != nil {
				return err
			}

			res, err := a.engine.Recompute(cmd.Context(), a.snapshot, visualization.View{Name: "kpi", Detail: detail}, a.now)
			if err != nil {
				return err
			}
			return renderKPI(cmd.OutOrStdout(), res.KPI, a.palette())
		},
	}

	f := cmd.Flags()
	f.String("scope", "", "period length: day, week, month, 3m, 6m or year")
	f.Bool("higher-is-better", true, "color increases as good news")
	bindFlag(f, "scope", "kpi.scope")
	bindFlag(f, "higher-is-better", "kpi.higher_is_better")

	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var (
		showAll bool
		byDate  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List grouped counts, most frequent first",
		Long: `List grouped counts sorted by count descending, ties broken by label.

With --by-date the dated counts are grouped into calendar buckets of the given
scope instead of using the snapshot's labelled groups.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit := a.cfg.List.VisibleValuesLimit

			var entries []grouping.Entry
			if byDate != "" {
				scope, err := calendar.ParseScope(byDate)
				if err != nil {
					return err
				}
				entries = a.engine.DateEntries(a.snapshot, scope, func(iv calendar.Interval) string {
					return formatPeriod(iv, scope)
				})
			} else {
				res, err := a.engine.Recompute(cmd.Context(), a.snapshot, visualization.View{Name: "list", Detail: a.cfg.List.Detail()}, a.now)
				if err != nil {
					return err
				}
				entries = res.List.Entries
			}

			visible, _ := grouping.Visible(entries, limit, showAll)
			return renderEntries(cmd.OutOrStdout(), visible, grouping.Total(entries), len(entries)-len(visible))
		},
	}

	f := cmd.Flags()
	f.Int("limit", 0, "number of entries shown before collapsing")
	f.BoolVar(&showAll, "all", false, "show every entry")
	f.StringVar(&byDate, "by-date", "", "group dated counts by this scope")
	bindFlag(f, "limit", "list.visible_values_limit")

	return cmd
}

func newChartCmd(a *app) *cobra.Command {
	var scrollToEnd bool

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Show every grouped count as chart data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := visualization.View{Name: "chart", Detail: visualization.Chart{ScrollToEnd: scrollToEnd}}
			res, err := a.engine.Recompute(cmd.Context(), a.snapshot, view, a.now)
			if err != nil {
				return err
			}

			entries := res.Chart.Entries
			if err := renderEntries(cmd.OutOrStdout(), entries, grouping.Total(entries), 0); err != nil {
				return err
			}
			if len(entries) > 0 {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Initial entry: %s\n", entries[res.Chart.InitialIndex].Label)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&scrollToEnd, "scroll-to-end", false, "start at the last entry")

	return cmd
}

func newDistributionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "distribution",
		Aliases: []string{"dist"},
		Short:   "Summarize the raw value distribution",
		Long: `Print count, mean and sample standard deviation of the raw values, followed by
a gaussian estimate over three standard deviations. The histogram of values
truncated to integers is shown instead when the estimate is disabled or fewer
than two values exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := visualization.View{Name: "distribution", Detail: a.cfg.Distribution.Detail()}
			res, err := a.engine.Recompute(cmd.Context(), a.snapshot, view, a.now)
			if err != nil {
				return err
			}
			return renderDistribution(cmd.OutOrStdout(), res.Distribution)
		},
	}

	f := cmd.Flags()
	f.Bool("estimate", true, "show the gaussian estimate instead of the histogram")
	f.Int("max-curve-points", 0, "upper bound on gaussian estimate rows")
	bindFlag(f, "estimate", "distribution.estimate_visible")
	bindFlag(f, "max-curve-points", "distribution.max_curve_points")

	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Compute every configured view concurrently and print them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			views, err := a.views()
			if err != nil {
				return err
			}

			results, err := a.engine.RecomputeAll(cmd.Context(), a.snapshot, views, a.now)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			p := a.palette()
			for _, res := range results {
				if _, err := fmt.Fprintf(w, "\n== %s ==\n", res.View); err != nil {
					return err
				}
				switch res.Kind {
				case visualization.KindTimeSeries:
					err = renderTimeSeries(w, res.TimeSeries, res.TimeSeries.Segments(), p)
				case visualization.KindTrendingKPI:
					err = renderKPI(w, res.KPI, p)
				case visualization.KindList:
					err = renderEntries(w, res.List.Visible, res.List.Total, len(res.List.Entries)-len(res.List.Visible))
				case visualization.KindChart:
					err = renderEntries(w, res.Chart.Entries, grouping.Total(res.Chart.Entries), 0)
				case visualization.KindDistribution:
					err = renderDistribution(w, res.Distribution)
				}
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// views builds the configured view set
func (a *app) views() ([]visualization.View, error) {
	series, err := a.cfg.TimeSeries.Detail()
	if err != nil {
		return nil, err
	}
	kpi, err := a.cfg.KPI.Detail()
	if err != nil {
		return nil, err
	}

	return []visualization.View{
		{Name: "time series", Detail: series},
		{Name: "kpi", Detail: kpi},
		{Name: "list", Detail: a.cfg.List.Detail()},
		{Name: "chart", Detail: visualization.Chart{}},
		{Name: "distribution", Detail: a.cfg.Distribution.Detail()},
	}, nil
}
