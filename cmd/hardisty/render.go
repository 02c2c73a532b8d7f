package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/hardisty/hardisty/internal/calendar"
	"github.com/hardisty/hardisty/internal/engine"
	"github.com/hardisty/hardisty/internal/grouping"
	"github.com/hardisty/hardisty/internal/timeseries"
	"github.com/hardisty/hardisty/internal/trend"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// palette colors trend arrows by sentiment
type palette struct {
	good, bad, neutral func(...any) string
}

func newPalette(enabled bool) palette {
	if !enabled {
		return palette{good: fmt.Sprint, bad: fmt.Sprint, neutral: fmt.Sprint}
	}
	return palette{
		good:    color.New(color.FgGreen).SprintFunc(),
		bad:     color.New(color.FgRed).SprintFunc(),
		neutral: color.New(color.FgYellow).SprintFunc(),
	}
}

func (p palette) trend(t trend.Trend, s trend.Sentiment) string {
	arrow := "="
	switch t {
	case trend.Up:
		arrow = "▲"
	case trend.Down:
		arrow = "▼"
	}

	switch s {
	case trend.SentimentGood:
		return p.good(arrow)
	case trend.SentimentBad:
		return p.bad(arrow)
	default:
		return p.neutral(arrow)
	}
}

func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	return table
}

func renderTable(table *tablewriter.Table, rows [][]string) error {
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// formatPeriod labels an interval at the granularity of its scope
func formatPeriod(iv calendar.Interval, scope calendar.Scope) string {
	last := iv.End.Add(-time.Nanosecond)
	switch scope {
	case calendar.ScopeDay, calendar.ScopeWeek:
		return iv.Start.Format(time.DateOnly)
	case calendar.ScopeMonth:
		return iv.Start.Format("2006-01")
	case calendar.ScopeYear:
		return iv.Start.Format("2006")
	default:
		return iv.Start.Format("2006-01") + ".." + last.Format("2006-01")
	}
}

func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// renderTimeSeries prints segments, which may be a thinned subset of the result's
// segments, and the selected segment's value and trend
func renderTimeSeries(w io.Writer, res *engine.TimeSeriesResult, segments []timeseries.Segment, p palette) error {
	if len(segments) == 0 {
		_, err := fmt.Fprintln(w, "No data.")
		return err
	}

	table := newTable(w, "Period", "Value", "")
	rows := make([][]string, 0, len(segments))
	for _, seg := range segments {
		marker := ""
		if res.HasSelection && seg.Index == res.Selected {
			marker = "◀"
		}
		rows = append(rows, []string{formatPeriod(seg.Interval, res.Scope), formatValue(seg.Value), marker})
	}
	if err := renderTable(table, rows); err != nil {
		return err
	}

	selected := res.Segments()[res.Selected]
	line := fmt.Sprintf("Selected %s (%s, %s)", formatPeriod(selected.Interval, res.Scope), res.Scope, res.Strategy)
	if res.HasValue {
		line += ": " + formatValue(res.Value)
	}
	if res.HasTrend {
		c := res.Comparison
		line += fmt.Sprintf(" %s vs %s", p.trend(c.Trend, res.Sentiment), formatValue(c.Earlier))
		if c.Partial {
			line += fmt.Sprintf(" over the first %.0f%% of the previous period", c.Progress*100)
		}
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

func renderKPI(w io.Writer, res *engine.KPIResult, p palette) error {
	series := res.Series
	if len(series.Entries) == 0 {
		_, err := fmt.Fprintln(w, "No data.")
		return err
	}

	table := newTable(w, "Period", "Total", "Trend", "")
	rows := make([][]string, 0, len(series.Entries))
	for i, entry := range series.Entries {
		arrow := ""
		if entry.HasTrend {
			arrow = p.trend(entry.Trend, res.Sentiment(i))
		}
		marker := ""
		if i == series.CurrentIndex {
			marker = "◀"
		}
		rows = append(rows, []string{
			formatPeriod(entry.Interval, series.Scope),
			strconv.Itoa(entry.Value),
			arrow,
			marker,
		})
	}
	return renderTable(table, rows)
}

func renderEntries(w io.Writer, visible []grouping.Entry, total int, hidden int) error {
	if len(visible) == 0 {
		_, err := fmt.Fprintln(w, "No data.")
		return err
	}

	table := newTable(w, "Label", "Count", "Share")
	rows := make([][]string, 0, len(visible))
	for _, e := range visible {
		share := 0.0
		if total > 0 {
			share = float64(e.Count) / float64(total) * 100
		}
		rows = append(rows, []string{e.Label, strconv.Itoa(e.Count), fmt.Sprintf("%.1f%%", share)})
	}
	if err := renderTable(table, rows); err != nil {
		return err
	}

	if hidden > 0 {
		_, err := fmt.Fprintf(w, "%d more (use --all to show)\n", hidden)
		return err
	}
	return nil
}

func renderDistribution(w io.Writer, res *engine.DistributionResult) error {
	if !res.HasSummary {
		_, err := fmt.Fprintln(w, "No data.")
		return err
	}

	s := res.Summary
	stdDev := "n/a"
	if s.HasStdDev {
		stdDev = strconv.FormatFloat(s.StdDev, 'f', 3, 64)
	}
	if _, err := fmt.Fprintf(w, "n=%d mean=%.3f stddev=%s min=%s max=%s\n",
		s.Count, s.Mean, stdDev, formatValue(s.Min), formatValue(s.Max)); err != nil {
		return err
	}

	if res.Estimated() {
		table := newTable(w, "Offset", "Value", "Density")
		rows := make([][]string, 0, len(res.Curve))
		for _, pt := range res.Curve {
			rows = append(rows, []string{
				formatValue(pt.Offset),
				strconv.FormatFloat(pt.Value, 'f', 2, 64),
				strconv.FormatFloat(pt.Density, 'f', 4, 64),
			})
		}
		return renderTable(table, rows)
	}

	table := newTable(w, "Bucket", "Count")
	rows := make([][]string, 0, len(res.Histogram))
	for _, bin := range res.Histogram {
		rows = append(rows, []string{strconv.Itoa(bin.Key), strconv.Itoa(bin.Count)})
	}
	return renderTable(table, rows)
}
