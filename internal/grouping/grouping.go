// Package grouping turns unordered label->count and date->count snapshots into
// deterministic, sorted (label, count) lists for list and bar style views.
package grouping

import (
	"sort"
	"time"

	"github.com/hardisty/hardisty/internal/calendar"
)

// Entry is one labelled count
type Entry struct {
	Label string
	Count int
}

// DateBucket is the total count of one calendar bucket
type DateBucket struct {
	Interval calendar.Interval
	Count    int
}

// Labeler names a date bucket for display
type Labeler func(iv calendar.Interval) string

// DefaultLabel names a bucket by its start date (YYYY-MM-DD)
func DefaultLabel(iv calendar.Interval) string {
	return iv.Start.Format(time.DateOnly)
}

// SortCounts orders counts by count descending, breaking ties by ascending label.
// The input map has no defined iteration order, so the tie-break keeps output stable.
func SortCounts(counts map[string]int) []Entry {
	entries := make([]Entry, 0, len(counts))
	for label, count := range counts {
		entries = append(entries, Entry{Label: label, Count: count})
	}
	sortEntries(entries)
	return entries
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Label < entries[j].Label
	})
}

// BucketDates sums counts per calendar bucket and returns the non-empty buckets in chronological order
func BucketDates(cal calendar.Calendar, scope calendar.Scope, counts map[time.Time]int) []DateBucket {
	totals := make(map[time.Time]*DateBucket)
	for t, c := range counts {
		iv := cal.IntervalContaining(t, scope)
		key := iv.Start
		if b, ok := totals[key]; ok {
			b.Count += c
			continue
		}
		totals[key] = &DateBucket{Interval: iv, Count: c}
	}

	buckets := make([]DateBucket, 0, len(totals))
	for _, b := range totals {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Interval.Start.Before(buckets[j].Interval.Start)
	})
	return buckets
}

// ByDate buckets a date->count snapshot per scope and returns labelled entries
// sorted like SortCounts. Buckets that share a label are merged. A nil label
// function uses DefaultLabel.
func ByDate(cal calendar.Calendar, scope calendar.Scope, counts map[time.Time]int, label Labeler) []Entry {
	if label == nil {
		label = DefaultLabel
	}

	byLabel := make(map[string]int)
	for _, b := range BucketDates(cal, scope, counts) {
		byLabel[label(b.Interval)] += b.Count
	}
	return SortCounts(byLabel)
}

// Visible returns the first limit entries unless showAll is set, and whether
// entries were hidden. A non-positive limit shows everything.
func Visible(entries []Entry, limit int, showAll bool) ([]Entry, bool) {
	if showAll || limit <= 0 || len(entries) <= limit {
		return entries, false
	}
	return entries[:limit], true
}

// Total returns the sum of all entry counts
func Total(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += e.Count
	}
	return total
}
