// Package analytics defines the read-only capabilities through which the engine
// consumes counts collected by an external analytics layer, and an immutable
// in-memory Snapshot that implements all of them.
package analytics

import (
	"time"
)

// GroupCounter exposes counts grouped by an arbitrary label
type GroupCounter interface {
	ValueCountsByGroup() map[string]int
}

// DateCounter exposes sparse, unordered counts keyed by timestamp
type DateCounter interface {
	ValueCountsByDate() map[time.Time]int
}

// DistributionSource exposes raw numeric samples
type DistributionSource interface {
	ValueDistribution() []float64
}

// Aggregator offers all three capabilities
type Aggregator interface {
	GroupCounter
	DateCounter
	DistributionSource
}

// Snapshot is an immutable copy of collected counts. Accessors return copies,
// so callers may not mutate the snapshot through them.
type Snapshot struct {
	groups       map[string]int
	dates        map[time.Time]int
	distribution []float64
}

// NewSnapshot copies the given collections into a new snapshot. Nil inputs are treated as empty.
func NewSnapshot(groups map[string]int, dates map[time.Time]int, distribution []float64) *Snapshot {
	s := &Snapshot{
		groups:       make(map[string]int, len(groups)),
		dates:        make(map[time.Time]int, len(dates)),
		distribution: make([]float64, len(distribution)),
	}
	for k, v := range groups {
		s.groups[k] = v
	}
	for k, v := range dates {
		s.dates[k] = v
	}
	copy(s.distribution, distribution)
	return s
}

// ValueCountsByGroup returns a copy of the label->count mapping
func (s *Snapshot) ValueCountsByGroup() map[string]int {
	out := make(map[string]int, len(s.groups))
	for k, v := range s.groups {
		out[k] = v
	}
	return out
}

// ValueCountsByDate returns a copy of the date->count mapping
func (s *Snapshot) ValueCountsByDate() map[time.Time]int {
	out := make(map[time.Time]int, len(s.dates))
	for k, v := range s.dates {
		out[k] = v
	}
	return out
}

// ValueDistribution returns a copy of the raw samples
func (s *Snapshot) ValueDistribution() []float64 {
	out := make([]float64, len(s.distribution))
	copy(out, s.distribution)
	return out
}

// IsEmpty reports whether the snapshot holds no data at all
func (s *Snapshot) IsEmpty() bool {
	return len(s.groups) == 0 && len(s.dates) == 0 && len(s.distribution) == 0
}

// DateRange returns the earliest and latest dated entries
func (s *Snapshot) DateRange() (earliest, latest time.Time, ok bool) {
	for t := range s.dates {
		if !ok || t.Before(earliest) {
			earliest = t
		}
		if !ok || t.After(latest) {
			latest = t
		}
		ok = true
	}
	return earliest, latest, ok
}
