// Package trend classifies period-over-period change in a time series.
package trend

import (
	"time"

	"github.com/hardisty/hardisty/internal/calendar"
	"github.com/hardisty/hardisty/internal/timeseries"
)

// Trend is the direction of change from an earlier to a later value
type Trend int

const (
	Neutral Trend = iota
	Up
	Down
)

func (t Trend) String() string {
	switch t {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "neutral"
	}
}

// Classify compares two values: Up if earlier < later, Down if earlier > later, Neutral otherwise
func Classify(earlier, later float64) Trend {
	switch {
	case earlier < later:
		return Up
	case earlier > later:
		return Down
	default:
		return Neutral
	}
}

// Sentiment says whether a trend is good news for the metric being shown
type Sentiment int

const (
	SentimentNeutral Sentiment = iota
	SentimentGood
	SentimentBad
)

func (s Sentiment) String() string {
	switch s {
	case SentimentGood:
		return "good"
	case SentimentBad:
		return "bad"
	default:
		return "neutral"
	}
}

// Sentiment maps the trend to good or bad depending on whether higher values are better
func (t Trend) Sentiment(higherIsBetter bool) Sentiment {
	switch t {
	case Up:
		if higherIsBetter {
			return SentimentGood
		}
		return SentimentBad
	case Down:
		if higherIsBetter {
			return SentimentBad
		}
		return SentimentGood
	default:
		return SentimentNeutral
	}
}

// Comparison is the outcome of comparing a segment with its predecessor
type Comparison struct {
	Trend   Trend
	Earlier float64
	Later   float64

	// PreviousInterval is the interval the earlier value was computed over.
	// For an ongoing period it is a prefix of the previous segment.
	PreviousInterval calendar.Interval

	// Progress is the elapsed fraction of the later segment at now, 1 for a completed period
	Progress float64
	Partial  bool
}

// Compare classifies segment index against segment index-1 of src.
//
// When now lies strictly after the later segment's start and before its end,
// the period is still running and the earlier value is taken over the same
// elapsed fraction of the previous segment. At exactly the start nothing of
// the period has elapsed yet and the previous segment is compared in full. It returns false for the first segment, an index outside the series,
// or when either combined value is undefined.
func Compare(src timeseries.Source, index int, now time.Time) (Comparison, bool) {
	data := src.Data()
	if index <= 0 || index >= data.Len() {
		return Comparison{}, false
	}

	current := data.Segments[index].Interval
	previous := data.Segments[index-1].Interval

	later, ok := src.CombinedValue(current)
	if !ok {
		return Comparison{}, false
	}

	progress := 1.0
	partial := false
	if current.Start.Before(now) && now.Before(current.End) {
		progress = current.Progress(now)
		previous = previous.Prefix(progress)
		partial = true
	}

	earlier, ok := src.CombinedValue(previous)
	if !ok {
		return Comparison{}, false
	}

	return Comparison{
		Trend:            Classify(earlier, later),
		Earlier:          earlier,
		Later:            later,
		PreviousInterval: previous,
		Progress:         progress,
		Partial:          partial,
	}, true
}
