// Package snapshotfile reads and writes analytics snapshots as JSON documents,
// optionally snappy compressed when the file name ends in .sz.
//
//	{
//	  "groups": {"ios": 12, "android": 9},
//	  "dates": {"2024-03-01": 4, "2024-03-02T14:30:00+09:00": 2},
//	  "distribution": [1.5, 2, 2.5]
//	}
//
// Date keys are RFC 3339 timestamps or plain dates; plain dates are read as
// midnight in the caller's location.
package snapshotfile

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/hardisty/hardisty/internal/analytics"
)

// Document is the on-disk form of a snapshot
type Document struct {
	Groups       map[string]int `json:"groups,omitempty"`
	Dates        map[string]int `json:"dates,omitempty"`
	Distribution []float64      `json:"distribution,omitempty"`
}

// Load reads the snapshot at path
func Load(path string, loc *time.Location) (*analytics.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	compressor, err := GetCompressor(AlgorithmForPath(path))
	if err != nil {
		return nil, err
	}
	data, err = compressor.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}

	snapshot, err := Decode(data, loc)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return snapshot, nil
}

// Decode parses a JSON document into a snapshot
func Decode(data []byte, loc *time.Location) (*analytics.Snapshot, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	if loc == nil {
		loc = time.UTC
	}

	dates := make(map[time.Time]int, len(doc.Dates))
	for key, count := range doc.Dates {
		t, err := parseDate(key, loc)
		if err != nil {
			return nil, err
		}
		// Keys that name the same instant are merged
		dates[t.UTC()] += count
	}

	return analytics.NewSnapshot(doc.Groups, dates, doc.Distribution), nil
}

// Save writes snapshot to path, compressing when the extension asks for it
func Save(path string, snapshot analytics.Aggregator) error {
	data, err := Encode(snapshot)
	if err != nil {
		return err
	}

	compressor, err := GetCompressor(AlgorithmForPath(path))
	if err != nil {
		return err
	}
	data, err = compressor.Compress(data)
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return nil
}

// Encode renders a snapshot as a JSON document with RFC 3339 date keys
func Encode(snapshot analytics.Aggregator) ([]byte, error) {
	doc := Document{
		Groups:       snapshot.ValueCountsByGroup(),
		Dates:        make(map[string]int),
		Distribution: snapshot.ValueDistribution(),
	}

	for t, count := range snapshot.ValueCountsByDate() {
		doc.Dates[t.UTC().Format(time.RFC3339Nano)] += count
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

func parseDate(key string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, key); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, key, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateTime, key, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date key %q: want RFC 3339, YYYY-MM-DD or YYYY-MM-DD HH:MM:SS", key)
}
