package calendar

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownScope is returned when a scope name cannot be parsed
var ErrUnknownScope = errors.New("unknown scope")

// Scope represents the calendar granularity used to bucket a time series
type Scope int

const (
	ScopeDay Scope = iota
	ScopeWeek
	ScopeMonth
	ScopeThreeMonths
	ScopeSixMonths
	ScopeYear
)

func (s Scope) String() string {
	switch s {
	case ScopeDay:
		return "day"
	case ScopeWeek:
		return "week"
	case ScopeMonth:
		return "month"
	case ScopeThreeMonths:
		return "3m"
	case ScopeSixMonths:
		return "6m"
	case ScopeYear:
		return "year"
	default:
		return "unknown"
	}
}

// IsValid reports whether s is one of the defined scopes
func (s Scope) IsValid() bool {
	return s >= ScopeDay && s <= ScopeYear
}

// AllScopes returns every scope in ascending granularity
func AllScopes() []Scope {
	return []Scope{ScopeDay, ScopeWeek, ScopeMonth, ScopeThreeMonths, ScopeSixMonths, ScopeYear}
}

// DefaultSelectableScopes returns the scopes offered when a view does not list its own
func DefaultSelectableScopes() []Scope {
	return []Scope{ScopeDay, ScopeWeek, ScopeMonth, ScopeYear}
}

// ParseScope converts a scope name ("day", "week", "month", "3m", "6m", "year") to a Scope
func ParseScope(name string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "day", "1d", "daily":
		return ScopeDay, nil
	case "week", "1w", "weekly":
		return ScopeWeek, nil
	case "month", "1m", "monthly":
		return ScopeMonth, nil
	case "3m", "three_months", "quarter":
		return ScopeThreeMonths, nil
	case "6m", "six_months", "half_year":
		return ScopeSixMonths, nil
	case "year", "1y", "yearly":
		return ScopeYear, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownScope, name)
	}
}

// ParseScopes parses a list of scope names, failing on the first invalid one
func ParseScopes(names []string) ([]Scope, error) {
	scopes := make([]Scope, 0, len(names))
	for _, name := range names {
		s, err := ParseScope(name)
		if err != nil {
			return nil, err
		}
		scopes = append(scopes, s)
	}
	return scopes, nil
}
