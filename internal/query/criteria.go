// Package query filters workspace records and derives the summary figures
// shown next to them. Everything here is a pure function of its inputs:
// no I/O, no clock reads, no state kept between calls.
package query

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// All is the sentinel that disables an equality predicate.
const All = "all"

// Status selects activity by outcome.
type Status string

const (
	StatusAll     Status = All
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// ParseStatus validates a status filter value. "" is accepted as "all".
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(s)) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusSuccess:
		return StatusSuccess, nil
	case StatusFailed:
		return StatusFailed, nil
	default:
		return "", fmt.Errorf("invalid status %q (use all, success or failed)", s)
	}
}

// TimeWindow is a relative recency bucket.
type TimeWindow string

const (
	WindowAll    TimeWindow = All
	Window24h    TimeWindow = "24h"
	Window7Days  TimeWindow = "7days"
	Window30Days TimeWindow = "30days"
)

// ParseTimeWindow validates a window filter value. "" is accepted as "all".
func ParseTimeWindow(s string) (TimeWindow, error) {
	switch TimeWindow(strings.ToLower(s)) {
	case "", WindowAll:
		return WindowAll, nil
	case Window24h:
		return Window24h, nil
	case Window7Days:
		return Window7Days, nil
	case Window30Days:
		return Window30Days, nil
	default:
		return "", fmt.Errorf("invalid time window %q (use 24h, 7days, 30days or all)", s)
	}
}

// Criteria holds the activity filter selections. The zero value matches
// every record.
type Criteria struct {
	// UserID scopes the collection to one user. Headline counts are
	// computed over this scope, before any other predicate.
	UserID string

	Search     string
	Department string
	Status     Status
	Window     TimeWindow
}

// DaysSince returns the number of whole days between ts and now, rounded
// toward negative infinity. Timestamps in the future yield negative values.
func DaysSince(ts, now time.Time) int {
	return int(math.Floor(now.Sub(ts).Hours() / 24))
}

// contains reports whether needle occurs in any of the fields, ignoring case.
func contains(needle string, fields ...string) bool {
	if needle == "" {
		return true
	}
	needle = strings.ToLower(needle)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func disabled(v string) bool {
	return v == "" || strings.EqualFold(v, All)
}
