// Package commute provides commute record management and statistics.
package commute

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrRecordNotFound = errors.New("commute record not found")
)

// Record represents one logged trip between two stops.
// Records are created exactly once per successful calculation and never
// updated; they can only be deleted, individually or in bulk.
type Record struct {
	ID              int64
	UserID          int64
	StartStopID     int64
	EndStopID       int64
	DepartureTime   time.Time
	DurationMinutes int
	DaysOfWeek      string
	CreatedAt       time.Time
}

// WriteResult is the normalized acknowledgement for a repository write.
// Every Repository implementation returns this one shape; callers never
// inspect driver-specific result types.
type WriteResult struct {
	InsertID int64
}

// Totals holds the overall aggregates for a user's records.
type Totals struct {
	TotalCommutes int
	AvgDuration   int
	TotalDuration int
}

// RouteFrequency is a start/end stop name pair with its occurrence count.
// The zero value is the sentinel for a user with no records.
type RouteFrequency struct {
	StartStop string
	EndStop   string
	Count     int
}

// Bucket is one time-windowed aggregation unit. Start identifies the
// bucket: the day itself for daily buckets, the Monday of the week for
// weekly buckets, and the first of the month for monthly buckets.
type Bucket struct {
	Start    time.Time
	Duration int
	Count    int
}
