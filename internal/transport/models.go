// Package transport provides transit stop reference data.
package transport

import "errors"

// Repository errors.
var (
	ErrStopNotFound = errors.New("stop not found")
)

// Stop represents a named transit stop with fixed coordinates.
// Stops are immutable reference data seeded by migration; this package
// never mutates them.
type Stop struct {
	ID        int64
	Name      string
	Latitude  float64
	Longitude float64
}
