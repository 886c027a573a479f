package commute

import (
	"math"

	"github.com/transitlog/transitlog/internal/transport"
	"github.com/transitlog/transitlog/pkg/haversine"
)

// Estimation constants.
const (
	// AverageSpeedKmh is the assumed average travel speed used to convert
	// great-circle distance into an estimated duration.
	AverageSpeedKmh = 9.0

	// MinDurationMinutes is the floor for estimated durations. A
	// zero-distance trip still counts as one minute.
	MinDurationMinutes = 1
)

// EstimateDuration returns the estimated travel time in minutes between
// two stops: haversine distance at AverageSpeedKmh, rounded to the
// nearest minute and clamped to MinDurationMinutes.
//
// The function is pure and defined for any pair of well-formed
// coordinates; it never returns a value below the floor.
func EstimateDuration(start, end transport.Stop) int {
	distanceKm := haversine.Distance(start.Latitude, start.Longitude, end.Latitude, end.Longitude)

	minutes := int(math.Round(distanceKm / AverageSpeedKmh * 60))
	if minutes < MinDurationMinutes {
		return MinDurationMinutes
	}
	return minutes
}
