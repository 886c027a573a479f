package models

// CalculateRequest is the request body for a commute calculation.
type CalculateRequest struct {
	StartStopID   int64  `json:"startStopId"`
	EndStopID     int64  `json:"endStopId"`
	DepartureTime string `json:"departureTime"` // HH:mm local time
	SelectedDate  string `json:"selectedDate"`  // YYYY-MM-DD
}

// CalculationResult is the response for a successful commute calculation:
// the persisted record ID plus the user's refreshed linear projection.
type CalculationResult struct {
	ID             int64 `json:"id"`
	DailyMinutes   int   `json:"dailyMinutes"`
	WeeklyMinutes  int   `json:"weeklyMinutes"`
	MonthlyMinutes int   `json:"monthlyMinutes"`
	YearlyMinutes  int   `json:"yearlyMinutes"`
}

// CommuteRecord represents one logged trip in API responses.
type CommuteRecord struct {
	ID              int64     `json:"id"`
	StartStopID     int64     `json:"startStopId"`
	EndStopID       int64     `json:"endStopId"`
	DepartureTime   Timestamp `json:"departureTime"`
	DurationMinutes int       `json:"durationMinutes"`
	DaysOfWeek      string    `json:"daysOfWeek"`
}

// FrequentRoute is the most frequently logged start/end stop pair.
type FrequentRoute struct {
	StartStop string `json:"startStop"`
	EndStop   string `json:"endStop"`
	Count     int    `json:"count"`
}

// UserStats is the overall commute statistics response.
type UserStats struct {
	TotalCommutes     int           `json:"totalCommutes"`
	AvgDuration       int           `json:"avgDuration"`
	TotalDuration     int           `json:"totalDuration"`
	MostFrequentRoute FrequentRoute `json:"mostFrequentRoute"`
}

// DailyBucket summarizes the records of one calendar day.
type DailyBucket struct {
	Date     DateOnly `json:"date"`
	Duration int      `json:"duration"`
	Count    int      `json:"count"`
}

// WeeklyBucket summarizes the records of one ISO week.
// Week is the Monday of the week it identifies.
type WeeklyBucket struct {
	Week     DateOnly `json:"week"`
	Duration int      `json:"duration"`
	Count    int      `json:"count"`
}

// MonthlyBucket summarizes the records of one calendar month.
// Month is the first day of the month it identifies.
type MonthlyBucket struct {
	Month    DateOnly `json:"month"`
	Duration int      `json:"duration"`
	Count    int      `json:"count"`
}

// DetailedStats is the bucketed historical rollup response.
// Buckets with no records are absent; callers must not assume
// contiguous coverage.
type DetailedStats struct {
	Daily   []DailyBucket   `json:"daily"`
	Weekly  []WeeklyBucket  `json:"weekly"`
	Monthly []MonthlyBucket `json:"monthly"`
}
