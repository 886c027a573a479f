package commute

import (
	"context"
	"time"

	"github.com/transitlog/transitlog/internal/api/models"
	"github.com/transitlog/transitlog/internal/transport"
)

// Projection multipliers. The logged total is treated as a typical day's
// commuting and extrapolated forward; this is deliberately not a
// time-windowed sum (the detailed stats cover that).
const (
	workdaysPerWeek = 5
	weeksPerMonth   = 4
	monthsPerYear   = 12
)

// weekdayCodes maps time.Weekday (Sunday = 0) to the stored annotation.
var weekdayCodes = [...]string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

// StopLookup resolves stop IDs to stops. Satisfied by *transport.Service.
type StopLookup interface {
	GetStop(ctx context.Context, id int64) (*transport.Stop, error)
}

// Service provides commute calculation and statistics operations.
type Service struct {
	repo  Repository
	stops StopLookup
}

// NewService creates a new commute service.
func NewService(repo Repository, stops StopLookup) *Service {
	return &Service{repo: repo, stops: stops}
}

// Calculate validates the request, estimates the trip duration, persists
// a new commute record, and returns the record ID together with the
// user's refreshed linear projection. Nothing is persisted when
// validation fails or a stop cannot be resolved.
func (s *Service) Calculate(ctx context.Context, userID int64, input *models.CalculateRequest) (*models.CalculationResult, error) {
	if fieldErrors := validateCalculateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	departure, fieldErrors := parseDeparture(input.SelectedDate, input.DepartureTime)
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	start, err := s.stops.GetStop(ctx, input.StartStopID)
	if err != nil {
		return nil, err
	}
	end, err := s.stops.GetStop(ctx, input.EndStopID)
	if err != nil {
		return nil, err
	}

	record := &Record{
		UserID:          userID,
		StartStopID:     start.ID,
		EndStopID:       end.ID,
		DepartureTime:   departure,
		DurationMinutes: EstimateDuration(*start, *end),
		DaysOfWeek:      weekdayCodes[departure.Weekday()],
		CreatedAt:       time.Now(),
	}

	result, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	projection, err := s.CommuteStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	projection.ID = result.InsertID
	return projection, nil
}

// CommuteStats returns the linear projection over all of the user's
// records: total logged minutes treated as a day's commuting, multiplied
// out to week, month, and year. Empty record set yields all zeros.
func (s *Service) CommuteStats(ctx context.Context, userID int64) (*models.CalculationResult, error) {
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	daily := 0
	for _, rec := range records {
		daily += rec.DurationMinutes
	}

	weekly := daily * workdaysPerWeek
	monthly := weekly * weeksPerMonth
	yearly := monthly * monthsPerYear

	return &models.CalculationResult{
		DailyMinutes:   daily,
		WeeklyMinutes:  weekly,
		MonthlyMinutes: monthly,
		YearlyMinutes:  yearly,
	}, nil
}

// UserStats returns the overall aggregates and the most frequent route.
func (s *Service) UserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	totals, err := s.repo.Totals(ctx, userID)
	if err != nil {
		return nil, err
	}

	route, err := s.repo.MostFrequentRoute(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.UserStats{
		TotalCommutes: totals.TotalCommutes,
		AvgDuration:   totals.AvgDuration,
		TotalDuration: totals.TotalDuration,
		MostFrequentRoute: models.FrequentRoute{
			StartStop: route.StartStop,
			EndStop:   route.EndStop,
			Count:     route.Count,
		},
	}, nil
}

// DetailedStats returns the daily/weekly/monthly bucketed rollups.
// Each invocation is all-or-nothing: a failure on any of the three
// queries fails the whole call.
func (s *Service) DetailedStats(ctx context.Context, userID int64) (*models.DetailedStats, error) {
	dailyBuckets, err := s.repo.DailyBuckets(ctx, userID, DailyBucketLimit)
	if err != nil {
		return nil, err
	}
	weeklyBuckets, err := s.repo.WeeklyBuckets(ctx, userID, WeeklyBucketLimit)
	if err != nil {
		return nil, err
	}
	monthlyBuckets, err := s.repo.MonthlyBuckets(ctx, userID, MonthlyBucketLimit)
	if err != nil {
		return nil, err
	}

	stats := &models.DetailedStats{
		Daily:   make([]models.DailyBucket, 0, len(dailyBuckets)),
		Weekly:  make([]models.WeeklyBucket, 0, len(weeklyBuckets)),
		Monthly: make([]models.MonthlyBucket, 0, len(monthlyBuckets)),
	}

	for _, b := range dailyBuckets {
		stats.Daily = append(stats.Daily, models.DailyBucket{
			Date:     models.DateOnly(b.Start),
			Duration: b.Duration,
			Count:    b.Count,
		})
	}
	for _, b := range weeklyBuckets {
		stats.Weekly = append(stats.Weekly, models.WeeklyBucket{
			Week:     models.DateOnly(b.Start),
			Duration: b.Duration,
			Count:    b.Count,
		})
	}
	for _, b := range monthlyBuckets {
		stats.Monthly = append(stats.Monthly, models.MonthlyBucket{
			Month:    models.DateOnly(b.Start),
			Duration: b.Duration,
			Count:    b.Count,
		})
	}

	return stats, nil
}

// ListRecords retrieves all of the user's records, newest first.
func (s *Service) ListRecords(ctx context.Context, userID int64) ([]models.CommuteRecord, error) {
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]models.CommuteRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, models.CommuteRecord{
			ID:              rec.ID,
			StartStopID:     rec.StartStopID,
			EndStopID:       rec.EndStopID,
			DepartureTime:   models.Timestamp(rec.DepartureTime),
			DurationMinutes: rec.DurationMinutes,
			DaysOfWeek:      rec.DaysOfWeek,
		})
	}
	return out, nil
}

// DeleteRecord deletes one record owned by the user.
// A record belonging to another user is reported as not found.
func (s *Service) DeleteRecord(ctx context.Context, userID, recordID int64) error {
	return s.repo.DeleteOne(ctx, userID, recordID)
}

// DeleteAllRecords deletes all of the user's records.
func (s *Service) DeleteAllRecords(ctx context.Context, userID int64) error {
	return s.repo.DeleteAll(ctx, userID)
}

// validateCalculateInput checks required fields and the distinct-stops rule.
func validateCalculateInput(input *models.CalculateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.StartStopID == 0 {
		errs = append(errs, models.FieldError{Field: "startStopId", Message: "is required"})
	}
	if input.EndStopID == 0 {
		errs = append(errs, models.FieldError{Field: "endStopId", Message: "is required"})
	}
	if input.StartStopID != 0 && input.StartStopID == input.EndStopID {
		errs = append(errs, models.FieldError{Field: "endStopId", Message: "must differ from startStopId"})
	}
	if input.DepartureTime == "" {
		errs = append(errs, models.FieldError{Field: "departureTime", Message: "is required"})
	}
	if input.SelectedDate == "" {
		errs = append(errs, models.FieldError{Field: "selectedDate", Message: "is required"})
	}

	return errs
}

// parseDeparture combines the selected date and departure time into a
// single UTC timestamp.
func parseDeparture(selectedDate, departureTime string) (time.Time, []models.FieldError) {
	var errs []models.FieldError

	date, err := time.Parse(time.DateOnly, selectedDate)
	if err != nil {
		errs = append(errs, models.FieldError{Field: "selectedDate", Message: "must be in YYYY-MM-DD format"})
	}
	clock, err := time.Parse("15:04", departureTime)
	if err != nil {
		errs = append(errs, models.FieldError{Field: "departureTime", Message: "must be in HH:mm format"})
	}
	if len(errs) > 0 {
		return time.Time{}, errs
	}

	return time.Date(
		date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, time.UTC,
	), nil
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
