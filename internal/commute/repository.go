package commute

import "context"

// Bucket limits for detailed stats.
const (
	DailyBucketLimit   = 7
	WeeklyBucketLimit  = 4
	MonthlyBucketLimit = 12
)

// Repository defines the interface for commute record persistence and
// aggregation. Aggregates are pure derivations of the current record set;
// they are recomputed on every call, never incrementally maintained.
type Repository interface {
	// Create appends a new commute record and returns the normalized
	// write acknowledgement carrying the new record's ID.
	Create(ctx context.Context, record *Record) (WriteResult, error)

	// ListByUser retrieves all records for a user, newest first.
	ListByUser(ctx context.Context, userID int64) ([]*Record, error)

	// DeleteOne deletes a record by ID, scoped to the owning user.
	// Returns ErrRecordNotFound if the record does not exist or belongs
	// to a different user.
	DeleteOne(ctx context.Context, userID, recordID int64) error

	// DeleteAll deletes all records for a user.
	DeleteAll(ctx context.Context, userID int64) error

	// Totals returns count, rounded mean duration, and summed duration
	// over all of a user's records. All zero for an empty record set.
	Totals(ctx context.Context, userID int64) (*Totals, error)

	// MostFrequentRoute returns the start/end stop pair with the highest
	// occurrence count. Ties are broken by storage order. Returns the
	// zero-value sentinel for an empty record set.
	MostFrequentRoute(ctx context.Context, userID int64) (*RouteFrequency, error)

	// DailyBuckets groups records by calendar day, newest first,
	// returning at most limit buckets.
	DailyBuckets(ctx context.Context, userID int64, limit int) ([]Bucket, error)

	// WeeklyBuckets groups records by ISO week (Monday start), newest
	// first, returning at most limit buckets.
	WeeklyBuckets(ctx context.Context, userID int64, limit int) ([]Bucket, error)

	// MonthlyBuckets groups records by calendar month, newest first,
	// returning at most limit buckets.
	MonthlyBuckets(ctx context.Context, userID int64, limit int) ([]Bucket, error)
}
