package commute

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
// All aggregation queries run against the live record set; nothing is
// materialized.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL commute repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create appends a new commute record.
func (r *PostgresRepository) Create(ctx context.Context, record *Record) (WriteResult, error) {
	query := `
		INSERT INTO commute_record (
			user_id, start_stop_id, end_stop_id,
			departure_time, duration_minutes, days_of_week, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var insertID int64
	err := r.pool.QueryRow(ctx, query,
		record.UserID,
		record.StartStopID,
		record.EndStopID,
		record.DepartureTime,
		record.DurationMinutes,
		record.DaysOfWeek,
		record.CreatedAt,
	).Scan(&insertID)
	if err != nil {
		return WriteResult{}, err
	}

	return WriteResult{InsertID: insertID}, nil
}

// ListByUser retrieves all records for a user, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*Record, error) {
	query := `
		SELECT id, user_id, start_stop_id, end_stop_id,
		       departure_time, duration_minutes, days_of_week, created_at
		FROM commute_record
		WHERE user_id = $1
		ORDER BY departure_time DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var rec Record
		err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.StartStopID,
			&rec.EndStopID,
			&rec.DepartureTime,
			&rec.DurationMinutes,
			&rec.DaysOfWeek,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// DeleteOne deletes a record by ID, scoped to the owning user.
func (r *PostgresRepository) DeleteOne(ctx context.Context, userID, recordID int64) error {
	query := `DELETE FROM commute_record WHERE id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, recordID, userID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// DeleteAll deletes all records for a user.
func (r *PostgresRepository) DeleteAll(ctx context.Context, userID int64) error {
	query := `DELETE FROM commute_record WHERE user_id = $1`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

// Totals returns count, rounded mean duration, and summed duration.
func (r *PostgresRepository) Totals(ctx context.Context, userID int64) (*Totals, error) {
	query := `
		SELECT
			COUNT(*)::int,
			COALESCE(ROUND(AVG(duration_minutes)), 0)::int,
			COALESCE(SUM(duration_minutes), 0)::int
		FROM commute_record
		WHERE user_id = $1
	`

	var t Totals
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&t.TotalCommutes,
		&t.AvgDuration,
		&t.TotalDuration,
	)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// MostFrequentRoute returns the most frequently logged stop pair.
func (r *PostgresRepository) MostFrequentRoute(ctx context.Context, userID int64) (*RouteFrequency, error) {
	query := `
		SELECT s1.name, s2.name, COUNT(*)::int AS cnt
		FROM commute_record cr
		JOIN transport_stop s1 ON cr.start_stop_id = s1.id
		JOIN transport_stop s2 ON cr.end_stop_id = s2.id
		WHERE cr.user_id = $1
		GROUP BY cr.start_stop_id, cr.end_stop_id, s1.name, s2.name
		ORDER BY cnt DESC
		LIMIT 1
	`

	var rf RouteFrequency
	err := r.pool.QueryRow(ctx, query, userID).Scan(&rf.StartStop, &rf.EndStop, &rf.Count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Sentinel for a user with no records.
			return &RouteFrequency{}, nil
		}
		return nil, err
	}

	return &rf, nil
}

// DailyBuckets groups records by calendar day.
func (r *PostgresRepository) DailyBuckets(ctx context.Context, userID int64, limit int) ([]Bucket, error) {
	query := `
		SELECT departure_time::date AS bucket,
		       SUM(duration_minutes)::int,
		       COUNT(*)::int
		FROM commute_record
		WHERE user_id = $1
		GROUP BY bucket
		ORDER BY bucket DESC
		LIMIT $2
	`

	return r.scanBuckets(ctx, query, userID, limit)
}

// WeeklyBuckets groups records by ISO week. date_trunc('week', ...) is
// Monday-based, which matches the week convention used everywhere else.
func (r *PostgresRepository) WeeklyBuckets(ctx context.Context, userID int64, limit int) ([]Bucket, error) {
	query := `
		SELECT date_trunc('week', departure_time)::date AS bucket,
		       SUM(duration_minutes)::int,
		       COUNT(*)::int
		FROM commute_record
		WHERE user_id = $1
		GROUP BY bucket
		ORDER BY bucket DESC
		LIMIT $2
	`

	return r.scanBuckets(ctx, query, userID, limit)
}

// MonthlyBuckets groups records by calendar month.
func (r *PostgresRepository) MonthlyBuckets(ctx context.Context, userID int64, limit int) ([]Bucket, error) {
	query := `
		SELECT date_trunc('month', departure_time)::date AS bucket,
		       SUM(duration_minutes)::int,
		       COUNT(*)::int
		FROM commute_record
		WHERE user_id = $1
		GROUP BY bucket
		ORDER BY bucket DESC
		LIMIT $2
	`

	return r.scanBuckets(ctx, query, userID, limit)
}

// scanBuckets runs a bucket aggregation query and scans the result rows.
func (r *PostgresRepository) scanBuckets(ctx context.Context, query string, userID int64, limit int) ([]Bucket, error) {
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []Bucket
	for rows.Next() {
		var b Bucket
		if err := rows.Scan(&b.Start, &b.Duration, &b.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return buckets, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
