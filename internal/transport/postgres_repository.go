package transport

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL stop repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListStops retrieves all transit stops ordered by name.
func (r *PostgresRepository) ListStops(ctx context.Context) ([]Stop, error) {
	query := `
		SELECT id, name, latitude, longitude
		FROM transport_stop
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stops []Stop
	for rows.Next() {
		var s Stop
		if err := rows.Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude); err != nil {
			return nil, err
		}
		stops = append(stops, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stops, nil
}

// GetStop retrieves a stop by ID.
func (r *PostgresRepository) GetStop(ctx context.Context, id int64) (*Stop, error) {
	query := `
		SELECT id, name, latitude, longitude
		FROM transport_stop
		WHERE id = $1
	`

	var s Stop
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStopNotFound
		}
		return nil, err
	}

	return &s, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
