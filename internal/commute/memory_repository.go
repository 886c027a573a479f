package commute

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
//
// Aggregations mirror the SQL semantics of PostgresRepository: buckets
// are keyed by UTC calendar day / Monday-start ISO week / calendar month,
// and the most-frequent-route tie-break follows insertion order.
type InMemoryRepository struct {
	mu        sync.RWMutex
	nextID    int64
	records   []*Record
	stopNames map[int64]string
}

// NewInMemoryRepository creates a new in-memory commute repository.
// stopNames maps stop IDs to names for most-frequent-route resolution.
func NewInMemoryRepository(stopNames map[int64]string) *InMemoryRepository {
	if stopNames == nil {
		stopNames = make(map[int64]string)
	}
	return &InMemoryRepository{
		nextID:    1,
		stopNames: stopNames,
	}
}

// Create appends a new commute record.
func (r *InMemoryRepository) Create(_ context.Context, record *Record) (WriteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *record
	cpy.ID = r.nextID
	r.nextID++
	r.records = append(r.records, &cpy)

	return WriteResult{InsertID: cpy.ID}, nil
}

// ListByUser retrieves all records for a user, newest first.
func (r *InMemoryRepository) ListByUser(_ context.Context, userID int64) ([]*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*Record
	for _, rec := range r.records {
		if rec.UserID == userID {
			cpy := *rec
			records = append(records, &cpy)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].DepartureTime.Equal(records[j].DepartureTime) {
			return records[i].DepartureTime.After(records[j].DepartureTime)
		}
		return records[i].ID > records[j].ID
	})

	return records, nil
}

// DeleteOne deletes a record by ID, scoped to the owning user.
func (r *InMemoryRepository) DeleteOne(_ context.Context, userID, recordID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, rec := range r.records {
		if rec.ID == recordID && rec.UserID == userID {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}

	return ErrRecordNotFound
}

// DeleteAll deletes all records for a user.
func (r *InMemoryRepository) DeleteAll(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.records[:0]
	for _, rec := range r.records {
		if rec.UserID != userID {
			kept = append(kept, rec)
		}
	}
	r.records = kept

	return nil
}

// Totals returns count, rounded mean duration, and summed duration.
func (r *InMemoryRepository) Totals(_ context.Context, userID int64) (*Totals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var t Totals
	for _, rec := range r.records {
		if rec.UserID == userID {
			t.TotalCommutes++
			t.TotalDuration += rec.DurationMinutes
		}
	}
	if t.TotalCommutes > 0 {
		t.AvgDuration = int(math.Round(float64(t.TotalDuration) / float64(t.TotalCommutes)))
	}

	return &t, nil
}

// MostFrequentRoute returns the most frequently logged stop pair.
func (r *InMemoryRepository) MostFrequentRoute(_ context.Context, userID int64) (*RouteFrequency, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type pair struct{ start, end int64 }
	counts := make(map[pair]int)
	var order []pair

	for _, rec := range r.records {
		if rec.UserID != userID {
			continue
		}
		p := pair{rec.StartStopID, rec.EndStopID}
		if _, seen := counts[p]; !seen {
			order = append(order, p)
		}
		counts[p]++
	}

	if len(order) == 0 {
		return &RouteFrequency{}, nil
	}

	// First-encountered pair wins ties, matching storage-order behavior.
	best := order[0]
	for _, p := range order[1:] {
		if counts[p] > counts[best] {
			best = p
		}
	}

	return &RouteFrequency{
		StartStop: r.stopNames[best.start],
		EndStop:   r.stopNames[best.end],
		Count:     counts[best],
	}, nil
}

// DailyBuckets groups records by calendar day.
func (r *InMemoryRepository) DailyBuckets(_ context.Context, userID int64, limit int) ([]Bucket, error) {
	return r.buckets(userID, limit, func(t time.Time) time.Time {
		return dateOf(t)
	}), nil
}

// WeeklyBuckets groups records by ISO week (Monday start).
func (r *InMemoryRepository) WeeklyBuckets(_ context.Context, userID int64, limit int) ([]Bucket, error) {
	return r.buckets(userID, limit, mondayOfWeek), nil
}

// MonthlyBuckets groups records by calendar month.
func (r *InMemoryRepository) MonthlyBuckets(_ context.Context, userID int64, limit int) ([]Bucket, error) {
	return r.buckets(userID, limit, func(t time.Time) time.Time {
		u := t.UTC()
		return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
	}), nil
}

// buckets groups a user's records by the given key function, newest
// first, capped at limit.
func (r *InMemoryRepository) buckets(userID int64, limit int, keyOf func(time.Time) time.Time) []Bucket {
	r.mu.RLock()
	defer r.mu.RUnlock()

	grouped := make(map[time.Time]*Bucket)
	for _, rec := range r.records {
		if rec.UserID != userID {
			continue
		}
		key := keyOf(rec.DepartureTime)
		b, ok := grouped[key]
		if !ok {
			b = &Bucket{Start: key}
			grouped[key] = b
		}
		b.Duration += rec.DurationMinutes
		b.Count++
	}

	buckets := make([]Bucket, 0, len(grouped))
	for _, b := range grouped {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Start.After(buckets[j].Start) })

	if len(buckets) > limit {
		buckets = buckets[:limit]
	}
	return buckets
}

// dateOf truncates a timestamp to its UTC calendar day.
func dateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// mondayOfWeek returns the Monday of the ISO week containing t.
func mondayOfWeek(t time.Time) time.Time {
	day := dateOf(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
