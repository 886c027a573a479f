package transport

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the transport service.
type ServiceConfig struct {
	Repository Repository
	Logger     zerolog.Logger
	CacheTTL   time.Duration // How long to cache the stop list in memory
}

// Service provides transit stop lookups with a read-through cache.
// The stop list is immutable reference data, so a short TTL cache keeps
// the hot path off the database without any invalidation protocol.
type Service struct {
	repo     Repository
	logger   zerolog.Logger
	cacheTTL time.Duration
	cache    *stopCache
	metrics  *cacheMetrics
}

// NewService creates a new transport service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute // Matches the client-side cache window
	}

	return &Service{
		repo:     cfg.Repository,
		logger:   cfg.Logger,
		cacheTTL: cacheTTL,
		cache:    newStopCache(cacheTTL),
		metrics:  newCacheMetrics(),
	}
}

// ListStops retrieves all transit stops, served from cache when fresh.
func (s *Service) ListStops(ctx context.Context) ([]Stop, error) {
	if stops, fresh := s.cache.get(); fresh {
		s.metrics.recordHit(ctx)
		return stops, nil
	}
	s.metrics.recordMiss(ctx)

	stops, err := s.repo.ListStops(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list transport stops")
		return nil, err
	}

	s.cache.put(stops)
	return stops, nil
}

// GetStop retrieves a stop by ID. The cached list is consulted first;
// a cache miss falls through to the repository.
func (s *Service) GetStop(ctx context.Context, id int64) (*Stop, error) {
	if stops, fresh := s.cache.get(); fresh {
		for i := range stops {
			if stops[i].ID == id {
				cpy := stops[i]
				return &cpy, nil
			}
		}
		return nil, ErrStopNotFound
	}

	return s.repo.GetStop(ctx, id)
}

// InvalidateCache clears the cached stop list, forcing a refresh on next access.
func (s *Service) InvalidateCache() {
	s.cache.invalidate()
}

// stopCache is a single-entry TTL cache for the stop list.
type stopCache struct {
	ttl time.Duration

	mu      sync.RWMutex
	stops   []Stop
	expires time.Time
}

func newStopCache(ttl time.Duration) *stopCache {
	return &stopCache{ttl: ttl}
}

// get returns the cached stop list and whether it is still fresh.
func (c *stopCache) get() ([]Stop, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.stops == nil || time.Now().After(c.expires) {
		return nil, false
	}
	return c.stops, true
}

// put stores the stop list and resets the freshness window.
func (c *stopCache) put(stops []Stop) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stops = stops
	c.expires = time.Now().Add(c.ttl)
}

func (c *stopCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stops = nil
	c.expires = time.Time{}
}
