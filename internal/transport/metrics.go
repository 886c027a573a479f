package transport

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/transitlog/transitlog/internal/transport"

// cacheMetrics counts stop cache hits and misses.
type cacheMetrics struct {
	hits   metric.Int64Counter
	misses metric.Int64Counter
}

func newCacheMetrics() *cacheMetrics {
	meter := otel.Meter(meterName)

	// Instrument creation only fails on malformed names; fall back to
	// no-op instruments rather than failing service construction.
	hits, err := meter.Int64Counter(
		"stops.cache.hit",
		metric.WithDescription("Number of stop list cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil
	}

	misses, err := meter.Int64Counter(
		"stops.cache.miss",
		metric.WithDescription("Number of stop list cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil
	}

	return &cacheMetrics{hits: hits, misses: misses}
}

func (m *cacheMetrics) recordHit(ctx context.Context) {
	if m != nil {
		m.hits.Add(ctx, 1)
	}
}

func (m *cacheMetrics) recordMiss(ctx context.Context) {
	if m != nil {
		m.misses.Add(ctx, 1)
	}
}
