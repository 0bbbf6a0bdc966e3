package classifier

import "sync/atomic"

// Stats holds the classifier's atomic counters (spec.md §4.3). Every field
// is updated with atomic operations so readers never need a lock.
type Stats struct {
	queueSize atomic.Int64
	inFlight  atomic.Int64
	processed atomic.Int64
	cacheHits atomic.Int64
	aiQueries atomic.Int64
	dropped   atomic.Int64
	failures  atomic.Int64
}

// Snapshot is a point-in-time read of every counter.
type Snapshot struct {
	QueueSize int64
	InFlight  int64
	Processed int64
	CacheHits int64
	AIQueries int64
	Dropped   int64
	Failures  int64
	// CacheHitRate is cache_hits / processed, 0 when processed == 0
	// (spec.md §4.3).
	CacheHitRate float64
}

// Snapshot reads every counter at once.
func (s *Stats) Snapshot() Snapshot {
	processed := s.processed.Load()
	cacheHits := s.cacheHits.Load()

	var rate float64
	if processed > 0 {
		rate = float64(cacheHits) / float64(processed)
	}

	return Snapshot{
		QueueSize:    s.queueSize.Load(),
		InFlight:     s.inFlight.Load(),
		Processed:    processed,
		CacheHits:    cacheHits,
		AIQueries:    s.aiQueries.Load(),
		Dropped:      s.dropped.Load(),
		Failures:     s.failures.Load(),
		CacheHitRate: rate,
	}
}

// AsMap renders the snapshot as a string-keyed map, the shape that
// Pipeline.Statistics and CookieService.Statistics return.
func (s Snapshot) AsMap() map[string]any {
	return map[string]any{
		"queue_size":     s.QueueSize,
		"in_flight":      s.InFlight,
		"processed":      s.Processed,
		"cache_hits":     s.CacheHits,
		"ai_queries":     s.AIQueries,
		"dropped":        s.Dropped,
		"failures":       s.Failures,
		"cache_hit_rate": s.CacheHitRate,
	}
}
