package classifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/cookieprobe/cookieprobe/internal/config"
	"github.com/cookieprobe/cookieprobe/internal/hostapi"
	"github.com/cookieprobe/cookieprobe/internal/model"
	"github.com/cookieprobe/cookieprobe/pkg/logger"
)

// ErrQueueOverflow names a full bounded FIFO. No Pipeline method returns
// it: Submit reports an overflow by returning false, and GetCookieInfo
// does not go through the queue.
var ErrQueueOverflow = errors.New("classifier: queue overflow")

// ErrStoreFailure wraps a Store error that the pipeline cannot recover
// from inline.
var ErrStoreFailure = errors.New("classifier: store failure")

// ErrShutdown names a pipeline that has been stopped. No Pipeline method
// returns it; operations invoked after Stop are not refused.
var ErrShutdown = errors.New("classifier: pipeline is shut down")

// Pipeline wires Queue, Pool, Store, Provider, AutoProcessor, and Stats
// into a single cohesive unit exposed as one facade, composing a
// persistence layer, an upstream classification client, and a worker
// pool the same way.
type Pipeline struct {
	queue    *Queue
	pool     *Pool
	store    Store
	provider Provider
	auto     *AutoProcessor
	stats    *Stats
	started  bool
	stopped  bool
}

// NewPipeline builds a Pipeline from an already-constructed Store and
// Provider; the queue, rate limiter (from cfg.QueriesPerMin), worker pool
// and auto-processor are built here from cfg. NewPipeline itself performs
// no I/O. Configuration is
// snapshotted here per spec.md §5 ("changes require reconfiguration or
// restart of the pipeline").
func NewPipeline(cfg config.ClassifierConfig, store Store, provider Provider, scope hostapi.ScopeChecker) *Pipeline {
	stats := &Stats{}
	queue := NewQueue(MaxQueueDepth, stats)
	limiter := NewRateLimiter(cfg.QueriesPerMin)
	pool := NewPool(cfg.WorkerThreads, queue, store, limiter, stats)
	auto := NewAutoProcessor(queue.Submit, scope, cfg.DomainFilter)

	return &Pipeline{queue: queue, pool: pool, store: store, provider: provider, auto: auto, stats: stats}
}

// Start launches the worker pool. It is a no-op if already started.
func (p *Pipeline) Start() {
	if p.started {
		return
	}
	p.started = true
	p.pool.Start(p.provider)
	logger.Info("classifier: pipeline started")
}

// Stop shuts the worker pool down, waiting up to the pool's shutdown grace
// period. It is idempotent.
func (p *Pipeline) Stop() {
	if p.stopped {
		return
	}
	p.stopped = true
	p.pool.Stop()
	logger.Info("classifier: pipeline stopped")
}

// Submit enqueues an Auto-priority classification task without blocking,
// used by hosts that want to drive the queue directly instead of through
// AutoProcessor's callbacks.
func (p *Pipeline) Submit(name, domain string) bool {
	return p.queue.Submit(model.Task{CookieName: name, Domain: domain, Priority: model.PriorityAuto})
}

// AutoProcessor exposes the pipeline's passive-hook handler, so a host can
// register OnRequestSent/OnResponseReceived against its own callback
// plumbing.
func (p *Pipeline) AutoProcessor() *AutoProcessor { return p.auto }

// ReplayHistory runs the manual bulk operation against h, forwarding newly
// enqueued tasks through the pipeline's own Queue.
func (p *Pipeline) ReplayHistory(ctx context.Context, h hostapi.HistoryProvider, forceRefresh bool) (int, error) {
	entries, err := h.History(ctx)
	if err != nil {
		return 0, fmt.Errorf("classifier: read history: %w", err)
	}
	return ReplayHistory(entries, p.queue.Submit, forceRefresh), nil
}

// GetCookieInfoCached implements spec.md §6's get_cookie_info_cached:
// cache-only, never blocks on the LM. Returns (nil, nil) on a clean miss.
func (p *Pipeline) GetCookieInfoCached(ctx context.Context, name, domain string) (*model.Descriptor, error) {
	d, err := p.store.Resolve(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	return d, nil
}

// GetCookieInfo implements spec.md §6's get_cookie_info: cache-first, LM
// on miss, blocking. Unlike the passive path, a miss does not go through
// the queue, the worker pool or the rate limiter: the provider is called
// directly on the caller's goroutine and its result is cached and
// persisted before returning.
func (p *Pipeline) GetCookieInfo(ctx context.Context, name, domain string) (model.Descriptor, error) {
	if d, err := p.store.Resolve(ctx, name); err != nil {
		return model.Descriptor{}, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	} else if d != nil {
		p.stats.cacheHits.Add(1)
		p.stats.processed.Add(1)
		return *d, nil
	}

	d, raw, err := p.provider.Classify(ctx, name, domain)
	if err != nil {
		p.stats.failures.Add(1)
		p.stats.processed.Add(1)
		return model.Descriptor{}, &ErrLMUnavailable{Cause: err}
	}

	if err := p.store.CacheStore(ctx, name, domain, raw); err != nil {
		logger.Error("classifier: cache store failed", "cookie", name, "error", err)
	}

	stored, err := p.store.UpsertDescriptor(ctx, d)
	if err != nil {
		p.stats.failures.Add(1)
		p.stats.processed.Add(1)
		return model.Descriptor{}, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	p.stats.aiQueries.Add(1)
	p.stats.processed.Add(1)
	return stored, nil
}

// UpsertCookieInfo implements spec.md §6's upsert_cookie_info, marking the
// resulting row as manually sourced.
func (p *Pipeline) UpsertCookieInfo(ctx context.Context, d model.Descriptor) (model.Descriptor, error) {
	d.Source = model.SourceManual
	stored, err := p.store.UpsertDescriptor(ctx, d)
	if err != nil {
		return model.Descriptor{}, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	return stored, nil
}

// DeleteCookieInfo implements spec.md §6's delete_cookie_info.
func (p *Pipeline) DeleteCookieInfo(ctx context.Context, name string) error {
	if err := p.store.DeleteByName(ctx, name); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	return nil
}

// ListAll implements spec.md §6's list_all.
func (p *Pipeline) ListAll(ctx context.Context) ([]model.Descriptor, error) {
	all, err := p.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	return all, nil
}

// Statistics implements spec.md §6's statistics, merging the pipeline's
// atomic counters with the Store's count-and-group aggregates.
func (p *Pipeline) Statistics(ctx context.Context) (map[string]any, error) {
	out := p.stats.Snapshot().AsMap()

	storeStats, err := p.store.Statistics(ctx)
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	out["total_cookies"] = storeStats.TotalCookies
	out["by_category"] = storeStats.ByCategory
	out["by_privacy"] = storeStats.ByPrivacy
	return out, nil
}
