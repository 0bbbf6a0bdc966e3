package classifier

import (
	"context"
	"sync"
	"time"

	"github.com/cookieprobe/cookieprobe/internal/model"
	"github.com/cookieprobe/cookieprobe/pkg/logger"
)

// shutdownGrace bounds how long Stop waits for in-flight workers before
// giving up (spec.md §5: "Shutdown waits ≤5 seconds, then
// force-terminates").
const shutdownGrace = 5 * time.Second

// Pool is the classifier's fixed-size worker pool, grounded on the
// teacher's scheduler.Scheduler sync.WaitGroup + stopCh shutdown idiom,
// generalized from one ticking goroutine to N dequeue loops.
type Pool struct {
	queue   *Queue
	store   Store
	limiter *RateLimiter
	stats   *Stats

	n int

	wg      sync.WaitGroup
	stopCh  chan struct{}
	stopped bool
	mu      sync.Mutex
}

// NewPool builds a Pool of n workers (clamped to [1, 10] by the caller's
// config.ClassifierConfig), driving Queue dequeues against store and
// provider.
func NewPool(n int, queue *Queue, store Store, limiter *RateLimiter, stats *Stats) *Pool {
	return &Pool{
		n:       n,
		queue:   queue,
		store:   store,
		limiter: limiter,
		stats:   stats,
		stopCh:  make(chan struct{}),
	}
}

// Start launches n worker goroutines, each looping dequeue -> classify
// until Stop is called.
func (p *Pool) Start(provider Provider) {
	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go p.loop(provider)
	}
	logger.Info("classifier: worker pool started", "workers", p.n)
}

func (p *Pool) loop(provider Provider) {
	defer p.wg.Done()
	ctx := context.Background()

	for {
		select {
		case <-p.stopCh:
			return
		default:
		}

		task, ok := p.queue.Dequeue(ctx)
		if !ok {
			continue
		}
		p.process(ctx, provider, task)
	}
}

func (p *Pool) process(ctx context.Context, provider Provider, task model.Task) {
	p.stats.inFlight.Add(1)
	defer p.stats.inFlight.Add(-1)
	defer p.queue.Release(task.Identity())

	if !task.ForceRefresh {
		d, err := p.store.Resolve(ctx, task.CookieName)
		if err != nil {
			logger.Error("classifier: store lookup failed", "cookie", task.CookieName, "error", err)
		} else if d != nil {
			p.stats.cacheHits.Add(1)
			p.stats.processed.Add(1)
			logger.Debug("classifier: cache hit", "cookie", task.CookieName)
			return
		}
	}

	if err := p.limiter.Wait(ctx); err != nil {
		logger.Info("classifier: rate limiter wait interrupted", "cookie", task.CookieName, "error", err)
		return
	}

	select {
	case <-p.stopCh:
		return
	default:
	}

	d, raw, err := provider.Classify(ctx, task.CookieName, task.Domain)
	if err != nil {
		logger.Error("classifier: LM call failed", "cookie", task.CookieName, "error", err)
		p.stats.failures.Add(1)
		p.stats.processed.Add(1)
		return
	}

	if err := p.store.CacheStore(ctx, task.CookieName, task.Domain, raw); err != nil {
		logger.Error("classifier: cache store failed", "cookie", task.CookieName, "error", err)
	}

	if _, err := p.store.UpsertDescriptor(ctx, d); err != nil {
		logger.Error("classifier: persist descriptor failed", "cookie", task.CookieName, "error", err)
		p.stats.failures.Add(1)
		p.stats.processed.Add(1)
		return
	}

	p.stats.aiQueries.Add(1)
	p.stats.processed.Add(1)
}

// Stop requests every worker to finish its current task and exit, waiting
// up to shutdownGrace before giving up.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.stopCh)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("classifier: worker pool stopped")
	case <-time.After(shutdownGrace):
		logger.Warn("classifier: worker pool shutdown grace period elapsed, force-terminating")
	}
}
