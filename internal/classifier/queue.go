package classifier

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/cookieprobe/cookieprobe/internal/model"
)

// MaxQueueDepth is the bounded FIFO's maximum depth (spec.md §4.3).
const MaxQueueDepth = 1000

// dequeuePollInterval bounds how long a worker blocks in Dequeue, so
// shutdown can interrupt it cleanly (spec.md §4.3: "1-second poll timeout
// to allow clean shutdown").
const dequeuePollInterval = time.Second

// Queue is the classifier's bounded FIFO plus its in-flight identity set.
// Submit and Release are the only mutators; a sync.Map backs the in-flight
// set so readers never block writers, and a singleflight.Group coalesces
// concurrent Submit calls racing on the same task identity into one
// enqueue attempt, so two callers can never both enqueue the same identity;
// only the caller whose attempt enqueued the task sees true.
type Queue struct {
	tasks    chan model.Task
	inFlight sync.Map // identity (string) -> struct{}
	group    singleflight.Group
	stats    *Stats
}

// NewQueue builds a Queue with the given depth (spec.md's MaxQueueDepth in
// production, smaller in tests).
func NewQueue(depth int, stats *Stats) *Queue {
	if depth <= 0 {
		depth = MaxQueueDepth
	}
	return &Queue{tasks: make(chan model.Task, depth), stats: stats}
}

// Submit implements spec.md §4.3's dedup-then-enqueue contract:
//  1. If identity(t) is already queued or in-flight, return without error
//     (dedup).
//  2. Attempt to enqueue t. On success, mark its identity in-flight. On
//     overflow, drop it silently (logged by the caller, not here).
//
// It returns true iff t was newly enqueued by this call.
func (q *Queue) Submit(t model.Task) bool {
	identity := t.Identity()

	// Coalesced callers share the closure's result, so the outcome for this
	// call is tracked locally: only the closure run by this call sets it.
	enqueued := false
	_, _, _ = q.group.Do(identity, func() (interface{}, error) {
		if _, alreadyInFlight := q.inFlight.Load(identity); alreadyInFlight {
			return false, nil
		}

		select {
		case q.tasks <- t:
			q.inFlight.Store(identity, struct{}{})
			if q.stats != nil {
				q.stats.queueSize.Add(1)
			}
			enqueued = true
			return true, nil
		default:
			return false, nil
		}
	})

	return enqueued
}

// Dequeue blocks for up to one second waiting for a task, returning
// (zero, false) on timeout so a worker can check its stop flag. ctx
// cancellation also returns (zero, false) immediately.
func (q *Queue) Dequeue(ctx context.Context) (model.Task, bool) {
	select {
	case t := <-q.tasks:
		if q.stats != nil {
			q.stats.queueSize.Add(-1)
		}
		return t, true
	case <-time.After(dequeuePollInterval):
		return model.Task{}, false
	case <-ctx.Done():
		return model.Task{}, false
	}
}

// Release removes an identity from the in-flight set once its task has
// finished processing (cache hit, LM call and persist, or an error that
// ends the task without retry).
func (q *Queue) Release(identity string) {
	q.inFlight.Delete(identity)
}

// InFlightLen reports how many identities are currently queued or
// in-flight, for invariant checks and stats.
func (q *Queue) InFlightLen() int {
	n := 0
	q.inFlight.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}

// Len reports the number of tasks currently buffered in the channel
// (distinct from InFlightLen, which also counts dequeued-but-not-yet-done
// tasks).
func (q *Queue) Len() int {
	return len(q.tasks)
}
