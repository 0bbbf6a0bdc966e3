// Package solver implements the intelligent minimal-cookie-set algorithm:
// given a captured request and its cookie set, it determines which cookies
// are actually required for the response to remain equivalent to the
// original, and which required cookies have OR-alternatives.
package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cookieprobe/cookieprobe/internal/hostapi"
	"github.com/cookieprobe/cookieprobe/internal/model"
	"github.com/cookieprobe/cookieprobe/internal/replayer"
	"github.com/cookieprobe/cookieprobe/pkg/logger"
)

// ErrBaselineFailed marks a failed unperturbed replay of the original
// request; it is fatal to one Analyze call. Analyze does not return it as
// an error: its text goes into each input cookie's Details entry of the
// Failed verdict.
var ErrBaselineFailed = errors.New("solver: baseline replay failed")

// Clock abstracts time.Sleep so tests can run the two named retries
// (individual double-check, smart-verify) without real delay.
type Clock interface {
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Options tunes the solver's optional behaviors; every field has a
// spec-compliant zero value.
type Options struct {
	// DoubleCheckSuspicious enables the Phase 2 false-positive guard
	// (re-replay a suspicious removal once after 500ms).
	DoubleCheckSuspicious bool
	Clock                 Clock
}

// Solver drives the 8-phase algorithm over one request/cookie-set pair.
type Solver struct {
	replayer replayer.Replayer
	opts     Options
}

// New builds a Solver around a Replayer.
func New(r replayer.Replayer, opts Options) *Solver {
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	return &Solver{replayer: r, opts: opts}
}

// Analyze runs the full algorithm synchronously and returns the verdict.
// Callers that want this off their own thread should launch it on a
// goroutine themselves; Analyze performs no internal retries beyond the
// two named in spec.md §4.2 and never panics out to the caller.
func (s *Solver) Analyze(ctx context.Context, req hostapi.Request, cookies model.CookieSet) *model.Verdict {
	run := &run{
		solver:  s,
		ctx:     ctx,
		req:     req,
		input:   cookies,
		verdict: model.NewVerdict(uuid.New()),
	}
	run.execute()
	return run.verdict
}

// run holds the mutable state threaded through one Analyze call's phases.
type run struct {
	solver *Solver
	ctx    context.Context
	req    hostapi.Request
	input  model.CookieSet

	verdict *model.Verdict

	baseline   model.Outcome
	optional0  model.CookieSet
	suspicious model.CookieSet
	working    model.CookieSet
	required0  model.CookieSet
}

func (r *run) execute() {
	if !r.phaseBaseline() {
		return
	}
	r.phaseIndividual()

	if len(r.suspicious) == 0 {
		r.working = model.CookieSet{}
		r.phaseConfirm(r.working)
		return
	}

	if r.phaseVerify() {
		r.working = r.suspicious
	} else {
		r.phaseSearch()
	}

	r.phaseMinimize()
	r.phaseSmartVerify()
	r.phaseAlternatives()
	r.phaseConfirm(r.required0)
}

// replay performs one replay, counting it toward requests_sent and
// recording it under the given label if non-empty.
func (r *run) replay(req hostapi.Request, label string) model.Outcome {
	outcome := r.solver.replayer.Replay(r.ctx, req)
	r.verdict.RequestsSent++
	if label != "" {
		r.verdict.Replays[label] = model.ReplayRecord{
			Label:   label,
			Request: req.Render(),
			Outcome: outcome,
		}
	}
	return outcome
}

// withCookies is a small convenience wrapper over the Replayer's pure
// transform, reused by every phase below.
func (r *run) withCookies(cookies model.CookieSet) hostapi.Request {
	return r.solver.replayer.WithCookies(r.req, cookies)
}

// Phase 1: Baseline.
func (r *run) phaseBaseline() bool {
	outcome := r.replay(r.req, "BASELINE")
	if outcome.Failed || outcome.Status == 0 {
		r.failAnalysis(fmt.Errorf("%w: %s", ErrBaselineFailed, outcome.FailedReason))
		return false
	}
	r.baseline = outcome
	r.verdict.BaselineOK = true
	r.verdict.Baseline = outcome
	return true
}

func (r *run) failAnalysis(err error) {
	logger.Error("solver: baseline failed", "error", err)
	r.verdict.Failed = true
	for _, c := range r.input {
		r.verdict.Details[c.ID()] = "Unknown: " + err.Error()
	}
	r.verdict.Optional = model.CookieSet{}
	r.verdict.Required = model.CookieSet{}
}

// Phase 2: Individual. For each cookie, replay with it removed and
// partition into optional0 (no disturbance) vs suspicious (disturbance, or
// a replay failure).
func (r *run) phaseIndividual() {
	for _, c := range r.input {
		without := r.input.Without(c)
		outcome := r.replay(r.withCookies(without), "WITHOUT:"+c.Name)

		suspicious := !outcome.Equivalent(r.baseline)
		if suspicious && r.solver.opts.DoubleCheckSuspicious {
			r.solver.opts.Clock.Sleep(500 * time.Millisecond)
			recheck := r.replay(r.withCookies(without), "")
			if recheck.Equivalent(r.baseline) {
				suspicious = false
			}
		}

		if suspicious {
			r.suspicious = r.suspicious.With(c)
			r.verdict.Details[c.ID()] = "suspicious: removal changed the response"
		} else {
			r.optional0 = r.optional0.With(c)
			r.verdict.Details[c.ID()] = "not required: removal did not change the response"
		}
	}
}

// Phase 3: Verify suspicious-only.
func (r *run) phaseVerify() bool {
	outcome := r.replay(r.withCookies(r.suspicious), "SUSPICIOUS-ONLY")
	return outcome.Equivalent(r.baseline)
}

// Phase 4: Search. Binary-search over prefixes of optional0, enlarging the
// working set until one equivalent to baseline is found.
func (r *run) phaseSearch() {
	lo, hi := 0, len(r.optional0)
	found := false

	for lo < hi {
		mid := (lo + hi) / 2
		candidate := r.suspicious.Union(r.optional0.Prefix(mid + 1))
		outcome := r.replay(r.withCookies(candidate), "")
		if outcome.Equivalent(r.baseline) {
			hi = mid
			found = true
		} else {
			lo = mid + 1
		}
	}

	if found {
		r.working = r.suspicious.Union(r.optional0.Prefix(hi + 1))
		return
	}

	// No prefix of optional0 on top of suspicious satisfies equivalence;
	// fall back to the full input set, which is guaranteed safe because
	// the baseline itself was captured with it.
	r.working = r.input
}

// Phase 5: Minimize. Single greedy pass in input order.
func (r *run) phaseMinimize() {
	working := r.working
	if len(working) <= 1 {
		r.required0 = working
		return
	}

	for _, c := range working {
		if len(working) == 1 {
			break
		}
		candidate := working.Without(c)
		outcome := r.replay(r.withCookies(candidate), "")
		if outcome.Equivalent(r.baseline) {
			working = candidate
		}
	}
	r.required0 = working
}

// Phase 6: SmartVerify.
func (r *run) phaseSmartVerify() {
	outcome := r.replay(r.withCookies(r.required0), "SMART-VERIFY")
	if outcome.Equivalent(r.baseline) {
		return
	}

	r.solver.opts.Clock.Sleep(1 * time.Second)
	retry := r.replay(r.withCookies(r.required0), "SMART-VERIFY-RETRY")
	if !retry.Equivalent(r.baseline) {
		r.verdict.Unreliable("minimal-set re-check did not match baseline after retry")
	}
}

// Phase 7: Alternatives. For each required cookie, probe every suspicious
// non-required candidate as a substitute.
func (r *run) phaseAlternatives() {
	candidates := r.suspicious
	for _, c := range candidates {
		if r.required0.Contains(c) {
			continue
		}
		for _, req := range r.required0 {
			trial := r.required0.Without(req).With(c)
			outcome := r.replay(r.withCookies(trial), fmt.Sprintf("ALT:%s->%s", req.Name, c.Name))
			if outcome.Equivalent(r.baseline) {
				r.verdict.Alternatives[req.ID()] = r.verdict.Alternatives[req.ID()].With(c)
			}
		}
	}
}

// Phase 8: Confirm.
func (r *run) phaseConfirm(required model.CookieSet) {
	outcome := r.replay(r.withCookies(required), "MINIMAL SET")
	if outcome.Equivalent(r.baseline) {
		r.verdict.Details[0] = appendDetail(r.verdict.Details[0], "confirm: minimal set matches baseline")
	} else {
		r.verdict.Details[0] = appendDetail(r.verdict.Details[0], "confirm: minimal set mismatch on re-check")
	}

	r.verdict.Required = required
	optional := make(model.CookieSet, 0, len(r.input))
	for _, c := range r.input {
		if !required.Contains(c) {
			optional = append(optional, c)
		}
	}
	r.verdict.Optional = optional
}

func appendDetail(existing, addition string) string {
	if existing == "" {
		return addition
	}
	return existing + "; " + addition
}
