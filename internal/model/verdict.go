package model

import "github.com/google/uuid"

// ReplayRecord captures one request/outcome pair taken during an analyze
// run, keyed by a stable label ("BASELINE", "WITHOUT:<name>", "MINIMAL SET",
// ...) for UI playback.
type ReplayRecord struct {
	Label   string
	Request string // rendered request, detached from the live Request template
	Outcome Outcome
}

// Verdict is the solver's final report for one analyze call.
type Verdict struct {
	// RunID correlates this verdict with its persisted keys and with the
	// Replays map across host UI sessions.
	RunID uuid.UUID

	Required CookieSet
	Optional CookieSet

	// Alternatives maps a required cookie's identity to the ordered set of
	// cookies that can substitute for it.
	Alternatives map[int]CookieSet

	// Details holds a human-readable rationale per cookie identity, plus
	// whole-run notes (e.g. "unreliable") under identity 0.
	Details map[int]string

	RequestsSent int
	BaselineOK   bool
	Baseline     Outcome

	Replays map[string]ReplayRecord

	// Failed marks a terminal FailedAnalysis verdict (baseline unreachable).
	Failed bool

	// unreliable is set only by Unreliable, independent of whatever
	// free-form notes accumulate under Details[0].
	unreliable bool
}

// NewVerdict returns an empty verdict with its maps initialized, ready to be
// filled in by the solver's phases.
func NewVerdict(runID uuid.UUID) *Verdict {
	return &Verdict{
		RunID:        runID,
		Alternatives: make(map[int]CookieSet),
		Details:      make(map[int]string),
		Replays:      make(map[string]ReplayRecord),
	}
}

// Unreliable marks the verdict as unreliable per the SmartVerify fallback,
// without altering the required/optional sets already computed.
func (v *Verdict) Unreliable(note string) {
	v.unreliable = true
	if existing, ok := v.Details[0]; ok && existing != "" {
		v.Details[0] = existing + "; Unreliable: " + note
	} else {
		v.Details[0] = "Unreliable: " + note
	}
}

// IsUnreliable reports whether SmartVerify flagged this run.
func (v *Verdict) IsUnreliable() bool {
	return v.unreliable
}
