// Package trace is the optional diagnostic channel §7 of
// SPEC_FULL.md allows implementations to surface: a record of the
// best-effort decisions the core makes when it hits one of the three
// recorded error kinds (degenerate BNP, bridge mismatch, pole
// conflict) without raising a Go error across the core boundary. A nil
// *Recorder is always valid and simply discards events.
package trace

import "fmt"

// Kind identifies which §7 condition an Event records.
type Kind int

const (
	BNPDegenerate Kind = iota
	BridgeMismatch
	PoleConflict
)

func (k Kind) String() string {
	switch k {
	case BNPDegenerate:
		return "bnp-degenerate"
	case BridgeMismatch:
		return "bridge-mismatch"
	case PoleConflict:
		return "pole-conflict"
	default:
		return "unknown"
	}
}

// Event is a single diagnostic record.
type Event struct {
	Kind    Kind
	Message string
}

func (e Event) String() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Recorder accumulates Events during one conversion. Safe to pass nil
// anywhere a *Recorder is accepted.
type Recorder struct {
	Events []Event
}

// New returns an empty Recorder.
func New() *Recorder { return &Recorder{} }

// Record appends an event. No-op on a nil Recorder, so every call site
// in the core can unconditionally write r.Record(...) without a nil
// check.
func (r *Recorder) Record(k Kind, format string, args ...any) {
	if r == nil {
		return
	}
	r.Events = append(r.Events, Event{Kind: k, Message: fmt.Sprintf(format, args...)})
}
