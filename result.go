package tinyfsm

import (
	"errors"
	"fmt"
)

// Outcome classifies what a call to Fire did
type Outcome int

const (
	// OutcomeApplied - the transition ran and the current state changed
	OutcomeApplied Outcome = iota
	// OutcomeMisconfigured - the current state names no state in the definition
	OutcomeMisconfigured
	// OutcomeUnhandledEvent - the current state has no transition for the event
	OutcomeUnhandledEvent
	// OutcomeUnresolvedTarget - the matched transition points at an unknown state
	OutcomeUnresolvedTarget
	// OutcomeReentrant - called from a hook while another transition was running
	OutcomeReentrant
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeMisconfigured:
		return "misconfigured"
	case OutcomeUnhandledEvent:
		return "unhandled_event"
	case OutcomeUnresolvedTarget:
		return "unresolved_target"
	case OutcomeReentrant:
		return "reentrant"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

var (
	// ErrMachineMisconfigured is reported when the current state is not defined
	ErrMachineMisconfigured = errors.New("machine not defined properly")
	// ErrUnhandledEvent is reported when the current state has no transition for an event
	ErrUnhandledEvent = errors.New("event not defined for this state")
	// ErrUnresolvedTarget is reported when a transition's target state is not defined
	ErrUnresolvedTarget = errors.New("destination state not defined")
	// ErrTransitionInProgress is reported when a hook fires an event on its own machine
	ErrTransitionInProgress = errors.New("transition already in progress")
)

// Err returns the sentinel error for the outcome, nil for OutcomeApplied
func (o Outcome) Err() error {
	switch o {
	case OutcomeApplied:
		return nil
	case OutcomeMisconfigured:
		return ErrMachineMisconfigured
	case OutcomeUnhandledEvent:
		return ErrUnhandledEvent
	case OutcomeUnresolvedTarget:
		return ErrUnresolvedTarget
	case OutcomeReentrant:
		return ErrTransitionInProgress
	default:
		return fmt.Errorf("unknown outcome %d", int(o))
	}
}

// Result describes a single Fire call.
// From is the state the machine was in when the event arrived. To is the
// transition target when one was matched, even if it could not be resolved.
type Result struct {
	Outcome Outcome
	Event   EventID
	From    StateID
	To      StateID
}

// OK reports whether the transition was applied
func (r Result) OK() bool {
	return r.Outcome == OutcomeApplied
}

// Err returns nil for an applied transition, otherwise an error wrapping
// one of the package sentinels.
func (r Result) Err() error {
	err := r.Outcome.Err()
	if err == nil {
		return nil
	}
	switch r.Outcome {
	case OutcomeUnresolvedTarget:
		return fmt.Errorf("%w: state %q event %q target %q", err, r.From, r.Event, r.To)
	default:
		return fmt.Errorf("%w: state %q event %q", err, r.From, r.Event)
	}
}

// Observer is notified after every Fire call, applied or not
type Observer interface {
	Observe(r Result)
}

// ObserverFunc adapts a function to the Observer interface
type ObserverFunc func(r Result)

// Observe calls f(r)
func (f ObserverFunc) Observe(r Result) {
	f(r)
}
