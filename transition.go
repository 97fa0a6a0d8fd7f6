package tinyfsm

// Transition defines a state change rule owned by its source state
type Transition struct {
	Event  EventID // Triggering event
	Target StateID // Destination state, resolved when fired
	Action Hook    // Optional: runs before the exit and entry handlers
}

// TransitionOption is a functional option for configuring a Transition
type TransitionOption func(*Transition)

// WithAction sets an action to execute during the transition
func WithAction(fn Hook) TransitionOption {
	return func(t *Transition) {
		t.Action = fn
	}
}
