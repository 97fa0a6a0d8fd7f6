package tinyfsm

// State defines a state in the machine
type State struct {
	Name StateID

	OnEnter Hook
	OnExit  Hook

	// Outgoing edges, matched by event in declaration order
	Transitions []Transition

	implicit bool // created by Definition.Transition before being declared
}

// StateOption is a functional option for configuring a State
type StateOption func(*State)

// WithOnEnter sets the entry action for the state
func WithOnEnter(fn Hook) StateOption {
	return func(s *State) {
		s.OnEnter = fn
	}
}

// WithOnExit sets the exit action for the state
func WithOnExit(fn Hook) StateOption {
	return func(s *State) {
		s.OnExit = fn
	}
}

// findTransition returns the first transition of s triggered by event.
func (s *State) findTransition(event EventID) *Transition {
	for i := range s.Transitions {
		if s.Transitions[i].Event == event {
			return &s.Transitions[i]
		}
	}
	return nil
}

func (s State) clone() State {
	c := s
	if s.Transitions != nil {
		c.Transitions = make([]Transition, len(s.Transitions))
		copy(c.Transitions, s.Transitions)
	}
	return c
}
