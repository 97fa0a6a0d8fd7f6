package tinyfsm

import (
	"errors"
	"fmt"
)

// Definition is the declarative description of a machine.
//
// States are kept in declaration order. State names are expected to be
// unique; when they are not, lookups resolve to the first state with the
// name. Nothing is checked until Validate is called explicitly.
type Definition struct {
	InitialState StateID
	States       []State
}

// NewDefinition creates a new FSM definition builder
func NewDefinition() *Definition {
	return &Definition{
		States: make([]State, 0),
	}
}

// State adds a state to the definition. Declaring a state that so far only
// exists because Transition referenced it fills in that placeholder.
func (d *Definition) State(id StateID, opts ...StateOption) *Definition {
	if p := d.findState(id); p != nil && p.implicit {
		p.implicit = false
		for _, opt := range opts {
			opt(p)
		}
		return d
	}

	s := State{
		Name: id,
	}
	for _, opt := range opts {
		opt(&s)
	}
	d.States = append(d.States, s)
	return d
}

// Transition adds a transition rule to the first state named from.
// If no such state has been declared yet, an empty one is appended.
func (d *Definition) Transition(from StateID, event EventID, to StateID, opts ...TransitionOption) *Definition {
	t := Transition{
		Event:  event,
		Target: to,
	}
	for _, opt := range opts {
		opt(&t)
	}

	s := d.findState(from)
	if s == nil {
		d.States = append(d.States, State{Name: from, implicit: true})
		s = &d.States[len(d.States)-1]
	}
	s.Transitions = append(s.Transitions, t)
	return d
}

// Initial sets the initial state
func (d *Definition) Initial(id StateID) *Definition {
	d.InitialState = id
	return d
}

// findState returns the first state named id, or nil
func (d *Definition) findState(id StateID) *State {
	for i := range d.States {
		if d.States[i].Name == id {
			return &d.States[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the definition. Hook functions are shared.
func (d *Definition) Clone() *Definition {
	c := &Definition{
		InitialState: d.InitialState,
		States:       make([]State, len(d.States)),
	}
	for i, s := range d.States {
		c.States[i] = s.clone()
	}
	return c
}

// Validate checks the definition for errors. All problems found are
// returned joined together.
//
// The machine never calls Validate itself: an invalid definition still
// runs, and the affected transitions are rejected when fired.
func (d *Definition) Validate() error {
	var errs []error

	if d.InitialState == "" {
		errs = append(errs, fmt.Errorf("no initial state defined"))
	} else if d.findState(d.InitialState) == nil {
		errs = append(errs, fmt.Errorf("initial state %q not defined", d.InitialState))
	}

	seen := make(map[StateID]bool, len(d.States))
	for _, s := range d.States {
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("state with empty name"))
			continue
		}
		if seen[s.Name] {
			errs = append(errs, fmt.Errorf("state %q defined more than once", s.Name))
			continue
		}
		seen[s.Name] = true
	}

	for _, s := range d.States {
		events := make(map[EventID]bool, len(s.Transitions))
		for _, t := range s.Transitions {
			if events[t.Event] {
				errs = append(errs, fmt.Errorf("state %q handles event %q more than once", s.Name, t.Event))
			}
			events[t.Event] = true

			if d.findState(t.Target) == nil {
				errs = append(errs, fmt.Errorf("transition %q from %q to undefined state %q", t.Event, s.Name, t.Target))
			}
		}
	}

	return errors.Join(errs...)
}

// Build validates the definition and creates a Machine from it
func (d *Definition) Build(opts ...MachineOption) (*Machine, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid definition: %w", err)
	}
	return New(d, opts...), nil
}
