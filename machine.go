package tinyfsm

import (
	"log/slog"
)

// Machine is the runtime FSM instance.
//
// A Machine is not safe for concurrent use. All calls, including those made
// from hooks, happen on the caller's goroutine; Fire does not return until
// every hook has returned.
type Machine struct {
	definition   *Definition
	currentState StateID

	// set while hooks of a transition are running
	inTransition bool

	data                any
	logger              *slog.Logger
	stateChangeCallback func(from, to StateID)
	observers           []Observer
}

// MachineOption is a functional option for configuring a Machine
type MachineOption func(*Machine)

// WithLogger sets the logger for the machine
func WithLogger(logger *slog.Logger) MachineOption {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithData sets the application data accessible via Context
func WithData(data any) MachineOption {
	return func(m *Machine) {
		m.data = data
	}
}

// WithStateChangeCallback sets a callback invoked after each state change
func WithStateChangeCallback(fn func(from, to StateID)) MachineOption {
	return func(m *Machine) {
		m.stateChangeCallback = fn
	}
}

// WithObserver registers an observer notified of every Fire result.
// May be given more than once; observers run in registration order.
func WithObserver(o Observer) MachineOption {
	return func(m *Machine) {
		m.observers = append(m.observers, o)
	}
}

// New creates a machine from a definition, starting in its initial state.
//
// The definition is copied, so later changes to def do not affect the
// machine. No validation is done: a machine whose initial state is not
// defined rejects every event and stays where it is.
func New(def *Definition, opts ...MachineOption) *Machine {
	if def == nil {
		def = NewDefinition()
	}

	m := &Machine{
		definition:   def.Clone(),
		currentState: def.InitialState,
		logger:       Logger,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// OnStateChange sets a callback invoked after each state change.
func (m *Machine) OnStateChange(fn func(from, to StateID)) {
	m.stateChangeCallback = fn
}

// CurrentState returns the current state
func (m *Machine) CurrentState() StateID {
	return m.currentState
}

// InTransition reports whether a transition's hooks are currently running
func (m *Machine) InTransition() bool {
	return m.inTransition
}

// Definition returns a copy of the definition the machine runs
func (m *Machine) Definition() Definition {
	return *m.definition.Clone()
}

// Transition fires event and returns the new current state.
// The boolean is false, and the state unchanged, if the event was not
// applied; use Fire to learn why.
func (m *Machine) Transition(event EventID) (StateID, bool) {
	r := m.Fire(event)
	if !r.OK() {
		return "", false
	}
	return r.To, true
}

// Fire processes a single event.
//
// The transition's action, the source state's exit handler and the
// destination state's entry handler run in that order, and only then does
// the current state change. Rejections are logged and reported through the
// returned Result; they never modify the machine.
func (m *Machine) Fire(event EventID) Result {
	r := m.fire(event)

	if r.OK() && m.stateChangeCallback != nil {
		m.stateChangeCallback(r.From, r.To)
	}
	for _, o := range m.observers {
		o.Observe(r)
	}

	return r
}

func (m *Machine) fire(event EventID) Result {
	r := Result{Event: event, From: m.currentState}

	if m.inTransition {
		r.Outcome = OutcomeReentrant
		m.logger.Warn(ErrTransitionInProgress.Error(), "state", r.From, "event", event)
		return r
	}

	m.logger.Debug("processing event", "event", event, "state", r.From)

	from, t, to, outcome := m.resolve(event)
	if t != nil {
		r.To = t.Target
	}
	if outcome != OutcomeApplied {
		r.Outcome = outcome
		m.logger.Warn(outcome.Err().Error(), "state", r.From, "event", event, "target", r.To)
		return r
	}

	m.executeTransition(from, t, to, event)

	m.currentState = to.Name
	r.Outcome = OutcomeApplied

	m.logger.Debug("transition applied", "event", event, "from", r.From, "to", r.To)
	return r
}

// resolve finds the source state, the transition and the destination
// state for event, using first match everywhere.
func (m *Machine) resolve(event EventID) (from *State, t *Transition, to *State, outcome Outcome) {
	from = m.definition.findState(m.currentState)
	if from == nil {
		return nil, nil, nil, OutcomeMisconfigured
	}

	t = from.findTransition(event)
	if t == nil {
		return from, nil, nil, OutcomeUnhandledEvent
	}

	to = m.definition.findState(t.Target)
	if to == nil {
		return from, t, nil, OutcomeUnresolvedTarget
	}

	return from, t, to, OutcomeApplied
}

// executeTransition runs the hooks of a resolved transition
func (m *Machine) executeTransition(from *State, t *Transition, to *State, event EventID) {
	m.inTransition = true
	defer func() { m.inTransition = false }()

	m.runHook(t.Action, StageAction, event, from.Name, to.Name)
	m.runHook(from.OnExit, StageExit, event, from.Name, to.Name)
	m.runHook(to.OnEnter, StageEnter, event, from.Name, to.Name)
}

func (m *Machine) runHook(h Hook, stage HookStage, event EventID, from, to StateID) {
	if h == nil {
		return
	}
	m.logger.Debug("running hook", "stage", stage, "from", from, "to", to, "event", event)
	h(m.makeContext(stage, event, from, to))
}

// makeContext creates a context for callbacks
func (m *Machine) makeContext(stage HookStage, event EventID, from, to StateID) *Context {
	return &Context{
		FSM:       m,
		Event:     event,
		FromState: from,
		ToState:   to,
		Stage:     stage,
		Data:      m.data,
		Logger:    m.logger,
	}
}

// Can reports whether firing event now would apply a transition.
// No hooks run.
func (m *Machine) Can(event EventID) bool {
	if m.inTransition {
		return false
	}
	_, _, _, outcome := m.resolve(event)
	return outcome == OutcomeApplied
}

// AvailableEvents returns the events the current state can handle, in
// declaration order. Events whose target is not defined are left out.
func (m *Machine) AvailableEvents() []EventID {
	from := m.definition.findState(m.currentState)
	if from == nil {
		return nil
	}

	var events []EventID
	seen := make(map[EventID]bool, len(from.Transitions))
	for _, t := range from.Transitions {
		if seen[t.Event] {
			continue
		}
		seen[t.Event] = true
		if m.definition.findState(t.Target) != nil {
			events = append(events, t.Event)
		}
	}
	return events
}
