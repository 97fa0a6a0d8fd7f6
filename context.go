package tinyfsm

import "log/slog"

// Context is passed to every hook and gives it access to the running machine.
//
// While a hook runs, the machine still reports the source state as current.
// Calling Transition or Fire on FSM from inside a hook is rejected with
// OutcomeReentrant; a hook that needs a follow-up transition must arrange
// for the caller to fire it after the current call returns.
type Context struct {
	FSM       *Machine
	Event     EventID   // Event being processed
	FromState StateID   // State we're transitioning from
	ToState   StateID   // State we're transitioning to
	Stage     HookStage // Which hook is running
	Data      any       // User-provided application data
	Logger    *slog.Logger
}

// CurrentState returns the machine's current state
func (c *Context) CurrentState() StateID {
	return c.FSM.CurrentState()
}

// InTransition reports whether the machine is executing a transition.
// Always true for hooks invoked by the machine.
func (c *Context) InTransition() bool {
	return c.FSM.InTransition()
}
