package tinyfsm

import "log/slog"

// StateID is a unique identifier for a state
type StateID string

// EventID is a unique identifier for an event type
type EventID string

// Hook is a lifecycle callback: a transition action or a state's entry/exit
// handler. A nil Hook is a no-op.
type Hook func(c *Context)

// HookStage identifies which hook of a transition is running
type HookStage int

const (
	// StageAction is the transition's own action, run first
	StageAction HookStage = iota
	// StageExit is the source state's exit handler
	StageExit
	// StageEnter is the destination state's entry handler, run last
	StageEnter
)

func (s HookStage) String() string {
	switch s {
	case StageAction:
		return "action"
	case StageExit:
		return "exit"
	case StageEnter:
		return "enter"
	default:
		return "unknown"
	}
}

// Logger is the default logger used when none is provided
var Logger = slog.Default()
