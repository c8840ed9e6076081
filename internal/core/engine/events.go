package engine

import "time"

// Mode identifies the kind of session being counted down.
type Mode string

const (
	ModeFocus      Mode = "focus"
	ModeShortBreak Mode = "short_break"
	ModeLongBreak  Mode = "long_break"
)

// IsBreak reports whether the mode is one of the break kinds.
func (mode Mode) IsBreak() bool {
	return mode == ModeShortBreak || mode == ModeLongBreak
}

// Phase is the engine's run state.
type Phase string

const (
	PhaseRunning  Phase = "running"
	PhasePaused   Phase = "paused"
	PhaseAwaiting Phase = "awaiting_decision"
)

// Action is a response to a completed session.
type Action string

const (
	ActionSnooze  Action = "snooze"
	ActionAdvance Action = "advance"
	ActionStop    Action = "stop"
)

// Decision carries a chosen action; Minutes applies to snooze only.
type Decision struct {
	Action  Action
	Minutes int
}

// EventType defines the type of engine event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
)

// Event represents an engine update for observers.
type Event struct {
	Type      EventType
	Mode      Mode
	Phase     Phase
	Remaining int
	// Finished is set on the state change emitted when a session
	// completes; it names the mode that just ran out, while Mode
	// already points at the next session.
	Finished Mode
	At       time.Time
}
