package engine

import "pomodesk/internal/core/model"

// Snapshot is the flat persisted form of the engine plus its settings.
// The awaiting-decision phase is not stored directly: zero remaining
// seconds encodes it on load.
type Snapshot struct {
	Mode                Mode
	Running             bool
	RemainingSeconds    int
	CompletedFocusCount int
	CurrentTaskLabel    string
	Settings            model.TimerSettings
}

// Snapshot captures the current engine state for persistence.
func (engine *Engine) Snapshot() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.snapshotLocked()
}

func (engine *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Mode:                engine.mode,
		Running:             engine.phase == PhaseRunning,
		RemainingSeconds:    engine.remaining,
		CompletedFocusCount: engine.completedFocus,
		CurrentTaskLabel:    engine.taskLabel,
		Settings:            engine.settings,
	}
}

// Restore applies a persisted snapshot, clamping every field into a safe
// range. A snapshot that died mid-completion (zero remaining, any running
// flag) re-enters awaiting-decision rather than ticking at zero.
func (engine *Engine) Restore(snapshot Snapshot) {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	engine.settings = snapshot.Settings.Clamp()

	switch snapshot.Mode {
	case ModeFocus, ModeShortBreak, ModeLongBreak:
		engine.mode = snapshot.Mode
	default:
		engine.mode = ModeFocus
	}

	if snapshot.CompletedFocusCount > 0 {
		engine.completedFocus = snapshot.CompletedFocusCount
	} else {
		engine.completedFocus = 0
	}
	engine.taskLabel = snapshot.CurrentTaskLabel

	remaining := snapshot.RemainingSeconds
	limit := engine.durationSecondsLocked(engine.mode)
	if remaining > limit {
		remaining = limit
	}
	if remaining < 0 {
		remaining = 0
	}
	engine.remaining = remaining

	switch {
	case engine.remaining == 0:
		engine.phase = PhaseAwaiting
	case snapshot.Running:
		engine.phase = PhaseRunning
	default:
		engine.phase = PhasePaused
	}
}
