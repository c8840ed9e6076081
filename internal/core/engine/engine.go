package engine

import (
	"sync"
	"time"

	"pomodesk/internal/core/model"
)

const (
	minSnoozeMinutes = 1
	maxSnoozeMinutes = 15
)

// Notifier is told about a completed session. Notify runs on the tick
// goroutine after the state update commits and outside the engine lock,
// so implementations may call back into the engine.
type Notifier interface {
	Notify(finished Mode, taskLabel string)
}

// SnapshotSink persists the engine after each mutation. Implementations
// must absorb their own failures.
type SnapshotSink interface {
	Save(snapshot Snapshot)
}

// Config contains runtime options for the Engine.
type Config struct {
	TickInterval     time.Duration
	AutoAdvanceDelay time.Duration
}

// State is a read-only view of the engine.
type State struct {
	Mode                Mode
	Phase               Phase
	RemainingSeconds    int
	CompletedFocusCount int
	CurrentTaskLabel    string
}

// Engine is the focus-session state machine. It owns the countdown, the
// mode transition rules and the completion decision protocol; persistence
// and notification are injected collaborators.
type Engine struct {
	mu             sync.Mutex
	settings       model.TimerSettings
	options        Config
	mode           Mode
	phase          Phase
	remaining      int
	completedFocus int
	taskLabel      string
	lastFinished   Mode
	generation     uint64
	notifier       Notifier
	sink           SnapshotSink
	events         []chan Event
	stopCh         chan struct{}
	running        bool
}

// New creates an Engine seeded from defaults: a paused focus session at
// full duration.
func New(settings model.TimerSettings, options Config) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.AutoAdvanceDelay <= 0 {
		options.AutoAdvanceDelay = 500 * time.Millisecond
	}

	machine := &Engine{
		settings: settings.Clamp(),
		options:  options,
		mode:     ModeFocus,
		phase:    PhasePaused,
		stopCh:   make(chan struct{}),
	}
	machine.remaining = machine.durationSecondsLocked(ModeFocus)
	return machine
}

// SetNotifier injects the completion notifier.
func (engine *Engine) SetNotifier(notifier Notifier) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.notifier = notifier
}

// SetSink injects the persistence sink.
func (engine *Engine) SetSink(sink SnapshotSink) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.sink = sink
}

// Subscribe registers a new observer channel.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	engine.events = append(engine.events, ch)
	engine.mu.Unlock()
	return ch
}

// Start launches the ticking loop. The current phase is kept as is, so a
// restored paused or awaiting-decision state stays put until acted on.
func (engine *Engine) Start() {
	engine.mu.Lock()
	if engine.running {
		engine.mu.Unlock()
		return
	}
	engine.running = true
	event := engine.eventLocked(EventStateChange, time.Now())
	engine.mu.Unlock()

	engine.emit(event)
	go engine.run()
}

// Stop terminates the ticking loop and closes observers.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	if !engine.running {
		engine.mu.Unlock()
		return
	}
	close(engine.stopCh)
	engine.running = false
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// State returns the current engine view.
func (engine *Engine) State() State {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return State{
		Mode:                engine.mode,
		Phase:               engine.phase,
		RemainingSeconds:    engine.remaining,
		CompletedFocusCount: engine.completedFocus,
		CurrentTaskLabel:    engine.taskLabel,
	}
}

// Settings returns a copy of the active settings.
func (engine *Engine) Settings() model.TimerSettings {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.settings
}

// LastFinished returns the mode of the most recently completed session.
// Display-only: the decision window shows what just ended while Mode
// already names what comes next.
func (engine *Engine) LastFinished() Mode {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.lastFinished
}

// ToggleRunning flips between running and paused. Ignored while a
// completion decision is pending.
func (engine *Engine) ToggleRunning() {
	engine.mu.Lock()
	if engine.phase == PhaseAwaiting {
		engine.mu.Unlock()
		return
	}
	if engine.phase == PhaseRunning {
		engine.phase = PhasePaused
	} else {
		engine.phase = PhaseRunning
	}
	event := engine.eventLocked(EventStateChange, time.Now())
	snapshot := engine.snapshotLocked()
	engine.mu.Unlock()

	engine.emit(event)
	engine.save(snapshot)
}

// Reset pauses the engine and re-arms the current mode to its configured
// duration. Mode and the completed-session counter are untouched.
func (engine *Engine) Reset() {
	engine.mu.Lock()
	engine.generation++
	engine.phase = PhasePaused
	engine.remaining = engine.durationSecondsLocked(engine.mode)
	event := engine.eventLocked(EventStateChange, time.Now())
	snapshot := engine.snapshotLocked()
	engine.mu.Unlock()

	engine.emit(event)
	engine.save(snapshot)
}

// SelectMode switches to the given mode and re-arms its duration. A
// pending completion decision is abandoned and the engine lands paused.
func (engine *Engine) SelectMode(mode Mode) {
	if mode != ModeFocus && mode != ModeShortBreak && mode != ModeLongBreak {
		return
	}

	engine.mu.Lock()
	if engine.phase == PhaseAwaiting {
		engine.generation++
		engine.phase = PhasePaused
	}
	engine.mode = mode
	engine.remaining = engine.durationSecondsLocked(mode)
	event := engine.eventLocked(EventStateChange, time.Now())
	snapshot := engine.snapshotLocked()
	engine.mu.Unlock()

	engine.emit(event)
	engine.save(snapshot)
}

// UpdateSettings replaces the settings. When the change touches the
// session in progress (the current mode's duration or a behavior flag)
// the countdown re-arms, discarding partial progress; otherwise the
// countdown is left alone. While a decision is pending the settings are
// stored but the zero remaining time is kept.
func (engine *Engine) UpdateSettings(settings model.TimerSettings) {
	engine.mu.Lock()
	previous := engine.settings
	engine.settings = settings.Clamp()
	if engine.phase != PhaseAwaiting && rearmNeeded(previous, engine.settings, engine.mode) {
		engine.remaining = engine.durationSecondsLocked(engine.mode)
	}
	event := engine.eventLocked(EventStateChange, time.Now())
	snapshot := engine.snapshotLocked()
	engine.mu.Unlock()

	engine.emit(event)
	engine.save(snapshot)
}

// SetCurrentTask records the label of the task being focused on.
func (engine *Engine) SetCurrentTask(label string) {
	engine.mu.Lock()
	engine.taskLabel = label
	snapshot := engine.snapshotLocked()
	engine.mu.Unlock()

	engine.save(snapshot)
}

// ApplyDecision resolves a pending completion. Calls made while no
// decision is pending do not mutate anything.
func (engine *Engine) ApplyDecision(decision Decision) {
	engine.mu.Lock()
	if engine.phase != PhaseAwaiting {
		engine.mu.Unlock()
		return
	}
	event, snapshot, ok := engine.decideLocked(decision, time.Now())
	engine.mu.Unlock()
	if !ok {
		return
	}

	engine.emit(event)
	engine.save(snapshot)
}

func (engine *Engine) run() {
	ticker := time.NewTicker(engine.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-engine.stopCh:
			return
		case tickTime := <-ticker.C:
			engine.tick(tickTime)
		}
	}
}

// tick advances the countdown by one second. Reaching zero flips the
// engine into awaiting-decision in the same update; there is no
// observable zero-and-still-running state.
func (engine *Engine) tick(tickTime time.Time) {
	engine.mu.Lock()
	if engine.phase != PhaseRunning || engine.remaining <= 0 {
		engine.mu.Unlock()
		return
	}

	engine.remaining--
	if engine.remaining > 0 {
		event := engine.eventLocked(EventProgress, tickTime)
		snapshot := engine.snapshotLocked()
		engine.mu.Unlock()
		engine.emit(event)
		engine.save(snapshot)
		return
	}

	event := engine.completeLocked(tickTime)
	snapshot := engine.snapshotLocked()
	notifier := engine.notifier
	finished := engine.lastFinished
	taskLabel := engine.taskLabel
	engine.mu.Unlock()

	if notifier != nil {
		notifier.Notify(finished, taskLabel)
	}
	engine.emit(event)
	engine.save(snapshot)
}

// completeLocked handles the zero crossing: advance the mode field to
// what comes next and wait for a decision. The finished mode must be
// captured before the mode mutation. Notification happens in the caller
// after the lock is released, since the notifier may read engine state.
func (engine *Engine) completeLocked(now time.Time) Event {
	finished := engine.mode
	engine.lastFinished = finished
	engine.phase = PhaseAwaiting

	if finished == ModeFocus {
		engine.completedFocus++
		if engine.completedFocus%engine.settings.LongBreakInterval == 0 {
			engine.mode = ModeLongBreak
		} else {
			engine.mode = ModeShortBreak
		}
	} else {
		engine.mode = ModeFocus
	}

	if engine.autoStartsLocked(finished) {
		generation := engine.generation
		time.AfterFunc(engine.options.AutoAdvanceDelay, func() {
			engine.autoAdvance(generation)
		})
	}

	event := engine.eventLocked(EventStateChange, now)
	event.Finished = finished
	return event
}

func (engine *Engine) autoStartsLocked(finished Mode) bool {
	if finished == ModeFocus {
		return engine.settings.AutoStartBreaks
	}
	return engine.settings.AutoStartFocus
}

// autoAdvance fires after the completion delay. A manual decision (or a
// reset or mode switch) bumps the generation first and invalidates it.
func (engine *Engine) autoAdvance(generation uint64) {
	engine.mu.Lock()
	if engine.phase != PhaseAwaiting || engine.generation != generation {
		engine.mu.Unlock()
		return
	}
	event, snapshot, ok := engine.decideLocked(Decision{Action: ActionAdvance}, time.Now())
	engine.mu.Unlock()
	if !ok {
		return
	}

	engine.emit(event)
	engine.save(snapshot)
}

func (engine *Engine) decideLocked(decision Decision, now time.Time) (Event, Snapshot, bool) {
	switch decision.Action {
	case ActionSnooze:
		minutes := decision.Minutes
		if minutes < minSnoozeMinutes {
			minutes = minSnoozeMinutes
		}
		if minutes > maxSnoozeMinutes {
			minutes = maxSnoozeMinutes
		}
		engine.remaining = minutes * 60
		engine.phase = PhaseRunning
	case ActionAdvance:
		engine.remaining = engine.durationSecondsLocked(engine.mode)
		engine.phase = PhaseRunning
	case ActionStop:
		engine.remaining = engine.durationSecondsLocked(engine.mode)
		engine.phase = PhasePaused
	default:
		return Event{}, Snapshot{}, false
	}

	engine.generation++
	return engine.eventLocked(EventStateChange, now), engine.snapshotLocked(), true
}

func (engine *Engine) durationSecondsLocked(mode Mode) int {
	return durationSeconds(engine.settings, mode)
}

func durationSeconds(settings model.TimerSettings, mode Mode) int {
	switch mode {
	case ModeShortBreak:
		return settings.ShortBreakMinutes * 60
	case ModeLongBreak:
		return settings.LongBreakMinutes * 60
	default:
		return settings.FocusMinutes * 60
	}
}

// rearmNeeded reports whether a settings change affects the session in
// progress: the duration of the mode being counted down, or one of the
// behavior flags. Changes to other modes' durations or to the long-break
// interval take effect on the next arm.
func rearmNeeded(previous, updated model.TimerSettings, mode Mode) bool {
	if durationSeconds(previous, mode) != durationSeconds(updated, mode) {
		return true
	}
	return previous.AutoStartBreaks != updated.AutoStartBreaks ||
		previous.AutoStartFocus != updated.AutoStartFocus ||
		previous.SoundEnabled != updated.SoundEnabled ||
		previous.LaunchAtLogin != updated.LaunchAtLogin
}

func (engine *Engine) eventLocked(eventType EventType, at time.Time) Event {
	return Event{
		Type:      eventType,
		Mode:      engine.mode,
		Phase:     engine.phase,
		Remaining: engine.remaining,
		At:        at,
	}
}

func (engine *Engine) emit(event Event) {
	engine.mu.Lock()
	events := append([]chan Event(nil), engine.events...)
	engine.mu.Unlock()

	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}

func (engine *Engine) save(snapshot Snapshot) {
	engine.mu.Lock()
	sink := engine.sink
	engine.mu.Unlock()

	if sink != nil {
		sink.Save(snapshot)
	}
}
