package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodesk/internal/core/model"
)

type recordingNotifier struct {
	mu       sync.Mutex
	finished []Mode
	labels   []string
}

func (notifier *recordingNotifier) Notify(finished Mode, taskLabel string) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.finished = append(notifier.finished, finished)
	notifier.labels = append(notifier.labels, taskLabel)
}

func (notifier *recordingNotifier) calls() []Mode {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return append([]Mode(nil), notifier.finished...)
}

type recordingSink struct {
	mu        sync.Mutex
	snapshots []Snapshot
}

func (sink *recordingSink) Save(snapshot Snapshot) {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	sink.snapshots = append(sink.snapshots, snapshot)
}

func (sink *recordingSink) count() int {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	return len(sink.snapshots)
}

func testSettings() model.TimerSettings {
	return model.TimerSettings{
		FocusMinutes:      25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
		LongBreakInterval: 4,
	}
}

func newTestEngine(settings model.TimerSettings) *Engine {
	return New(settings, Config{
		TickInterval:     time.Second,
		AutoAdvanceDelay: 10 * time.Millisecond,
	})
}

func TestNewSeedsPausedFocus(t *testing.T) {
	machine := newTestEngine(testSettings())

	state := machine.State()
	assert.Equal(t, ModeFocus, state.Mode)
	assert.Equal(t, PhasePaused, state.Phase)
	assert.Equal(t, 25*60, state.RemainingSeconds)
	assert.Equal(t, 0, state.CompletedFocusCount)
}

func TestResetRearmsAndPauses(t *testing.T) {
	machine := newTestEngine(testSettings())
	machine.ToggleRunning()
	machine.tick(time.Now())
	machine.tick(time.Now())
	require.Equal(t, 25*60-2, machine.State().RemainingSeconds)

	machine.Reset()

	state := machine.State()
	assert.Equal(t, PhasePaused, state.Phase)
	assert.Equal(t, 25*60, state.RemainingSeconds)
	assert.Equal(t, ModeFocus, state.Mode)
}

func TestTickToZeroEntersAwaitingSameUpdate(t *testing.T) {
	machine := newTestEngine(testSettings())
	notifier := &recordingNotifier{}
	machine.SetNotifier(notifier)
	machine.phase = PhaseRunning
	machine.remaining = 1

	events := machine.Subscribe(4)
	machine.tick(time.Now())

	state := machine.State()
	assert.Equal(t, 0, state.RemainingSeconds)
	assert.Equal(t, PhaseAwaiting, state.Phase)

	// The zero crossing and the phase change arrive as one event: no
	// observable zero-and-still-running state.
	select {
	case event := <-events:
		assert.Equal(t, EventStateChange, event.Type)
		assert.Equal(t, PhaseAwaiting, event.Phase)
		assert.Equal(t, 0, event.Remaining)
		assert.Equal(t, ModeFocus, event.Finished)
	default:
		t.Fatal("expected a state change event")
	}

	assert.Equal(t, []Mode{ModeFocus}, notifier.calls())
}

func TestFocusCompletionModeSelection(t *testing.T) {
	tests := []struct {
		name          string
		priorComplete int
		wantCount     int
		wantMode      Mode
	}{
		{
			name:          "fourth completion earns a long break",
			priorComplete: 3,
			wantCount:     4,
			wantMode:      ModeLongBreak,
		},
		{
			name:          "second completion earns a short break",
			priorComplete: 1,
			wantCount:     2,
			wantMode:      ModeShortBreak,
		},
		{
			name:          "first completion earns a short break",
			priorComplete: 0,
			wantCount:     1,
			wantMode:      ModeShortBreak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine := newTestEngine(testSettings())
			machine.completedFocus = tt.priorComplete
			machine.phase = PhaseRunning
			machine.remaining = 1

			machine.tick(time.Now())

			state := machine.State()
			assert.Equal(t, tt.wantCount, state.CompletedFocusCount)
			assert.Equal(t, tt.wantMode, state.Mode)
			assert.Equal(t, PhaseAwaiting, state.Phase)
		})
	}
}

func TestBreakCompletionReturnsToFocus(t *testing.T) {
	for _, breakMode := range []Mode{ModeShortBreak, ModeLongBreak} {
		machine := newTestEngine(testSettings())
		machine.mode = breakMode
		machine.completedFocus = 2
		machine.phase = PhaseRunning
		machine.remaining = 1

		machine.tick(time.Now())

		state := machine.State()
		assert.Equal(t, ModeFocus, state.Mode, "after %s", breakMode)
		assert.Equal(t, 2, state.CompletedFocusCount, "break completion must not count")
	}
}

func TestSnoozeUsesRequestedMinutes(t *testing.T) {
	tests := []struct {
		name        string
		minutes     int
		wantSeconds int
	}{
		{name: "in range", minutes: 7, wantSeconds: 7 * 60},
		{name: "lower clamp", minutes: 0, wantSeconds: 60},
		{name: "upper clamp", minutes: 40, wantSeconds: 15 * 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine := newTestEngine(testSettings())
			machine.phase = PhaseRunning
			machine.remaining = 1
			machine.tick(time.Now())
			require.Equal(t, PhaseAwaiting, machine.State().Phase)

			machine.ApplyDecision(Decision{Action: ActionSnooze, Minutes: tt.minutes})

			state := machine.State()
			assert.Equal(t, tt.wantSeconds, state.RemainingSeconds)
			assert.Equal(t, PhaseRunning, state.Phase)
		})
	}
}

func TestAdvanceArmsNextMode(t *testing.T) {
	machine := newTestEngine(testSettings())
	machine.phase = PhaseRunning
	machine.remaining = 1
	machine.tick(time.Now())
	require.Equal(t, ModeShortBreak, machine.State().Mode)

	machine.ApplyDecision(Decision{Action: ActionAdvance})

	state := machine.State()
	assert.Equal(t, ModeShortBreak, state.Mode)
	assert.Equal(t, 5*60, state.RemainingSeconds)
	assert.Equal(t, PhaseRunning, state.Phase)
}

func TestStopPausesAtFullDuration(t *testing.T) {
	machine := newTestEngine(testSettings())
	machine.phase = PhaseRunning
	machine.remaining = 1
	machine.tick(time.Now())

	machine.ApplyDecision(Decision{Action: ActionStop})

	state := machine.State()
	assert.Equal(t, PhasePaused, state.Phase)
	assert.Equal(t, 5*60, state.RemainingSeconds)
}

func TestDecisionIgnoredOutsideAwaiting(t *testing.T) {
	machine := newTestEngine(testSettings())
	before := machine.State()

	machine.ApplyDecision(Decision{Action: ActionAdvance})
	machine.ApplyDecision(Decision{Action: ActionSnooze, Minutes: 5})
	machine.ApplyDecision(Decision{Action: ActionStop})

	assert.Equal(t, before, machine.State())
}

func TestUnknownDecisionActionIgnored(t *testing.T) {
	machine := newTestEngine(testSettings())
	machine.phase = PhaseRunning
	machine.remaining = 1
	machine.tick(time.Now())
	before := machine.State()

	machine.ApplyDecision(Decision{Action: Action("bogus")})

	assert.Equal(t, before, machine.State())
}

func TestToggleRunningBlockedWhileAwaiting(t *testing.T) {
	machine := newTestEngine(testSettings())
	machine.phase = PhaseRunning
	machine.remaining = 1
	machine.tick(time.Now())

	machine.ToggleRunning()

	assert.Equal(t, PhaseAwaiting, machine.State().Phase)
}

func TestAutoAdvanceAfterDelay(t *testing.T) {
	settings := testSettings()
	settings.AutoStartBreaks = true
	machine := newTestEngine(settings)
	machine.phase = PhaseRunning
	machine.remaining = 1

	machine.tick(time.Now())
	require.Equal(t, PhaseAwaiting, machine.State().Phase)

	require.Eventually(t, func() bool {
		state := machine.State()
		return state.Phase == PhaseRunning && state.Mode == ModeShortBreak
	}, time.Second, 2*time.Millisecond, "auto-start should advance into the break")
	assert.Equal(t, 5*60, machine.State().RemainingSeconds)
}

func TestManualDecisionCancelsAutoAdvance(t *testing.T) {
	settings := testSettings()
	settings.AutoStartBreaks = true
	machine := New(settings, Config{
		TickInterval:     time.Second,
		AutoAdvanceDelay: 40 * time.Millisecond,
	})
	machine.phase = PhaseRunning
	machine.remaining = 1
	machine.tick(time.Now())

	machine.ApplyDecision(Decision{Action: ActionStop})
	require.Equal(t, PhasePaused, machine.State().Phase)

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, PhasePaused, machine.State().Phase, "stale auto-advance must not fire")
}

func TestNoAutoAdvanceWhenFlagOff(t *testing.T) {
	machine := newTestEngine(testSettings())
	machine.phase = PhaseRunning
	machine.remaining = 1
	machine.tick(time.Now())

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, PhaseAwaiting, machine.State().Phase)
}

func TestAutoStartFocusAfterBreak(t *testing.T) {
	settings := testSettings()
	settings.AutoStartFocus = true
	machine := newTestEngine(settings)
	machine.mode = ModeShortBreak
	machine.phase = PhaseRunning
	machine.remaining = 1

	machine.tick(time.Now())

	require.Eventually(t, func() bool {
		state := machine.State()
		return state.Phase == PhaseRunning && state.Mode == ModeFocus
	}, time.Second, 2*time.Millisecond)
}

func TestSelectModeRearms(t *testing.T) {
	machine := newTestEngine(testSettings())
	machine.ToggleRunning()
	machine.tick(time.Now())

	machine.SelectMode(ModeLongBreak)

	state := machine.State()
	assert.Equal(t, ModeLongBreak, state.Mode)
	assert.Equal(t, 15*60, state.RemainingSeconds)
	assert.Equal(t, PhaseRunning, state.Phase, "mode switch keeps the running phase")
}

func TestSelectModeAbandonsPendingDecision(t *testing.T) {
	machine := newTestEngine(testSettings())
	machine.phase = PhaseRunning
	machine.remaining = 1
	machine.tick(time.Now())
	require.Equal(t, PhaseAwaiting, machine.State().Phase)

	machine.SelectMode(ModeFocus)

	state := machine.State()
	assert.Equal(t, PhasePaused, state.Phase)
	assert.Equal(t, 25*60, state.RemainingSeconds)
}

func TestSelectModeRejectsUnknownMode(t *testing.T) {
	machine := newTestEngine(testSettings())
	before := machine.State()

	machine.SelectMode(Mode("nap"))

	assert.Equal(t, before, machine.State())
}

func TestUpdateSettingsRearmsCurrentMode(t *testing.T) {
	machine := newTestEngine(testSettings())
	machine.ToggleRunning()
	machine.tick(time.Now())
	machine.tick(time.Now())

	updated := testSettings()
	updated.FocusMinutes = 50
	machine.UpdateSettings(updated)

	state := machine.State()
	assert.Equal(t, 50*60, state.RemainingSeconds, "partial progress is discarded")
	assert.Equal(t, PhaseRunning, state.Phase)
}

func TestUpdateSettingsWhileAwaitingKeepsZero(t *testing.T) {
	machine := newTestEngine(testSettings())
	machine.phase = PhaseRunning
	machine.remaining = 1
	machine.tick(time.Now())

	updated := testSettings()
	updated.ShortBreakMinutes = 10
	machine.UpdateSettings(updated)

	state := machine.State()
	assert.Equal(t, PhaseAwaiting, state.Phase)
	assert.Equal(t, 0, state.RemainingSeconds)

	machine.ApplyDecision(Decision{Action: ActionAdvance})
	assert.Equal(t, 10*60, machine.State().RemainingSeconds, "advance uses the updated duration")
}

func TestUpdateSettingsIdenticalKeepsProgress(t *testing.T) {
	machine := newTestEngine(testSettings())
	machine.ToggleRunning()
	machine.tick(time.Now())
	machine.tick(time.Now())
	require.Equal(t, 25*60-2, machine.State().RemainingSeconds)

	machine.UpdateSettings(testSettings())

	assert.Equal(t, 25*60-2, machine.State().RemainingSeconds,
		"re-saving unchanged settings must not discard progress")
}

func TestUpdateSettingsOtherModeDurationKeepsProgress(t *testing.T) {
	machine := newTestEngine(testSettings())
	machine.ToggleRunning()
	machine.tick(time.Now())

	updated := testSettings()
	updated.ShortBreakMinutes = 10
	machine.UpdateSettings(updated)

	assert.Equal(t, 25*60-1, machine.State().RemainingSeconds,
		"another mode's duration does not touch the running focus session")
	assert.Equal(t, 10, machine.Settings().ShortBreakMinutes)
}

func TestUpdateSettingsFlagChangeRearms(t *testing.T) {
	machine := newTestEngine(testSettings())
	machine.ToggleRunning()
	machine.tick(time.Now())

	updated := testSettings()
	updated.AutoStartBreaks = true
	machine.UpdateSettings(updated)

	assert.Equal(t, 25*60, machine.State().RemainingSeconds)
}

func TestUpdateSettingsClampsRanges(t *testing.T) {
	machine := newTestEngine(testSettings())

	machine.UpdateSettings(model.TimerSettings{
		FocusMinutes:      500,
		ShortBreakMinutes: -3,
		LongBreakMinutes:  0,
		LongBreakInterval: 99,
	})

	settings := machine.Settings()
	assert.Equal(t, 60, settings.FocusMinutes)
	assert.Equal(t, 1, settings.ShortBreakMinutes)
	assert.Equal(t, 1, settings.LongBreakMinutes)
	assert.Equal(t, 10, settings.LongBreakInterval)
	assert.Equal(t, 60*60, machine.State().RemainingSeconds)
}

// settingsReadingNotifier mirrors the production wiring, where the
// notifier's sound gate calls back into the engine for the live settings.
type settingsReadingNotifier struct {
	machine *Engine
	mu      sync.Mutex
	sound   []bool
}

func (notifier *settingsReadingNotifier) Notify(finished Mode, taskLabel string) {
	enabled := notifier.machine.Settings().SoundEnabled
	notifier.mu.Lock()
	notifier.sound = append(notifier.sound, enabled)
	notifier.mu.Unlock()
}

func TestNotifierMayReadEngineState(t *testing.T) {
	settings := testSettings()
	settings.SoundEnabled = true
	machine := newTestEngine(settings)
	notifier := &settingsReadingNotifier{machine: machine}
	machine.SetNotifier(notifier)
	machine.phase = PhaseRunning
	machine.remaining = 1

	done := make(chan struct{})
	go func() {
		machine.tick(time.Now())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tick blocked on a notifier that reads engine state")
	}

	assert.Equal(t, PhaseAwaiting, machine.State().Phase)
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Equal(t, []bool{true}, notifier.sound)
}

func TestNotifierReceivesFinishedModeAndTask(t *testing.T) {
	machine := newTestEngine(testSettings())
	notifier := &recordingNotifier{}
	machine.SetNotifier(notifier)
	machine.SetCurrentTask("PHY101 problem set")
	machine.mode = ModeLongBreak
	machine.phase = PhaseRunning
	machine.remaining = 1

	machine.tick(time.Now())

	// The gateway sees the mode that just finished, not the one the
	// engine already lined up.
	require.Equal(t, []Mode{ModeLongBreak}, notifier.calls())
	assert.Equal(t, "PHY101 problem set", notifier.labels[0])
	assert.Equal(t, ModeFocus, machine.State().Mode)
	assert.Equal(t, ModeLongBreak, machine.LastFinished())
}

func TestSinkSavesEveryMutation(t *testing.T) {
	machine := newTestEngine(testSettings())
	sink := &recordingSink{}
	machine.SetSink(sink)

	machine.ToggleRunning()
	machine.tick(time.Now())
	machine.Reset()
	machine.SetCurrentTask("reading list")

	assert.Equal(t, 4, sink.count())

	last := sink.snapshots[len(sink.snapshots)-1]
	assert.Equal(t, "reading list", last.CurrentTaskLabel)
	assert.False(t, last.Running)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	machine := newTestEngine(testSettings())
	machine.ToggleRunning()
	machine.tick(time.Now())
	machine.SetCurrentTask("essay draft")
	machine.completedFocus = 2

	snapshot := machine.Snapshot()

	restored := newTestEngine(model.DefaultSettings())
	restored.Restore(snapshot)

	assert.Equal(t, machine.State(), restored.State())
	assert.Equal(t, machine.Settings(), restored.Settings())
}

func TestRestoreZeroRemainingEntersAwaiting(t *testing.T) {
	// A crash between the zero crossing and the decision leaves a
	// snapshot that claims to be running at zero. It must not resume
	// ticking at zero.
	snapshot := Snapshot{
		Mode:                ModeShortBreak,
		Running:             true,
		RemainingSeconds:    0,
		CompletedFocusCount: 1,
		Settings:            testSettings(),
	}

	machine := newTestEngine(model.DefaultSettings())
	machine.Restore(snapshot)

	state := machine.State()
	require.Equal(t, PhaseAwaiting, state.Phase)

	machine.tick(time.Now())
	assert.Equal(t, 0, machine.State().RemainingSeconds)
	assert.Equal(t, PhaseAwaiting, machine.State().Phase)
}

func TestRestoreClampsOutOfRangeFields(t *testing.T) {
	snapshot := Snapshot{
		Mode:                Mode("weekend"),
		Running:             true,
		RemainingSeconds:    999999,
		CompletedFocusCount: -4,
		Settings:            testSettings(),
	}

	machine := newTestEngine(model.DefaultSettings())
	machine.Restore(snapshot)

	state := machine.State()
	assert.Equal(t, ModeFocus, state.Mode)
	assert.Equal(t, 25*60, state.RemainingSeconds)
	assert.Equal(t, 0, state.CompletedFocusCount)
	assert.Equal(t, PhaseRunning, state.Phase)
}

func TestTickLoopCountsDown(t *testing.T) {
	machine := New(testSettings(), Config{
		TickInterval:     5 * time.Millisecond,
		AutoAdvanceDelay: 10 * time.Millisecond,
	})
	machine.ToggleRunning()
	machine.Start()
	defer machine.Stop()

	require.Eventually(t, func() bool {
		return machine.State().RemainingSeconds < 25*60
	}, time.Second, 2*time.Millisecond)
}

func TestStopClosesSubscribers(t *testing.T) {
	machine := newTestEngine(testSettings())
	events := machine.Subscribe(1)
	machine.Start()
	machine.Stop()

	// Drains the buffered start event and then returns once the channel
	// is closed.
	for range events {
	}
}
