// Package decision presents the three possible responses to a completed
// session: snooze a few minutes, start the next session, or stop.
package decision

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"pomodesk/internal/core/engine"
)

var snoozeChoices = []string{"1", "3", "5", "10", "15"}

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Window is the completion prompt. It only displays state and forwards
// the chosen action; the engine remains the single source of truth.
type Window struct {
	window        fyne.Window
	onDecision    func(engine.Decision)
	headingLabel  *widget.Label
	taskLabel     *widget.Label
	advanceButton *widget.Button
	snoozeSelect  *widget.Select
	visible       bool
}

// New creates the decision window. onDecision receives the chosen action.
func New(app fyne.App, onDecision func(engine.Decision)) *Window {
	window := app.NewWindow("PomoDesk")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Undecorated window: no close button, decisions only.
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	prompt := &Window{onDecision: onDecision}

	prompt.headingLabel = widget.NewLabelWithStyle("Session complete", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	prompt.taskLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	prompt.snoozeSelect = widget.NewSelect(snoozeChoices, nil)
	prompt.snoozeSelect.SetSelected("5")
	snoozeButton := widget.NewButton("Snooze", func() {
		prompt.decide(engine.Decision{
			Action:  engine.ActionSnooze,
			Minutes: prompt.snoozeMinutes(),
		})
	})

	prompt.advanceButton = widget.NewButton("Start next", func() {
		prompt.decide(engine.Decision{Action: engine.ActionAdvance})
	})
	prompt.advanceButton.Importance = widget.HighImportance

	stopButton := widget.NewButton("Stop", func() {
		prompt.decide(engine.Decision{Action: engine.ActionStop})
	})

	content := container.NewVBox(
		prompt.headingLabel,
		prompt.taskLabel,
		container.NewHBox(
			prompt.advanceButton,
			snoozeButton,
			prompt.snoozeSelect,
			widget.NewLabel("min"),
			stopButton,
		),
	)

	window.SetContent(container.NewPadded(content))
	window.Resize(fyne.NewSize(380, 150))
	window.CenterOnScreen()

	prompt.window = window
	return prompt
}

// Show presents the prompt for a just-finished session. next is the mode
// the engine has already lined up.
func (prompt *Window) Show(finished, next engine.Mode, taskLabel string) {
	prompt.headingLabel.SetText(finishedCopy(finished))
	if finished.IsBreak() && taskLabel != "" {
		prompt.taskLabel.SetText(fmt.Sprintf("Back to %q?", taskLabel))
	} else if taskLabel != "" {
		prompt.taskLabel.SetText(taskLabel)
	} else {
		prompt.taskLabel.SetText("")
	}
	prompt.advanceButton.SetText("Start " + nextCopy(next))

	prompt.visible = true
	prompt.window.Show()
	prompt.window.RequestFocus()
}

// Hide withdraws the prompt, e.g. when an auto-advance resolved the
// decision first.
func (prompt *Window) Hide() {
	if !prompt.visible {
		return
	}
	prompt.visible = false
	prompt.window.Hide()
}

func (prompt *Window) decide(decision engine.Decision) {
	prompt.Hide()
	if prompt.onDecision != nil {
		prompt.onDecision(decision)
	}
}

func (prompt *Window) snoozeMinutes() int {
	minutes, err := strconv.Atoi(prompt.snoozeSelect.Selected)
	if err != nil {
		return 5
	}
	return minutes
}

func finishedCopy(finished engine.Mode) string {
	switch finished {
	case engine.ModeShortBreak, engine.ModeLongBreak:
		return "Break over"
	case engine.ModeFocus:
		return "Focus session complete"
	default:
		return "Session complete"
	}
}

func nextCopy(next engine.Mode) string {
	switch next {
	case engine.ModeShortBreak:
		return "short break"
	case engine.ModeLongBreak:
		return "long break"
	default:
		return "focus session"
	}
}
