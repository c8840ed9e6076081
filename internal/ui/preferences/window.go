// Package preferences provides the settings window.
package preferences

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"pomodesk/internal/core/model"
)

// Window handles the preferences UI.
type Window struct {
	window          fyne.Window
	settings        model.TimerSettings
	onSave          func(model.TimerSettings)
	focusMin        *widget.Entry
	shortMin        *widget.Entry
	longMin         *widget.Entry
	interval        *widget.Entry
	autoStartBreaks *widget.Check
	autoStartFocus  *widget.Check
	sound           *widget.Check
	launchAtLogin   *widget.Check
}

// New creates a preferences window. onSave receives the clamped settings.
func New(app fyne.App, settings model.TimerSettings, onSave func(model.TimerSettings)) *Window {
	window := app.NewWindow("PomoDesk Settings")

	focusMin := widget.NewEntry()
	shortMin := widget.NewEntry()
	longMin := widget.NewEntry()
	interval := widget.NewEntry()

	autoStartBreaks := widget.NewCheck("Auto-start breaks", nil)
	autoStartFocus := widget.NewCheck("Auto-start focus sessions", nil)
	sound := widget.NewCheck("Play sound when a session ends", nil)
	launchAtLogin := widget.NewCheck("Launch at login", nil)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Durations", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Focus"), focusMin, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Short break"), shortMin, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break"), longMin, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break after"), interval, widget.NewLabel("focus sessions")),
		widget.NewLabelWithStyle("Behavior", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		autoStartBreaks,
		autoStartFocus,
		sound,
		launchAtLogin,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(400, 400))

	prefs := &Window{
		window:          window,
		settings:        settings,
		onSave:          onSave,
		focusMin:        focusMin,
		shortMin:        shortMin,
		longMin:         longMin,
		interval:        interval,
		autoStartBreaks: autoStartBreaks,
		autoStartFocus:  autoStartFocus,
		sound:           sound,
		launchAtLogin:   launchAtLogin,
	}
	prefs.applySettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.applySettings(prefs.settings)
		window.Hide()
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.TimerSettings) {
	prefs.settings = settings
	prefs.applySettings(settings)
}

func (prefs *Window) applySettings(settings model.TimerSettings) {
	prefs.focusMin.SetText(fmt.Sprintf("%d", settings.FocusMinutes))
	prefs.shortMin.SetText(fmt.Sprintf("%d", settings.ShortBreakMinutes))
	prefs.longMin.SetText(fmt.Sprintf("%d", settings.LongBreakMinutes))
	prefs.interval.SetText(fmt.Sprintf("%d", settings.LongBreakInterval))
	prefs.autoStartBreaks.SetChecked(settings.AutoStartBreaks)
	prefs.autoStartFocus.SetChecked(settings.AutoStartFocus)
	prefs.sound.SetChecked(settings.SoundEnabled)
	prefs.launchAtLogin.SetChecked(settings.LaunchAtLogin)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if minutes, ok := parsePositiveInt(prefs.focusMin.Text); ok {
		settings.FocusMinutes = minutes
	}
	if minutes, ok := parsePositiveInt(prefs.shortMin.Text); ok {
		settings.ShortBreakMinutes = minutes
	}
	if minutes, ok := parsePositiveInt(prefs.longMin.Text); ok {
		settings.LongBreakMinutes = minutes
	}
	if sessions, ok := parsePositiveInt(prefs.interval.Text); ok {
		settings.LongBreakInterval = sessions
	}

	settings.AutoStartBreaks = prefs.autoStartBreaks.Checked
	settings.AutoStartFocus = prefs.autoStartFocus.Checked
	settings.SoundEnabled = prefs.sound.Checked
	settings.LaunchAtLogin = prefs.launchAtLogin.Checked

	settings = settings.Clamp()
	prefs.settings = settings
	prefs.applySettings(settings)
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
