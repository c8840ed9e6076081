package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"pomodesk/internal/core/engine"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnToggleRunning func()
	OnReset         func()
	OnSelectMode    func(engine.Mode)
	OnStartNext     func()
	OnTasks         func()
	OnPreferences   func()
	OnQuit          func()
}

// Manager handles the system tray menu and its live timer status.
type Manager struct {
	app         desktop.App
	callbacks   Callbacks
	statusItem  *fyne.MenuItem
	toggleItem  *fyne.MenuItem
	resetItem   *fyne.MenuItem
	modeItem    *fyne.MenuItem
	nextItem    *fyne.MenuItem
	statusLabel string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Focus --:--", nil)
	manager.statusItem.Disabled = true

	manager.toggleItem = fyne.NewMenuItem("Start", func() {
		if manager.callbacks.OnToggleRunning != nil {
			manager.callbacks.OnToggleRunning()
		}
	})

	manager.resetItem = fyne.NewMenuItem("Reset session", func() {
		if manager.callbacks.OnReset != nil {
			manager.callbacks.OnReset()
		}
	})

	manager.modeItem = fyne.NewMenuItem("Switch to", nil)
	manager.modeItem.ChildMenu = fyne.NewMenu("",
		fyne.NewMenuItem("Focus", func() {
			manager.selectMode(engine.ModeFocus)
		}),
		fyne.NewMenuItem("Short break", func() {
			manager.selectMode(engine.ModeShortBreak)
		}),
		fyne.NewMenuItem("Long break", func() {
			manager.selectMode(engine.ModeLongBreak)
		}),
	)

	manager.nextItem = fyne.NewMenuItem("Start next session", func() {
		if manager.callbacks.OnStartNext != nil {
			manager.callbacks.OnStartNext()
		}
	})
	manager.nextItem.Disabled = true

	manager.refreshMenu()
	return manager
}

// SetStatus updates the countdown shown in the menu, e.g. "Focus 24:12".
func (manager *Manager) SetStatus(mode engine.Mode, remainingSeconds int) {
	manager.statusLabel = fmt.Sprintf("%s %s", modeLabel(mode), formatRemaining(remainingSeconds))
	manager.statusItem.Label = manager.statusLabel
	manager.refreshMenu()
}

// SetPhase relabels the run toggle and gates the pending-decision
// shortcut.
func (manager *Manager) SetPhase(phase engine.Phase) {
	switch phase {
	case engine.PhaseRunning:
		manager.toggleItem.Label = "Pause"
		manager.toggleItem.Disabled = false
	case engine.PhasePaused:
		manager.toggleItem.Label = "Start"
		manager.toggleItem.Disabled = false
	case engine.PhaseAwaiting:
		manager.toggleItem.Label = "Start"
		manager.toggleItem.Disabled = true
	}
	manager.nextItem.Disabled = phase != engine.PhaseAwaiting
	manager.refreshMenu()
}

func (manager *Manager) selectMode(mode engine.Mode) {
	if manager.callbacks.OnSelectMode != nil {
		manager.callbacks.OnSelectMode(mode)
	}
}

// refreshMenu rebuilds the tray menu; menu items do not refresh in place
// on every platform.
func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("PomoDesk",
		manager.statusItem,
		manager.toggleItem,
		manager.resetItem,
		manager.modeItem,
		manager.nextItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Tasks", func() {
			if manager.callbacks.OnTasks != nil {
				manager.callbacks.OnTasks()
			}
		}),
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}

func modeLabel(mode engine.Mode) string {
	switch mode {
	case engine.ModeShortBreak:
		return "Short break"
	case engine.ModeLongBreak:
		return "Long break"
	default:
		return "Focus"
	}
}

func formatRemaining(remainingSeconds int) string {
	if remainingSeconds < 0 {
		remainingSeconds = 0
	}
	return fmt.Sprintf("%02d:%02d", remainingSeconds/60, remainingSeconds%60)
}
