package main

import (
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"pomodesk/internal/core/engine"
	"pomodesk/internal/core/model"
	"pomodesk/internal/core/reminder"
	"pomodesk/internal/core/tasks"
	"pomodesk/internal/notify"
	"pomodesk/internal/platform"
	"pomodesk/internal/storage"
	"pomodesk/internal/ui/decision"
	"pomodesk/internal/ui/preferences"
	"pomodesk/internal/ui/tasklist"
	"pomodesk/internal/ui/tray"
	"pomodesk/resources"
)

const appName = "PomoDesk"

// snapshotSink routes engine saves to the YAML store. Failures are
// logged and absorbed; persistence must never fail a state transition.
type snapshotSink struct {
	logger zerolog.Logger
}

func (sink *snapshotSink) Save(snapshot engine.Snapshot) {
	if err := storage.SaveSnapshot(appName, snapshot); err != nil {
		sink.logger.Warn().Err(err).Msg("snapshot save failed")
	}
}

func main() {
	logger, closeLogs := initLogger()
	defer closeLogs()

	guard, err := platform.AcquireInstance(appName)
	if err != nil {
		logger.Error().Err(err).Msg("startup aborted")
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID("com.pomodesk.app")
	fyneApp.SetIcon(resources.MustLogo("timer_active.png"))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Error().Msg("system tray unsupported on this platform")
		return
	}

	trayWindow := fyneApp.NewWindow(appName)
	trayWindow.SetContent(widget.NewLabel("PomoDesk is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	snapshot, found, err := storage.LoadSnapshot(appName)
	if err != nil {
		logger.Warn().Err(err).Msg("snapshot load failed, using defaults")
	}

	timer := engine.New(snapshot.Settings, engine.Config{TickInterval: time.Second})
	if found {
		timer.Restore(snapshot)
	}
	timer.SetSink(&snapshotSink{logger: logger})

	systemNotifier := notify.NewDesktopNotifier(fyneApp)
	gateway := notify.New(notify.NewChimePlayer(), systemNotifier, func() bool {
		return timer.Settings().SoundEnabled
	}, logger)
	timer.SetNotifier(gateway)

	taskItems, err := storage.LoadTasks(appName)
	if err != nil {
		logger.Warn().Err(err).Msg("task load failed, starting empty")
	}
	taskList := tasks.NewList(taskItems)
	saveTasks := func() {
		if err := storage.SaveTasks(appName, taskList.Tasks()); err != nil {
			logger.Warn().Err(err).Msg("task save failed")
		}
	}

	dueChecker := reminder.New(taskList, systemNotifier, reminder.Config{}, logger)

	platformService := platform.NewService()
	prefsWindow := preferences.New(fyneApp, timer.Settings(), func(updated model.TimerSettings) {
		previous := timer.Settings()
		timer.UpdateSettings(updated)
		applyAutostart(platformService, previous, updated, logger)
	})

	decisionWindow := decision.New(fyneApp, func(chosen engine.Decision) {
		timer.ApplyDecision(chosen)
	})

	tasksWindow := tasklist.New(fyneApp, taskList, tasklist.Callbacks{
		OnAdd: func(title string, priority tasks.Priority, due *time.Time) {
			taskList.Add(title, priority, due)
			saveTasks()
		},
		OnToggle: func(id string) {
			taskList.Toggle(id)
			saveTasks()
		},
		OnRemove: func(id string) {
			taskList.Remove(id)
			saveTasks()
		},
		OnFocus: func(task tasks.Task) {
			timer.SetCurrentTask(task.Title)
		},
	})

	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnToggleRunning: func() {
			timer.ToggleRunning()
		},
		OnReset: func() {
			timer.Reset()
		},
		OnSelectMode: func(mode engine.Mode) {
			timer.SelectMode(mode)
		},
		OnStartNext: func() {
			timer.ApplyDecision(engine.Decision{Action: engine.ActionAdvance})
		},
		OnTasks: func() {
			tasksWindow.Show()
		},
		OnPreferences: func() {
			prefsWindow.Show()
		},
		OnQuit: func() {
			dueChecker.Stop()
			timer.Stop()
			fyneApp.Quit()
		},
	})

	activeIcon := resources.MustLogo("timer_active.png")
	pausedIcon := resources.MustLogo("timer_paused.png")
	desktopApp.SetSystemTrayIcon(pausedIcon)

	state := timer.State()
	trayManager.SetStatus(state.Mode, state.RemainingSeconds)
	trayManager.SetPhase(state.Phase)

	events := timer.Subscribe(8)
	go func() {
		for event := range events {
			switch event.Type {
			case engine.EventProgress:
				trayManager.SetStatus(event.Mode, event.Remaining)
			case engine.EventStateChange:
				handleStateChange(event, timer, trayManager, decisionWindow, desktopApp, activeIcon, pausedIcon)
			}
		}
	}()

	timer.Start()
	dueChecker.Start()

	fyneApp.Run()
}

func handleStateChange(event engine.Event, timer *engine.Engine, trayManager *tray.Manager, decisionWindow *decision.Window, desktopApp desktop.App, activeIcon, pausedIcon fyne.Resource) {
	trayManager.SetStatus(event.Mode, event.Remaining)
	trayManager.SetPhase(event.Phase)

	switch event.Phase {
	case engine.PhaseAwaiting:
		state := timer.State()
		finished := timer.LastFinished()
		decisionWindow.Show(finished, event.Mode, state.CurrentTaskLabel)
		desktopApp.SetSystemTrayIcon(pausedIcon)
	case engine.PhaseRunning:
		decisionWindow.Hide()
		desktopApp.SetSystemTrayIcon(activeIcon)
	case engine.PhasePaused:
		decisionWindow.Hide()
		desktopApp.SetSystemTrayIcon(pausedIcon)
	}
}

func applyAutostart(service platform.Service, previous, updated model.TimerSettings, logger zerolog.Logger) {
	if previous.LaunchAtLogin == updated.LaunchAtLogin {
		return
	}

	if !updated.LaunchAtLogin {
		if err := service.DisableAutostart(appName); err != nil {
			logger.Warn().Err(err).Msg("disable autostart failed")
		}
		return
	}

	execPath, err := os.Executable()
	if err != nil {
		logger.Warn().Err(err).Msg("resolve executable for autostart failed")
		return
	}
	if err := service.EnableAutostart(appName, execPath); err != nil {
		logger.Warn().Err(err).Msg("enable autostart failed")
	}
}

// initLogger builds a zerolog logger writing human-readable output to
// stderr and JSON to a rotating file under the app config dir.
func initLogger() (zerolog.Logger, func()) {
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}

	configDir, err := os.UserConfigDir()
	if err != nil {
		logger := zerolog.New(console).With().Timestamp().Logger()
		return logger, func() {}
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(configDir, appName, "logs", "pomodesk.log"),
		MaxSize:    5,
		MaxBackups: 3,
		MaxAge:     14,
	}

	writer := zerolog.MultiLevelWriter(console, fileWriter)
	logger := zerolog.New(writer).With().Timestamp().Logger()
	return logger, func() {
		_ = fileWriter.Close()
	}
}
