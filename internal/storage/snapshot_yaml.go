// Package storage persists the engine snapshot and the task list as flat
// YAML records in the user config directory.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"pomodesk/internal/core/engine"
	"pomodesk/internal/core/model"
)

const snapshotFileName = "state.yaml"

// yamlSnapshot is the on-disk record. Every field is optional on load:
// absent fields fall back to defaults instead of erroring, so snapshots
// written by older builds keep working.
type yamlSnapshot struct {
	Mode                string `yaml:"mode"`
	Running             bool   `yaml:"running"`
	RemainingSeconds    *int   `yaml:"remaining_seconds"`
	CompletedFocusCount *int   `yaml:"completed_focus_count"`
	CurrentTask         string `yaml:"current_task"`

	FocusMinutes      *int  `yaml:"focus_minutes"`
	ShortBreakMinutes *int  `yaml:"short_break_minutes"`
	LongBreakMinutes  *int  `yaml:"long_break_minutes"`
	LongBreakInterval *int  `yaml:"long_break_interval"`
	AutoStartBreaks   *bool `yaml:"auto_start_breaks"`
	AutoStartFocus    *bool `yaml:"auto_start_focus"`
	SoundEnabled      *bool `yaml:"sound_enabled"`
	LaunchAtLogin     *bool `yaml:"launch_at_login"`
}

// LoadSnapshot reads the persisted engine snapshot. A missing file is not
// an error; a malformed file returns defaults alongside the parse error so
// the caller can log it and continue.
func LoadSnapshot(appName string) (engine.Snapshot, bool, error) {
	snapshot := defaultSnapshot()

	configPath, err := resolveDataPath(appName, snapshotFileName)
	if err != nil {
		return snapshot, false, err
	}

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return snapshot, false, nil
		}
		return snapshot, false, fmt.Errorf("read snapshot file: %w", err)
	}

	var fileData yamlSnapshot
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return snapshot, false, fmt.Errorf("parse snapshot yaml: %w", err)
	}

	applyYamlSnapshot(&snapshot, fileData)
	return snapshot, true, nil
}

// SaveSnapshot writes the engine snapshot to disk.
func SaveSnapshot(appName string, snapshot engine.Snapshot) error {
	configPath, err := resolveDataPath(appName, snapshotFileName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	settings := snapshot.Settings
	fileData := yamlSnapshot{
		Mode:                string(snapshot.Mode),
		Running:             snapshot.Running,
		RemainingSeconds:    intPtr(snapshot.RemainingSeconds),
		CompletedFocusCount: intPtr(snapshot.CompletedFocusCount),
		CurrentTask:         snapshot.CurrentTaskLabel,
		FocusMinutes:        intPtr(settings.FocusMinutes),
		ShortBreakMinutes:   intPtr(settings.ShortBreakMinutes),
		LongBreakMinutes:    intPtr(settings.LongBreakMinutes),
		LongBreakInterval:   intPtr(settings.LongBreakInterval),
		AutoStartBreaks:     boolPtr(settings.AutoStartBreaks),
		AutoStartFocus:      boolPtr(settings.AutoStartFocus),
		SoundEnabled:        boolPtr(settings.SoundEnabled),
		LaunchAtLogin:       boolPtr(settings.LaunchAtLogin),
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal snapshot yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}

	return nil
}

func defaultSnapshot() engine.Snapshot {
	settings := model.DefaultSettings()
	return engine.Snapshot{
		Mode:             engine.ModeFocus,
		Running:          false,
		RemainingSeconds: settings.FocusMinutes * 60,
		Settings:         settings,
	}
}

func applyYamlSnapshot(snapshot *engine.Snapshot, fileData yamlSnapshot) {
	if fileData.Mode != "" {
		snapshot.Mode = engine.Mode(fileData.Mode)
	}
	snapshot.Running = fileData.Running
	if fileData.RemainingSeconds != nil {
		snapshot.RemainingSeconds = *fileData.RemainingSeconds
	}
	if fileData.CompletedFocusCount != nil {
		snapshot.CompletedFocusCount = *fileData.CompletedFocusCount
	}
	snapshot.CurrentTaskLabel = fileData.CurrentTask

	if fileData.FocusMinutes != nil {
		snapshot.Settings.FocusMinutes = *fileData.FocusMinutes
	}
	if fileData.ShortBreakMinutes != nil {
		snapshot.Settings.ShortBreakMinutes = *fileData.ShortBreakMinutes
	}
	if fileData.LongBreakMinutes != nil {
		snapshot.Settings.LongBreakMinutes = *fileData.LongBreakMinutes
	}
	if fileData.LongBreakInterval != nil {
		snapshot.Settings.LongBreakInterval = *fileData.LongBreakInterval
	}
	if fileData.AutoStartBreaks != nil {
		snapshot.Settings.AutoStartBreaks = *fileData.AutoStartBreaks
	}
	if fileData.AutoStartFocus != nil {
		snapshot.Settings.AutoStartFocus = *fileData.AutoStartFocus
	}
	if fileData.SoundEnabled != nil {
		snapshot.Settings.SoundEnabled = *fileData.SoundEnabled
	}
	if fileData.LaunchAtLogin != nil {
		snapshot.Settings.LaunchAtLogin = *fileData.LaunchAtLogin
	}

	snapshot.Settings = snapshot.Settings.Clamp()
}

func resolveDataPath(appName, fileName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, fileName), nil
}

func intPtr(value int) *int {
	return &value
}

func boolPtr(value bool) *bool {
	return &value
}
