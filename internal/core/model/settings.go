package model

const (
	minSessionMinutes = 1
	maxSessionMinutes = 60
	minInterval       = 1
	maxInterval       = 10
)

// TimerSettings contains the configurable behavior of the focus timer.
type TimerSettings struct {
	FocusMinutes      int
	ShortBreakMinutes int
	LongBreakMinutes  int
	LongBreakInterval int

	AutoStartBreaks bool
	AutoStartFocus  bool
	SoundEnabled    bool
	LaunchAtLogin   bool
}

// DefaultSettings returns the out-of-the-box timer configuration.
func DefaultSettings() TimerSettings {
	return TimerSettings{
		FocusMinutes:      25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
		LongBreakInterval: 4,
		AutoStartBreaks:   false,
		AutoStartFocus:    false,
		SoundEnabled:      true,
		LaunchAtLogin:     false,
	}
}

// Clamp forces all numeric fields into their allowed ranges.
// Out-of-range values never reject the settings, they are corrected.
func (settings TimerSettings) Clamp() TimerSettings {
	settings.FocusMinutes = clampInt(settings.FocusMinutes, minSessionMinutes, maxSessionMinutes)
	settings.ShortBreakMinutes = clampInt(settings.ShortBreakMinutes, minSessionMinutes, maxSessionMinutes)
	settings.LongBreakMinutes = clampInt(settings.LongBreakMinutes, minSessionMinutes, maxSessionMinutes)
	settings.LongBreakInterval = clampInt(settings.LongBreakInterval, minInterval, maxInterval)
	return settings
}

func clampInt(value, minValue, maxValue int) int {
	if value < minValue {
		return minValue
	}
	if value > maxValue {
		return maxValue
	}
	return value
}
