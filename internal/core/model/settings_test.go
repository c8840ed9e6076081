package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   TimerSettings
		want TimerSettings
	}{
		{
			name: "valid settings unchanged",
			in:   TimerSettings{FocusMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: 15, LongBreakInterval: 4},
			want: TimerSettings{FocusMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: 15, LongBreakInterval: 4},
		},
		{
			name: "zero and negative minutes raised to one",
			in:   TimerSettings{FocusMinutes: 0, ShortBreakMinutes: -5, LongBreakMinutes: 1, LongBreakInterval: 0},
			want: TimerSettings{FocusMinutes: 1, ShortBreakMinutes: 1, LongBreakMinutes: 1, LongBreakInterval: 1},
		},
		{
			name: "oversized values capped",
			in:   TimerSettings{FocusMinutes: 600, ShortBreakMinutes: 61, LongBreakMinutes: 90, LongBreakInterval: 50},
			want: TimerSettings{FocusMinutes: 60, ShortBreakMinutes: 60, LongBreakMinutes: 60, LongBreakInterval: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Clamp())
		})
	}
}

func TestClampKeepsFlags(t *testing.T) {
	in := DefaultSettings()
	in.AutoStartBreaks = true
	in.SoundEnabled = false
	in.FocusMinutes = 999

	out := in.Clamp()

	assert.True(t, out.AutoStartBreaks)
	assert.False(t, out.SoundEnabled)
	assert.Equal(t, 60, out.FocusMinutes)
}
