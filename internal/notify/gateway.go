// Package notify is the best-effort side channel for completed sessions:
// an alert chime and a system notification. Failures here are cosmetic
// and never reach the engine.
package notify

import (
	"fmt"

	"github.com/rs/zerolog"

	"pomodesk/internal/core/engine"
)

// SoundPlayer plays a short, bounded alert sound.
type SoundPlayer interface {
	Play() error
}

// SystemNotifier raises a system notification.
type SystemNotifier interface {
	Send(title, body string) error
}

// Gateway fans a completed session out to the sound and notification
// capabilities. Both effects are fire-and-forget.
type Gateway struct {
	sound        SoundPlayer
	system       SystemNotifier
	soundEnabled func() bool
	logger       zerolog.Logger
}

// New creates a Gateway. soundEnabled is consulted at notification time so
// settings changes apply without rewiring.
func New(sound SoundPlayer, system SystemNotifier, soundEnabled func() bool, logger zerolog.Logger) *Gateway {
	return &Gateway{
		sound:        sound,
		system:       system,
		soundEnabled: soundEnabled,
		logger:       logger,
	}
}

// Notify reports a finished session. It returns immediately; the effects
// run on their own goroutines and swallow their own failures.
func (gateway *Gateway) Notify(finished engine.Mode, taskLabel string) {
	title, body := notificationCopy(finished, taskLabel)

	if gateway.sound != nil && gateway.soundEnabled != nil && gateway.soundEnabled() {
		go gateway.runEffect("sound", func() error {
			return gateway.sound.Play()
		})
	}

	if gateway.system != nil {
		go gateway.runEffect("system notification", func() error {
			return gateway.system.Send(title, body)
		})
	}
}

func (gateway *Gateway) runEffect(name string, effect func() error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			gateway.logger.Warn().Str("effect", name).Msg(fmt.Sprint("notification panic: ", recovered))
		}
	}()

	if err := effect(); err != nil {
		gateway.logger.Warn().Str("effect", name).Err(err).Msg("notification failed")
	}
}

func notificationCopy(finished engine.Mode, taskLabel string) (string, string) {
	if finished == engine.ModeFocus {
		return "Focus session complete", "Nice work. Time for a break."
	}

	if taskLabel != "" {
		return "Break over", fmt.Sprintf("Back to %q.", taskLabel)
	}
	return "Break over", "Ready for the next focus session."
}
