package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	chimeSampleRate beep.SampleRate = 44100
	chimeFrequency                  = 880
	chimeDuration                   = 2 * time.Second
)

// ChimePlayer plays a synthesized alert tone through the system speaker.
// The tone runs for a bounded duration and then stops.
type ChimePlayer struct {
	initOnce sync.Once
	initErr  error
}

// NewChimePlayer creates a ChimePlayer. The audio device is opened lazily
// on first play, so construction never fails on machines without audio.
func NewChimePlayer() *ChimePlayer {
	return &ChimePlayer{}
}

// Play synthesizes the chime and blocks until it finishes or times out.
func (player *ChimePlayer) Play() error {
	player.initOnce.Do(func() {
		player.initErr = speaker.Init(chimeSampleRate, chimeSampleRate.N(100*time.Millisecond))
	})
	if player.initErr != nil {
		return fmt.Errorf("open speaker: %w", player.initErr)
	}

	tone, err := generators.SineTone(chimeSampleRate, chimeFrequency)
	if err != nil {
		return fmt.Errorf("generate tone: %w", err)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(
		beep.Take(chimeSampleRate.N(chimeDuration), tone),
		beep.Callback(func() {
			close(done)
		}),
	))

	select {
	case <-done:
	case <-time.After(chimeDuration + time.Second):
		speaker.Clear()
	}
	return nil
}
