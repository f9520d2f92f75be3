package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/brick-arena/internal/audio"
	"github.com/vovakirdan/brick-arena/internal/games/breakout"
)

// startSound opens the audio device and starts a player feeding it.
// The returned stop function silences and releases the device.
func startSound(ctx context.Context, logger *log.Logger) (breakout.SoundPlayer, func(), error) {
	rate := audio.DefaultSampleRate
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return nil, nil, fmt.Errorf("audio: cannot open output device: %w", err)
	}

	mixer := &beep.Mixer{}
	speaker.Play(mixer)

	player := audio.NewPlayer(func(s beep.Streamer) {
		speaker.Lock()
		mixer.Add(s)
		speaker.Unlock()
	}, audio.WithSampleRate(rate), audio.WithLogger(logger))

	ctx, cancel := context.WithCancel(ctx)
	go player.Run(ctx)

	stop := func() {
		cancel()
		speaker.Lock()
		mixer.Clear()
		speaker.Unlock()
		played, dropped := player.Stats()
		logger.Debug("sound stopped", "played", played, "dropped", dropped)
		speaker.Close()
	}
	return player, stop, nil
}

// maybeSound starts audio when enabled. Device errors disable sound
// instead of failing the game.
func maybeSound(ctx context.Context, enabled bool, logger *log.Logger) (breakout.SoundPlayer, func()) {
	if !enabled {
		return nil, func() {}
	}
	player, stop, err := startSound(ctx, logger)
	if err != nil {
		logger.Warn("sound disabled", "error", err)
		return nil, func() {}
	}
	return player, stop
}
