package audio

import (
	"context"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"

	"github.com/vovakirdan/brick-arena/internal/games/breakout"
)

// Output hands a finished effect to the device, typically by adding it to a
// mixer the speaker is already playing.
type Output func(beep.Streamer)

// queueSize bounds pending cues; extra cues are dropped.
const queueSize = 16

// Player turns sound cues into streamers on its own goroutine.
// It implements breakout.SoundPlayer.
type Player struct {
	out    Output
	rate   beep.SampleRate
	volume float64
	queue  chan breakout.Sound
	logger *log.Logger

	played  atomic.Uint64
	dropped atomic.Uint64
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithSampleRate sets the rate effects are synthesized at. It must match
// the output device.
func WithSampleRate(rate beep.SampleRate) PlayerOption {
	return func(p *Player) {
		if rate > 0 {
			p.rate = rate
		}
	}
}

// WithVolume sets the master volume, 0..1.
func WithVolume(v float64) PlayerOption {
	return func(p *Player) {
		p.volume = min(max(v, 0), 1)
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) PlayerOption {
	return func(p *Player) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPlayer creates a player writing to out. Call Run to start it.
func NewPlayer(out Output, opts ...PlayerOption) *Player {
	p := &Player{
		out:    out,
		rate:   DefaultSampleRate,
		volume: 0.5,
		queue:  make(chan breakout.Sound, queueSize),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play queues a cue. It never blocks; a full queue drops the cue.
func (p *Player) Play(s breakout.Sound) {
	select {
	case p.queue <- s:
	default:
		p.dropped.Add(1)
	}
}

// Run synthesizes queued cues until ctx is done.
func (p *Player) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-p.queue:
			fx := Effect(s, p.rate, p.volume)
			if fx == nil {
				p.logger.Warn("no effect for sound", "sound", s.String())
				continue
			}
			p.played.Add(1)
			p.out(fx)
		}
	}
}

// Stats returns how many cues were played and dropped.
func (p *Player) Stats() (played, dropped uint64) {
	return p.played.Load(), p.dropped.Load()
}
