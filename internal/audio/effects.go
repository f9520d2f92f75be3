// Package audio synthesizes the arena's sound effects with beep and plays
// them without ever blocking the simulation.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/vovakirdan/brick-arena/internal/games/breakout"
)

// DefaultSampleRate is used when no rate is configured.
const DefaultSampleRate = beep.SampleRate(44100)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
)

// tone is a fixed-length oscillator.
type tone struct {
	freq  float64
	phase float64 // In cycles, [0, 1)
	left  int     // Samples still to produce
	wave  Wave
	rate  beep.SampleRate
}

// NewTone returns a streamer producing freq Hz of the given wave for d.
func NewTone(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &tone{freq: freq, left: rate.N(d), wave: wave, rate: rate}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.left <= 0 {
			return i, i > 0
		}
		var v float64
		switch t.wave {
		case WaveSquare:
			v = 1
			if t.phase >= 0.5 {
				v = -1
			}
		case WaveSaw:
			v = 2*t.phase - 1
		default:
			v = math.Sin(2 * math.Pi * t.phase)
		}
		samples[i][0], samples[i][1] = v, v

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.left--
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// shape applies a linear attack and release over a streamer of known length.
type shape struct {
	s       beep.Streamer
	pos     int
	total   int
	attack  int
	release int
}

// NewShape fades s in over attack and out over release. total is the
// length of s.
func NewShape(s beep.Streamer, total, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &shape{s: s, total: rate.N(total), attack: rate.N(attack), release: rate.N(release)}
}

func (e *shape) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.s.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.attack > 0 && e.pos < e.attack {
			vol = float64(e.pos) / float64(e.attack)
		}
		if rem := e.total - e.pos; e.release > 0 && rem < e.release {
			vol = math.Max(float64(rem)/float64(e.release), 0)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.pos++
	}
	return n, ok
}

func (e *shape) Err() error { return e.s.Err() }

// withVolume scales s linearly; zero or less is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

func note(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return NewShape(NewTone(freq, d, wave, rate), d, 2*time.Millisecond, d/2, rate)
}

// Effect builds the streamer for one cue at the given volume (0..1).
// Unknown cues return nil.
func Effect(s breakout.Sound, rate beep.SampleRate, volume float64) beep.Streamer {
	var fx beep.Streamer
	switch s {
	case breakout.SoundBrickHit:
		fx = beep.Mix(
			withVolume(note(660, 60*time.Millisecond, WaveSquare, rate), 0.6),
			withVolume(note(1320, 60*time.Millisecond, WaveSine, rate), 0.3),
		)
	case breakout.SoundPaddleHit:
		fx = note(330, 80*time.Millisecond, WaveSine, rate)
	case breakout.SoundWallHit:
		fx = withVolume(note(220, 40*time.Millisecond, WaveSine, rate), 0.7)
	case breakout.SoundBallLost:
		fx = beep.Seq(
			note(300, 150*time.Millisecond, WaveSaw, rate),
			note(200, 250*time.Millisecond, WaveSaw, rate),
		)
	default:
		return nil
	}
	return withVolume(fx, volume)
}
