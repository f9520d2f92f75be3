package breakout

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brick-arena/internal/config"
	"github.com/vovakirdan/brick-arena/internal/core"
)

// Frame is one rendered frame plus the state it was drawn from.
// Frames are immutable once published.
type Frame struct {
	Screen  *core.Screen
	Status  Status
	PaddleX float64
	Paused  bool // Suspended by the player
	View    Viewport
}

type commandKind uint8

const (
	cmdNewGame commandKind = iota
	cmdTogglePause
	cmdResize
)

type command struct {
	kind          commandKind
	width, height int
}

const commandBuffer = 16

// Runner owns a Game on a single goroutine and drives it from a ticker.
// Other goroutines talk to it through PaddleInput, the control methods and
// the published Frame.
type Runner struct {
	game     *Game
	diff     config.Difficulty
	input    *PaddleInput
	commands chan command
	store    *SaveStore
	logger   *log.Logger

	screen       *core.Screen
	tickRate     int
	saveInterval time.Duration
	lastSave     time.Time
	paused       bool

	frame atomic.Pointer[Frame]
}

// NewRunner wraps g. Snapshots are written to store; a nil store gets a
// private one.
func NewRunner(g *Game, cfg core.RuntimeConfig, store *SaveStore) *Runner {
	cfg = cfg.Normalize()
	if store == nil {
		store = &SaveStore{}
	}
	r := &Runner{
		game:         g,
		diff:         g.Difficulty(),
		input:        NewPaddleInput(DefaultInputBuffer),
		commands:     make(chan command, commandBuffer),
		store:        store,
		logger:       g.logger,
		screen:       core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		tickRate:     cfg.TickRate,
		saveInterval: g.timing.SaveInterval,
	}
	r.publish()
	return r
}

// Input returns the paddle queue.
func (r *Runner) Input() *PaddleInput {
	return r.input
}

// Saves returns the snapshot store the runner writes to.
func (r *Runner) Saves() *SaveStore {
	return r.store
}

// Difficulty returns the knobs of the running game.
func (r *Runner) Difficulty() config.Difficulty {
	return r.diff
}

// Frame returns the most recently published frame. It never returns nil.
func (r *Runner) Frame() *Frame {
	return r.frame.Load()
}

// MovePaddle queues a paddle center in arena units.
func (r *Runner) MovePaddle(x float64) {
	r.input.Move(x)
}

// NewGame restarts play on the next frame.
func (r *Runner) NewGame() {
	r.send(command{kind: cmdNewGame})
}

// TogglePause suspends or resumes the simulation.
func (r *Runner) TogglePause() {
	r.send(command{kind: cmdTogglePause})
}

// Resize changes the frame size; the game pauses briefly.
func (r *Runner) Resize(width, height int) {
	r.send(command{kind: cmdResize, width: width, height: height})
}

func (r *Runner) send(c command) {
	select {
	case r.commands <- c:
	default:
		r.logger.Warn("runner control queue full, dropping request", "kind", c.kind)
	}
}

// Run ticks the game until ctx is done, then stores a final snapshot.
// A frame in progress always completes.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(r.tickRate))
	defer ticker.Stop()

	r.step(time.Now())
	for {
		select {
		case <-ctx.Done():
			r.store.Save(r.game.Save())
			return nil
		case now := <-ticker.C:
			r.step(now)
		}
	}
}

// step runs one frame: control requests, input, physics, snapshot, publish.
func (r *Runner) step(now time.Time) {
	r.applyCommands(now)

	if x, ok := r.input.drain(); ok {
		r.game.SetPaddleX(x)
	}

	wasOver := r.game.phase.Over()
	if !r.paused {
		r.game.CalculateNextFrame(now)
	}

	ended := !wasOver && r.game.phase.Over()
	if ended || now.Sub(r.lastSave) >= r.saveInterval {
		r.save(now)
	}
	r.publish()
}

func (r *Runner) applyCommands(now time.Time) {
	for {
		select {
		case c := <-r.commands:
			switch c.kind {
			case cmdNewGame:
				r.game.NewGame()
				r.paused = false
				r.save(now)
			case cmdTogglePause:
				r.paused = !r.paused
				if r.paused {
					r.save(now)
				} else {
					r.game.ResetClock()
				}
			case cmdResize:
				r.screen.Resize(c.width, c.height)
				r.game.SurfaceChanged()
			}
		default:
			return
		}
	}
}

func (r *Runner) save(now time.Time) {
	r.store.Save(r.game.Save())
	r.lastSave = now
}

func (r *Runner) publish() {
	r.game.Render(r.screen)
	v := ViewportFor(r.screen.Width(), r.screen.Height())
	if r.paused {
		DrawOverlay(r.screen, v.Y+v.H/2, "PAUSED", "P: resume  Q: quit", core.ColorBrightYellow)
	}
	r.frame.Store(&Frame{
		Screen:  r.screen.Clone(),
		Status:  r.game.Status(),
		PaddleX: r.game.PaddleX(),
		Paused:  r.paused,
		View:    v,
	})
}
