package breakout

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brick-arena/internal/config"
	"github.com/vovakirdan/brick-arena/internal/core"
)

// Phase is the game state machine position.
type Phase uint8

const (
	PhaseInitializing Phase = iota
	PhaseReady
	PhasePlaying
	PhaseWon
	PhaseLost
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseReady:
		return "ready"
	case PhasePlaying:
		return "playing"
	case PhaseWon:
		return "won"
	case PhaseLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Over reports whether the phase is terminal.
func (p Phase) Over() bool {
	return p == PhaseWon || p == PhaseLost
}

// Message is the status text shown over the arena.
type Message uint8

const (
	MessageNone Message = iota
	MessageReady
	MessageWon
	MessageLost
)

// pulseInterval is how long each paddle color lasts while paused.
const pulseInterval = 0.1

// FrameResult describes what one CalculateNextFrame call did.
type FrameResult struct {
	Phase    Phase
	Event    Event
	Delta    float64 // Seconds of simulated time, after clamping
	Baseline bool    // The call only recorded the clock
}

// Status is a read-only summary for HUDs and lifecycle code.
type Status struct {
	Phase      Phase
	Message    Message
	Lives      int
	Score      int
	LiveBricks int
	Tier       string
	Paused     bool // A timed pause is running
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger used for recoverable anomalies.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithSound sets the effect player. The default plays nothing.
func WithSound(p SoundPlayer) Option {
	return func(g *Game) {
		if p != nil {
			g.sound = p
		}
	}
}

// WithTiming overrides the default pauses and frame clamp.
func WithTiming(t config.TimingConfig) Option {
	return func(g *Game) {
		g.timing = t
	}
}

// Game is the simulation. It is not safe for concurrent use; Runner owns it
// on a single goroutine.
type Game struct {
	diff   config.Difficulty
	timing config.TimingConfig
	logger *log.Logger
	sound  SoundPlayer

	arena   Arena
	phase   Phase
	message Message
	lives   int
	score   int

	last        time.Time
	hasBaseline bool
	pause       float64 // Seconds left in the current timed pause
	pulse       float64 // Seconds into the paddle animation
}

// New creates a game for the given difficulty, ready for its first frame.
func New(diff config.Difficulty, opts ...Option) *Game {
	g := &Game{
		diff:   diff,
		timing: config.DefaultTiming(),
		logger: log.Default(),
		sound:  silent{},
	}
	for _, opt := range opts {
		opt(g)
	}
	g.NewGame()
	return g
}

// NewGame resets entities, lives and score and goes back to Initializing.
func (g *Game) NewGame() {
	g.arena = newArena(g.diff.Tier)
	g.phase = PhaseInitializing
	g.message = MessageNone
	g.lives = g.diff.Tier.MaxLives
	g.score = 0
	g.pause = 0
	g.pulse = 0
	g.hasBaseline = false
}

// Difficulty returns the knobs this game was created with.
func (g *Game) Difficulty() config.Difficulty {
	return g.diff
}

// CalculateNextFrame advances the simulation to now. The first call after
// creation or ResetClock only records the time. Events raised by the ball
// are applied before returning.
func (g *Game) CalculateNextFrame(now time.Time) FrameResult {
	if g.phase == PhaseInitializing {
		g.enterReady(g.timing.ReadyPause)
	}

	if !g.hasBaseline {
		g.last = now
		g.hasBaseline = true
		return FrameResult{Phase: g.phase, Baseline: true}
	}

	delta := now.Sub(g.last).Seconds()
	g.last = now
	delta = core.ClampF(delta, 0, g.timing.MaxFrameDelta.Seconds())
	res := FrameResult{Delta: delta}

	if g.pause > 0 {
		g.pause -= delta
		g.pulse += delta
		if g.pause > 0 {
			g.arena.Paddle.Color = core.Cycle(core.PulsePalette, int(g.pulse/pulseInterval))
			res.Phase = g.phase
			return res
		}
		g.pause = 0
		g.pulse = 0
		g.arena.Paddle.Color = PaddleColor
	}

	switch g.phase {
	case PhaseReady:
		g.phase = PhasePlaying
		g.message = MessageNone
	case PhasePlaying:
		res.Event = g.advance(delta * float64(g.arena.Ball.Speed))
		g.apply(res.Event)
	}

	res.Phase = g.phase
	return res
}

// apply moves the state machine on a terminal event.
func (g *Game) apply(ev Event) {
	switch ev {
	case EventAllBricksCleared:
		g.phase = PhaseWon
		g.message = MessageWon
	case EventBallLost:
		g.lives--
		if g.lives <= 0 {
			g.lives = 0
			g.phase = PhaseLost
			g.message = MessageLost
			return
		}
		g.arena.resetBall(g.diff.Tier.InitialSpeed)
		g.enterReady(g.timing.LifeLostPause)
	}
}

func (g *Game) enterReady(pause time.Duration) {
	g.phase = PhaseReady
	g.message = MessageReady
	g.startPause(pause)
}

func (g *Game) startPause(d time.Duration) {
	if s := d.Seconds(); s > g.pause {
		g.pause = s
	}
}

// SurfaceChanged holds physics briefly after the drawing surface was
// reconfigured, without changing state.
func (g *Game) SurfaceChanged() {
	g.startPause(g.timing.ResizePause)
}

// ResetClock makes the next frame a baseline frame, so time spent suspended
// is not simulated.
func (g *Game) ResetClock() {
	g.hasBaseline = false
}

// SetPaddleX moves the paddle center to x, clamped between the side walls.
func (g *Game) SetPaddleX(x float64) {
	g.arena.movePaddle(x)
}

// PaddleX returns the paddle center.
func (g *Game) PaddleX() float64 {
	return g.arena.Paddle.X
}

// Ball returns a copy of the ball.
func (g *Game) Ball() Ball {
	return g.arena.Ball
}

// Status returns the current summary.
func (g *Game) Status() Status {
	return Status{
		Phase:      g.phase,
		Message:    g.message,
		Lives:      g.lives,
		Score:      g.score,
		LiveBricks: g.arena.liveBricks,
		Tier:       g.diff.Tier.Name,
		Paused:     g.pause > 0,
	}
}

// Entities calls fn for every live brick, each wall and the paddle.
func (g *Game) Entities(fn func(kind Kind, r Rect)) {
	for i := range g.arena.Bricks {
		if g.arena.Bricks[i].Alive {
			fn(KindBrick, g.arena.Bricks[i].Rect)
		}
	}
	for _, r := range g.arena.Borders {
		fn(KindBorder, r)
	}
	fn(KindPaddle, g.arena.Paddle)
}
