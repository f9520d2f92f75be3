package breakout

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

const unitTolerance = 1e-9

var (
	// ErrSnapshotInvalid is returned when restoring a state that was never saved.
	ErrSnapshotInvalid = errors.New("breakout: snapshot is not valid")
	// ErrSnapshotShape is returned when a snapshot's brick grid does not
	// match the arena layout.
	ErrSnapshotShape = errors.New("breakout: snapshot does not match arena layout")
)

// SaveState is everything needed to continue a game later.
type SaveState struct {
	Valid    bool
	Bricks   []bool // Liveness, in grid order
	BallX    float64
	BallY    float64
	BallDirX float64
	BallDirY float64
	Speed    int
	PaddleX  float64
	Phase    Phase
	Message  Message
	Lives    int
	Score    int
}

// clone returns a copy that shares no memory with s.
func (s SaveState) clone() SaveState {
	if s.Bricks != nil {
		s.Bricks = append([]bool(nil), s.Bricks...)
	}
	return s
}

// Save captures the current game.
func (g *Game) Save() SaveState {
	bricks := make([]bool, len(g.arena.Bricks))
	for i := range g.arena.Bricks {
		bricks[i] = g.arena.Bricks[i].Alive
	}
	b := g.arena.Ball
	return SaveState{
		Valid:    true,
		Bricks:   bricks,
		BallX:    b.X,
		BallY:    b.Y,
		BallDirX: b.DirX,
		BallDirY: b.DirY,
		Speed:    b.Speed,
		PaddleX:  g.arena.Paddle.X,
		Phase:    g.phase,
		Message:  g.message,
		Lives:    g.lives,
		Score:    g.score,
	}
}

// Restore replaces the game with a saved one. The clock is reset and a
// ready pause is inserted so play does not resume mid-flight.
func (g *Game) Restore(s SaveState) error {
	if !s.Valid {
		return ErrSnapshotInvalid
	}
	if len(s.Bricks) != len(g.arena.Bricks) {
		return fmt.Errorf("%w: %d bricks saved, %d in layout", ErrSnapshotShape, len(s.Bricks), len(g.arena.Bricks))
	}

	g.NewGame()
	for i, alive := range s.Bricks {
		g.arena.Bricks[i].Alive = alive
	}
	g.arena.countLive()

	b := &g.arena.Ball
	b.X, b.Y = s.BallX, s.BallY
	if n := math.Hypot(s.BallDirX, s.BallDirY); math.Abs(n-1) < unitTolerance {
		// Already unit length: keep the exact values
		b.DirX, b.DirY = s.BallDirX, s.BallDirY
	} else if !b.SetDirection(s.BallDirX, s.BallDirY) {
		g.logger.Warn("saved ball direction is zero, using launch direction")
	}
	tier := g.diff.Tier
	b.Speed = min(max(s.Speed, tier.InitialSpeed), tier.MaxSpeed)
	g.arena.movePaddle(s.PaddleX)

	g.phase = s.Phase
	if g.phase > PhaseLost {
		g.phase = PhaseReady
	}
	g.message = s.Message
	g.lives = min(max(s.Lives, 0), tier.MaxLives)
	g.score = max(s.Score, 0)

	if !g.phase.Over() {
		g.startPause(g.timing.ReadyPause)
	}
	return nil
}

// SaveStore holds the latest snapshot. It is written by the runner and read
// by lifecycle code on other goroutines.
type SaveStore struct {
	mu    sync.Mutex
	state SaveState
}

// Save stores a copy of s.
func (s *SaveStore) Save(st SaveState) {
	st = st.clone()
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Load returns a copy of the stored snapshot and whether it is valid.
func (s *SaveStore) Load() (SaveState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone(), s.state.Valid
}

// CanResume reports whether the stored game is unfinished.
func (s *SaveStore) CanResume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Valid && !s.state.Phase.Over()
}

// FinalScore returns the score of a finished game. ok is false while the
// stored game is still in progress or nothing is stored.
func (s *SaveStore) FinalScore() (score int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Valid || !s.state.Phase.Over() {
		return 0, false
	}
	return s.state.Score, true
}
