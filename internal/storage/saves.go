package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/brick-arena/internal/games/breakout"
)

// ErrNoSavedGame is returned by LoadGame when nothing is stored for a
// fingerprint.
var ErrNoSavedGame = errors.New("storage: no saved game")

// SaveGame stores st as the saved game for fingerprint, replacing any
// previous one. Fingerprints come from config.Difficulty.Fingerprint, so a
// change to any gameplay knob starts a fresh slot.
func (s *Store) SaveGame(fingerprint, gameID string, st breakout.SaveState) error {
	if !st.Valid {
		return fmt.Errorf("storage: cannot save game: %w", breakout.ErrSnapshotInvalid)
	}
	_, err := s.db.Exec(
		`INSERT INTO saved_games
			(fingerprint, game_id, bricks, ball_x, ball_y, dir_x, dir_y, speed, paddle_x, phase, message, lives, score, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(fingerprint) DO UPDATE SET
			game_id = excluded.game_id,
			bricks = excluded.bricks,
			ball_x = excluded.ball_x,
			ball_y = excluded.ball_y,
			dir_x = excluded.dir_x,
			dir_y = excluded.dir_y,
			speed = excluded.speed,
			paddle_x = excluded.paddle_x,
			phase = excluded.phase,
			message = excluded.message,
			lives = excluded.lives,
			score = excluded.score,
			updated_at = CURRENT_TIMESTAMP`,
		fingerprint, gameID, encodeBricks(st.Bricks),
		st.BallX, st.BallY, st.BallDirX, st.BallDirY, st.Speed, st.PaddleX,
		int(st.Phase), int(st.Message), st.Lives, st.Score,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save game: %w", err)
	}
	return nil
}

// LoadGame returns the saved game for fingerprint, or ErrNoSavedGame.
func (s *Store) LoadGame(fingerprint string) (breakout.SaveState, error) {
	var (
		st             breakout.SaveState
		bricks         string
		phase, message int
	)
	err := s.db.QueryRow(
		`SELECT bricks, ball_x, ball_y, dir_x, dir_y, speed, paddle_x, phase, message, lives, score
		 FROM saved_games WHERE fingerprint = ?`,
		fingerprint,
	).Scan(&bricks, &st.BallX, &st.BallY, &st.BallDirX, &st.BallDirY, &st.Speed, &st.PaddleX,
		&phase, &message, &st.Lives, &st.Score)
	if errors.Is(err, sql.ErrNoRows) {
		return breakout.SaveState{}, ErrNoSavedGame
	}
	if err != nil {
		return breakout.SaveState{}, fmt.Errorf("storage: cannot load game: %w", err)
	}

	st.Bricks, err = decodeBricks(bricks)
	if err != nil {
		return breakout.SaveState{}, err
	}
	st.Phase = breakout.Phase(phase)
	st.Message = breakout.Message(message)
	st.Valid = true
	return st, nil
}

// DeleteGame removes the saved game for fingerprint. Deleting a missing
// save is not an error.
func (s *Store) DeleteGame(fingerprint string) error {
	if _, err := s.db.Exec("DELETE FROM saved_games WHERE fingerprint = ?", fingerprint); err != nil {
		return fmt.Errorf("storage: cannot delete saved game: %w", err)
	}
	return nil
}

// HasSavedGame reports whether an unfinished game is stored for fingerprint.
func (s *Store) HasSavedGame(fingerprint string) bool {
	st, err := s.LoadGame(fingerprint)
	return err == nil && !st.Phase.Over()
}

// encodeBricks stores liveness as a string of '1' (alive) and '0'.
func encodeBricks(bricks []bool) string {
	var sb strings.Builder
	sb.Grow(len(bricks))
	for _, alive := range bricks {
		if alive {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func decodeBricks(s string) ([]bool, error) {
	bricks := make([]bool, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '1':
			bricks[i] = true
		case '0':
		default:
			return nil, fmt.Errorf("storage: corrupt brick data at %d: %q", i, s[i])
		}
	}
	return bricks, nil
}
