// Package config provides YAML-based game configuration loading and
// difficulty tier resolution for the arena.
package config

import "time"

// BreakoutConfig contains all configuration for the brick arena game.
type BreakoutConfig struct {
	Difficulty    string           `yaml:"difficulty"` // Tier name or zero-based index
	NeverLoseBall bool             `yaml:"never_lose_ball"`
	SoundEnabled  bool             `yaml:"sound_enabled"`
	Tiers         []DifficultyTier `yaml:"tiers"`
	Timing        TimingConfig     `yaml:"timing"`
	Paddle        PaddleConfig     `yaml:"paddle"`
}

// DifficultyTier is one selectable difficulty level.
type DifficultyTier struct {
	Name            string  `yaml:"name"`
	MaxLives        int     `yaml:"max_lives"`
	InitialSpeed    int     `yaml:"initial_speed"` // Arena units per second
	MaxSpeed        int     `yaml:"max_speed"`
	BallSize        float64 `yaml:"ball_size"`   // Multiplier on the base ball diameter
	PaddleSize      float64 `yaml:"paddle_size"` // Multiplier on the base paddle width
	ScoreMultiplier float64 `yaml:"score_multiplier"`
}

// TimingConfig defines pauses and frame pacing.
type TimingConfig struct {
	ReadyPause    time.Duration `yaml:"ready_pause"`     // Hold in Ready after a new game
	LifeLostPause time.Duration `yaml:"life_lost_pause"` // Hold in Ready after losing a ball
	ResizePause   time.Duration `yaml:"resize_pause"`    // Physics hold after a terminal resize
	MaxFrameDelta time.Duration `yaml:"max_frame_delta"` // Upper bound on one frame's elapsed time
	SaveInterval  time.Duration `yaml:"save_interval"`   // How often the runner refreshes the save snapshot
}

// PaddleConfig defines keyboard paddle control.
type PaddleConfig struct {
	KeyStep float64 `yaml:"key_step"` // Arena units moved per key press
}

// Overrides are command-line values applied on top of a loaded config.
// Nil pointers and empty strings leave the loaded value untouched.
type Overrides struct {
	Difficulty    string
	NeverLoseBall *bool
	SoundEnabled  *bool
}

// Apply copies the set override fields into the config.
func (c *BreakoutConfig) Apply(o Overrides) {
	if o.Difficulty != "" {
		c.Difficulty = o.Difficulty
	}
	if o.NeverLoseBall != nil {
		c.NeverLoseBall = *o.NeverLoseBall
	}
	if o.SoundEnabled != nil {
		c.SoundEnabled = *o.SoundEnabled
	}
}
