package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/breakout.yaml
var defaultBreakoutYAML []byte

// DefaultTierName is the tier used when the configured one cannot be resolved.
const DefaultTierName = "normal"

// DefaultTiers returns the built-in difficulty tiers, easiest first.
func DefaultTiers() []DifficultyTier {
	return []DifficultyTier{
		{Name: "easy", MaxLives: 4, InitialSpeed: 200, MaxSpeed: 500, BallSize: 2.0, PaddleSize: 2.0, ScoreMultiplier: 1.0},
		{Name: "normal", MaxLives: 3, InitialSpeed: 300, MaxSpeed: 800, BallSize: 1.0, PaddleSize: 1.0, ScoreMultiplier: 1.0},
		{Name: "hard", MaxLives: 3, InitialSpeed: 600, MaxSpeed: 1200, BallSize: 1.0, PaddleSize: 1.0, ScoreMultiplier: 2.0},
		{Name: "absurd", MaxLives: 1, InitialSpeed: 1000, MaxSpeed: 1600, BallSize: 1.0, PaddleSize: 0.5, ScoreMultiplier: 3.0},
	}
}

// DefaultTiming returns the default pauses and frame pacing.
func DefaultTiming() TimingConfig {
	return TimingConfig{
		ReadyPause:    time.Second,
		LifeLostPause: 1500 * time.Millisecond,
		ResizePause:   500 * time.Millisecond,
		MaxFrameDelta: 500 * time.Millisecond,
		SaveInterval:  2 * time.Second,
	}
}

// DefaultBreakoutConfig returns the default configuration.
// It mirrors defaults/breakout.yaml and is used if the embedded file fails to parse.
func DefaultBreakoutConfig() BreakoutConfig {
	return BreakoutConfig{
		Difficulty:    DefaultTierName,
		NeverLoseBall: false,
		SoundEnabled:  true,
		Tiers:         DefaultTiers(),
		Timing:        DefaultTiming(),
		Paddle: PaddleConfig{
			KeyStep: 40,
		},
	}
}

// DefaultYAML returns the embedded default YAML, for `arena tiers --dump`.
func DefaultYAML() []byte {
	return defaultBreakoutYAML
}
