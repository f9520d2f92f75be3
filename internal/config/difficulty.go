package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// Difficulty is the resolved, immutable set of gameplay knobs for one game.
// It is fixed before the simulation starts; a different Difficulty means a
// different saved-game slot.
type Difficulty struct {
	Tier          DifficultyTier
	NeverLoseBall bool
}

// Fingerprint identifies the gameplay-affecting values. Saved games are keyed
// by it so that changing any knob invalidates an old save.
func (d Difficulty) Fingerprint() string {
	t := d.Tier
	return fmt.Sprintf("%s:%d:%d:%d:%g:%g:%g:%t",
		t.Name, t.MaxLives, t.InitialSpeed, t.MaxSpeed,
		t.BallSize, t.PaddleSize, t.ScoreMultiplier, d.NeverLoseBall)
}

// GameID is the score-table key for this difficulty.
func (d Difficulty) GameID() string {
	if d.NeverLoseBall {
		return "breakout/" + d.Tier.Name + "+zen"
	}
	return "breakout/" + d.Tier.Name
}

// TierNames returns the configured tier names in order.
func (c BreakoutConfig) TierNames() []string {
	names := make([]string, len(c.Tiers))
	for i, t := range c.Tiers {
		names[i] = t.Name
	}
	return names
}

// FindTier looks a tier up by case-insensitive name or zero-based index.
func (c BreakoutConfig) FindTier(key string) (DifficultyTier, bool) {
	key = strings.TrimSpace(key)
	if idx, err := strconv.Atoi(key); err == nil {
		if idx >= 0 && idx < len(c.Tiers) {
			return c.Tiers[idx], true
		}
		return DifficultyTier{}, false
	}
	for _, t := range c.Tiers {
		if strings.EqualFold(t.Name, key) {
			return t, true
		}
	}
	return DifficultyTier{}, false
}

// Resolve picks the configured tier and sanitizes it. Unknown tiers and
// out-of-range values are replaced by defaults and logged, never fatal.
func (c BreakoutConfig) Resolve(logger *log.Logger) Difficulty {
	if logger == nil {
		logger = log.Default()
	}
	if len(c.Tiers) == 0 {
		logger.Warn("no difficulty tiers configured, using built-in tiers")
		c.Tiers = DefaultTiers()
	}

	tier, ok := c.FindTier(c.Difficulty)
	if !ok {
		logger.Warn("unknown difficulty, substituting default",
			"difficulty", c.Difficulty, "default", DefaultTierName)
		tier, ok = c.FindTier(DefaultTierName)
		if !ok {
			tier = c.Tiers[0]
		}
	}

	return Difficulty{
		Tier:          sanitizeTier(tier, logger),
		NeverLoseBall: c.NeverLoseBall,
	}
}

// sanitizeTier clamps tier values into playable ranges.
func sanitizeTier(t DifficultyTier, logger *log.Logger) DifficultyTier {
	fixed := t
	if fixed.MaxLives < 1 {
		fixed.MaxLives = 1
	}
	if fixed.InitialSpeed <= 0 {
		fixed.InitialSpeed = 300
	}
	if fixed.MaxSpeed < fixed.InitialSpeed {
		fixed.MaxSpeed = fixed.InitialSpeed
	}
	if fixed.BallSize <= 0 {
		fixed.BallSize = 1
	}
	if fixed.PaddleSize <= 0 {
		fixed.PaddleSize = 1
	}
	if fixed.ScoreMultiplier < 0 {
		fixed.ScoreMultiplier = 0
	}
	if fixed != t {
		logger.Warn("difficulty tier had out-of-range values", "tier", t.Name, "fixed", fmt.Sprintf("%+v", fixed))
	}
	return fixed
}
