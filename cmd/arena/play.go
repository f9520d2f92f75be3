package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brick-arena/internal/config"
	"github.com/vovakirdan/brick-arena/internal/platform/tui"
)

var (
	flagDifficulty string
	flagNeverLose  bool
	flagSound      bool
	flagResume     bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start playing at the configured difficulty.

Controls:
  Left/Right, A/D, H/L  - Move paddle
  Mouse                 - Paddle follows the pointer
  P/Space               - Pause
  R/Enter               - New game (after win or loss)
  Ctrl+S                - Save a screenshot
  Q/Ctrl+C              - Quit (the game is saved for --resume)

Difficulty is a tier name or zero-based index, see 'arena tiers'.

Examples:
  arena play
  arena play --difficulty hard
  arena play --difficulty 0 --never-lose
  arena play --resume
  arena play --sound=false`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty tier name or index")
	playCmd.Flags().BoolVar(&flagNeverLose, "never-lose", false, "Losing the ball costs points instead of a life")
	playCmd.Flags().BoolVar(&flagSound, "sound", true, "Play sound effects")
	playCmd.Flags().BoolVar(&flagResume, "resume", false, "Continue the saved game for this difficulty")
}

// overrides collects the flags the user actually set.
func overrides(cmd *cobra.Command) config.Overrides {
	o := config.Overrides{Difficulty: flagDifficulty}
	if cmd.Flags().Changed("never-lose") {
		o.NeverLoseBall = &flagNeverLose
	}
	if cmd.Flags().Changed("sound") {
		o.SoundEnabled = &flagSound
	}
	return o
}

func runPlay(cmd *cobra.Command, _ []string) error {
	logger, closeLog := openLog()
	defer closeLog()

	cfg, err := loadConfig(overrides(cmd))
	if err != nil {
		return err
	}
	diff := cfg.Resolve(logger)

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sound, stopSound := maybeSound(ctx, cfg.SoundEnabled, logger)
	defer stopSound()

	logger.Info("starting game", "tier", diff.Tier.Name, "never_lose", diff.NeverLoseBall, "resume", flagResume)
	err = tui.Run(store, runtimeConfig(), tui.GameOptions{
		Difficulty: diff,
		Timing:     cfg.Timing,
		KeyStep:    cfg.Paddle.KeyStep,
		Resume:     flagResume,
		Sound:      sound,
		Logger:     logger,
		Context:    ctx,
	})
	if err != nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}
