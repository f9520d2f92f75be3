package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brick-arena/internal/config"
	"github.com/vovakirdan/brick-arena/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the arena with a difficulty menu",
	Long: `Start the arena in interactive menu mode.

Unfinished games appear at the top of the menu and can be resumed.
After a game you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Play
  Z            - Toggle never-lose mode
  Tab          - High scores
  Q            - Quit

Examples:
  arena menu
  arena menu --fps 30
  arena menu --db ./arena.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, closeLog := openLog()
	defer closeLog()

	cfg, err := loadConfig(config.Overrides{})
	if err != nil {
		return err
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sound, stopSound := maybeSound(ctx, cfg.SoundEnabled, logger)
	defer stopSound()

	err = tui.RunSession(store, tui.SessionOptions{
		Config:  cfg,
		Runtime: runtimeConfig(),
		Sound:   sound,
		Logger:  logger,
		Context: ctx,
	})
	if err != nil {
		return fmt.Errorf("error running menu: %w", err)
	}
	return nil
}
