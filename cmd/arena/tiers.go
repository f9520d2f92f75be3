package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brick-arena/internal/config"
)

var flagDump bool

var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "List difficulty tiers",
	Long: `Show the difficulty tiers of the active configuration.

With --dump, print the built-in configuration YAML instead. Save it to
~/.arena/configs/breakout.yaml to customize the game.

Examples:
  arena tiers
  arena tiers --config ./my-arena.yaml
  arena tiers --dump > ~/.arena/configs/breakout.yaml`,
	Args: cobra.NoArgs,
	RunE: runTiers,
}

func init() {
	tiersCmd.Flags().BoolVar(&flagDump, "dump", false, "Print the default configuration YAML")
}

func runTiers(_ *cobra.Command, _ []string) error {
	if flagDump {
		_, err := os.Stdout.Write(config.DefaultYAML())
		return err
	}

	cfg, err := loadConfig(config.Overrides{})
	if err != nil {
		return err
	}

	fmt.Printf("  %-3s  %-8s  %-5s  %-11s  %-5s  %-6s  %s\n", "#", "Name", "Lives", "Speed", "Ball", "Paddle", "Score x")
	fmt.Printf("  %-3s  %-8s  %-5s  %-11s  %-5s  %-6s  %s\n", "-", "----", "-----", "-----", "----", "------", "-------")
	for i, t := range cfg.Tiers {
		marker := " "
		if t.Name == cfg.Difficulty {
			marker = "*"
		}
		fmt.Printf("%s %-3d  %-8s  %-5d  %4d-%-6d  %-5.2g  %-6.2g  %g\n",
			marker, i, t.Name, t.MaxLives, t.InitialSpeed, t.MaxSpeed, t.BallSize, t.PaddleSize, t.ScoreMultiplier)
	}
	fmt.Println()
	fmt.Println("* default tier. Run 'arena play --difficulty <name>' to pick another.")
	return nil
}
