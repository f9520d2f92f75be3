// arena is a brick-breaking game for the terminal.
//
// Usage:
//
//	arena play               - Play one game directly
//	arena menu               - Pick a difficulty, resume saved games, browse scores
//	arena serve              - Start SSH server for remote play
//	arena scores [tier]      - Show high scores
//	arena tiers              - List difficulty tiers
//
// Global flags:
//
//	--fps <rate>      - Set simulation rate (default: 60)
//	--db <path>       - Set database path (default: ~/.arena/arena.db)
//	--config <path>   - Use a custom configuration YAML
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brick-arena/internal/storage"
)

var (
	// Global flags
	flagFPS    int
	flagDBPath string
	flagConfig string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "Brick Arena - break bricks in your terminal",
	Long: `Brick Arena is a terminal brick-breaking game: keep the ball in play
with your paddle and clear every brick.

Available commands:
  play     - Play a game directly
  menu     - Interactive menu with resume and scoreboard
  serve    - Start SSH server for remote play
  scores   - View high scores
  tiers    - List difficulty tiers

Examples:
  arena play --difficulty hard
  arena play --resume
  arena menu
  arena serve --ssh :2222
  arena scores normal`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Simulation rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to scores and saves database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(tiersCmd)
}
