package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brick-arena/internal/config"
	"github.com/vovakirdan/brick-arena/internal/storage"
)

var flagZen bool

var scoresCmd = &cobra.Command{
	Use:   "scores [tier]",
	Short: "Show high scores",
	Long: `Display the top 10 high scores for a difficulty tier, or a summary of
every tier when none is given.

Examples:
  arena scores
  arena scores hard
  arena scores normal --zen`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagZen, "zen", false, "Show never-lose scores")
}

func runScores(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig(config.Overrides{})
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer store.Close()

	if len(args) == 0 {
		return printSummary(store)
	}

	tier, ok := cfg.FindTier(args[0])
	if !ok {
		return fmt.Errorf("unknown tier %q, available: %s", args[0], strings.Join(cfg.TierNames(), ", "))
	}
	return printTier(store, config.Difficulty{Tier: tier, NeverLoseBall: flagZen})
}

func printTier(store *storage.Store, diff config.Difficulty) error {
	gameID := diff.GameID()
	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		return fmt.Errorf("error retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", gameID)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'arena play --difficulty %s' to set the first high score!\n", diff.Tier.Name)
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.Stats(gameID); err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  Games: %d  Average: %.0f\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
	}
	return nil
}

func printSummary(store *storage.Store) error {
	all, err := store.AllStats()
	if err != nil {
		return fmt.Errorf("error retrieving stats: %w", err)
	}
	if len(all) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(all))
	width := len("Game")
	for id := range all {
		ids = append(ids, id)
		width = max(width, len(id))
	}
	slices.Sort(ids)

	fmt.Printf("  %-*s  %-8s  %-6s  %s\n", width, "Game", "Best", "Games", "Last played")
	fmt.Printf("  %-*s  %-8s  %-6s  %s\n", width, "----", "----", "-----", "-----------")
	for _, id := range ids {
		st := all[id]
		fmt.Printf("  %-*s  %-8d  %-6d  %s\n", width, id, st.HighScore, st.GamesCount, st.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
