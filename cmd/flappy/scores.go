package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/flappy"
	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Print the leaderboard",
	Long: `Display the top 10 scores.

Examples:
  flappy scores
  flappy scores --store redis --redis-addr localhost:6379`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func runScores(_ *cobra.Command, _ []string) error {
	gameCfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	board, kv, err := openBoard(gameCfg, newLogger("flappy"), false)
	if err != nil {
		return fmt.Errorf("opening scores: %w", err)
	}
	defer kv.Close()

	scores := board.Scores()

	fmt.Printf("High Scores - %s\n", flappy.GameTitle)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'flappy play' to set the first high score!")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-20s  %-6s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-20s  %-6s  %s\n", "----", "------", "-----", "----")

	for i, entry := range scores {
		dateStr := entry.Time().Format("2006-01-02 15:04")
		fmt.Printf("  %-4s  %-20s  %-6d  %s\n", tui.RankLabel(i), entry.PlayerName, entry.Score, dateStr)
	}

	fmt.Println()
	fmt.Printf("Best: %d by %s\n", scores[0].Score, scores[0].PlayerName)
	return nil
}
