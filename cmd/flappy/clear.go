package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagClearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the leaderboard",
	Long: `Remove every entry from the leaderboard. Requires --yes.

Examples:
  flappy clear --yes
  flappy clear --yes --store json`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&flagClearYes, "yes", "y", false, "Confirm clearing all scores")
}

func runClear(_ *cobra.Command, _ []string) error {
	if !flagClearYes {
		return fmt.Errorf("refusing to clear the leaderboard without --yes")
	}

	gameCfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	board, kv, err := openBoard(gameCfg, newLogger("flappy"), false)
	if err != nil {
		return fmt.Errorf("opening scores: %w", err)
	}
	defer kv.Close()

	removed := len(board.Scores())
	board.Clear()
	fmt.Printf("Cleared %d scores.\n", removed)
	return nil
}
