package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
)

// boardReloadInterval is how often the board re-reads the storage.
const boardReloadInterval = 2 * time.Second

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Browse the leaderboard",
	Long: `Open an interactive leaderboard that updates live. Scores saved by other
processes sharing the same storage show up within a couple of seconds.

Controls:
  Up/Down  - Scroll
  C        - Clear the board (asks to confirm)
  Q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runBoard,
}

func runBoard(_ *cobra.Command, _ []string) error {
	gameCfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	logger, logFile := newFileLogger()
	defer logFile.Close()

	board, kv, err := openBoard(gameCfg, logger, false)
	if err != nil {
		return fmt.Errorf("opening scores: %w", err)
	}
	defer kv.Close()
	defer board.Close()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	return tui.RunScoreboard(board, width, height, boardReloadInterval)
}
