package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/flappy"
	"github.com/vovakirdan/tui-flappy/internal/leaderboard"
	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
)

var flagRivals bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a round",
	Long: `Start the game in the terminal.

Controls:
  Space/Up/W/click - Launch, then boost
  P/Esc            - Pause
  Ctrl+S           - Save a screenshot
  Q/Ctrl+C         - Quit

After a crash, press Space once to return to the start screen and again
to launch. A score that makes the top 10 asks for your name.

Examples:
  flappy play
  flappy play --seed 42
  flappy play --rivals
  flappy play --config ./my-flappy.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagRivals, "rivals", false, "Simulate rival players posting scores")
}

func runPlay(_ *cobra.Command, _ []string) error {
	gameCfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	logger, logFile := newFileLogger()
	defer logFile.Close()

	board, kv, err := openBoard(gameCfg, logger, true)
	if err != nil {
		return err
	}
	defer kv.Close()
	defer board.Close()

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	if flagRivals {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go leaderboard.NewRivals(flagSeed).Run(ctx, board, leaderboard.RivalInterval)
	}

	if err := tui.Run(flappy.New(gameCfg), board, cfg, tui.ModelOptions{RememberName: true}); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
