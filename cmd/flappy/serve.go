package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-flappy/internal/leaderboard"
	"github.com/vovakirdan/tui-flappy/internal/platform/feed"
	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagFeedAddr    string
	flagServeRivals bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH game server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own game. All users share the same leaderboard,
and every open session sees new scores as they land.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.arcade/host_key

With --feed, the leaderboard is also published over HTTP:
  GET /scores  - current list as JSON
  /ws          - WebSocket stream, one message per change

Examples:
  flappy serve                           # Listen on :23234 with auto-generated key
  flappy serve --ssh :2222               # Listen on port 2222
  flappy serve --feed :8080              # Also publish the leaderboard
  flappy serve --store redis             # Share scores through Redis

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagFeedAddr, "feed", "", "HTTP address for the leaderboard feed (disabled if empty)")
	serveCmd.Flags().BoolVar(&flagServeRivals, "rivals", false, "Simulate rival players posting scores")
}

func runServe(_ *cobra.Command, _ []string) error {
	logger := newLogger("flappy-ssh")

	gameCfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	board, kv, err := openBoard(gameCfg, logger, true)
	if err != nil {
		return err
	}
	defer kv.Close()
	defer board.Close()

	sshCfg := tui.DefaultSSHServerConfig()
	sshCfg.Address = flagSSHAddr
	sshCfg.HostKeyPath = flagHostKey
	sshCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	sshCfg.TickRate = flagFPS

	server, err := tui.NewSSHServer(sshCfg, gameCfg, board, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting flappy SSH server on %s\n", sshCfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(sshCfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.ListenAndServe(ctx) })
	if flagFeedAddr != "" {
		feedServer := feed.NewServer(flagFeedAddr, board, logger)
		g.Go(func() error { return feedServer.ListenAndServe(ctx) })
	}
	if flagServeRivals {
		g.Go(func() error {
			leaderboard.NewRivals(time.Now().UnixNano()).Run(ctx, board, leaderboard.RivalInterval)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// portOf returns the port part of a host:port address.
func portOf(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i+1:]
		}
	}
	return addr
}
