// flappy is a terminal Flappy-style game with a persistent top-10 leaderboard.
//
// Usage:
//
//	flappy                   - Play (same as 'flappy play')
//	flappy play              - Play a round in the terminal
//	flappy board             - Browse the leaderboard live
//	flappy scores            - Print the leaderboard
//	flappy clear             - Empty the leaderboard
//	flappy serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--config <path>      - Custom game config YAML
//	--store <kind>       - Leaderboard backend: sqlite, json or redis
//	--db <path>          - Database or JSON file path
//	--redis-addr <addr>  - Redis address for --store redis
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS       int
	flagSeed      int64
	flagConfig    string
	flagStore     string
	flagDBPath    string
	flagRedisAddr string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flappy",
	Short: "Flappy Orbit - steer a ship through an asteroid field",
	Long: `Flappy Orbit is a one-button terminal game. Boost the ship through the
gaps between asteroid columns; every column you clear scores a point.
The ten best runs are kept on a shared leaderboard.

Available commands:
  play     - Play (default)
  board    - Interactive leaderboard
  scores   - Print the leaderboard
  clear    - Empty the leaderboard
  serve    - Start SSH server for remote play

Examples:
  flappy
  flappy play --rivals
  flappy scores --store json
  flappy serve --ssh :2222 --feed :8080`,
	RunE: runPlay,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "sqlite", "Leaderboard backend: sqlite, json, redis")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Database path (default ~/.arcade/scores.db, or ~/.arcade/flappy-scores.json for json)")
	rootCmd.PersistentFlags().StringVar(&flagRedisAddr, "redis-addr", "localhost:6379", "Redis address for --store redis")

	rootCmd.Flags().BoolVar(&flagRivals, "rivals", false, "Simulate rival players posting scores")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(serveCmd)
}
