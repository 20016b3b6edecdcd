package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/leaderboard"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// Default storage locations per backend.
const (
	defaultSQLitePath = "~/.arcade/scores.db"
	defaultFilePath   = "~/.arcade/flappy-scores.json"
)

// newLogger returns a stderr logger for non-interactive commands.
func newLogger(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
}

// newFileLogger logs to ~/.arcade/flappy.log so the alt screen stays clean.
// The returned closer must be called on exit.
func newFileLogger() (*log.Logger, io.Closer) {
	home, err := os.UserHomeDir()
	if err != nil {
		return log.New(io.Discard), io.NopCloser(nil)
	}
	dir := filepath.Join(home, ".arcade")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return log.New(io.Discard), io.NopCloser(nil)
	}
	f, err := os.OpenFile(filepath.Join(dir, "flappy.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return log.New(io.Discard), io.NopCloser(nil)
	}
	return log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "flappy"}), f
}

// loadGameConfig loads the game config from --config or the default search path.
func loadGameConfig() (config.GameConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.GameConfig{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// storageOptions builds backend options from the global flags.
func storageOptions() (storage.Options, error) {
	kind, err := config.ParseStoreKind(flagStore)
	if err != nil {
		return storage.Options{}, err
	}

	path := flagDBPath
	if path == "" {
		path = defaultSQLitePath
		if kind == config.StoreFile {
			path = defaultFilePath
		}
	}

	redisCfg := storage.DefaultRedisConfig()
	redisCfg.Addr = flagRedisAddr

	return storage.Options{Kind: kind, Path: path, Redis: redisCfg}, nil
}

// openBoard opens the configured backend and the leaderboard on top of it.
// When the backend cannot be opened and fallback is set, scores are kept in
// memory for this run only.
func openBoard(cfg config.GameConfig, logger *log.Logger, fallback bool) (*leaderboard.Store, storage.KV, error) {
	opts, err := storageOptions()
	if err != nil {
		return nil, nil, err
	}

	kv, err := storage.Open(opts)
	if err != nil {
		if !fallback {
			return nil, nil, err
		}
		logger.Warn("could not open scores storage, scores will not persist", "store", opts.Kind, "error", err)
		kv = storage.NewMemory()
	}

	board := leaderboard.New(kv, leaderboard.Options{
		MaxEntries: cfg.Leaderboard.MaxEntries,
		NameMaxLen: cfg.Leaderboard.NameMaxLen,
		Logger:     logger,
	})
	return board, kv, nil
}
