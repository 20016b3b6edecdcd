// Package feed publishes the leaderboard over HTTP: a JSON snapshot at
// /scores and a live WebSocket stream at /ws.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	gorillaws "github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-flappy/internal/leaderboard"
)

const writeTimeout = 5 * time.Second

// Message is the frame sent to WebSocket clients on every change.
type Message struct {
	Type    string              `json:"type"`
	Entries []leaderboard.Entry `json:"entries"`
}

// NewMux routes the snapshot and stream endpoints.
func NewMux(board *leaderboard.Store, logger *log.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /scores", SnapshotHandler(board))
	mux.Handle("/ws", Handler(board, logger))
	return mux
}

// SnapshotHandler serves the current leaderboard as a JSON array.
func SnapshotHandler(board *leaderboard.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(board.Scores())
	})
}

// Handler returns an http.Handler that upgrades to WebSocket and streams
// the leaderboard. The current list is sent on connect; afterwards only the
// newest list is kept for a slow client.
func Handler(board *leaderboard.Store, logger *log.Logger) http.Handler {
	upgrader := gorillaws.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		updates := make(chan []leaderboard.Entry, 1)
		unsubscribe := board.Subscribe(func(entries []leaderboard.Entry) {
			for {
				select {
				case updates <- entries:
					return
				default:
				}
				select {
				case <-updates:
				default:
				}
			}
		})
		defer unsubscribe()

		// Reads only detect the client going away.
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			for {
				if _, _, err := conn.NextReader(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-gone:
				return
			case <-r.Context().Done():
				return
			case entries := <-updates:
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteJSON(Message{Type: "leaderboard", Entries: entries}); err != nil {
					if logger != nil {
						logger.Debug("feed client dropped", "remote", r.RemoteAddr, "error", err)
					}
					return
				}
			}
		}
	})
}

// Server serves the feed until its context is cancelled.
type Server struct {
	srv    *http.Server
	logger *log.Logger
}

// NewServer creates a feed server listening on addr.
func NewServer(addr string, board *leaderboard.Store, logger *log.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewMux(board, logger),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting leaderboard feed", "address", s.srv.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("feed server: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}
