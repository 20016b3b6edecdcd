// Package tui provides the Bubble Tea integration for the game.
// It handles the terminal UI loop, input mapping, and leaderboard display.
package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-flappy/internal/leaderboard"
)

// TickMsg is sent to trigger a game simulation tick. Gen identifies the
// frame loop that scheduled it; ticks from a stopped loop are dropped.
type TickMsg struct {
	Gen  int
	Time time.Time
}

// tickCmd returns a Bubble Tea command that sends one tick after a frame interval.
func tickCmd(tickRate, gen int) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, Time: t}
	})
}

// reloadMsg asks the scoreboard to re-read the persisted leaderboard.
type reloadMsg struct{}

func reloadCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return reloadMsg{}
	})
}

// ScoresMsg carries a leaderboard update into the Bubble Tea loop.
type ScoresMsg []leaderboard.Entry

// boardFeed bridges leaderboard callbacks into a Bubble Tea program.
// Only the newest list is buffered; older undelivered lists are dropped.
type boardFeed struct {
	updates     chan []leaderboard.Entry
	done        chan struct{}
	unsubscribe func()
	once        sync.Once
}

func subscribeBoard(board *leaderboard.Store) *boardFeed {
	f := &boardFeed{
		updates: make(chan []leaderboard.Entry, 1),
		done:    make(chan struct{}),
	}
	f.unsubscribe = board.Subscribe(f.push)
	return f
}

func (f *boardFeed) push(entries []leaderboard.Entry) {
	for {
		select {
		case f.updates <- entries:
			return
		default:
		}
		// Drop the stale value and retry.
		select {
		case <-f.updates:
		default:
		}
	}
}

// wait blocks until the next update or until the feed is closed.
func (f *boardFeed) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case entries := <-f.updates:
			return ScoresMsg(entries)
		case <-f.done:
			return nil
		}
	}
}

// Close unsubscribes and releases any pending wait. Safe to call twice.
func (f *boardFeed) Close() {
	f.once.Do(func() {
		f.unsubscribe()
		close(f.done)
	})
}
