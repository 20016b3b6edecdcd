package leaderboard

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// Options tunes a Store. Zero values pick the defaults.
type Options struct {
	MaxEntries int
	NameMaxLen int
	Logger     *log.Logger
	Now        func() time.Time
	NewID      func() string
}

// Store is the leaderboard. It is safe for concurrent use; SSH sessions
// share one Store.
//
// Listeners run outside the state lock but are serialized with each
// other, so every listener observes changes in order. A listener may call
// Scores, Qualifies or its own unsubscribe; it must not call AddScore,
// Clear, Reload or Subscribe, which would deadlock.
type Store struct {
	kv     storage.KV
	opts   Options
	logger *log.Logger

	deliverMu sync.Mutex // serializes listener delivery

	mu        sync.Mutex
	scores    []Entry
	listeners []subscription
	nextSub   uint64
}

type subscription struct {
	id uint64
	fn Listener
}

// New creates a Store backed by kv and loads the persisted list.
// Missing, unreadable or malformed data yields an empty leaderboard.
func New(kv storage.KV, opts Options) *Store {
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.NameMaxLen <= 0 {
		opts.NameMaxLen = DefaultNameMaxLen
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if kv == nil {
		kv = storage.NewMemory()
	}

	s := &Store{
		kv:     kv,
		opts:   opts,
		logger: opts.Logger.WithPrefix("leaderboard"),
	}
	s.scores = s.load()
	return s
}

func (s *Store) load() []Entry {
	entries, err := s.read()
	if err != nil {
		s.logger.Warn("could not load leaderboard", "error", err)
		return nil
	}
	return entries
}

// read decodes the persisted list, sorted and capped. A missing slot is an
// empty list.
func (s *Store) read() ([]Entry, error) {
	data, err := s.kv.Get(ScoresKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read slot: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("malformed slot: %w", err)
	}
	sortEntries(entries)
	if len(entries) > s.opts.MaxEntries {
		entries = entries[:s.opts.MaxEntries]
	}
	return entries, nil
}

// Reload re-reads the persisted list so saves made by other processes
// sharing the storage show up here. Listeners are notified only when the
// list changed. An unreadable or malformed slot keeps the current list.
func (s *Store) Reload() bool {
	entries, err := s.read()
	if err != nil {
		s.logger.Warn("could not reload leaderboard", "error", err)
		return false
	}

	s.mu.Lock()
	if slices.Equal(s.scores, entries) {
		s.mu.Unlock()
		return false
	}
	s.scores = entries
	s.mu.Unlock()

	s.logger.Debug("leaderboard reloaded", "entries", len(entries))
	s.notify()
	return true
}

// persist writes the current list. Caller holds s.mu.
func (s *Store) persist() {
	list := s.scores
	if list == nil {
		list = []Entry{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		s.logger.Error("could not encode leaderboard", "error", err)
		return
	}
	if err := s.kv.Set(ScoresKey, data); err != nil {
		s.logger.Warn("could not save leaderboard", "error", err)
	}
}

// AddScore records a finished round. Names are trimmed and cut to the
// configured rune length; an empty name or a non-positive score is
// ignored. It reports whether the entry made the list.
func (s *Store) AddScore(name string, score int) bool {
	name = s.cleanName(name)
	if name == "" || score <= 0 {
		return false
	}

	entry := Entry{
		ID:         s.opts.NewID(),
		PlayerName: name,
		Score:      score,
		Timestamp:  s.opts.Now().UnixMilli(),
	}

	s.mu.Lock()
	s.scores = append(s.scores, entry)
	sortEntries(s.scores)
	if len(s.scores) > s.opts.MaxEntries {
		s.scores = s.scores[:s.opts.MaxEntries]
	}
	kept := slices.ContainsFunc(s.scores, func(e Entry) bool { return e.ID == entry.ID })
	s.persist()
	s.mu.Unlock()

	s.logger.Debug("score added", "player", name, "score", score, "kept", kept)
	s.notify()
	return kept
}

// Clear empties the leaderboard.
func (s *Store) Clear() {
	s.mu.Lock()
	s.scores = nil
	s.persist()
	s.mu.Unlock()

	s.logger.Info("leaderboard cleared")
	s.notify()
}

// Scores returns a copy of the list, best first.
func (s *Store) Scores() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyScores()
}

// Qualifies reports whether score would earn a place on the list.
func (s *Store) Qualifies(score int) bool {
	if score <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.scores) < s.opts.MaxEntries {
		return true
	}
	return score > s.scores[len(s.scores)-1].Score
}

// MaxEntries returns the list capacity.
func (s *Store) MaxEntries() int {
	return s.opts.MaxEntries
}

// NameMaxLen returns the longest accepted player name, in runes.
func (s *Store) NameMaxLen() int {
	return s.opts.NameMaxLen
}

// Subscribe registers fn and calls it immediately with the current list.
// The returned function removes fn; calling it again is a no-op.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	s.nextSub++
	id := s.nextSub
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	current := s.copyScores()
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Store) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = slices.DeleteFunc(s.listeners, func(sub subscription) bool {
		return sub.id == id
	})
}

// notify delivers the latest list to a snapshot of the listeners. Each
// listener gets its own copy.
func (s *Store) notify() {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	listeners := slices.Clone(s.listeners)
	current := s.copyScores()
	s.mu.Unlock()

	for _, sub := range listeners {
		sub.fn(slices.Clone(current))
	}
}

// LastPlayerName returns the name remembered from the previous save.
func (s *Store) LastPlayerName() string {
	data, err := s.kv.Get(PlayerNameKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("could not read player name", "error", err)
		}
		return ""
	}
	return s.cleanName(string(data))
}

// RememberPlayerName stores name as the default for the next prompt.
func (s *Store) RememberPlayerName(name string) {
	name = s.cleanName(name)
	if name == "" {
		return
	}
	if err := s.kv.Set(PlayerNameKey, []byte(name)); err != nil {
		s.logger.Warn("could not save player name", "error", err)
	}
}

// Close detaches every listener. The backing storage is owned by the
// caller and stays open.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = nil
}

// copyScores returns a non-nil copy. Caller holds s.mu.
func (s *Store) copyScores() []Entry {
	out := make([]Entry, len(s.scores))
	copy(out, s.scores)
	return out
}

func (s *Store) cleanName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > s.opts.NameMaxLen {
		name = strings.TrimSpace(string([]rune(name)[:s.opts.NameMaxLen]))
	}
	return name
}

// sortEntries orders by score, highest first. Ties keep insertion order.
func sortEntries(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(b.Score, a.Score)
	})
}
