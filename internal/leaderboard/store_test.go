package leaderboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// failingKV fails every operation.
type failingKV struct{ sets int }

func (f *failingKV) Get(string) ([]byte, error) { return nil, errors.New("disk on fire") }
func (f *failingKV) Set(string, []byte) error {
	f.sets++
	return errors.New("disk on fire")
}
func (f *failingKV) Close() error { return nil }

// newTestStore returns a store with deterministic ids and clock.
func newTestStore(t *testing.T, kv storage.KV) *Store {
	t.Helper()
	if kv == nil {
		kv = storage.NewMemory()
	}
	n := 0
	clock := time.UnixMilli(1_700_000_000_000)
	return New(kv, Options{
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
		Now: func() time.Time {
			clock = clock.Add(time.Millisecond)
			return clock
		},
	})
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.PlayerName
	}
	return out
}

func TestAddScoreIgnoresInvalid(t *testing.T) {
	tests := []struct {
		name   string
		player string
		score  int
	}{
		{"zero score", "ann", 0},
		{"negative score", "ann", -5},
		{"empty name", "", 10},
		{"blank name", "   \t", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemory()
			s := newTestStore(t, kv)
			calls := 0
			unsub := s.Subscribe(func([]Entry) { calls++ })
			defer unsub()

			if s.AddScore(tt.player, tt.score) {
				t.Error("AddScore() accepted invalid input")
			}
			if got := s.Scores(); len(got) != 0 {
				t.Errorf("Scores() = %v, want empty", got)
			}
			if calls != 1 {
				t.Errorf("listener called %d times, want only the initial call", calls)
			}
			if _, err := kv.Get(ScoresKey); !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("slot written on no-op: %v", err)
			}
		})
	}
}

func TestAddScoreOrdering(t *testing.T) {
	s := newTestStore(t, nil)
	s.AddScore("A", 5)
	s.AddScore("B", 10)
	s.AddScore("C", 7)

	got := s.Scores()
	if want := []string{"B", "C", "A"}; !reflect.DeepEqual(names(got), want) {
		t.Errorf("order = %v, want %v", names(got), want)
	}
	for _, e := range got {
		if e.ID == "" || e.Timestamp == 0 {
			t.Errorf("entry %+v missing id or timestamp", e)
		}
	}
}

func TestAddScoreTiesKeepInsertionOrder(t *testing.T) {
	s := newTestStore(t, nil)
	s.AddScore("first", 5)
	s.AddScore("second", 5)
	s.AddScore("top", 9)
	s.AddScore("third", 5)

	want := []string{"top", "first", "second", "third"}
	if got := names(s.Scores()); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestAddScoreTrimsAndTruncatesName(t *testing.T) {
	s := newTestStore(t, nil)
	s.AddScore("  ann  ", 3)
	s.AddScore(strings.Repeat("é", 25), 2)

	got := s.Scores()
	if got[0].PlayerName != "ann" {
		t.Errorf("name = %q, want trimmed %q", got[0].PlayerName, "ann")
	}
	if n := len([]rune(got[1].PlayerName)); n != DefaultNameMaxLen {
		t.Errorf("long name has %d runes, want %d", n, DefaultNameMaxLen)
	}
}

func TestAddScoreKeepsTopTen(t *testing.T) {
	s := newTestStore(t, nil)
	for i := 1; i <= 12; i++ {
		s.AddScore(fmt.Sprintf("p%d", i), i)
	}

	got := s.Scores()
	if len(got) != 10 {
		t.Fatalf("len = %d, want 10", len(got))
	}
	if got[0].Score != 12 || got[9].Score != 3 {
		t.Errorf("kept range = %d..%d, want 12..3", got[0].Score, got[9].Score)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Score < got[i].Score {
			t.Fatalf("not sorted at %d: %v", i, got)
		}
	}

	if s.AddScore("low", 1) {
		t.Error("AddScore() reported a score below the cutoff as kept")
	}
	if len(s.Scores()) != 10 {
		t.Error("list grew past capacity")
	}
}

func TestQualifies(t *testing.T) {
	s := newTestStore(t, nil)
	if !s.Qualifies(1) {
		t.Error("any positive score qualifies on a short list")
	}
	if s.Qualifies(0) {
		t.Error("zero never qualifies")
	}
	for i := 1; i <= 10; i++ {
		s.AddScore("p", i*10)
	}
	if s.Qualifies(10) {
		t.Error("tying the last place does not qualify")
	}
	if !s.Qualifies(11) {
		t.Error("beating the last place qualifies")
	}
}

func TestClear(t *testing.T) {
	kv := storage.NewMemory()
	s := newTestStore(t, kv)
	s.AddScore("ann", 4)

	var last []Entry
	unsub := s.Subscribe(func(e []Entry) { last = e })
	defer unsub()

	s.Clear()
	if len(s.Scores()) != 0 {
		t.Error("Scores() not empty after Clear")
	}
	if last == nil || len(last) != 0 {
		t.Errorf("listener got %v, want empty non-nil list", last)
	}
	data, err := kv.Get(ScoresKey)
	if err != nil {
		t.Fatalf("slot missing after Clear: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("slot = %s, want []", data)
	}
}

func TestSubscribeCalledImmediately(t *testing.T) {
	s := newTestStore(t, nil)
	s.AddScore("ann", 4)

	var got []Entry
	calls := 0
	unsub := s.Subscribe(func(e []Entry) {
		calls++
		got = e
	})
	defer unsub()

	if calls != 1 {
		t.Fatalf("calls = %d, want 1 before any change", calls)
	}
	if len(got) != 1 || got[0].PlayerName != "ann" {
		t.Errorf("initial list = %v", got)
	}

	s.AddScore("bob", 9)
	if calls != 2 || got[0].PlayerName != "bob" {
		t.Errorf("after change: calls = %d, list = %v", calls, got)
	}
}

func TestUnsubscribe(t *testing.T) {
	s := newTestStore(t, nil)

	var aCalls, bCalls int
	unsubA := s.Subscribe(func([]Entry) { aCalls++ })
	unsubB := s.Subscribe(func([]Entry) { bCalls++ })
	defer unsubB()

	unsubA()
	unsubA() // idempotent

	s.AddScore("ann", 1)
	if aCalls != 1 {
		t.Errorf("removed listener called %d times, want 1", aCalls)
	}
	if bCalls != 2 {
		t.Errorf("remaining listener called %d times, want 2", bCalls)
	}
}

func TestUnsubscribeDuringNotify(t *testing.T) {
	s := newTestStore(t, nil)

	var order []string
	var unsubA func()
	unsubA = s.Subscribe(func([]Entry) {
		order = append(order, "a")
		if unsubA != nil {
			unsubA()
		}
	})
	unsubB := s.Subscribe(func([]Entry) { order = append(order, "b") })
	defer unsubB()
	order = nil

	s.AddScore("ann", 1)
	if want := []string{"a", "b"}; !reflect.DeepEqual(order, want) {
		t.Errorf("first notify order = %v, want %v", order, want)
	}

	order = nil
	s.AddScore("bob", 2)
	if want := []string{"b"}; !reflect.DeepEqual(order, want) {
		t.Errorf("second notify order = %v, want %v", order, want)
	}
}

func TestListenersGetPrivateCopies(t *testing.T) {
	s := newTestStore(t, nil)
	s.AddScore("ann", 4)

	unsub := s.Subscribe(func(e []Entry) {
		for i := range e {
			e[i].PlayerName = "mallory"
		}
	})
	defer unsub()
	s.AddScore("bob", 2)

	for _, e := range s.Scores() {
		if e.PlayerName == "mallory" {
			t.Fatal("listener mutation leaked into store")
		}
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.db")
	kv, err := storage.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	s := newTestStore(t, kv)
	s.AddScore("ann", 4)
	s.AddScore("bob", 9)
	want := s.Scores()
	kv.Close()

	kv2, err := storage.OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer kv2.Close()

	got := New(kv2, Options{}).Scores()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("reloaded = %v, want %v", got, want)
	}
}

func TestSlotFormat(t *testing.T) {
	kv := storage.NewMemory()
	s := newTestStore(t, kv)
	s.AddScore("ann", 4)

	data, err := kv.Get(ScoresKey)
	if err != nil {
		t.Fatal(err)
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("slot is not a JSON array: %v", err)
	}
	for _, field := range []string{"id", "playerName", "score", "timestamp"} {
		if _, ok := raw[0][field]; !ok {
			t.Errorf("slot entry missing %q: %s", field, data)
		}
	}
}

func TestMalformedSlotLoadsEmpty(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"garbage", "{not json"},
		{"wrong shape", `{"score":3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemory()
			if err := kv.Set(ScoresKey, []byte(tt.data)); err != nil {
				t.Fatal(err)
			}
			if got := New(kv, Options{}).Scores(); len(got) != 0 {
				t.Errorf("Scores() = %v, want empty", got)
			}
		})
	}
}

func TestLoadSortsAndCaps(t *testing.T) {
	kv := storage.NewMemory()
	var entries []Entry
	for i := 1; i <= 12; i++ {
		entries = append(entries, Entry{ID: fmt.Sprint(i), PlayerName: "p", Score: i})
	}
	data, _ := json.Marshal(entries)
	if err := kv.Set(ScoresKey, data); err != nil {
		t.Fatal(err)
	}

	got := New(kv, Options{}).Scores()
	if len(got) != 10 || got[0].Score != 12 {
		t.Errorf("loaded %d entries starting at %d, want 10 starting at 12", len(got), got[0].Score)
	}
}

func TestStorageFailuresAreSwallowed(t *testing.T) {
	kv := &failingKV{}
	s := newTestStore(t, kv)

	calls := 0
	unsub := s.Subscribe(func([]Entry) { calls++ })
	defer unsub()

	if !s.AddScore("ann", 3) {
		t.Error("AddScore() should keep the entry in memory")
	}
	if len(s.Scores()) != 1 {
		t.Error("in-memory list not updated")
	}
	if calls != 2 {
		t.Errorf("listener calls = %d, want 2", calls)
	}
	if kv.sets != 1 {
		t.Errorf("Set attempts = %d, want 1", kv.sets)
	}
	if s.LastPlayerName() != "" {
		t.Error("LastPlayerName() should be empty on read failure")
	}
}

func TestReload(t *testing.T) {
	kv := storage.NewMemory()
	writer := newTestStore(t, kv)
	reader := newTestStore(t, kv)

	var got [][]Entry
	unsub := reader.Subscribe(func(e []Entry) { got = append(got, e) })
	defer unsub()

	tests := []struct {
		name      string
		change    func()
		changed   bool
		wantNames []string
	}{
		{"nothing saved yet", func() {}, false, []string{}},
		{"score saved elsewhere", func() { writer.AddScore("ann", 5) }, true, []string{"ann"}},
		{"no new saves", func() {}, false, []string{"ann"}},
		{"second score", func() { writer.AddScore("bob", 9) }, true, []string{"bob", "ann"}},
		{"cleared elsewhere", writer.Clear, true, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(got)
			tt.change()

			if changed := reader.Reload(); changed != tt.changed {
				t.Errorf("Reload() = %v, want %v", changed, tt.changed)
			}
			if n := names(reader.Scores()); !reflect.DeepEqual(n, tt.wantNames) {
				t.Errorf("Scores() = %v, want %v", n, tt.wantNames)
			}

			wantCalls := before
			if tt.changed {
				wantCalls++
			}
			if len(got) != wantCalls {
				t.Fatalf("listener calls = %d, want %d", len(got), wantCalls)
			}
			if tt.changed && !reflect.DeepEqual(names(got[len(got)-1]), tt.wantNames) {
				t.Errorf("delivered %v, want %v", names(got[len(got)-1]), tt.wantNames)
			}
		})
	}
}

func TestReloadKeepsListOnBadSlot(t *testing.T) {
	kv := storage.NewMemory()
	s := newTestStore(t, kv)
	s.AddScore("ann", 5)

	if err := kv.Set(ScoresKey, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	if s.Reload() {
		t.Error("Reload() reported a change for a malformed slot")
	}
	if n := names(s.Scores()); !reflect.DeepEqual(n, []string{"ann"}) {
		t.Errorf("Scores() = %v, want [ann]", n)
	}
}

func TestPlayerName(t *testing.T) {
	s := newTestStore(t, nil)
	if got := s.LastPlayerName(); got != "" {
		t.Errorf("LastPlayerName() = %q before any save", got)
	}

	s.RememberPlayerName("  ann ")
	if got := s.LastPlayerName(); got != "ann" {
		t.Errorf("LastPlayerName() = %q, want %q", got, "ann")
	}

	s.RememberPlayerName("   ")
	if got := s.LastPlayerName(); got != "ann" {
		t.Errorf("blank name overwrote remembered name: %q", got)
	}
}

func TestCloseDetachesListeners(t *testing.T) {
	s := newTestStore(t, nil)
	calls := 0
	s.Subscribe(func([]Entry) { calls++ })

	s.Close()
	s.AddScore("ann", 1)
	if calls != 1 {
		t.Errorf("listener called %d times after Close, want 1", calls)
	}
}

func TestConcurrentAddScore(t *testing.T) {
	s := New(storage.NewMemory(), Options{})

	var lastLen int
	unsub := s.Subscribe(func(e []Entry) { lastLen = len(e) })
	defer unsub()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 20; j++ {
				s.AddScore(fmt.Sprintf("g%d", i), j+1)
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	if got := len(s.Scores()); got != 10 {
		t.Errorf("len = %d, want 10", got)
	}
	if lastLen != 10 {
		t.Errorf("last delivered len = %d, want 10", lastLen)
	}
}
