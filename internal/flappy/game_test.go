package flappy

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

func testRuntime(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     seed,
	}
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g := New(config.DefaultGameConfig())
	g.Reset(testRuntime(1))
	return g
}

func activate() core.InputFrame {
	in := core.NewInputFrame()
	in.Set(core.ActionActivate)
	return in
}

func noInput() core.InputFrame {
	return core.NewInputFrame()
}

// startedGame returns a game that has just been launched (one step taken).
func startedGame(t *testing.T) *Game {
	t.Helper()
	g := newTestGame(t)
	g.Step(activate())
	if g.phase != core.PhaseRunning {
		t.Fatalf("game should be running after first activate, got %v", g.phase)
	}
	return g
}

func TestGameDeterminism(t *testing.T) {
	cfg := config.DefaultGameConfig()

	// Jump every 18 ticks to try to stay airborne
	inputs := make([]core.InputFrame, 600)
	for i := range inputs {
		inputs[i] = core.NewInputFrame()
		if i%18 == 0 {
			inputs[i].Set(core.ActionActivate)
		}
	}

	run := func() Snapshot {
		g := New(cfg)
		g.Reset(testRuntime(12345))
		for _, in := range inputs {
			if g.Step(in).State.GameOver() {
				break
			}
		}
		return g.Snapshot()
	}

	s1, s2 := run(), run()
	if !reflect.DeepEqual(s1, s2) {
		t.Errorf("Determinism failed:\n%+v\n%+v", s1, s2)
	}
}

func TestGameStartsNotStarted(t *testing.T) {
	g := newTestGame(t)

	if g.phase != core.PhaseNotStarted {
		t.Fatalf("phase = %v, expected NotStarted", g.phase)
	}

	// Without input nothing moves
	before := g.Snapshot()
	g.Step(noInput())
	if !reflect.DeepEqual(before, g.Snapshot()) {
		t.Error("steps before launch should not change state")
	}
}

func TestGameStateMachine(t *testing.T) {
	g := newTestGame(t)

	g.Step(activate())
	if g.phase != core.PhaseRunning {
		t.Fatalf("NotStarted + activate should run, got %v", g.phase)
	}

	// Fall into the floor
	for i := 0; i < 500 && g.phase == core.PhaseRunning; i++ {
		g.Step(noInput())
	}
	if g.phase != core.PhaseOver {
		t.Fatalf("free fall should end the round, got %v", g.phase)
	}

	// Input while Over resets but does not launch
	g.Step(activate())
	if g.phase != core.PhaseNotStarted {
		t.Fatalf("Over + activate should return to NotStarted, got %v", g.phase)
	}
	if g.score != 0 || len(g.Snapshot().Obstacles) != 0 {
		t.Error("reset should clear score and obstacles")
	}
	if g.player.Y != g.cfg.Playfield.Height/2 || g.player.Velocity != 0 {
		t.Errorf("reset should restore player, got y=%v vel=%v", g.player.Y, g.player.Velocity)
	}

	g.Step(activate())
	if g.phase != core.PhaseRunning {
		t.Fatalf("second activate should launch, got %v", g.phase)
	}
}

func TestGameOverIsTerminal(t *testing.T) {
	g := startedGame(t)
	g.player.Y = 1
	g.player.Velocity = -5
	g.Step(noInput())

	frozen := g.Snapshot()
	for i := 0; i < 10; i++ {
		g.Step(noInput())
	}
	if !reflect.DeepEqual(frozen, g.Snapshot()) {
		t.Error("state should not change while Over without input")
	}
}

func TestGameReset(t *testing.T) {
	g := startedGame(t)

	for i := 0; i < 50; i++ {
		in := noInput()
		if i%10 == 0 {
			in.Set(core.ActionActivate)
		}
		g.Step(in)
	}

	g.Reset(testRuntime(1))

	if g.score != 0 {
		t.Errorf("Reset should clear score, got %d", g.score)
	}
	if g.phase != core.PhaseNotStarted {
		t.Errorf("Reset should return to NotStarted, got %v", g.phase)
	}
	if g.paused {
		t.Error("Reset should clear paused flag")
	}
	if g.tickCount != 0 {
		t.Errorf("Reset should clear tickCount, got %d", g.tickCount)
	}
}

func TestGameGravity(t *testing.T) {
	g := newTestGame(t)
	g.Step(activate())

	// The launch frame already integrates once: velocity first, then position.
	if g.player.Velocity != 0.5 {
		t.Errorf("velocity = %v, expected 0.5", g.player.Velocity)
	}
	if g.player.Y != 300.5 {
		t.Errorf("y = %v, expected 300.5", g.player.Y)
	}

	g.Step(noInput())
	if g.player.Velocity != 1.0 || g.player.Y != 301.5 {
		t.Errorf("after second step y=%v vel=%v, expected 301.5 and 1.0", g.player.Y, g.player.Velocity)
	}
}

func TestGameJumpOverwritesVelocity(t *testing.T) {
	g := startedGame(t)
	for i := 0; i < 5; i++ {
		g.Step(noInput())
	}
	y := g.player.Y

	g.Step(activate())

	// Impulse overwrites, then gravity is integrated in the same frame.
	expectedVel := g.cfg.Physics.JumpImpulse + g.cfg.Physics.Gravity
	if g.player.Velocity != expectedVel {
		t.Errorf("velocity = %v, expected %v", g.player.Velocity, expectedVel)
	}
	if g.player.Y != y+expectedVel {
		t.Errorf("y = %v, expected %v", g.player.Y, y+expectedVel)
	}
}

func TestBoundsCollisionRestoresState(t *testing.T) {
	tests := []struct {
		name string
		y    float64
		vel  float64
	}{
		{"ceiling", 1, -5},
		{"ceiling exact", 0.5, -1}, // lands on y == 0
		{"floor", 563.8, 0},        // 564.3 + 36 > 600
		{"floor exact", 563.5, 0},  // 564 + 36 == 600
		{"fast fall", 500, 80},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := startedGame(t)
			g.player.Y = tc.y
			g.player.Velocity = tc.vel
			obstaclesBefore := g.Snapshot().Obstacles

			result := g.Step(noInput())

			if !result.State.GameOver() || !result.Ended {
				t.Fatalf("expected collision, got %+v", result)
			}
			if g.player.Y != tc.y || g.player.Velocity != tc.vel {
				t.Errorf("player should be rolled back to y=%v vel=%v, got y=%v vel=%v",
					tc.y, tc.vel, g.player.Y, g.player.Velocity)
			}
			if !reflect.DeepEqual(obstaclesBefore, g.Snapshot().Obstacles) {
				t.Error("obstacles should not advance on the collision frame")
			}
		})
	}
}

func TestObstacleCollision(t *testing.T) {
	g := startedGame(t)
	g.obstacles.obstacles = []Obstacle{{X: 70, TopHeight: 100, BottomY: 280}}
	g.player.Y = 300
	g.player.Velocity = 0

	result := g.Step(noInput())

	if !result.State.GameOver() {
		t.Error("Game should be over when player overlaps an obstacle segment")
	}
	if g.player.Y != 300 {
		t.Errorf("player should be rolled back, y = %v", g.player.Y)
	}
}

func TestPassThroughGap(t *testing.T) {
	g := startedGame(t)
	g.obstacles.obstacles = []Obstacle{{X: 70, TopHeight: 250, BottomY: 430}}
	g.player.Y = 300
	g.player.Velocity = 0

	result := g.Step(noInput())

	if result.State.GameOver() {
		t.Error("player fully inside the gap should not collide")
	}
}

func TestScoreOncePerObstacle(t *testing.T) {
	g := startedGame(t)
	g.score = 0
	g.obstacles.obstacles = []Obstacle{{X: 19, TopHeight: 100, BottomY: 280}}
	g.player.Y = 300
	g.player.Velocity = -1

	g.Step(noInput()) // X becomes 17; right edge 77 < 80
	if g.score != 1 {
		t.Fatalf("score = %d, expected 1", g.score)
	}
	if !g.obstacles.obstacles[0].Passed {
		t.Error("obstacle should be flagged passed")
	}

	g.Step(noInput())
	g.Step(noInput())
	if g.score != 1 {
		t.Errorf("an obstacle must award at most one point, score = %d", g.score)
	}
}

func TestScoreNotAwardedWhileOverlapping(t *testing.T) {
	g := startedGame(t)
	g.score = 0
	// Right edge at 82 after the move: still level with the player.
	g.obstacles.obstacles = []Obstacle{{X: 24, TopHeight: 100, BottomY: 500}}
	g.player.Y = 300
	g.player.Velocity = 0

	g.Step(noInput())
	if g.score != 0 {
		t.Errorf("score = %d, expected 0 before right edge passes player x", g.score)
	}
}

// autopilot flaps whenever the ship sinks below the next gap's center.
func autopilot(g *Game) core.InputFrame {
	in := noInput()
	target := g.cfg.Playfield.Height / 2
	for _, o := range g.Snapshot().Obstacles {
		if o.X+g.cfg.Obstacles.Width >= g.player.X {
			target = (o.TopHeight + o.BottomY) / 2
			break
		}
	}
	if g.player.Y+g.player.Size/2 > target+10 && g.player.Velocity > 0 {
		in.Set(core.ActionActivate)
	}
	return in
}

func TestScoreMonotonic(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 2024} {
		g := New(config.DefaultGameConfig())
		g.Reset(testRuntime(seed))
		g.Step(activate())

		prev := g.score
		for i := 0; i < 5000 && g.phase == core.PhaseRunning; i++ {
			g.Step(autopilot(g))
			if d := g.score - prev; d < 0 || d > 1 {
				t.Fatalf("seed %d step %d: score went %d -> %d", seed, i, prev, g.score)
			}
			prev = g.score
		}
	}
}

func TestGamePause(t *testing.T) {
	g := startedGame(t)

	pause := noInput()
	pause.Set(core.ActionPause)
	g.Step(pause)

	if !g.paused {
		t.Fatal("Game should be paused")
	}

	before := g.Snapshot()
	g.Step(noInput())
	g.Step(activate()) // No jump while paused
	if !reflect.DeepEqual(before, g.Snapshot()) {
		t.Error("state should not change while paused")
	}

	g.Step(pause)
	if g.paused {
		t.Error("Game should be unpaused")
	}
}

func TestPauseIgnoredBeforeLaunch(t *testing.T) {
	g := newTestGame(t)

	pause := noInput()
	pause.Set(core.ActionPause)
	g.Step(pause)

	if g.paused {
		t.Error("pause only applies while running")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	g := startedGame(t)
	for i := 0; i < 3; i++ {
		g.Step(noInput())
	}

	snap := g.Snapshot()
	if len(snap.Obstacles) == 0 {
		t.Fatal("expected at least one obstacle after launch")
	}
	snap.Obstacles[0].X = -1000
	snap.Player.Y = -1000

	again := g.Snapshot()
	if again.Obstacles[0].X == -1000 || again.Player.Y == -1000 {
		t.Error("mutating a snapshot should not affect the game")
	}
}

func TestGameRender(t *testing.T) {
	g := startedGame(t)
	rc := testRuntime(1)

	screen := core.NewScreen(rc.ScreenW, rc.ScreenH)
	g.Render(screen)

	out := screen.String()
	if !strings.ContainsRune(out, ShipChar) {
		t.Error("Render should draw the ship")
	}
	if !strings.Contains(out, "Score: 0") {
		t.Error("Render should draw the score HUD")
	}
}

func TestGameRenderObstacle(t *testing.T) {
	g := startedGame(t)
	g.obstacles.obstacles = []Obstacle{{X: 200, TopHeight: 200, BottomY: 380}}

	// 80x24 over a 400x600 field: columns 40..51, top ends at row 8,
	// bottom starts at row 15.
	screen := core.NewScreen(80, 24)
	g.Render(screen)

	tests := []struct {
		name     string
		x, y     int
		expected rune
	}{
		{"top segment body", 45, 2, RockChar},
		{"top segment cap", 45, 7, RockCapTop},
		{"bottom segment cap", 45, 15, RockCapBot},
		{"bottom segment body", 45, 23, RockChar},
		{"left column", 40, 20, RockChar},
		{"right column", 51, 20, RockChar},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := screen.Get(tc.x, tc.y); got != tc.expected {
				t.Errorf("cell (%d,%d) = %q, expected %q", tc.x, tc.y, got, tc.expected)
			}
		})
	}

	for y := 8; y < 15; y++ {
		if r := screen.Get(45, y); r == RockChar || r == RockCapTop || r == RockCapBot {
			t.Errorf("gap cell (45,%d) drawn as %q", y, r)
		}
	}
	if r := screen.Get(52, 20); r == RockChar {
		t.Error("obstacle drawn past its right edge")
	}
}

func TestGameRenderMessages(t *testing.T) {
	g := newTestGame(t)
	screen := core.NewScreen(80, 24)

	g.Render(screen)
	if !strings.Contains(screen.String(), "launch") {
		t.Error("NotStarted screen should prompt to launch")
	}

	g.Step(activate())
	g.player.Y = 1
	g.player.Velocity = -5
	g.Step(noInput())
	g.Render(screen)
	if !strings.Contains(screen.String(), "GAME OVER") {
		t.Error("Over screen should say GAME OVER")
	}
}

func TestGameRenderTinyScreen(t *testing.T) {
	g := startedGame(t)
	g.Render(core.NewScreen(0, 0))
	g.Render(core.NewScreen(3, 2))
}
