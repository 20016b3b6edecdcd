package flappy

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Visual characters for rendering
const (
	ShipChar     = '▶'
	ShipBodyChar = '●'
	RockChar     = '█'
	RockCapTop   = '▄'
	RockCapBot   = '▀'
	StarChar     = '·'
)

// viewport maps world coordinates onto screen cells.
type viewport struct {
	sx, sy float64
	w, h   int
}

func newViewport(dst *core.Screen, worldW, worldH float64) viewport {
	return viewport{
		sx: float64(dst.Width()) / worldW,
		sy: float64(dst.Height()) / worldH,
		w:  dst.Width(),
		h:  dst.Height(),
	}
}

// cellRange converts a world span [a, b) into a cell span with at least one cell.
func cellRange(a, b, scale float64) (int, int) {
	start := int(math.Floor(a * scale))
	end := int(math.Ceil(b * scale))
	if end <= start {
		end = start + 1
	}
	return start, end
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if dst.Width() == 0 || dst.Height() == 0 {
		return
	}

	vp := newViewport(dst, g.cfg.Playfield.Width, g.cfg.Playfield.Height)

	g.drawStars(dst, vp)

	for _, o := range g.Snapshot().Obstacles {
		g.drawObstacle(dst, vp, o)
	}

	g.drawPlayer(dst, vp)

	// HUD
	dst.DrawTextColor(2, 0, fmt.Sprintf(" Score: %d ", g.score), core.ColorGreen)

	switch {
	case g.phase == core.PhaseNotStarted:
		drawCenteredMessage(dst, g.Title(), "Press SPACE or click to launch")
	case g.phase == core.PhaseOver:
		drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Final score: %d", g.score))
	case g.paused:
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
}

// drawStars scatters a fixed background that drifts with the round's ticks.
func (g *Game) drawStars(dst *core.Screen, vp viewport) {
	const stars = 24
	for i := 0; i < stars; i++ {
		// Deterministic pseudo-random layout; no RNG state is consumed.
		x := (i*37 + 11 - g.tickCount/6) % vp.w
		if x < 0 {
			x += vp.w
		}
		y := (i*53 + 7) % vp.h
		dst.SetCell(x, y, StarChar, core.ColorDim)
	}
}

// drawObstacle renders both segments of an obstacle pair.
func (g *Game) drawObstacle(dst *core.Screen, vp viewport, o Obstacle) {
	top := o.TopRect(g.cfg.Obstacles.Width)
	bottom := o.BottomRect(g.cfg.Obstacles.Width, g.cfg.Playfield.Height)
	x0, x1 := cellRange(top.X, top.Right(), vp.sx)
	topEnd := int(math.Round(top.Bottom() * vp.sy))
	bottomStart := int(math.Round(bottom.Y * vp.sy))

	for x := x0; x < x1; x++ {
		for y := 0; y < topEnd; y++ {
			dst.SetCell(x, y, RockChar, core.ColorMagenta)
		}
		if topEnd > 0 {
			dst.SetCell(x, topEnd-1, RockCapTop, core.ColorMagenta)
		}
		for y := bottomStart; y < vp.h; y++ {
			dst.SetCell(x, y, RockChar, core.ColorMagenta)
		}
		if bottomStart < vp.h {
			dst.SetCell(x, bottomStart, RockCapBot, core.ColorMagenta)
		}
	}
}

// drawPlayer renders the ship over its hitbox, nose on the top-right cell.
func (g *Game) drawPlayer(dst *core.Screen, vp viewport) {
	p := g.player
	x0, x1 := cellRange(p.X, p.X+p.Size, vp.sx)
	y0, y1 := cellRange(p.Y, p.Y+p.Size, vp.sy)

	color := core.ColorCyan
	if g.phase == core.PhaseOver {
		color = core.ColorRed
	}

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			ch := ShipBodyChar
			if x == x1-1 && y == y0 {
				ch = ShipChar
			}
			dst.SetCell(x, y, ch, color)
		}
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	titleLen := len([]rune(title))
	subtitleLen := len([]rune(subtitle))

	boxW := max(titleLen, subtitleLen) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.FillRect(boxX, boxY, boxW, boxH, ' ', core.ColorDefault)
	dst.DrawBox(boxX, boxY, boxW, boxH, core.ColorCyan)

	dst.DrawTextColor(boxX+(boxW-titleLen)/2, boxY+1, title, core.ColorBrightWhite)
	dst.DrawTextColor(boxX+(boxW-subtitleLen)/2, boxY+3, subtitle, core.ColorCyan)
}
