package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/leaderboard"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:     lipgloss.NewStyle(),
	core.ColorRed:         lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorGreen:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorYellow:      lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorMagenta:     lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorCyan:        lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorWhite:       lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightWhite: lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorGray:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorDim:         lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// Leaderboard panel styles.
var panelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

var panelTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("229"))

var mutedStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("241"))

var promptTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("10"))

// rankStyles color the podium places; the rest use the default style.
var rankStyles = []lipgloss.Style{
	lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")), // gold
	lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250")), // silver
	lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("172")), // bronze
}

// RankLabel returns the display label for a zero-based rank.
func RankLabel(i int) string {
	switch i {
	case 0:
		return "1st"
	case 1:
		return "2nd"
	case 2:
		return "3rd"
	default:
		return fmt.Sprintf("%d.", i+1)
	}
}

// rankStyle returns the row style for a zero-based rank.
func rankStyle(i int) lipgloss.Style {
	if i < len(rankStyles) {
		return rankStyles[i]
	}
	return lipgloss.NewStyle()
}

// renderBoardRows renders up to len(entries) leaderboard rows, nameWidth wide.
func renderBoardRows(entries []leaderboard.Entry, nameWidth int) string {
	if len(entries) == 0 {
		return mutedStyle.Italic(true).Render("No scores yet.\nBe the first!")
	}

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteRune('\n')
		}
		name := truncate(e.PlayerName, nameWidth)
		row := fmt.Sprintf("%-4s %-*s %5d", RankLabel(i), nameWidth, name, e.Score)
		b.WriteString(rankStyle(i).Render(row))
	}
	return b.String()
}

// truncate cuts s to at most n runes, marking the cut with a trailing dot.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "."
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	textWidth := lipgloss.Width(text)
	if textWidth >= width {
		return text
	}
	padding := (width - textWidth) / 2
	return strings.Repeat(" ", padding) + text
}
