package core

// Color represents a foreground color for a screen cell.
// The platform maps each value to an ANSI 256-color code.
type Color uint8

// Palette used by the game renderer. The neon scheme follows the game's
// space theme: cyan ship, magenta asteroids, green score.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightWhite
	ColorGray
	ColorDim
)
