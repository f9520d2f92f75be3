package core

// Color represents a foreground color for a screen cell.
// Values map to ANSI colors in the platform layer.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// RowPalette is the brick color sequence, bottom row first.
var RowPalette = []Color{
	ColorMagenta,
	ColorBlue,
	ColorCyan,
	ColorGreen,
	ColorYellow,
	ColorOrange,
	ColorRed,
	ColorBrightRed,
}

// PulsePalette is cycled through for paddle animation while the game is paused.
var PulsePalette = []Color{
	ColorBrightWhite,
	ColorBrightCyan,
	ColorCyan,
	ColorBlue,
	ColorCyan,
	ColorBrightCyan,
}

// Cycle returns palette[i] wrapping in both directions.
// An empty palette yields ColorDefault.
func Cycle(palette []Color, i int) Color {
	if len(palette) == 0 {
		return ColorDefault
	}
	i %= len(palette)
	if i < 0 {
		i += len(palette)
	}
	return palette[i]
}
