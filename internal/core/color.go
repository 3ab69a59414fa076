package core

// Color is the foreground color of a screen cell.
// Hosts map it to ANSI 256-color codes.
type Color uint8

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
	ColorBrightCyan
	ColorOrange
	ColorGray
)

// ansiCodes holds the ANSI 256 palette index for each color.
// ColorDefault has no entry; hosts use the terminal default instead.
var ansiCodes = map[Color]int{
	ColorRed:          1,
	ColorGreen:        2,
	ColorYellow:       3,
	ColorBlue:         4,
	ColorMagenta:      5,
	ColorCyan:         6,
	ColorWhite:        7,
	ColorBrightRed:    9,
	ColorBrightGreen:  10,
	ColorBrightYellow: 11,
	ColorBrightCyan:   14,
	ColorOrange:       208,
	ColorGray:         245,
}

// ANSI returns the palette index for c and false for ColorDefault or
// unknown values.
func (c Color) ANSI() (int, bool) {
	code, ok := ansiCodes[c]
	return code, ok
}
