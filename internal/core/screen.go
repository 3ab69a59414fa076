// Package core provides the drawing and input primitives shared by the game
// panel and its hosts. It has no terminal dependencies so games stay testable.
package core

import (
	"strings"
)

// Cell is a single character position of a Screen.
type Cell struct {
	Rune  rune
	Color Color
}

// blank is the value every cell starts with.
var blank = Cell{Rune: ' ', Color: ColorDefault}

// Screen is an off-screen image made of colored character cells.
// The panel draws into one and hosts copy it to the visible surface.
type Screen struct {
	width  int
	height int
	cells  [][]Cell
}

// NewScreen creates a new screen buffer with the given dimensions.
// Returns nil if either dimension is not positive.
func NewScreen(width, height int) *Screen {
	if width <= 0 || height <= 0 {
		return nil
	}
	s := &Screen{
		width:  width,
		height: height,
	}
	s.cells = make([][]Cell, height)
	for y := range s.cells {
		s.cells[y] = make([]Cell, width)
	}
	s.Clear()
	return s
}

// Width returns the screen width in cells.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in cells.
func (s *Screen) Height() int {
	return s.height
}

// Clear resets every cell to a default-colored space.
func (s *Screen) Clear() {
	s.Fill(blank)
}

// Fill sets every cell to c.
func (s *Screen) Fill(c Cell) {
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = c
		}
	}
}

// Set places a cell at the given position.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) Set(x, y int, c Cell) {
	if !s.inBounds(x, y) {
		return
	}
	s.cells[y][x] = c
}

// Get returns the cell at the given position.
// Returns a blank cell for out-of-bounds coordinates.
func (s *Screen) Get(x, y int) Cell {
	if !s.inBounds(x, y) {
		return blank
	}
	return s.cells[y][x]
}

func (s *Screen) inBounds(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

// Clone returns a deep copy of the screen.
func (s *Screen) Clone() *Screen {
	c := &Screen{
		width:  s.width,
		height: s.height,
		cells:  make([][]Cell, s.height),
	}
	for y := range s.cells {
		c.cells[y] = make([]Cell, s.width)
		copy(c.cells[y], s.cells[y])
	}
	return c
}

// Graphics returns a new drawing context bound to this screen.
func (s *Screen) Graphics() *Graphics {
	return &Graphics{dst: s, color: ColorDefault}
}

// String converts the screen to plain text, one line per row.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height)

	for y := 0; y < s.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < s.width; x++ {
			sb.WriteRune(s.cells[y][x].Rune)
		}
	}
	return sb.String()
}

// Row returns the runes of row y as a string.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	runes := make([]rune, s.width)
	for x, c := range s.cells[y] {
		runes[x] = c.Rune
	}
	return string(runes)
}
