package core

// Graphics is a drawing context bound to a single Screen.
// It carries a current color that subsequent draw calls use.
type Graphics struct {
	dst   *Screen
	color Color
}

// Screen returns the image this context draws into.
func (g *Graphics) Screen() *Screen {
	return g.dst
}

// SetColor sets the color used by subsequent draw calls.
func (g *Graphics) SetColor(c Color) {
	g.color = c
}

// Color returns the current drawing color.
func (g *Graphics) Color() Color {
	return g.color
}

// Clear blanks the whole image.
func (g *Graphics) Clear() {
	g.dst.Clear()
}

// Plot draws a single rune at (x, y).
func (g *Graphics) Plot(x, y int, r rune) {
	g.dst.Set(x, y, Cell{Rune: r, Color: g.color})
}

// DrawText writes a string horizontally starting at (x, y).
// Characters that extend beyond the image are clipped.
func (g *Graphics) DrawText(x, y int, text string) {
	i := 0
	for _, r := range text {
		g.Plot(x+i, y, r)
		i++
	}
}

// DrawTextCentered draws text centered horizontally on row y.
func (g *Graphics) DrawTextCentered(y int, text string) {
	n := len([]rune(text))
	g.DrawText((g.dst.Width()-n)/2, y, text)
}

// FillRect fills r with the given rune.
func (g *Graphics) FillRect(r Rect, fill rune) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			g.Plot(x, y, fill)
		}
	}
}

// DrawRect draws the outline of r with box-drawing characters.
func (g *Graphics) DrawRect(r Rect) {
	if r.W < 2 || r.H < 2 {
		g.FillRect(r, '█')
		return
	}

	g.Plot(r.X, r.Y, '┌')
	g.Plot(r.Right()-1, r.Y, '┐')
	g.Plot(r.X, r.Bottom()-1, '└')
	g.Plot(r.Right()-1, r.Bottom()-1, '┘')

	g.DrawHLine(r.X+1, r.Y, r.W-2, '─')
	g.DrawHLine(r.X+1, r.Bottom()-1, r.W-2, '─')
	g.DrawVLine(r.X, r.Y+1, r.H-2, '│')
	g.DrawVLine(r.Right()-1, r.Y+1, r.H-2, '│')
}

// DrawHLine draws a horizontal line of length cells from (x, y).
func (g *Graphics) DrawHLine(x, y, length int, r rune) {
	for i := 0; i < length; i++ {
		g.Plot(x+i, y, r)
	}
}

// DrawVLine draws a vertical line of length cells from (x, y).
func (g *Graphics) DrawVLine(x, y, length int, r rune) {
	for i := 0; i < length; i++ {
		g.Plot(x, y+i, r)
	}
}
