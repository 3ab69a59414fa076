// Package snake is the classic snake game built on the game panel. The loop
// interval shrinks as the snake eats, so the game speeds up.
package snake

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/vovakirdan/gamepanel/internal/core"
	"github.com/vovakirdan/gamepanel/internal/panel"
	"github.com/vovakirdan/gamepanel/internal/registry"
)

// Direction represents the snake's movement direction.
type Direction int

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

// opposite returns the reverse direction.
func (d Direction) opposite() Direction {
	return (d + 2) % 4
}

// Point represents a 2D coordinate inside the field.
type Point struct {
	X, Y int
}

const (
	hudHeight    = 1
	minFieldW    = 8
	minFieldH    = 4
	speedUpEvery = 5                     // food eaten per speed-up
	speedUpRatio = 0.9                   // interval multiplier per speed-up
	minInterval  = 20 * time.Millisecond // fastest the loop gets
)

// Game implements Snake. The loop calls Update and Draw; the host calls
// the input hooks from its own goroutine, so state is guarded by mu.
type Game struct {
	*panel.GamePanel

	mu        sync.Mutex
	rng       *rand.Rand
	field     core.Rect // playable area inside the border, in panel cells
	snake     []Point   // head at index 0
	direction Direction
	nextDir   Direction
	food      Point
	score     int
	eaten     int
	gameOver  bool
	paused    bool
	tooSmall  bool
	start     time.Duration // interval at creation, restored on restart
}

func init() {
	registry.Register("snake", "Snake", func(host panel.Host, opts ...panel.Option) registry.Game {
		return New(host, opts...)
	})
}

// New creates a game seeded from the clock.
func New(host panel.Host, opts ...panel.Option) *Game {
	return NewSeeded(time.Now().UnixNano(), host, opts...)
}

// NewSeeded creates a game with a fixed food sequence.
func NewSeeded(seed int64, host panel.Host, opts ...panel.Option) *Game {
	g := &Game{rng: rand.New(rand.NewSource(seed))}
	g.GamePanel = panel.New(g, host, opts...)
	g.start = g.Interval()

	w, h := g.PreferredSize()
	// Border on every side plus the HUD row.
	g.field = core.NewRect(1, hudHeight+1, w-2, h-hudHeight-2)
	g.tooSmall = g.field.W < minFieldW || g.field.H < minFieldH

	g.reset()
	return g
}

// ID returns the registry identifier.
func (g *Game) ID() string { return "snake" }

// Title returns the display name.
func (g *Game) Title() string { return "Snake" }

// Score returns the food eaten so far.
func (g *Game) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.score
}

// reset starts a new round. Callers hold mu or own g exclusively.
func (g *Game) reset() {
	g.score = 0
	g.eaten = 0
	g.gameOver = false
	g.paused = false
	g.direction = DirRight
	g.nextDir = DirRight
	g.snake = nil
	g.SetInterval(g.start)

	if g.tooSmall {
		return
	}

	cy := g.field.H / 2
	cx := g.field.W / 2
	for i := range 3 {
		g.snake = append(g.snake, Point{X: cx - i, Y: cy})
	}
	g.placeFood()
}

// placeFood puts food on a random free cell.
func (g *Game) placeFood() {
	free := g.field.W*g.field.H - len(g.snake)
	if free <= 0 {
		g.gameOver = true
		return
	}

	n := g.rng.Intn(free)
	for y := range g.field.H {
		for x := range g.field.W {
			p := Point{X: x, Y: y}
			if g.occupied(p) {
				continue
			}
			if n == 0 {
				g.food = p
				return
			}
			n--
		}
	}
}

func (g *Game) occupied(p Point) bool {
	for _, s := range g.snake {
		if s == p {
			return true
		}
	}
	return false
}

// Update advances the snake by one cell.
func (g *Game) Update() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.tooSmall || g.gameOver || g.paused {
		return
	}

	g.direction = g.nextDir
	head := g.snake[0]
	switch g.direction {
	case DirRight:
		head.X++
	case DirLeft:
		head.X--
	case DirDown:
		head.Y++
	case DirUp:
		head.Y--
	}

	if head.X < 0 || head.X >= g.field.W || head.Y < 0 || head.Y >= g.field.H {
		g.gameOver = true
		return
	}

	eating := head == g.food
	body := g.snake
	if !eating {
		// The tail moves away this step, so the head may take its cell.
		body = body[:len(body)-1]
	}
	for _, s := range body {
		if s == head {
			g.gameOver = true
			return
		}
	}

	g.snake = append([]Point{head}, body...)
	if eating {
		g.score++
		g.eaten++
		if g.eaten%speedUpEvery == 0 {
			g.speedUp()
		}
		g.placeFood()
	}
}

// speedUp shortens the loop interval down to minInterval.
func (g *Game) speedUp() {
	next := time.Duration(float64(g.Interval()) * speedUpRatio)
	if next < minInterval {
		next = minInterval
	}
	g.SetInterval(next)
}

// Draw renders the field, snake, food and HUD.
func (g *Game) Draw(gfx *core.Graphics) {
	g.mu.Lock()
	defer g.mu.Unlock()

	gfx.Clear()

	if g.tooSmall {
		gfx.SetColor(core.ColorYellow)
		gfx.DrawText(0, 0, "Too small")
		return
	}

	gfx.SetColor(core.ColorGray)
	gfx.DrawRect(g.field.Inset(-1))

	gfx.SetColor(core.ColorBrightRed)
	gfx.Plot(g.field.X+g.food.X, g.field.Y+g.food.Y, '*')

	gfx.SetColor(core.ColorGreen)
	for i, s := range g.snake {
		r := 'o'
		if i == 0 {
			r = '@'
		}
		gfx.Plot(g.field.X+s.X, g.field.Y+s.Y, r)
	}

	gfx.SetColor(core.ColorWhite)
	hud := fmt.Sprintf("Score: %d  Speed: %d fps", g.score, g.FPS())
	gfx.DrawText(1, 0, hud)

	switch {
	case g.gameOver:
		gfx.SetColor(core.ColorBrightYellow)
		gfx.DrawTextCentered(g.field.Y+g.field.H/2, " GAME OVER - R to restart ")
	case g.paused:
		gfx.SetColor(core.ColorBrightYellow)
		gfx.DrawTextCentered(g.field.Y+g.field.H/2, " PAUSED ")
	}
}

// OnKeyPress steers with the arrows or WASD, P pauses, R restarts.
func (g *Game) OnKeyPress(code core.KeyCode) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch code {
	case core.KeyUp, 'w', 'W':
		g.turn(DirUp)
	case core.KeyDown, 's', 'S':
		g.turn(DirDown)
	case core.KeyLeft, 'a', 'A':
		g.turn(DirLeft)
	case core.KeyRight, 'd', 'D':
		g.turn(DirRight)
	case 'p', 'P', core.KeySpace:
		if !g.gameOver {
			g.paused = !g.paused
		}
	case 'r', 'R':
		g.reset()
	}
}

// OnMouseDown turns the snake toward the clicked cell, along the axis
// perpendicular to its current heading.
func (g *Game) OnMouseDown(x, y int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.snake) == 0 {
		return
	}
	head := g.snake[0]
	dx := x - (g.field.X + head.X)
	dy := y - (g.field.Y + head.Y)

	switch g.direction {
	case DirLeft, DirRight:
		if dy < 0 {
			g.turn(DirUp)
		} else if dy > 0 {
			g.turn(DirDown)
		}
	case DirUp, DirDown:
		if dx < 0 {
			g.turn(DirLeft)
		} else if dx > 0 {
			g.turn(DirRight)
		}
	}
}

// turn buffers a direction change, ignoring reversals.
func (g *Game) turn(d Direction) {
	if g.gameOver || g.paused {
		return
	}
	if d == g.direction.opposite() {
		return
	}
	g.nextDir = d
}
