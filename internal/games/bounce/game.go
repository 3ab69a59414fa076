// Package bounce is a small click game: balls bounce around a box and
// clicking one scores a point. It exercises every panel hook, and the frame
// rate can be changed while the loop runs.
package bounce

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/vovakirdan/gamepanel/internal/core"
	"github.com/vovakirdan/gamepanel/internal/panel"
	"github.com/vovakirdan/gamepanel/internal/registry"
)

// Visual characters for rendering
const (
	BallChar = '●'
	HitChar  = '✶'
)

const (
	hudHeight    = 1
	startBalls   = 3
	maxBalls     = 8
	ballSpeed    = 0.6 // cells per update
	hitRadius    = 1.5 // click distance that still counts as a hit
	hitFrames    = 4   // updates a hit marker stays visible
	minFPS       = 2
	maxFPS       = 60
	fpsStep      = 2
	minFieldSide = 4
)

// Ball is a ball in field coordinates.
type Ball struct {
	X, Y   float64
	VX, VY float64
}

type hit struct {
	x, y int
	ttl  int
}

// Game implements Bounce. Update and Draw run on the loop goroutine, the
// input hooks on the host's, so state is guarded by mu.
type Game struct {
	*panel.GamePanel

	mu       sync.Mutex
	rng      *rand.Rand
	field    core.Rect
	balls    []Ball
	hits     []hit
	score    int
	misses   int
	paused   bool
	tooSmall bool
}

func init() {
	registry.Register("bounce", "Bounce", func(host panel.Host, opts ...panel.Option) registry.Game {
		return New(host, opts...)
	})
}

// New creates a game seeded from the clock.
func New(host panel.Host, opts ...panel.Option) *Game {
	return NewSeeded(time.Now().UnixNano(), host, opts...)
}

// NewSeeded creates a game with fixed ball placement.
func NewSeeded(seed int64, host panel.Host, opts ...panel.Option) *Game {
	g := &Game{rng: rand.New(rand.NewSource(seed))}
	g.GamePanel = panel.New(g, host, opts...)

	w, h := g.PreferredSize()
	g.field = core.NewRect(1, hudHeight+1, w-2, h-hudHeight-2)
	g.tooSmall = g.field.W < minFieldSide || g.field.H < minFieldSide

	g.reset()
	return g
}

// ID returns the registry identifier.
func (g *Game) ID() string { return "bounce" }

// Title returns the display name.
func (g *Game) Title() string { return "Bounce" }

// Score returns the number of balls clicked.
func (g *Game) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.score
}

func (g *Game) reset() {
	g.score = 0
	g.misses = 0
	g.paused = false
	g.balls = g.balls[:0]
	g.hits = nil
	if g.tooSmall {
		return
	}
	for range startBalls {
		g.balls = append(g.balls, g.spawn())
	}
}

// spawn creates a ball at a random position with a random heading.
func (g *Game) spawn() Ball {
	angle := g.rng.Float64() * 2 * math.Pi
	return Ball{
		X:  g.rng.Float64() * float64(g.field.W-1),
		Y:  g.rng.Float64() * float64(g.field.H-1),
		VX: math.Cos(angle) * ballSpeed,
		VY: math.Sin(angle) * ballSpeed,
	}
}

// Update moves every ball and reflects it off the walls.
func (g *Game) Update() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.tooSmall || g.paused {
		return
	}

	maxX := float64(g.field.W - 1)
	maxY := float64(g.field.H - 1)
	for i := range g.balls {
		b := &g.balls[i]
		b.X += b.VX
		b.Y += b.VY
		b.X, b.VX = reflect(b.X, b.VX, maxX)
		b.Y, b.VY = reflect(b.Y, b.VY, maxY)
	}

	live := g.hits[:0]
	for _, h := range g.hits {
		h.ttl--
		if h.ttl > 0 {
			live = append(live, h)
		}
	}
	g.hits = live
}

// reflect folds pos back into [0, limit] and flips v when it crossed a wall.
func reflect(pos, v, limit float64) (float64, float64) {
	switch {
	case pos < 0:
		return -pos, math.Abs(v)
	case pos > limit:
		return 2*limit - pos, -math.Abs(v)
	}
	return pos, v
}

// Draw renders the box, balls, hit markers and HUD.
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

	gfx.SetColor(core.ColorBrightYellow)
	for _, h := range g.hits {
		gfx.Plot(g.field.X+h.x, g.field.Y+h.y, HitChar)
	}

	gfx.SetColor(core.ColorCyan)
	for _, b := range g.balls {
		x, y := cell(b)
		gfx.Plot(g.field.X+x, g.field.Y+y, BallChar)
	}

	gfx.SetColor(core.ColorWhite)
	hud := fmt.Sprintf("Score: %d  Misses: %d  Balls: %d  %d fps", g.score, g.misses, len(g.balls), g.FPS())
	gfx.DrawText(1, 0, hud)

	if g.paused {
		gfx.SetColor(core.ColorBrightYellow)
		gfx.DrawTextCentered(g.field.Y+g.field.H/2, " PAUSED ")
	}
}

func cell(b Ball) (int, int) {
	return int(math.Round(b.X)), int(math.Round(b.Y))
}

// OnKeyPress handles space (add a ball), +/- (frame rate), P and R.
func (g *Game) OnKeyPress(code core.KeyCode) {
	switch code {
	case '+', '=':
		g.SetFPS(min(g.FPS()+fpsStep, maxFPS))
		return
	case '-', '_':
		g.SetFPS(max(g.FPS()-fpsStep, minFPS))
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	switch code {
	case core.KeySpace:
		if !g.tooSmall && len(g.balls) < maxBalls {
			g.balls = append(g.balls, g.spawn())
		}
	case 'p', 'P':
		g.paused = !g.paused
	case 'r', 'R':
		g.reset()
	}
}

// OnMouseDown scores the nearest ball within reach of the click and
// respawns it. A click that reaches no ball counts as a miss.
func (g *Game) OnMouseDown(x, y int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.tooSmall || g.paused {
		return
	}

	fx := float64(x - g.field.X)
	fy := float64(y - g.field.Y)
	best := -1
	bestDist := hitRadius
	for i, b := range g.balls {
		d := math.Hypot(b.X-fx, b.Y-fy)
		if d <= bestDist {
			best, bestDist = i, d
		}
	}

	if best < 0 {
		g.misses++
		return
	}

	hx, hy := cell(g.balls[best])
	g.hits = append(g.hits, hit{x: hx, y: hy, ttl: hitFrames})
	g.balls[best] = g.spawn()
	g.score++
}
