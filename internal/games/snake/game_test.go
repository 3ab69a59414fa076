package snake

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/gamepanel/internal/core"
	"github.com/vovakirdan/gamepanel/internal/panel"
	"github.com/vovakirdan/gamepanel/internal/registry"
)

type nullHost struct{}

func (nullHost) CreateImage(w, h int) *core.Screen { return core.NewScreen(w, h) }
func (nullHost) Present(*core.Screen) error        { return nil }

func newGame(t *testing.T) *Game {
	t.Helper()
	return NewSeeded(42, nullHost{}, panel.WithSize(30, 12), panel.WithInterval(100*time.Millisecond))
}

func TestRegistered(t *testing.T) {
	if !registry.Exists("snake") {
		t.Fatal("snake is not registered")
	}
	g, err := registry.Create("snake", nullHost{}, panel.WithSize(30, 12))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if g.ID() != "snake" || g.Title() != "Snake" {
		t.Errorf("ID/Title = %q/%q", g.ID(), g.Title())
	}
}

func TestDeterminism(t *testing.T) {
	g1 := newGame(t)
	g2 := newGame(t)

	for i := range 40 {
		if i == 5 {
			g1.OnKeyPress(core.KeyDown)
			g2.OnKeyPress(core.KeyDown)
		}
		g1.Update()
		g2.Update()
	}

	if g1.food != g2.food {
		t.Errorf("food = %v vs %v", g1.food, g2.food)
	}
	if g1.snake[0] != g2.snake[0] {
		t.Errorf("head = %v vs %v", g1.snake[0], g2.snake[0])
	}
	if g1.Score() != g2.Score() {
		t.Errorf("score = %d vs %d", g1.Score(), g2.Score())
	}
}

func TestNoImmediateReversal(t *testing.T) {
	g := newGame(t)

	if g.direction != DirRight {
		t.Fatalf("initial direction = %v, expected right", g.direction)
	}

	g.OnKeyPress(core.KeyLeft)
	g.Update()
	if g.direction != DirRight {
		t.Errorf("direction = %v after reversing, expected right", g.direction)
	}

	g.OnKeyPress('w')
	g.Update()
	if g.direction != DirUp {
		t.Errorf("direction = %v after W, expected up", g.direction)
	}
}

func TestWallEndsGame(t *testing.T) {
	g := newGame(t)
	g.food = Point{X: 0, Y: 0}

	for range g.field.W {
		g.Update()
	}
	if !g.gameOver {
		t.Error("running into the wall should end the game")
	}

	head := g.snake[0]
	g.Update()
	if g.snake[0] != head {
		t.Error("snake should not move after game over")
	}
}

func TestEatingGrowsAndScores(t *testing.T) {
	g := newGame(t)
	head := g.snake[0]
	g.food = Point{X: head.X + 1, Y: head.Y}
	length := len(g.snake)

	g.Update()

	if g.Score() != 1 {
		t.Errorf("Score() = %d, expected 1", g.Score())
	}
	if len(g.snake) != length+1 {
		t.Errorf("len(snake) = %d, expected %d", len(g.snake), length+1)
	}
	if g.occupied(g.food) {
		t.Error("new food was placed on the snake")
	}
}

func TestSpeedsUp(t *testing.T) {
	g := newGame(t)
	start := g.Interval()

	for range speedUpEvery {
		head := g.snake[0]
		g.food = Point{X: head.X + 1, Y: head.Y}
		g.Update()
		if g.gameOver {
			t.Fatal("game ended while feeding")
		}
		// Wrap around before the wall.
		if g.snake[0].X >= g.field.W-2 {
			g.OnKeyPress(core.KeyDown)
			g.Update()
			g.OnKeyPress(core.KeyLeft)
		}
	}

	if g.Interval() >= start {
		t.Errorf("Interval() = %v, expected it below %v after eating %d", g.Interval(), start, speedUpEvery)
	}

	g.OnKeyPress('r')
	if g.Interval() != start {
		t.Errorf("Interval() after restart = %v, expected %v", g.Interval(), start)
	}
	if g.Score() != 0 {
		t.Errorf("Score() after restart = %d, expected 0", g.Score())
	}
}

func TestPause(t *testing.T) {
	g := newGame(t)
	head := g.snake[0]

	g.OnKeyPress('p')
	g.Update()
	if g.snake[0] != head {
		t.Error("paused snake should not move")
	}

	g.OnKeyPress('p')
	g.Update()
	if g.snake[0] == head {
		t.Error("unpaused snake should move")
	}
}

func TestMouseTurns(t *testing.T) {
	g := newGame(t)
	head := g.snake[0]
	hx, hy := g.field.X+head.X, g.field.Y+head.Y

	// Heading right: a click above turns up.
	g.OnMouseDown(hx+3, hy-2)
	g.Update()
	if g.direction != DirUp {
		t.Fatalf("direction = %v after click above, expected up", g.direction)
	}

	// Heading up: a click to the left turns left.
	head = g.snake[0]
	g.OnMouseDown(g.field.X+head.X-4, g.field.Y+head.Y)
	g.Update()
	if g.direction != DirLeft {
		t.Errorf("direction = %v after click left, expected left", g.direction)
	}
}

func TestDrawsThroughPanel(t *testing.T) {
	g := newGame(t)
	g.Render()

	frame := g.Snapshot()
	if frame == nil {
		t.Fatal("Snapshot() = nil after Render")
	}
	out := frame.String()
	if !strings.Contains(out, "Score: 0") {
		t.Errorf("frame has no HUD:\n%s", out)
	}
	if !strings.Contains(out, "@") {
		t.Errorf("frame has no snake head:\n%s", out)
	}
	if !strings.Contains(out, "*") {
		t.Errorf("frame has no food:\n%s", out)
	}
}

func TestTooSmall(t *testing.T) {
	g := NewSeeded(1, nullHost{}, panel.WithSize(12, 4))
	g.Update()
	g.OnKeyPress(core.KeyUp)
	g.OnMouseDown(0, 0)
	g.Render()

	if !strings.Contains(g.Snapshot().String(), "Too small") {
		t.Error("tiny panel should show a size warning")
	}
}
