// Package panel provides GamePanel, the base every game in this repository is
// built on. A panel owns a fixed-interval loop (update, render, present, sleep),
// an off-screen buffer the game draws into, and forwarding of key presses and
// mouse presses to optional game hooks.
//
// A concrete game embeds *GamePanel and implements Game:
//
//	type Pong struct {
//		*panel.GamePanel
//	}
//
//	func NewPong(host panel.Host) *Pong {
//		p := &Pong{}
//		p.GamePanel = panel.New(p, host, panel.WithSize(80, 24))
//		return p
//	}
//
//	func (p *Pong) Update()                  { ... }
//	func (p *Pong) Draw(g *core.Graphics)     { ... }
//	func (p *Pong) OnKeyPress(k core.KeyCode) { ... }
package panel

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gamepanel/internal/core"
)

// Defaults used when no option overrides them.
const (
	DefaultWidth    = 600
	DefaultHeight   = 600
	DefaultInterval = 50 * time.Millisecond
)

// Game is implemented by every concrete game. Update is called once per loop
// iteration, before rendering.
type Game interface {
	Update()
}

// Drawer is implemented by games that draw. Draw runs inside Render once the
// off-screen buffer exists; g is the panel's drawing context.
type Drawer interface {
	Draw(g *core.Graphics)
}

// KeyPressHandler is implemented by games that react to key presses.
type KeyPressHandler interface {
	OnKeyPress(code core.KeyCode)
}

// MouseDownHandler is implemented by games that react to mouse presses.
type MouseDownHandler interface {
	OnMouseDown(x, y int)
}

// Host is the toolkit a panel is embedded in.
type Host interface {
	// CreateImage allocates an off-screen image. It returns nil when the
	// image cannot be created.
	CreateImage(width, height int) *core.Screen

	// Present copies frame to the visible surface and flushes it.
	// The panel hands over a private copy; the host may keep it.
	Present(frame *core.Screen) error
}

// InputListener receives raw input events from a host.
type InputListener interface {
	HandleInput(ev core.InputEvent)
}

// Listenable hosts deliver input to a registered listener.
type Listenable interface {
	Listen(l InputListener)
}

// Focuser hosts can direct keyboard input to the panel.
type Focuser interface {
	RequestFocus()
}

// Sizer hosts accept the panel's preferred size.
type Sizer interface {
	SetPreferredSize(width, height int)
}

// GamePanel runs a game's loop and owns its double buffer.
type GamePanel struct {
	game   Game
	host   Host
	width  int
	height int

	interval atomic.Int64 // time.Duration
	running  atomic.Bool

	mu       sync.Mutex // guards animator
	animator *animator
	loops    sync.WaitGroup

	bufMu    sync.Mutex // guards buffer contents
	buffer   *core.Screen
	graphics atomic.Pointer[core.Graphics]

	logger *log.Logger
	fatal  func(err error)
	sleep  func(time.Duration)
}

// Option configures a GamePanel.
type Option func(*GamePanel)

// WithSize sets the panel dimensions.
func WithSize(width, height int) Option {
	return func(p *GamePanel) {
		p.width = width
		p.height = height
	}
}

// WithInterval sets the initial delay between loop iterations.
func WithInterval(d time.Duration) Option {
	return func(p *GamePanel) {
		p.interval.Store(int64(d))
	}
}

// WithLogger sets the logger. The default writes to stderr.
func WithLogger(l *log.Logger) Option {
	return func(p *GamePanel) {
		p.logger = l
	}
}

// WithFatal replaces the handler run when a frame cannot be presented.
// The default exits the process with status 1.
func WithFatal(fn func(err error)) Option {
	return func(p *GamePanel) {
		p.fatal = fn
	}
}

// WithSleep replaces the function the loop waits with between iterations.
func WithSleep(fn func(time.Duration)) Option {
	return func(p *GamePanel) {
		p.sleep = fn
	}
}

func defaultLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "panel",
	})
}

// New creates a panel for game on host. The panel declares its size to the
// host, asks for focus, and registers itself for input when the host
// supports those.
func New(game Game, host Host, opts ...Option) *GamePanel {
	p := &GamePanel{
		game:   game,
		host:   host,
		width:  DefaultWidth,
		height: DefaultHeight,
		logger: defaultLogger(),
		sleep:  time.Sleep,
	}
	p.interval.Store(int64(DefaultInterval))
	p.fatal = func(error) {
		os.Exit(1)
	}

	for _, opt := range opts {
		opt(p)
	}

	if s, ok := host.(Sizer); ok {
		s.SetPreferredSize(p.width, p.height)
	}
	if f, ok := host.(Focuser); ok {
		f.RequestFocus()
	}
	if l, ok := host.(Listenable); ok {
		l.Listen(p)
	}

	return p
}

// PreferredSize returns the dimensions the panel was created with.
func (p *GamePanel) PreferredSize() (width, height int) {
	return p.width, p.height
}

// Interval returns the delay between loop iterations.
func (p *GamePanel) Interval() time.Duration {
	return time.Duration(p.interval.Load())
}

// SetInterval changes the delay between loop iterations. The loop picks it
// up at the start of its next iteration.
func (p *GamePanel) SetInterval(d time.Duration) {
	p.interval.Store(int64(d))
}

// FPS returns the frame rate implied by the interval, rounded down.
func (p *GamePanel) FPS() int {
	d := p.Interval()
	if d <= 0 {
		return 0
	}
	return int(time.Second / d)
}

// SetFPS sets the interval to match fps frames per second.
// Non-positive values are ignored.
func (p *GamePanel) SetFPS(fps int) {
	if fps <= 0 {
		return
	}
	p.SetInterval(time.Second / time.Duration(fps))
}

// IsRunning reports whether the loop should keep running.
func (p *GamePanel) IsRunning() bool {
	return p.running.Load()
}

// SetRunning sets the running flag directly. Clearing it ends the loop at
// the next iteration boundary without releasing the loop reference.
func (p *GamePanel) SetRunning(running bool) {
	p.running.Store(running)
}

// Logger returns the panel's logger so games can log in the same stream.
func (p *GamePanel) Logger() *log.Logger {
	return p.logger
}
