// Package term hosts a game panel directly on a tcell screen. Presented
// frames are copied cell by cell into the screen and flushed with Show;
// key and mouse events are read by Run and forwarded to the panel.
package term

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/gamepanel/internal/core"
	"github.com/vovakirdan/gamepanel/internal/panel"
)

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("term: host closed")

// quitSignal is posted as interrupt data to end Run.
type quitSignal struct{}

// Host is a panel.Host drawing on a tcell.Screen.
type Host struct {
	screen tcell.Screen
	logger *log.Logger

	mu       sync.Mutex // guards everything below and drawing on screen
	listener panel.InputListener
	width    int
	height   int
	focused  bool
	last     *core.Screen
	started  bool
	closed   bool

	// mouse edge tracking, only touched by Run
	buttons tcell.ButtonMask
	pressX  int
	pressY  int
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the host's logger.
func WithLogger(l *log.Logger) Option {
	return func(h *Host) {
		h.logger = l
	}
}

// NewHost wraps screen. The screen is initialized by Start, not here.
func NewHost(screen tcell.Screen, opts ...Option) *Host {
	h := &Host{
		screen: screen,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start initializes the screen and enables mouse reporting.
func (h *Host) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.started {
		return nil
	}
	if err := h.screen.Init(); err != nil {
		return fmt.Errorf("term: screen init: %w", err)
	}
	h.screen.SetStyle(tcell.StyleDefault)
	h.screen.HideCursor()
	h.screen.EnableMouse()
	h.screen.Clear()
	h.started = true
	return nil
}

// Close restores the terminal. Later presents are ignored.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	if h.started {
		h.screen.DisableMouse()
		h.screen.Fini()
	}
}

// Size returns the terminal size in cells.
func (h *Host) Size() (width, height int) {
	return h.screen.Size()
}

// CreateImage allocates an off-screen frame.
func (h *Host) CreateImage(width, height int) *core.Screen {
	return core.NewScreen(width, height)
}

// Present copies frame into the screen and flushes it. Cells outside the
// terminal are clipped.
func (h *Host) Present(frame *core.Screen) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	if !h.started {
		return errors.New("term: present before start")
	}

	h.last = frame
	h.draw(frame)
	h.screen.Show()
	return nil
}

// draw copies frame into the screen. Callers hold mu.
func (h *Host) draw(frame *core.Screen) {
	for y := range frame.Height() {
		for x := range frame.Width() {
			cell := frame.Get(x, y)
			h.screen.SetContent(x, y, cell.Rune, nil, cellStyle(cell.Color))
		}
	}
}

// repaint redraws the last frame after the terminal lost its contents.
func (h *Host) repaint() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || !h.started {
		return
	}
	h.screen.Clear()
	if h.last != nil {
		h.draw(h.last)
	}
	h.screen.Sync()
}

// Listen registers the panel that receives input.
func (h *Host) Listen(l panel.InputListener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listener = l
}

// SetPreferredSize records the panel's size.
func (h *Host) SetPreferredSize(width, height int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.width = width
	h.height = height
}

// PreferredSize returns the size declared by the panel.
func (h *Host) PreferredSize() (width, height int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width, h.height
}

// RequestFocus marks the panel as the keyboard target. The terminal has a
// single input stream so this only records the request.
func (h *Host) RequestFocus() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.focused = true
}

// Focused reports whether the panel asked for focus.
func (h *Host) Focused() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.focused
}

// Stop makes Run return.
func (h *Host) Stop() {
	// PostEvent fails only when the queue is full; Run is then busy
	// anyway and will see the screen closed by the caller.
	_ = h.screen.PostEvent(tcell.NewEventInterrupt(quitSignal{}))
}

// Run reads terminal events until Ctrl+C, Stop or Close.
func (h *Host) Run() error {
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return ErrClosed
		}

		switch tev := ev.(type) {
		case *tcell.EventInterrupt:
			if _, ok := tev.Data().(quitSignal); ok {
				return nil
			}

		case *tcell.EventResize:
			h.repaint()

		case *tcell.EventKey:
			if tev.Key() == tcell.KeyCtrlC {
				return nil
			}
			for _, in := range KeyEvents(tev) {
				h.dispatch(in)
			}

		case *tcell.EventMouse:
			for _, in := range h.mouseEvents(tev) {
				h.dispatch(in)
			}
		}
	}
}

func (h *Host) dispatch(ev core.InputEvent) {
	h.mu.Lock()
	l := h.listener
	h.mu.Unlock()

	if l != nil {
		l.HandleInput(ev)
	}
}

// clickButtons are the buttons that count as presses. Wheel masks are
// excluded.
const clickButtons = tcell.Button1 | tcell.Button2 | tcell.Button3

// mouseEvents turns tcell's button state reports into press, release and
// click edges.
func (h *Host) mouseEvents(ev *tcell.EventMouse) []core.InputEvent {
	x, y := ev.Position()
	now := ev.Buttons() & clickButtons
	before := h.buttons
	h.buttons = now

	switch {
	case before == 0 && now != 0:
		h.pressX, h.pressY = x, y
		return []core.InputEvent{core.MouseEvent(core.MousePressed, x, y)}

	case before != 0 && now == 0:
		events := []core.InputEvent{core.MouseEvent(core.MouseReleased, x, y)}
		if x == h.pressX && y == h.pressY {
			events = append(events, core.MouseEvent(core.MouseClicked, x, y))
		}
		return events
	}
	return nil
}

// cellStyle maps a cell color to a tcell style.
func cellStyle(c core.Color) tcell.Style {
	code, ok := c.ANSI()
	if !ok {
		return tcell.StyleDefault
	}
	return tcell.StyleDefault.Foreground(tcell.PaletteColor(code))
}
