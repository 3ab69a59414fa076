package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gamepanel/internal/core"
	"github.com/vovakirdan/gamepanel/internal/panel"
)

// GameExitMsg is emitted by an embedded host when the player leaves the game.
type GameExitMsg struct{}

// Host is a panel.Host backed by a Bubble Tea program. The panel's loop
// stores frames with Present; the program repaints the latest one on every
// tick, so presentation always happens on the program's goroutine.
type Host struct {
	repaint        time.Duration
	logger         *log.Logger
	screenshotDir  string
	screenshotName string
	embedded       bool

	mu       sync.Mutex
	listener panel.InputListener
	width    int
	height   int
	err      error
	onExit   []func()
	exited   bool

	frame atomic.Pointer[core.Screen]
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithRepaint sets how often the program repaints the latest frame.
func WithRepaint(d time.Duration) HostOption {
	return func(h *Host) {
		h.repaint = d
	}
}

// WithHostLogger sets the host's logger.
func WithHostLogger(l *log.Logger) HostOption {
	return func(h *Host) {
		h.logger = l
	}
}

// WithScreenshots enables Ctrl+S screenshots, written to dir with the
// given file name prefix.
func WithScreenshots(dir, name string) HostOption {
	return func(h *Host) {
		h.screenshotDir = dir
		h.screenshotName = name
	}
}

// Embedded makes the host's model emit GameExitMsg instead of quitting the
// program, for use inside a larger model such as an SSH session.
func Embedded() HostOption {
	return func(h *Host) {
		h.embedded = true
	}
}

// NewHost creates a host. It does nothing until its model runs.
func NewHost(opts ...HostOption) *Host {
	h := &Host{
		repaint: DefaultRepaint,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// CreateImage allocates an off-screen frame.
func (h *Host) CreateImage(width, height int) *core.Screen {
	return core.NewScreen(width, height)
}

// Present stores frame for the next repaint. It fails only once the host
// has been marked as failed.
func (h *Host) Present(frame *core.Screen) error {
	if err := h.Err(); err != nil {
		return err
	}
	h.frame.Store(frame)
	return nil
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

// Frame returns the latest presented frame, or nil.
func (h *Host) Frame() *core.Screen {
	return h.frame.Load()
}

// Fail marks the host as failed. Later presents return err and the program
// leaves on its next tick.
func (h *Host) Fail(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err == nil {
		h.err = err
	}
}

// Err returns the failure recorded by Fail or Run.
func (h *Host) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// OnExit registers fn to run once when the player leaves or the program
// ends.
func (h *Host) OnExit(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onExit = append(h.onExit, fn)
}

// Close runs the exit callbacks if they have not run yet.
func (h *Host) Close() {
	h.mu.Lock()
	if h.exited {
		h.mu.Unlock()
		return
	}
	h.exited = true
	fns := h.onExit
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
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

// Model returns a Bubble Tea model that drives this host.
func (h *Host) Model() tea.Model {
	return Model{host: h}
}

// Run runs the host's model in a new program and blocks until it exits.
func (h *Host) Run(opts ...tea.ProgramOption) error {
	defer h.Close()

	p := tea.NewProgram(h.Model(), opts...)
	if _, err := p.Run(); err != nil {
		err = fmt.Errorf("tui: program failed: %w", err)
		h.Fail(err)
		return err
	}
	return nil
}

// saveScreenshot writes the latest frame as plain text.
func (h *Host) saveScreenshot() {
	frame := h.Frame()
	if frame == nil || h.screenshotDir == "" {
		return
	}

	if err := os.MkdirAll(h.screenshotDir, 0o755); err != nil {
		h.logger.Warn("cannot create screenshot directory", "dir", h.screenshotDir, "error", err)
		return
	}

	name := h.screenshotName
	if name == "" {
		name = "frame"
	}
	path := filepath.Join(h.screenshotDir, fmt.Sprintf("%s_%s.txt", name, time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(frame.String()), 0o600); err != nil {
		h.logger.Warn("cannot save screenshot", "path", path, "error", err)
		return
	}
	h.logger.Info("screenshot saved", "path", path)
}

// Model is the Bubble Tea model for a Host.
type Model struct {
	host     *Host
	pressed  bool
	pressX   int
	pressY   int
	quitting bool
}

// Init starts the repaint ticks.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.host.repaint)
}

// Update handles messages and forwards input to the panel.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if m.host.Err() != nil {
			return m.leave()
		}
		return m, tickCmd(m.host.repaint)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.leave()
	case "ctrl+s":
		m.host.saveScreenshot()
		return m, nil
	}

	for _, ev := range KeyEvents(msg) {
		m.host.dispatch(ev)
	}
	return m, nil
}

// handleMouse turns press/release pairs into the panel's mouse events.
// Motion and wheel events are not forwarded.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if tea.MouseEvent(msg).IsWheel() {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		m.pressed = true
		m.pressX, m.pressY = msg.X, msg.Y
		m.host.dispatch(core.MouseEvent(core.MousePressed, msg.X, msg.Y))

	case tea.MouseActionRelease:
		m.host.dispatch(core.MouseEvent(core.MouseReleased, msg.X, msg.Y))
		if m.pressed && m.pressX == msg.X && m.pressY == msg.Y {
			m.host.dispatch(core.MouseEvent(core.MouseClicked, msg.X, msg.Y))
		}
		m.pressed = false
	}

	return m, nil
}

// leave ends the game: exit callbacks run, then the program quits or, when
// embedded, the parent model receives GameExitMsg.
func (m Model) leave() (tea.Model, tea.Cmd) {
	m.host.Close()
	if m.host.embedded {
		return m, func() tea.Msg { return GameExitMsg{} }
	}
	m.quitting = true
	return m, tea.Quit
}

// View renders the latest frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	frame := m.host.Frame()
	if frame == nil {
		return ""
	}
	return RenderScreen(frame)
}
