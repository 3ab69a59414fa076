package web

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/vovakirdan/gamepanel/internal/core"
	"github.com/vovakirdan/gamepanel/internal/panel"
)

// Frame is the JSON message broadcast for every presented frame.
type Frame struct {
	Type   string   `json:"type"`
	Seq    uint64   `json:"seq"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Rows   []string `json:"rows"`
}

// EncodeFrame converts a screen to a Frame message.
func EncodeFrame(seq uint64, s *core.Screen) ([]byte, error) {
	rows := make([]string, s.Height())
	for y := range rows {
		rows[y] = s.Row(y)
	}
	return json.Marshal(Frame{
		Type:   "frame",
		Seq:    seq,
		Width:  s.Width(),
		Height: s.Height(),
		Rows:   rows,
	})
}

// Mirror is a panel.Host that forwards everything to an inner host and
// broadcasts each presented frame to the hub's spectators.
type Mirror struct {
	inner panel.Host
	hub   *Hub
	seq   atomic.Uint64

	mu       sync.Mutex
	listener panel.InputListener
}

// NewMirror wraps inner. Use Input as the hub's input function to let
// spectators play.
func NewMirror(inner panel.Host, hub *Hub) *Mirror {
	return &Mirror{inner: inner, hub: hub}
}

// CreateImage delegates to the inner host.
func (m *Mirror) CreateImage(width, height int) *core.Screen {
	return m.inner.CreateImage(width, height)
}

// Present shows the frame on the inner host, then broadcasts it. Only the
// inner host's error is returned; spectators never make a frame fatal.
func (m *Mirror) Present(frame *core.Screen) error {
	if err := m.inner.Present(frame); err != nil {
		return err
	}

	msg, err := EncodeFrame(m.seq.Add(1), frame)
	if err != nil {
		m.hub.logger.Warn("cannot encode frame", "error", err)
		return nil
	}
	m.hub.Broadcast(msg)
	return nil
}

// Listen registers l for remote input and with the inner host.
func (m *Mirror) Listen(l panel.InputListener) {
	m.mu.Lock()
	m.listener = l
	m.mu.Unlock()

	if inner, ok := m.inner.(panel.Listenable); ok {
		inner.Listen(l)
	}
}

// SetPreferredSize passes the size to the inner host.
func (m *Mirror) SetPreferredSize(width, height int) {
	if inner, ok := m.inner.(panel.Sizer); ok {
		inner.SetPreferredSize(width, height)
	}
}

// RequestFocus passes the request to the inner host.
func (m *Mirror) RequestFocus() {
	if inner, ok := m.inner.(panel.Focuser); ok {
		inner.RequestFocus()
	}
}

// Input turns a spectator message into panel input. Keys arrive as a press
// followed by a typed event; mouse events as press, release and click.
func (m *Mirror) Input(in RemoteInput) {
	m.mu.Lock()
	l := m.listener
	m.mu.Unlock()
	if l == nil {
		return
	}

	for _, ev := range remoteEvents(in) {
		l.HandleInput(ev)
	}
}

func remoteEvents(in RemoteInput) []core.InputEvent {
	switch in.Type {
	case "key":
		code, ok := core.KeyFromName(in.Key)
		if !ok {
			return nil
		}
		return []core.InputEvent{
			core.KeyEvent(core.KeyPressed, code),
			core.KeyEvent(core.KeyTyped, code),
		}
	case "mouse":
		return []core.InputEvent{
			core.MouseEvent(core.MousePressed, in.X, in.Y),
			core.MouseEvent(core.MouseReleased, in.X, in.Y),
			core.MouseEvent(core.MouseClicked, in.X, in.Y),
		}
	}
	return nil
}
