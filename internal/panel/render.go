package panel

import (
	"github.com/vovakirdan/gamepanel/internal/core"
)

// Render allocates the off-screen buffer on first use and lets the game draw
// into it. If the host cannot allocate the buffer the frame is skipped and
// the next call tries again.
func (p *GamePanel) Render() {
	p.bufMu.Lock()
	defer p.bufMu.Unlock()

	if p.buffer == nil {
		buf := p.host.CreateImage(p.width, p.height)
		if buf == nil {
			p.logger.Warn("buffer is nil, skipping frame", "width", p.width, "height", p.height)
			return
		}
		p.buffer = buf
		p.graphics.Store(buf.Graphics())
	}

	if d, ok := p.game.(Drawer); ok {
		d.Draw(p.graphics.Load())
	}
}

// Graphics returns the drawing context of the off-screen buffer, or nil if
// the buffer has not been allocated yet. It takes no lock, so Draw may call
// it as well.
func (p *GamePanel) Graphics() *core.Graphics {
	return p.graphics.Load()
}

// Snapshot returns a copy of the off-screen buffer, or nil if there is none
// yet. Hosts call it to repaint outside the loop.
func (p *GamePanel) Snapshot() *core.Screen {
	p.bufMu.Lock()
	defer p.bufMu.Unlock()

	if p.buffer == nil {
		return nil
	}
	return p.buffer.Clone()
}

// HandleInput forwards key presses and mouse presses to the game's hooks.
// Every other kind of event is ignored.
func (p *GamePanel) HandleInput(ev core.InputEvent) {
	switch ev.Kind {
	case core.KeyPressed:
		if h, ok := p.game.(KeyPressHandler); ok {
			h.OnKeyPress(ev.Key)
		}
	case core.MousePressed:
		if h, ok := p.game.(MouseDownHandler); ok {
			h.OnMouseDown(ev.X, ev.Y)
		}
	}
}
