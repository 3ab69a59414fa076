package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/gamepanel/internal/core"
)

var specialKeys = map[tcell.Key]core.KeyCode{
	tcell.KeyEnter:      core.KeyEnter,
	tcell.KeyTab:        core.KeyTab,
	tcell.KeyBackspace:  core.KeyBackspace,
	tcell.KeyBackspace2: core.KeyBackspace,
	tcell.KeyEscape:     core.KeyEscape,
	tcell.KeyUp:         core.KeyUp,
	tcell.KeyDown:       core.KeyDown,
	tcell.KeyLeft:       core.KeyLeft,
	tcell.KeyRight:      core.KeyRight,
	tcell.KeyHome:       core.KeyHome,
	tcell.KeyEnd:        core.KeyEnd,
	tcell.KeyPgUp:       core.KeyPgUp,
	tcell.KeyPgDn:       core.KeyPgDn,
	tcell.KeyDelete:     core.KeyDelete,
	tcell.KeyInsert:     core.KeyInsert,
	tcell.KeyF1:         core.KeyF1,
	tcell.KeyF2:         core.KeyF2,
	tcell.KeyF3:         core.KeyF3,
	tcell.KeyF4:         core.KeyF4,
}

// KeyEvents translates a tcell key event into a press, plus a typed event
// when the key produces a character.
func KeyEvents(ev *tcell.EventKey) []core.InputEvent {
	if ev.Key() == tcell.KeyRune {
		code := core.KeyCode(ev.Rune())
		return []core.InputEvent{
			core.KeyEvent(core.KeyPressed, code),
			core.KeyEvent(core.KeyTyped, code),
		}
	}

	code, ok := specialKeys[ev.Key()]
	if !ok {
		return nil
	}

	events := []core.InputEvent{core.KeyEvent(core.KeyPressed, code)}
	switch code {
	case core.KeyEnter, core.KeyTab, core.KeyBackspace:
		events = append(events, core.KeyEvent(core.KeyTyped, code))
	}
	return events
}
