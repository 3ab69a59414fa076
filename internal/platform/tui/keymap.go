package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gamepanel/internal/core"
)

// specialKeys maps Bubble Tea key types to panel key codes.
var specialKeys = map[tea.KeyType]core.KeyCode{
	tea.KeyEnter:     core.KeyEnter,
	tea.KeyTab:       core.KeyTab,
	tea.KeyBackspace: core.KeyBackspace,
	tea.KeyEsc:       core.KeyEscape,
	tea.KeySpace:     core.KeySpace,
	tea.KeyUp:        core.KeyUp,
	tea.KeyDown:      core.KeyDown,
	tea.KeyLeft:      core.KeyLeft,
	tea.KeyRight:     core.KeyRight,
	tea.KeyHome:      core.KeyHome,
	tea.KeyEnd:       core.KeyEnd,
	tea.KeyPgUp:      core.KeyPgUp,
	tea.KeyPgDown:    core.KeyPgDn,
	tea.KeyDelete:    core.KeyDelete,
	tea.KeyInsert:    core.KeyInsert,
	tea.KeyF1:        core.KeyF1,
	tea.KeyF2:        core.KeyF2,
	tea.KeyF3:        core.KeyF3,
	tea.KeyF4:        core.KeyF4,
}

// KeyEvents translates a key message into the raw events a desktop toolkit
// would deliver: a press, followed by a typed event for keys that produce a
// character. Unknown keys produce nothing.
func KeyEvents(msg tea.KeyMsg) []core.InputEvent {
	var code core.KeyCode

	if msg.Type == tea.KeyRunes {
		if len(msg.Runes) == 0 {
			return nil
		}
		code = core.KeyCode(msg.Runes[0])
	} else {
		c, ok := specialKeys[msg.Type]
		if !ok {
			return nil
		}
		code = c
	}

	events := []core.InputEvent{core.KeyEvent(core.KeyPressed, code)}
	if producesChar(msg.Type) {
		events = append(events, core.KeyEvent(core.KeyTyped, code))
	}
	return events
}

func producesChar(t tea.KeyType) bool {
	switch t {
	case tea.KeyRunes, tea.KeySpace, tea.KeyEnter, tea.KeyTab, tea.KeyBackspace:
		return true
	}
	return false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "tab":
		return MenuActionScoreboard
	}
	return MenuActionNone
}
