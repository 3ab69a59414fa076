package core

import "fmt"

// KeyCode identifies a pressed key. Printable keys use their rune value;
// special keys live in the Unicode private use area so they never collide.
type KeyCode rune

const (
	KeyNone      KeyCode = 0
	KeyBackspace KeyCode = '\b'
	KeyTab       KeyCode = '\t'
	KeyEnter     KeyCode = '\n'
	KeyEscape    KeyCode = 0x1b
	KeySpace     KeyCode = ' '
)

const (
	KeyUp KeyCode = 0xE000 + iota
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPgUp
	KeyPgDn
	KeyDelete
	KeyInsert
	KeyF1
	KeyF2
	KeyF3
	KeyF4
)

var keyNames = map[KeyCode]string{
	KeyNone:      "none",
	KeyBackspace: "backspace",
	KeyTab:       "tab",
	KeyEnter:     "enter",
	KeyEscape:    "esc",
	KeySpace:     "space",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPgUp:      "pgup",
	KeyPgDn:      "pgdown",
	KeyDelete:    "delete",
	KeyInsert:    "insert",
	KeyF1:        "f1",
	KeyF2:        "f2",
	KeyF3:        "f3",
	KeyF4:        "f4",
}

// String returns a human-readable name for the key.
func (k KeyCode) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return string(rune(k))
}

// KeyFromName is the inverse of String. Single-rune names map to that rune.
func KeyFromName(name string) (KeyCode, bool) {
	for code, n := range keyNames {
		if n == name {
			return code, true
		}
	}
	if r := []rune(name); len(r) == 1 {
		return KeyCode(r[0]), true
	}
	return KeyNone, false
}

// EventKind is the kind of a raw input event delivered by a host.
type EventKind int

const (
	KeyPressed EventKind = iota
	KeyReleased
	KeyTyped
	MousePressed
	MouseReleased
	MouseClicked
	MouseEntered
	MouseExited
)

// String returns a human-readable name for the kind.
func (k EventKind) String() string {
	switch k {
	case KeyPressed:
		return "KeyPressed"
	case KeyReleased:
		return "KeyReleased"
	case KeyTyped:
		return "KeyTyped"
	case MousePressed:
		return "MousePressed"
	case MouseReleased:
		return "MouseReleased"
	case MouseClicked:
		return "MouseClicked"
	case MouseEntered:
		return "MouseEntered"
	case MouseExited:
		return "MouseExited"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// InputEvent is a raw key or mouse event. Key events set Key; mouse events
// set X and Y in panel coordinates.
type InputEvent struct {
	Kind EventKind
	Key  KeyCode
	X, Y int
}

// KeyEvent builds a key event of the given kind.
func KeyEvent(kind EventKind, code KeyCode) InputEvent {
	return InputEvent{Kind: kind, Key: code}
}

// MouseEvent builds a mouse event of the given kind at (x, y).
func MouseEvent(kind EventKind, x, y int) InputEvent {
	return InputEvent{Kind: kind, X: x, Y: y}
}

// IsKey reports whether the event came from the keyboard.
func (e InputEvent) IsKey() bool {
	return e.Kind == KeyPressed || e.Kind == KeyReleased || e.Kind == KeyTyped
}
