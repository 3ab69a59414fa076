// Package tui hosts game panels in a Bubble Tea program. It maps terminal
// key and mouse messages to panel input, repaints the latest presented frame
// on a fixed tick, and serves the same host over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultRepaint is how often the program repaints the latest frame.
const DefaultRepaint = time.Second / 60

// TickMsg is sent to trigger a repaint.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends a tick after interval.
func tickCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = DefaultRepaint
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
