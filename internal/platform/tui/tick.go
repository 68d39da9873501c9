// Package tui connects the arcade to the terminal through Bubble Tea: a
// Surface the loop draws into, key mapping, the menu and scoreboard
// screens and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg asks the app to repaint the running game. gen ties the tick to
// the session that started it so a stale tick cannot fork a second chain.
type tickMsg struct {
	gen int
}

// tickCmd returns a Bubble Tea command that sends a tick at the given rate.
func tickCmd(fps, gen int) tea.Cmd {
	if fps <= 0 {
		fps = 60
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}
