// Package tui is the Bubble Tea front end for the brick arena: the menu,
// the game view, the scoreboard and the SSH server that hosts them.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg asks the game view to pull the latest published frame.
type TickMsg time.Time

// tickCmd schedules the next redraw. The simulation runs on its own
// goroutine; ticks only pace how often the terminal is repainted.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
