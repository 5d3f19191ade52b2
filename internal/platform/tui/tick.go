// Package tui is the terminal frontend: it turns Bubble Tea messages into
// shell events and presents the committed core state as styled text.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg asks the model to present a new frame.
type FrameMsg time.Time

// releaseMsg checks held keys for expiry.
type releaseMsg time.Time

// shellDoneMsg is sent when the shell's tick loop returned.
type shellDoneMsg struct {
	err error
}

// frameCmd returns a command that sends a frame message at the given rate.
// A rate of zero stops presenting.
func frameCmd(frameHz int) tea.Cmd {
	if frameHz <= 0 {
		return nil
	}
	interval := time.Second / time.Duration(frameHz)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// releaseCmd wakes the model after the key hold time.
func releaseCmd(hold time.Duration) tea.Cmd {
	return tea.Tick(hold, func(t time.Time) tea.Msg {
		return releaseMsg(t)
	})
}
