package tui

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gameshell/internal/events"
	"github.com/vovakirdan/gameshell/internal/input"
)

// KeyMapper translates Bubble Tea messages to shell events.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// IsQuit reports whether the key closes the frontend.
func (km *KeyMapper) IsQuit(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyCtrlC
}

// IsScreenshot reports whether the key saves a screenshot.
func (km *KeyMapper) IsScreenshot(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyCtrlS
}

// IsTimingsToggle reports whether the key toggles the timings overlay.
func (km *KeyMapper) IsTimingsToggle(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyF2
}

// MapKey returns the key code and typed text for a key message.
// Keys without a code still carry their text.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (events.KeyCode, string) {
	switch msg.Type {
	case tea.KeyUp:
		return events.KeyUp, ""
	case tea.KeyDown:
		return events.KeyDown, ""
	case tea.KeyLeft:
		return events.KeyLeft, ""
	case tea.KeyRight:
		return events.KeyRight, ""
	case tea.KeySpace:
		return events.KeySpace, " "
	case tea.KeyTab:
		return events.KeyTab, ""
	case tea.KeyEsc:
		return events.KeyEscape, ""
	case tea.KeyEnter:
		return events.KeyReturn, "\n"
	case tea.KeyBackspace:
		return events.KeyBackspace, ""
	case tea.KeyRunes:
		text := string(msg.Runes)
		if len(msg.Runes) != 1 {
			return events.KeyUnknown, text
		}
		r := msg.Runes[0]
		if r == ' ' {
			return events.KeySpace, text
		}
		// Shifted letters map to the same key
		return events.KeyFromName(string(unicode.ToLower(r))), text
	}
	return events.KeyUnknown, ""
}

// MapMouseButton maps a terminal mouse button. Wheel and extra buttons are
// reported as not mapped.
func (km *KeyMapper) MapMouseButton(b tea.MouseButton) (events.MouseButton, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return events.MouseLeft, true
	case tea.MouseButtonRight:
		return events.MouseRight, true
	case tea.MouseButtonMiddle, tea.MouseButtonBackward, tea.MouseButtonForward:
		return events.MouseOther, true
	}
	return 0, false
}

// MapScroll returns the scroll delta of a wheel button, up and right positive.
func (km *KeyMapper) MapScroll(b tea.MouseButton) (input.Vec2, bool) {
	switch b {
	case tea.MouseButtonWheelUp:
		return input.Vec2{Y: 1}, true
	case tea.MouseButtonWheelDown:
		return input.Vec2{Y: -1}, true
	case tea.MouseButtonWheelLeft:
		return input.Vec2{X: -1}, true
	case tea.MouseButtonWheelRight:
		return input.Vec2{X: 1}, true
	}
	return input.Vec2{}, false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionTimings
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "tab":
		return MenuActionTimings
	}
	return MenuActionNone
}
