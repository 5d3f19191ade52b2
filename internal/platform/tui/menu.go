package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gameshell/internal/registry"
)

// MenuModel is the Bubble Tea model for the core picker.
type MenuModel struct {
	items       []registry.CoreInfo
	cursor      int
	width       int
	height      int
	keyMapper   *KeyMapper
	quitting    bool
	selected    *registry.CoreInfo
	openTimings bool // True if user pressed Tab for the timings board
}

// NewMenuModel creates a picker over the registered cores.
func NewMenuModel(width, height int) MenuModel {
	return MenuModel{
		items:     registry.List(),
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionTimings:
		m.openTimings = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("  G A M E S H E L L  ", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a core", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-16s %s", cursor, item.Title, item.ID)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Run  |  Tab: Timings  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected core, or nil if none selected.
func (m MenuModel) Selected() *registry.CoreInfo {
	return m.selected
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	CoreID       string
	WantsTimings bool
	Quit         bool
}

// RunMenu runs the core picker and returns the selection.
func RunMenu(width, height int) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(width, height), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return MenuResult{}, err
	}

	m, ok := final.(MenuModel)
	if !ok || m.quitting {
		return MenuResult{Quit: true}, nil
	}
	if m.openTimings {
		return MenuResult{WantsTimings: true}, nil
	}
	if m.selected == nil {
		return MenuResult{Quit: true}, nil
	}
	return MenuResult{CoreID: m.selected.ID}, nil
}
