package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gameshell/internal/registry"
	"github.com/vovakirdan/gameshell/internal/storage"
)

// Timings board layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show core list sidebar
	sidebarWidth       = 20  // Width of core list sidebar
	maxRuns            = 100 // Max runs to load
)

// TimingSource is the part of the store the timings board reads.
type TimingSource interface {
	RecentRuns(coreID string, limit int) ([]storage.Run, error)
	Intervals(runID string) ([]storage.IntervalSummary, error)
	Counters(runID string) ([]storage.CounterSummary, error)
}

// TimingsKeyMap defines the key bindings for the timings board.
type TimingsKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Select   key.Binding
	Back     key.Binding
	Quit     key.Binding
	NextCore key.Binding
	PrevCore key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k TimingsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.NextCore, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k TimingsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextCore, k.PrevCore},
		{k.Select, k.Back, k.Quit},
	}
}

// DefaultTimingsKeyMap returns default key bindings.
func DefaultTimingsKeyMap() TimingsKeyMap {
	return TimingsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev core"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next core"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		NextCore: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next core"),
		),
		PrevCore: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev core"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// TimingsModel is the Bubble Tea model for browsing stored timing reports.
// The first entry of the core list shows runs of every core.
type TimingsModel struct {
	cores       []registry.CoreInfo
	coreCursor  int
	source      TimingSource
	runs        []storage.Run
	detail      *storage.Run // Run whose intervals are shown, nil for the run list
	table       table.Model
	help        help.Model
	keys        TimingsKeyMap
	width       int
	height      int
	err         error
	quitting    bool
	showSidebar bool
}

// NewTimingsModel creates a timings board reading from source.
func NewTimingsModel(source TimingSource, width, height int) TimingsModel {
	cores := append([]registry.CoreInfo{{ID: "", Title: "All cores"}}, registry.List()...)

	h := help.New()
	h.ShowAll = false

	m := TimingsModel{
		cores:       cores,
		source:      source,
		keys:        DefaultTimingsKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.loadRuns()
	return m
}

// tableWidth returns the width available to the table.
func (m *TimingsModel) tableWidth() int {
	w := m.width - 4 // Margins
	if m.showSidebar {
		w -= sidebarWidth + 3 // Sidebar + border + gap
	}
	return w
}

func (m *TimingsModel) runColumns() []table.Column {
	columns := []table.Column{
		{Title: "Core", Width: 10},
		{Title: "Frontend", Width: 8},
		{Title: "Ticks", Width: 8},
		{Title: "Started", Width: 12},
		{Title: "Duration", Width: 10},
	}
	if extra := m.tableWidth() - 58; extra > 0 {
		columns[0].Width += min(extra, 10)
	}
	return columns
}

func (m *TimingsModel) intervalColumns() []table.Column {
	return []table.Column{
		{Title: "Interval", Width: 28},
		{Title: "Count", Width: 8},
		{Title: "Mean", Width: 10},
		{Title: "Min", Width: 10},
		{Title: "Max", Width: 10},
	}
}

// createTable creates a table with columns for the current view.
func (m *TimingsModel) createTable() table.Model {
	columns := m.runColumns()
	if m.detail != nil {
		columns = m.intervalColumns()
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadRuns loads the runs of the selected core.
func (m *TimingsModel) loadRuns() {
	m.runs, m.err = nil, nil
	if m.source != nil {
		m.runs, m.err = m.source.RecentRuns(m.cores[m.coreCursor].ID, maxRuns)
	}

	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		duration := "running"
		if !r.EndedAt.IsZero() {
			duration = r.EndedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		rows[i] = table.Row{
			r.CoreID,
			r.Frontend,
			fmt.Sprintf("%d", r.Ticks),
			r.StartedAt.Local().Format("Jan 02 15:04"),
			duration,
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// loadDetail loads the interval summaries of run.
func (m *TimingsModel) loadDetail(run storage.Run) {
	m.detail = &run
	m.table = m.createTable()

	intervals, err := m.source.Intervals(run.RunID)
	if err != nil {
		m.err = err
		return
	}
	counters, err := m.source.Counters(run.RunID)
	if err != nil {
		m.err = err
		return
	}

	rows := make([]table.Row, 0, len(intervals)+len(counters))
	for _, iv := range intervals {
		rows = append(rows, table.Row{
			iv.Name,
			fmt.Sprintf("%d", iv.Count),
			formatMs(iv.Mean),
			formatMs(iv.Min),
			formatMs(iv.Max),
		})
	}
	for _, c := range counters {
		rows = append(rows, table.Row{c.Name, fmt.Sprintf("%d", c.Total), "", "", ""})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *TimingsModel) closeDetail() {
	m.detail = nil
	m.table = m.createTable()
	m.loadRuns()
}

func (m *TimingsModel) moveCore(delta int) {
	n := len(m.cores)
	m.coreCursor = (m.coreCursor + delta + n) % n
	m.loadRuns()
}

// Init initializes the timings board.
func (m TimingsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the timings board.
func (m TimingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			if m.detail != nil {
				m.closeDetail()
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			if m.detail == nil && len(m.runs) > 0 {
				m.loadDetail(m.runs[m.table.Cursor()])
			}
			return m, nil

		case key.Matches(msg, m.keys.NextCore), key.Matches(msg, m.keys.Right):
			if m.detail == nil {
				m.moveCore(1)
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevCore), key.Matches(msg, m.keys.Left):
			if m.detail == nil {
				m.moveCore(-1)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.help.Width = msg.Width
		if m.detail != nil {
			m.loadDetail(*m.detail)
		} else {
			m.table = m.createTable()
			m.loadRuns()
		}
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the timings board.
func (m TimingsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := fmt.Sprintf("TIMINGS - %s", m.cores[m.coreCursor].Title)
	if m.detail != nil {
		title = fmt.Sprintf("TIMINGS - %s %s", m.detail.CoreID, m.detail.StartedAt.Local().Format("Jan 02 15:04"))
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	content := tableStyle.Render(m.renderTableContent())

	if m.showSidebar && m.detail == nil {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", content))
	} else {
		b.WriteString(content)
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderSidebar renders the core list.
func (m TimingsModel) renderSidebar() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Cores\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, c := range m.cores {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.coreCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}

		name := c.Title
		maxLen := sidebarWidth - 6
		if len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	return sidebarStyle.Render(sidebar.String())
}

// renderTableContent renders the table or an empty message.
func (m TimingsModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.err != nil:
		return emptyStyle.Render("Cannot load timings:\n" + m.err.Error())
	case m.detail == nil && len(m.runs) == 0:
		return emptyStyle.Render("No runs recorded yet.\nRun a core to collect timings!")
	}
	return m.table.View()
}

// IsQuitting returns true if the user closed the board.
func (m TimingsModel) IsQuitting() bool {
	return m.quitting
}

// RunTimings runs the timings board until the user quits.
func RunTimings(source TimingSource, width, height int) error {
	p := tea.NewProgram(
		NewTimingsModel(source, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

// centerText pads text to center it within width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

func formatMs(d time.Duration) string {
	return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
}
