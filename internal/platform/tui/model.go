package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gameshell/internal/core"
	"github.com/vovakirdan/gameshell/internal/events"
	"github.com/vovakirdan/gameshell/internal/input"
	"github.com/vovakirdan/gameshell/internal/profiling"
	"github.com/vovakirdan/gameshell/internal/shell"
)

// DefaultKeyHold is how long a key counts as held after its last press.
// Terminals report no key releases, so a release is emitted once a key
// stops repeating for this long.
const DefaultKeyHold = 120 * time.Millisecond

// Options configure the terminal frontend.
type Options struct {
	FrameHz int
	KeyHold time.Duration
	Width   int
	Height  int
	Logger  *log.Logger
	// ScreenshotDir defaults to ~/.gameshell/screenshots.
	ScreenshotDir string
}

// keyState is shared between value copies of Model.
type keyState struct {
	held      map[events.KeyCode]time.Time
	mouse     input.Vec2
	mouseSeen bool
	pressed   events.MouseButton
	pressing  bool
}

// Model is the Bubble Tea model presenting one shell.
type Model struct {
	shell   *shell.Shell
	ctx     context.Context
	cancel  context.CancelFunc
	keys    *KeyMapper
	state   *keyState
	screen  *core.Screen
	opts    Options
	now     func() time.Time
	timings bool
	cursor  bool
	err     error
	done    bool
	stopped <-chan error // Set when the shell runs outside Run
}

// NewModel creates a model presenting sh. The shell's tick loop runs
// separately, see Run; ctx is cancelled when the user quits.
func NewModel(ctx context.Context, sh *shell.Shell, opts Options) Model {
	if opts.KeyHold <= 0 {
		opts.KeyHold = DefaultKeyHold
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		cfg := core.DefaultConfig()
		opts.Width, opts.Height = cfg.ScreenW, cfg.ScreenH
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	ctx, cancel := context.WithCancel(ctx)
	return Model{
		shell:  sh,
		ctx:    ctx,
		cancel: cancel,
		keys:   NewKeyMapper(),
		state:  &keyState{held: make(map[events.KeyCode]time.Time)},
		screen: core.NewScreen(opts.Width, opts.Height),
		opts:   opts,
		now:    time.Now,
	}
}

// Init announces the keyboard and mouse and starts presenting.
func (m Model) Init() tea.Cmd {
	m.shell.Push(events.Device{Kind: events.Connect, Class: events.ClassKeyboard})
	m.shell.Push(events.Device{Kind: events.Connect, Class: events.ClassMouse})
	if m.stopped == nil {
		return frameCmd(m.opts.FrameHz)
	}
	stopped := m.stopped
	wait := func() tea.Msg {
		return shellDoneMsg{err: <-stopped}
	}
	return tea.Batch(wait, frameCmd(m.opts.FrameHz))
}

// watch makes the model quit when the shell reports on stopped.
func (m Model) watch(stopped <-chan error) Model {
	m.stopped = stopped
	return m
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case tea.FocusMsg:
		m.shell.Push(events.Device{Kind: events.BecomeCurrent, Class: events.ClassKeyboard})
		return m, nil

	case tea.BlurMsg:
		m.releaseAll()
		m.shell.Push(events.Device{Kind: events.StopBeingCurrent, Class: events.ClassKeyboard})
		return m, nil

	case releaseMsg:
		return m, m.releaseExpired(time.Time(msg))

	case FrameMsg:
		return m.handleFrame()

	case shellDoneMsg:
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.keys.IsQuit(msg):
		m.shell.Push(events.Quit{})
		m.cancel()
		m.done = true
		return m, tea.Quit
	case m.keys.IsScreenshot(msg):
		if err := m.saveScreenshot(); err != nil {
			m.opts.Logger.Warn("Cannot save screenshot", "err", err)
		}
		return m, nil
	case m.keys.IsTimingsToggle(msg):
		m.timings = !m.timings
		return m, nil
	}

	code, text := m.keys.MapKey(msg)
	_, repeat := m.state.held[code]
	m.state.held[code] = m.now()
	m.shell.Push(events.Key{Code: code, Down: true, Text: text, Repeat: repeat})
	if repeat {
		return m, nil
	}
	return m, releaseCmd(m.opts.KeyHold)
}

// releaseExpired releases keys that stopped repeating.
func (m Model) releaseExpired(now time.Time) tea.Cmd {
	for code, at := range m.state.held {
		if now.Sub(at) >= m.opts.KeyHold {
			delete(m.state.held, code)
			m.shell.Push(events.Key{Code: code, Down: false})
		}
	}
	if len(m.state.held) == 0 {
		return nil
	}
	return releaseCmd(m.opts.KeyHold)
}

func (m Model) releaseAll() {
	for code := range m.state.held {
		delete(m.state.held, code)
		m.shell.Push(events.Key{Code: code, Down: false})
	}
}

// handleMouse turns terminal mouse reports into pointer events.
func (m Model) handleMouse(msg tea.MouseMsg) {
	pos := input.Vec2{X: float32(msg.X), Y: float32(msg.Y)}
	st := m.state

	if delta, ok := m.keys.MapScroll(msg.Button); ok {
		if msg.Action == tea.MouseActionPress {
			m.shell.Push(events.MouseMove{Kind: events.MouseScrolled, Position: pos, Over: true, Scroll: delta})
		}
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if b, ok := m.keys.MapMouseButton(msg.Button); ok {
			st.pressed, st.pressing = b, true
			m.shell.Push(events.MouseClick{Button: b, Down: true, Position: pos})
		}
	case tea.MouseActionRelease:
		b, ok := m.keys.MapMouseButton(msg.Button)
		if !ok && st.pressing {
			// X10 style reports do not say which button was released
			b, ok = st.pressed, true
		}
		if ok {
			st.pressing = false
			m.shell.Push(events.MouseClick{Button: b, Down: false, Position: pos})
		}
	case tea.MouseActionMotion:
		var rel input.Vec2
		if st.mouseSeen {
			rel = input.Vec2{X: pos.X - st.mouse.X, Y: pos.Y - st.mouse.Y}
		}
		kind := events.MouseMoved
		if st.pressing {
			kind = events.MouseDragged
		}
		m.shell.Push(events.MouseMove{Kind: kind, Position: pos, Over: true, Relative: rel})
	}
	st.mouse, st.mouseSeen = pos, true
}

// handleFrame applies the core's presentation hints and schedules the next frame.
func (m Model) handleFrame() (tea.Model, tea.Cmd) {
	timing := m.shell.Timing()
	timing.Interval(profiling.TimerFrameToFrame, profiling.IntervalFrameToFrame)
	timing.Start(profiling.TimerDraw)

	cmds := []tea.Cmd{frameCmd(m.opts.FrameHz)}
	if show := m.shell.Output().ShouldShowSystemCursor; show != m.cursor {
		m.cursor = show
		if show {
			cmds = append(cmds, tea.ShowCursor)
		} else {
			cmds = append(cmds, tea.HideCursor)
		}
	}
	return m, tea.Batch(cmds...)
}

// saveScreenshot saves the current screen to a file.
func (m Model) saveScreenshot() error {
	m.shell.Draw(m.screen)

	dir := m.opts.ScreenshotDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("tui: cannot get home directory: %w", err)
		}
		dir = filepath.Join(home, ".gameshell", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("tui: cannot create screenshot directory: %w", err)
	}

	timestamp := m.now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.shell.Core().ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return fmt.Errorf("tui: cannot write screenshot: %w", err)
	}
	m.opts.Logger.Info("Screenshot saved", "path", path)
	return nil
}

// View renders the latest committed state.
func (m Model) View() string {
	if m.done {
		return ""
	}

	timing := m.shell.Timing()
	timing.Interval(profiling.TimerDraw, profiling.IntervalDrawBefore)

	m.shell.Draw(m.screen)
	out := RenderScreen(m.screen)
	if m.timings {
		out = overlayTimings(out, m.shell.LastReport())
	}

	timing.Interval(profiling.TimerDraw, profiling.IntervalDrawPresent)
	return out
}

// Err returns the error the shell stopped with.
func (m Model) Err() error {
	return m.err
}

// Run starts the shell and a Bubble Tea program presenting it, and blocks
// until the core quits or the user presses ctrl+c.
func Run(ctx context.Context, sh *shell.Shell, opts Options) error {
	model := NewModel(ctx, sh, opts)

	p := tea.NewProgram(model, programOptions(ctx, opts)...)

	done := startShell(model.ctx, sh, p)
	_, err := p.Run()
	model.cancel()
	shellErr := <-done

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return shellErr
}

func programOptions(ctx context.Context, opts Options) []tea.ProgramOption {
	po := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	}
	if opts.FrameHz > 0 {
		po = append(po, tea.WithFPS(opts.FrameHz))
	}
	return po
}

// startShell runs the shell's tick loop and tells p when it stopped.
func startShell(ctx context.Context, sh *shell.Shell, p *tea.Program) <-chan error {
	done := make(chan error, 1)
	go func() {
		err := sh.Run(ctx)
		done <- err
		p.Send(shellDoneMsg{err: err})
	}()
	return done
}
