package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gameshell/internal/aggregator"
	"github.com/vovakirdan/gameshell/internal/audio"
	"github.com/vovakirdan/gameshell/internal/core"
	"github.com/vovakirdan/gameshell/internal/events"
	"github.com/vovakirdan/gameshell/internal/input"
	"github.com/vovakirdan/gameshell/internal/profiling"
	"github.com/vovakirdan/gameshell/internal/shell"
)

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name     string
		msg      tea.KeyMsg
		wantCode events.KeyCode
		wantText string
	}{
		{"letter", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}}, events.KeyW, "w"},
		{"shifted letter", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'D'}}, events.KeyD, "D"},
		{"digit", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}}, events.Key3, "3"},
		{"unbound rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}}, events.KeyUnknown, "z"},
		{"space", tea.KeyMsg{Type: tea.KeySpace}, events.KeySpace, " "},
		{"arrow", tea.KeyMsg{Type: tea.KeyLeft}, events.KeyLeft, ""},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, events.KeyReturn, "\n"},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, events.KeyEscape, ""},
		{"paste", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hi")}, events.KeyUnknown, "hi"},
		{"function key", tea.KeyMsg{Type: tea.KeyF5}, events.KeyUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, text := km.MapKey(tt.msg)
			if code != tt.wantCode {
				t.Errorf("MapKey() code = %v, expected %v", code, tt.wantCode)
			}
			if text != tt.wantText {
				t.Errorf("MapKey() text = %q, expected %q", text, tt.wantText)
			}
		})
	}
}

func TestSpecialKeys(t *testing.T) {
	km := NewKeyMapper()

	if !km.IsQuit(tea.KeyMsg{Type: tea.KeyCtrlC}) {
		t.Error("Expected ctrl+c to quit")
	}
	if km.IsQuit(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}) {
		t.Error("Expected q to reach the core")
	}
	if !km.IsTimingsToggle(tea.KeyMsg{Type: tea.KeyF2}) {
		t.Error("Expected F2 to toggle timings")
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionTimings},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, MenuActionQuit},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, MenuActionNone},
	}

	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %d, expected %d", tt.msg.String(), got, tt.want)
		}
	}
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "ab")
	s.DrawTextColor(2, 0, "cd", core.ColorRed)
	s.DrawText(0, 1, "xyz")

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("RenderScreen() has %d lines, expected 2", len(lines))
	}
	if !strings.Contains(lines[0], "ab") || !strings.Contains(lines[0], "cd") {
		t.Errorf("line 0 = %q, expected to contain ab and cd", lines[0])
	}
	if !strings.Contains(lines[1], "xyz") {
		t.Errorf("line 1 = %q, expected to contain xyz", lines[1])
	}
}

func TestRenderReport(t *testing.T) {
	if out := RenderReport(profiling.Report{}); !strings.Contains(out, "no timings yet") {
		t.Errorf("RenderReport(empty) = %q", out)
	}

	rep := profiling.Report{
		Entries:  []profiling.Entry{{Name: "tick_do", Count: 12, Mean: 1500 * time.Microsecond}},
		Counters: []profiling.CounterEntry{{Name: "audio_underruns", Value: 2}},
	}
	out := RenderReport(rep)
	for _, want := range []string{"tick_do", "12", "1.500ms", "audio_underruns"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderReport() = %q, expected to contain %q", out, want)
		}
	}
}

// textCore draws a fixed greeting.
type textCore struct{}

func (textCore) ID() string                                   { return "text" }
func (textCore) Title() string                                { return "Text" }
func (textCore) Reset(core.RuntimeConfig, []byte)             {}
func (textCore) RenderAudio([]byte, []byte, audio.Descriptor) {}
func (textCore) Tick(*input.Snapshot, []byte) core.Output     { return core.Output{} }
func (textCore) Draw(mem []byte, dst *core.Screen)            { dst.Clear(); dst.DrawText(0, 0, "hello") }

// lastSnapshot keeps a copy of the latest observed snapshot.
type lastSnapshot struct {
	s input.Snapshot
}

func (l *lastSnapshot) Observe(s *input.Snapshot) { l.s = *s }

func newTestModel(t *testing.T) (Model, *shell.Shell, *lastSnapshot) {
	t.Helper()
	obs := &lastSnapshot{}
	sh, err := shell.New(shell.Options{
		Core:      textCore{},
		Input:     aggregator.DefaultSettings(),
		ArenaSize: 64,
		Observer:  obs,
	})
	if err != nil {
		t.Fatalf("shell.New() failed: %v", err)
	}
	m := NewModel(context.Background(), sh, Options{Width: 20, Height: 4, KeyHold: 50 * time.Millisecond})
	m.Init()
	return m, sh, obs
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelKeyHoldAndRelease(t *testing.T) {
	m, sh, obs := newTestModel(t)
	start := time.Now()
	m.now = func() time.Time { return start }

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}})
	sh.Step()

	kb := obs.s.Controllers[0]
	if !kb.IsConnected {
		t.Error("Expected the keyboard slot to be connected")
	}
	if !kb.StickLeft.Up.EndedDown {
		t.Error("Expected W to hold stick up")
	}
	if obs.s.TextString() != "w" {
		t.Errorf("Text = %q, expected w", obs.s.TextString())
	}

	// Not yet expired
	m = update(m, releaseMsg(start.Add(10*time.Millisecond)))
	sh.Step()
	if !obs.s.Controllers[0].StickLeft.Up.EndedDown {
		t.Error("Expected W to stay down before the hold time")
	}

	update(m, releaseMsg(start.Add(60*time.Millisecond)))
	sh.Step()
	if obs.s.Controllers[0].StickLeft.Up.EndedDown {
		t.Error("Expected W to be released after the hold time")
	}
}

func TestModelRepeatCarriesText(t *testing.T) {
	m, sh, obs := newTestModel(t)

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	sh.Step()

	b := obs.s.Controllers[0].ButtonB
	if !b.EndedDown || b.TransitionCount != 1 {
		t.Errorf("ButtonB = %+v, expected one press", b)
	}
	if obs.s.TextString() != "ff" {
		t.Errorf("Text = %q, expected ff", obs.s.TextString())
	}
}

func TestModelMouse(t *testing.T) {
	m, sh, obs := newTestModel(t)

	m = update(m, tea.MouseMsg{X: 2, Y: 1, Action: tea.MouseActionMotion})
	m = update(m, tea.MouseMsg{X: 2, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	update(m, tea.MouseMsg{X: 3, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	sh.Step()

	mouse := obs.s.Mouse
	if !mouse.ButtonLeft.EndedDown {
		t.Error("Expected left mouse button down")
	}
	if mouse.Scroll.Y != 1 {
		t.Errorf("Scroll.Y = %v, expected 1", mouse.Scroll.Y)
	}
	if !obs.s.Controllers[0].TriggerRight.Trigger.EndedDown {
		t.Error("Expected left click to press the right trigger")
	}
}

func TestModelQuit(t *testing.T) {
	m, sh, obs := newTestModel(t)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("Expected a quit command")
	}
	if next.(Model).ctx.Err() == nil {
		t.Error("Expected the shell context to be cancelled")
	}
	sh.Step()
	if !obs.s.CloseRequested {
		t.Error("Expected the quit to reach the snapshot")
	}
}

func TestModelViewAndScreenshot(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.opts.ScreenshotDir = t.TempDir()

	if !strings.Contains(m.View(), "hello") {
		t.Errorf("View() = %q, expected the core's drawing", m.View())
	}

	m = update(m, tea.KeyMsg{Type: tea.KeyF2})
	if !strings.Contains(m.View(), "no timings yet") {
		t.Errorf("View() = %q, expected the timings overlay", m.View())
	}

	update(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	files, err := os.ReadDir(m.opts.ScreenshotDir)
	if err != nil {
		t.Fatalf("ReadDir() failed: %v", err)
	}
	if len(files) != 1 || !strings.HasPrefix(files[0].Name(), "text_") {
		t.Fatalf("screenshots = %v, expected one text_ file", files)
	}
	data, err := os.ReadFile(filepath.Join(m.opts.ScreenshotDir, files[0].Name()))
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("screenshot = %q, expected hello", data)
	}
}
