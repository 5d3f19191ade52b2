package inputview

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/vovakirdan/gameshell/internal/audio"
	"github.com/vovakirdan/gameshell/internal/core"
	"github.com/vovakirdan/gameshell/internal/input"
)

func newCore(t *testing.T) (*Core, []byte) {
	t.Helper()
	c := New()
	mem := make([]byte, 2048)
	c.Reset(core.DefaultConfig(), mem)
	return c, mem
}

func TestViewFitsArena(t *testing.T) {
	if n := binary.Size(view{}); n <= 0 || n > 2048 {
		t.Fatalf("view size = %d, expected a small fixed size", n)
	}
}

func TestTickDigest(t *testing.T) {
	c, mem := newCore(t)

	var in input.Snapshot
	in.FrameNumber = 7
	in.HasMouse = true
	in.Mouse.Move(input.Vec2{X: 1, Y: 2}, input.Vec2{X: 10, Y: 5}, true)
	in.AppendText("hi")
	pad := &in.Controllers[1]
	pad.IsConnected = true
	pad.IsActive = true
	pad.SubType = input.SubTypeGamepad
	pad.ButtonX.Press()
	pad.StickRight.End = input.Vec2{X: 0.5, Y: -0.5}
	pad.StickRight.IsAnalog = true
	pad.TriggerLeft.End = 0.75

	out := c.Tick(&in, mem)
	v := load(mem)

	if v.Frame != 7 {
		t.Errorf("Frame = %d, expected 7", v.Frame)
	}
	if v.MousePos != [2]float32{10, 5} {
		t.Errorf("MousePos = %v, expected [10 5]", v.MousePos)
	}
	if got := string(v.History[:v.HistoryLen]); got != "hi" {
		t.Errorf("History = %q, expected %q", got, "hi")
	}
	cv := v.Controllers[1]
	if cv.Buttons != bitX {
		t.Errorf("Buttons = %b, expected %b", cv.Buttons, bitX)
	}
	if cv.Presses != 1 {
		t.Errorf("Presses = %d, expected 1", cv.Presses)
	}
	if cv.Sticks[1] != [2]float32{0.5, -0.5} || !cv.Analog[1] {
		t.Errorf("right stick = %v analog %v", cv.Sticks[1], cv.Analog[1])
	}
	if out.Rumble[1].Low != 0.75 {
		t.Errorf("Rumble[1].Low = %v, expected 0.75", out.Rumble[1].Low)
	}
	if !out.NeedTextInput || !out.ShouldShowSystemCursor {
		t.Error("Expected text input and a visible cursor")
	}
}

func TestHistoryKeepsTail(t *testing.T) {
	var v view
	v.appendHistory([]byte(strings.Repeat("a", historyLength)))
	v.appendHistory([]byte("b\n"))

	if v.HistoryLen != historyLength {
		t.Fatalf("HistoryLen = %d, expected %d", v.HistoryLen, historyLength)
	}
	if tail := string(v.History[historyLength-2:]); tail != "b " {
		t.Errorf("tail = %q, expected %q", tail, "b ")
	}
}

func TestRenderAudio(t *testing.T) {
	c, mem := newCore(t)
	desc := audio.Descriptor{SampleRate: 8000, FramesPerBuffer: 32, ChannelsPerFrame: 1, SampleTime: 3}
	dst := make([]byte, 32*2)

	c.RenderAudio(mem, dst, desc)
	for i, b := range dst {
		if b != 0 {
			t.Fatalf("dst[%d] = %d, expected silence", i, b)
		}
	}

	var in input.Snapshot
	in.Controllers[0].IsConnected = true
	in.Controllers[0].ButtonA.Press()
	c.Tick(&in, mem)

	c.RenderAudio(mem, dst, desc)
	if int16(binary.LittleEndian.Uint16(dst)) == 0 {
		t.Error("Expected a tone while A is held")
	}
}

func TestDraw(t *testing.T) {
	c, mem := newCore(t)

	var in input.Snapshot
	in.Controllers[0].IsConnected = true
	in.Controllers[0].SubType = input.SubTypeKeyboardAndMouse
	in.AppendText("go")
	c.Tick(&in, mem)

	screen := core.NewScreen(80, 24)
	c.Draw(mem, screen)
	out := screen.String()

	for _, want := range []string{"frame 0", "keyboard+mouse", "text: go", "no mouse", "1: -"} {
		if !strings.Contains(out, want) {
			t.Errorf("screen missing %q:\n%s", want, out)
		}
	}
}

func TestCloseRequestedQuits(t *testing.T) {
	c, mem := newCore(t)
	in := input.Snapshot{CloseRequested: true}

	if out := c.Tick(&in, mem); !out.ShouldQuit {
		t.Error("Expected ShouldQuit when the host asks to close")
	}
}
