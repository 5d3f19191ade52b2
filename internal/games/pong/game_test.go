package pong

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/vovakirdan/gameshell/internal/audio"
	"github.com/vovakirdan/gameshell/internal/core"
	"github.com/vovakirdan/gameshell/internal/input"
)

var testConfig = core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42}

// frame builds a snapshot for tick n with the keyboard slot connected.
func frame(n uint64) *input.Snapshot {
	var in input.Snapshot
	in.FrameNumber = n
	in.ElapsedSeconds = 1.0 / referenceHz
	in.UpTimeMicroseconds = int64(n) * 1_000_000 / referenceHz
	in.Controllers[0].IsConnected = true
	return &in
}

func newGame(t *testing.T) (*Game, []byte) {
	t.Helper()
	g := New()
	mem := make([]byte, 1024)
	g.Reset(testConfig, mem)
	return g, mem
}

func TestStateFitsArena(t *testing.T) {
	if stateSize <= 0 || stateSize > 1024 {
		t.Fatalf("stateSize = %d, expected a small fixed size", stateSize)
	}
}

func TestGameDeterminism(t *testing.T) {
	run := func() state {
		g, mem := newGame(t)
		for i := range uint64(500) {
			in := frame(i + 1)
			if i%20 < 10 {
				in.Controllers[0].StickLeft.End.Y = 1
			}
			g.Tick(in, mem)
		}
		return load(mem)
	}

	s1, s2 := run(), run()
	if s1 != s2 {
		t.Errorf("Determinism failed:\n%+v\n%+v", s1, s2)
	}
}

func TestResetCentersPaddles(t *testing.T) {
	_, mem := newGame(t)
	s := load(mem)

	if !s.Serving {
		t.Error("Expected a serve after reset")
	}
	if s.Paddle1Y != s.Paddle2Y {
		t.Errorf("paddles at %v and %v, expected equal", s.Paddle1Y, s.Paddle2Y)
	}
	if s.Score1 != 0 || s.Score2 != 0 {
		t.Errorf("score = %d:%d, expected 0:0", s.Score1, s.Score2)
	}
}

func TestStickMovesPaddle(t *testing.T) {
	g, mem := newGame(t)
	start := load(mem).Paddle1Y

	in := frame(1)
	in.Controllers[0].StickLeft.End.Y = 1 // Up
	g.Tick(in, mem)

	if got := load(mem).Paddle1Y; got >= start {
		t.Errorf("Paddle1Y = %v, expected less than %v", got, start)
	}

	// Inside the dead zone nothing moves
	before := load(mem).Paddle1Y
	in = frame(2)
	in.Controllers[0].StickLeft.End.Y = -0.1
	g.Tick(in, mem)
	if got := load(mem).Paddle1Y; got != before {
		t.Errorf("Paddle1Y = %v, expected %v", got, before)
	}
}

func TestDisconnectedControllersIgnored(t *testing.T) {
	g, mem := newGame(t)
	start := load(mem).Paddle1Y

	in := frame(1)
	in.Controllers[2].StickLeft.End.Y = 1
	g.Tick(in, mem)

	if got := load(mem).Paddle1Y; got != start {
		t.Errorf("Paddle1Y = %v, expected %v", got, start)
	}
}

func TestPauseToggle(t *testing.T) {
	g, mem := newGame(t)

	in := frame(1)
	in.Controllers[0].ButtonStart.Press()
	g.Tick(in, mem)
	if !load(mem).Paused {
		t.Fatal("Expected pause after Start")
	}

	// Holding Start does not toggle again
	in = frame(2)
	in.Controllers[0].ButtonStart.Press()
	g.Tick(in, mem)
	if !load(mem).Paused {
		t.Error("Expected to stay paused while Start is held")
	}

	// Release and press again
	in = frame(3)
	in.Controllers[0].ButtonStart.TransitionCount = 3
	in.Controllers[0].ButtonStart.EndedDown = true
	g.Tick(in, mem)
	if load(mem).Paused {
		t.Error("Expected second Start press to resume")
	}
}

func TestScoringAndRumble(t *testing.T) {
	g, mem := newGame(t)

	s := load(mem)
	s.Serving = false
	s.BallX = 0.1
	s.BallY = 2
	s.BallVX = -1
	s.BallVY = 0
	s.Paddle1Y = 15
	s.store(mem)

	out := g.Tick(frame(1), mem)
	s = load(mem)
	if s.Score2 != 1 {
		t.Errorf("Score2 = %d, expected 1", s.Score2)
	}
	if !s.Serving {
		t.Error("Expected a new serve after a point")
	}
	if out.Rumble[0].Low == 0 {
		t.Error("Expected rumble on the connected controller after conceding")
	}
	if out.Rumble[1].Low != 0 {
		t.Error("Expected no rumble on a disconnected slot")
	}
}

func TestGameOverAndRestart(t *testing.T) {
	g, mem := newGame(t)

	s := load(mem)
	s.GameOver = true
	s.Winner = 2
	s.Score2 = DefaultWinScore
	s.store(mem)

	g.Tick(frame(1), mem)
	if !load(mem).GameOver {
		t.Fatal("Expected game over to hold without input")
	}

	in := frame(2)
	in.Controllers[0].ButtonA.Press()
	g.Tick(in, mem)

	s = load(mem)
	if s.GameOver || s.Score2 != 0 {
		t.Errorf("GameOver = %v, Score2 = %d, expected a fresh game", s.GameOver, s.Score2)
	}
}

func TestCloseRequestedQuits(t *testing.T) {
	g, mem := newGame(t)
	in := frame(1)
	in.CloseRequested = true

	if out := g.Tick(in, mem); !out.ShouldQuit {
		t.Error("Expected ShouldQuit when the host asks to close")
	}
}

func TestRenderAudio(t *testing.T) {
	g, mem := newGame(t)
	desc := audio.Descriptor{SampleRate: 8000, FramesPerBuffer: 64, ChannelsPerFrame: 2}
	dst := make([]byte, 64*2*2)

	for i := range dst {
		dst[i] = 0xff
	}
	g.RenderAudio(mem, dst, desc)
	for i, b := range dst {
		if b != 0 {
			t.Fatalf("dst[%d] = %d, expected silence without a blip", i, b)
		}
	}

	s := load(mem)
	s.BlipUntil = s.Now + blipMicros
	s.BlipPitch = 440
	s.store(mem)

	g.RenderAudio(mem, dst, desc)
	first := int16(binary.LittleEndian.Uint16(dst))
	if first == 0 {
		t.Fatal("Expected a tone during a blip")
	}
	// Channels carry the same sample
	if second := int16(binary.LittleEndian.Uint16(dst[2:])); second != first {
		t.Errorf("right channel = %d, expected %d", second, first)
	}
}

func TestDraw(t *testing.T) {
	g, mem := newGame(t)
	screen := core.NewScreen(80, 24)

	g.Draw(mem, screen)
	if !strings.Contains(screen.Row(0), "P1") || !strings.Contains(screen.Row(0), "CPU") {
		t.Errorf("Row(0) = %q, expected player labels", screen.Row(0))
	}

	s := load(mem)
	s.Paused = true
	s.store(mem)
	g.Draw(mem, screen)

	found := false
	for y := range screen.Height() {
		if strings.Contains(screen.Row(y), "PAUSED") {
			found = true
		}
	}
	if !found {
		t.Error("Expected the pause message")
	}
}
