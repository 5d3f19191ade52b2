package shell

import (
	"context"
	"encoding/binary"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/gameshell/internal/aggregator"
	"github.com/vovakirdan/gameshell/internal/audio"
	"github.com/vovakirdan/gameshell/internal/core"
	"github.com/vovakirdan/gameshell/internal/events"
	"github.com/vovakirdan/gameshell/internal/input"
	"github.com/vovakirdan/gameshell/internal/profiling"
)

// counterCore counts ticks in the arena and quits after quitAt ticks.
type counterCore struct {
	quitAt uint64
}

func (c *counterCore) ID() string    { return "counter" }
func (c *counterCore) Title() string { return "Counter" }

func (c *counterCore) Reset(_ core.RuntimeConfig, mem []byte) {
	binary.LittleEndian.PutUint64(mem, 0)
}

func (c *counterCore) Tick(in *input.Snapshot, mem []byte) core.Output {
	n := binary.LittleEndian.Uint64(mem) + 1
	binary.LittleEndian.PutUint64(mem, n)
	return core.Output{ShouldQuit: c.quitAt > 0 && n >= c.quitAt || in.CloseRequested}
}

func (c *counterCore) RenderAudio(mem []byte, dst []byte, _ audio.Descriptor) {
	v := byte(binary.LittleEndian.Uint64(mem))
	for i := range dst {
		dst[i] = v
	}
}

func (c *counterCore) Draw(mem []byte, dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, strconv.FormatUint(binary.LittleEndian.Uint64(mem), 10))
}

// recordingObserver keeps the frame numbers it saw.
type recordingObserver struct {
	frames []uint64
}

func (o *recordingObserver) Observe(s *input.Snapshot) {
	o.frames = append(o.frames, s.FrameNumber)
}

// memoryReports keeps saved reports.
type memoryReports struct {
	mu      sync.Mutex
	reports []profiling.Report
}

func (m *memoryReports) SaveReport(_ string, rep profiling.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, rep)
	return nil
}

func (m *memoryReports) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reports)
}

func newTestShell(t *testing.T, opts Options) *Shell {
	t.Helper()
	if opts.Core == nil {
		opts.Core = &counterCore{}
	}
	opts.Input = aggregator.DefaultSettings()
	opts.ArenaSize = 64
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return s
}

func TestNewRequiresCore(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("Expected error without a core")
	}
	if _, err := New(Options{Core: &counterCore{}, TickHz: -1}); err == nil {
		t.Error("Expected error for negative tick rate")
	}
}

func TestStepPublishesState(t *testing.T) {
	obs := &recordingObserver{}
	s := newTestShell(t, Options{Observer: obs})

	screen := core.NewScreen(10, 1)
	s.Draw(screen)
	if got := screen.Row(0); got[:1] != "0" {
		t.Errorf("Row(0) = %q before ticks, expected 0", got)
	}

	for range 3 {
		s.Step()
	}

	s.Draw(screen)
	if got := screen.Row(0); got[:1] != "3" {
		t.Errorf("Row(0) = %q, expected 3", got)
	}
	if s.Ticks() != 3 {
		t.Errorf("Ticks() = %d, expected 3", s.Ticks())
	}
	if len(obs.frames) != 3 || obs.frames[2] != 3 {
		t.Errorf("observed frames = %v, expected [1 2 3]", obs.frames)
	}
}

func TestStepForwardsQuit(t *testing.T) {
	s := newTestShell(t, Options{})
	s.Push(events.Quit{})

	if out := s.Step(); !out.ShouldQuit {
		t.Error("Expected quit to reach the core")
	}
	if !s.Output().ShouldQuit {
		t.Error("Expected Output() to hold the last tick output")
	}
}

func TestRunStopsOnCoreQuit(t *testing.T) {
	s := newTestShell(t, Options{Core: &counterCore{quitAt: 5}, TickHz: 1000})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("Run() only returned because of the timeout")
	}
	if s.Ticks() != 5 {
		t.Errorf("Ticks() = %d, expected 5", s.Ticks())
	}
}

func TestRunPausedUntilCancelled(t *testing.T) {
	s := newTestShell(t, Options{TickHz: 0})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if s.Ticks() != 0 {
		t.Errorf("Ticks() = %d, expected 0 while paused", s.Ticks())
	}
}

func TestSetTickHzResumes(t *testing.T) {
	s := newTestShell(t, Options{Core: &counterCore{quitAt: 3}, TickHz: 0})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	s.SetTickHz(500)

	if err := <-done; err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("Expected the core to quit after resuming")
	}
	if s.TickHz() != 500 {
		t.Errorf("TickHz() = %g, expected 500", s.TickHz())
	}
}

// sinkFunc adapts a function to audio.Sink.
type sinkFunc func([]byte) error

func (f sinkFunc) Write(p []byte) error { return f(p) }
func (f sinkFunc) Close() error         { return nil }

func TestRunFeedsAudio(t *testing.T) {
	format := audio.Format{SampleRate: 8000, FramesPerBuffer: 16, ChannelsPerFrame: 1, BitsPerSample: 16, BufferCount: 3}

	var mu sync.Mutex
	played := 0
	dev := audio.NewClockDevice(sinkFunc(func(p []byte) error {
		mu.Lock()
		played++
		mu.Unlock()
		return nil
	}))

	s := newTestShell(t, Options{Core: &counterCore{quitAt: 20}, TickHz: 200, Audio: format, Device: dev})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if played == 0 {
		t.Error("Expected the device to play buffers")
	}
}

func TestRunReturnsSetupError(t *testing.T) {
	format := audio.Format{SampleRate: 8000, FramesPerBuffer: 16, ChannelsPerFrame: 1, BitsPerSample: 24, BufferCount: 3}
	s := newTestShell(t, Options{TickHz: 100, Audio: format, Device: audio.NewClockDevice(nil)})

	err := s.Run(context.Background())
	var setupErr *audio.SetupError
	if !errors.As(err, &setupErr) {
		t.Fatalf("Run() = %v, expected *audio.SetupError", err)
	}
	if s.Ticks() != 0 {
		t.Errorf("Ticks() = %d, expected no ticks after setup failure", s.Ticks())
	}
}

func TestRunSavesReports(t *testing.T) {
	reports := &memoryReports{}
	s := newTestShell(t, Options{
		Core:       &counterCore{quitAt: 40},
		TickHz:     400,
		Reports:    reports,
		ReportEach: 20 * time.Millisecond,
		RunID:      "test",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	// At least the final flush
	if reports.len() == 0 {
		t.Fatal("Expected at least one saved report")
	}
	if _, ok := s.LastReport().Entry("tick_do"); !ok {
		t.Error("Expected LastReport to contain tick_do")
	}
}

func TestTickPeriod(t *testing.T) {
	tests := []struct {
		hz       float64
		expected time.Duration
	}{
		{100, 10 * time.Millisecond},
		{0.5, 2 * time.Second},
		{59.94, 16683350 * time.Nanosecond},
		{1e12, time.Nanosecond},
	}

	for _, tt := range tests {
		if got := tickPeriod(tt.hz); got != tt.expected {
			t.Errorf("tickPeriod(%g) = %v, expected %v", tt.hz, got, tt.expected)
		}
	}
}
