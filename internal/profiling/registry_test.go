package profiling

import (
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Duration
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}

func (c *fakeClock) read() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func TestIntervalRecordsElapsed(t *testing.T) {
	clk := &fakeClock{}
	r := NewRegistry(10, clk.read)

	r.Start(TimerTick)
	clk.advance(2 * time.Millisecond)
	r.Interval(TimerTick, IntervalTickSetup)
	clk.advance(6 * time.Millisecond)
	r.Interval(TimerTick, IntervalTickDo)

	rep := r.Report()

	setup, ok := rep.Entry("tick_setup")
	if !ok {
		t.Fatal("Expected tick_setup entry")
	}
	if setup.Mean != 2*time.Millisecond {
		t.Errorf("tick_setup mean = %v, expected 2ms", setup.Mean)
	}

	do, ok := rep.Entry("tick_do")
	if !ok {
		t.Fatal("Expected tick_do entry")
	}
	if do.Mean != 6*time.Millisecond {
		t.Errorf("tick_do mean = %v, expected 6ms", do.Mean)
	}
}

func TestIntervalWithoutStartOnlyStarts(t *testing.T) {
	clk := &fakeClock{}
	r := NewRegistry(10, clk.read)

	r.Interval(TimerTickToTick, IntervalTickToTick)
	clk.advance(10 * time.Millisecond)
	r.Interval(TimerTickToTick, IntervalTickToTick)

	e, ok := r.Report().Entry("tick_to_tick")
	if !ok {
		t.Fatal("Expected tick_to_tick entry")
	}
	if e.Count != 1 {
		t.Errorf("Count = %d, expected 1", e.Count)
	}
}

func TestReportClears(t *testing.T) {
	r := NewRegistry(10, (&fakeClock{}).read)
	r.Record(IntervalDrawPresent, time.Millisecond)
	r.Count(CounterAudioUnderruns, 3)

	first := r.Report()
	if first.Empty() {
		t.Fatal("First report should not be empty")
	}
	if first.Counter("audio_underruns") != 3 {
		t.Errorf("audio_underruns = %d, expected 3", first.Counter("audio_underruns"))
	}

	if second := r.Report(); !second.Empty() {
		t.Errorf("Second report should be empty, got %+v", second)
	}
}

func TestRingOverwritesOldest(t *testing.T) {
	r := NewRegistry(4, (&fakeClock{}).read)

	for i := 1; i <= 6; i++ {
		r.Record(IntervalBufferCopy, time.Duration(i)*time.Millisecond)
	}

	e, _ := r.Report().Entry("buffer_copy")
	if e.Count != 6 {
		t.Errorf("Count = %d, expected 6", e.Count)
	}
	if e.Samples != 4 {
		t.Errorf("Samples = %d, expected 4", e.Samples)
	}
	if e.Min != 3*time.Millisecond || e.Max != 6*time.Millisecond {
		t.Errorf("Min/Max = %v/%v, expected 3ms/6ms", e.Min, e.Max)
	}
}

func TestReportString(t *testing.T) {
	r := NewRegistry(4, (&fakeClock{}).read)
	r.Record(IntervalFillAudioBuffer, 1500*time.Microsecond)

	out := r.Report().String()
	if !strings.Contains(out, "fill_audio_buffer [1]: 1.500ms") {
		t.Errorf("unexpected report format: %q", out)
	}
}

func TestRegistryConcurrentUse(t *testing.T) {
	r := NewRegistry(16, nil)
	var wg sync.WaitGroup

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				r.Interval(TimerFillAudioBuffer, IntervalFillAudioBuffer)
				r.Count(CounterDroppedText, 1)
			}
		}()
	}
	wg.Wait()

	rep := r.Report()
	if rep.Counter("dropped_text_bytes") != 800 {
		t.Errorf("dropped_text_bytes = %d, expected 800", rep.Counter("dropped_text_bytes"))
	}
}
