// Package profiling collects frame pacing and audio timing samples.
//
// A Registry is an owned value: the shell creates one and hands it to the
// aggregator, the audio filler and the presenter. Samples go into fixed
// capacity rings so recording never allocates.
package profiling

import (
	"sync"
	"time"
)

// Timer names a running stopwatch.
type Timer int

const (
	TimerTickToTick Timer = iota
	TimerFrameToFrame
	TimerAudioBufferToAudioBuffer
	TimerFillAudioBuffer
	TimerTick
	TimerBufferCopy
	TimerDraw
	timerCount
)

// Interval names a series of recorded durations.
type Interval int

const (
	IntervalTickToTick Interval = iota
	IntervalFrameToFrame
	IntervalAudioBufferToAudioBuffer
	IntervalFillAudioBuffer
	IntervalTickSetup
	IntervalTickDo
	IntervalTickPost
	IntervalBufferCopy
	IntervalDrawBefore
	IntervalDrawWaitAndSetup
	IntervalDrawEncoding
	IntervalDrawPresent
	intervalCount
)

var intervalNames = [intervalCount]string{
	IntervalTickToTick:               "tick_to_tick",
	IntervalFrameToFrame:             "frame_to_frame",
	IntervalAudioBufferToAudioBuffer: "audio_buffer_to_audio_buffer",
	IntervalFillAudioBuffer:          "fill_audio_buffer",
	IntervalTickSetup:                "tick_setup",
	IntervalTickDo:                   "tick_do",
	IntervalTickPost:                 "tick_post",
	IntervalBufferCopy:               "buffer_copy",
	IntervalDrawBefore:               "draw_before",
	IntervalDrawWaitAndSetup:         "draw_wait_and_setup",
	IntervalDrawEncoding:             "draw_encoding",
	IntervalDrawPresent:              "draw_present",
}

// String returns the report name of the interval.
func (i Interval) String() string {
	if i < 0 || i >= intervalCount {
		return "unknown"
	}
	return intervalNames[i]
}

// Counter names an event counter.
type Counter int

const (
	CounterAudioUnderruns Counter = iota
	CounterDroppedText
	CounterDroppedTrack
	CounterUntrackedEvents
	counterCount
)

var counterNames = [counterCount]string{
	CounterAudioUnderruns:  "audio_underruns",
	CounterDroppedText:     "dropped_text_bytes",
	CounterDroppedTrack:    "dropped_track_points",
	CounterUntrackedEvents: "untracked_device_events",
}

// String returns the report name of the counter.
func (c Counter) String() string {
	if c < 0 || c >= counterCount {
		return "unknown"
	}
	return counterNames[c]
}

// DefaultCapacity is the number of samples kept per interval.
const DefaultCapacity = 100

// Clock returns a monotonic reading.
type Clock func() time.Duration

// MonotonicClock returns a Clock measuring time since its creation.
func MonotonicClock() Clock {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

// ring holds the most recent samples of one interval.
type ring struct {
	values []time.Duration
	next   int
	filled int
	total  uint64
}

func (r *ring) add(d time.Duration) {
	r.values[r.next] = d
	r.next = (r.next + 1) % len(r.values)
	if r.filled < len(r.values) {
		r.filled++
	}
	r.total++
}

func (r *ring) reset() {
	r.next = 0
	r.filled = 0
	r.total = 0
}

// Registry records timer intervals and counters. It is safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	clock    Clock
	started  [timerCount]time.Duration
	running  [timerCount]bool
	rings    [intervalCount]ring
	counters [counterCount]uint64
}

// NewRegistry creates a registry keeping capacity samples per interval.
// A nil clock uses MonotonicClock.
func NewRegistry(capacity int, clock Clock) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if clock == nil {
		clock = MonotonicClock()
	}

	r := &Registry{clock: clock}
	for i := range r.rings {
		r.rings[i].values = make([]time.Duration, capacity)
	}
	return r
}

// Start (re)starts a timer.
func (r *Registry) Start(t Timer) {
	now := r.clock()
	r.mu.Lock()
	r.started[t] = now
	r.running[t] = true
	r.mu.Unlock()
}

// Interval records the time since the timer started into the interval and
// restarts the timer. A timer that was never started only gets started.
func (r *Registry) Interval(t Timer, i Interval) time.Duration {
	now := r.clock()
	r.mu.Lock()
	defer r.mu.Unlock()

	var d time.Duration
	if r.running[t] {
		d = now - r.started[t]
		r.rings[i].add(d)
	}
	r.started[t] = now
	r.running[t] = true
	return d
}

// Record adds an externally measured duration to an interval.
func (r *Registry) Record(i Interval, d time.Duration) {
	r.mu.Lock()
	r.rings[i].add(d)
	r.mu.Unlock()
}

// Count adds n to a counter.
func (r *Registry) Count(c Counter, n uint64) {
	if n == 0 {
		return
	}
	r.mu.Lock()
	r.counters[c] += n
	r.mu.Unlock()
}

// Report summarises and clears every interval and counter.
func (r *Registry) Report() Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep := Report{
		Entries:  make([]Entry, 0, intervalCount),
		Counters: make([]CounterEntry, 0, counterCount),
	}

	for i := range r.rings {
		rg := &r.rings[i]
		if rg.total == 0 {
			continue
		}
		rep.Entries = append(rep.Entries, summarise(Interval(i), rg))
		rg.reset()
	}

	for c := range r.counters {
		if r.counters[c] == 0 {
			continue
		}
		rep.Counters = append(rep.Counters, CounterEntry{
			Name:  Counter(c).String(),
			Value: r.counters[c],
		})
		r.counters[c] = 0
	}

	return rep
}

// summarise computes statistics over the samples currently in a ring.
func summarise(i Interval, rg *ring) Entry {
	e := Entry{
		Name:    i.String(),
		Count:   rg.total,
		Samples: rg.filled,
	}

	var sum time.Duration
	for k := 0; k < rg.filled; k++ {
		v := rg.values[k]
		sum += v
		if k == 0 || v < e.Min {
			e.Min = v
		}
		if v > e.Max {
			e.Max = v
		}
	}
	if rg.filled > 0 {
		e.Mean = sum / time.Duration(rg.filled)
	}
	return e
}
