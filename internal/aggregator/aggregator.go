// Package aggregator folds the asynchronous input event stream into the
// snapshot a core sees once per tick.
//
// The Aggregator is owned by the tick goroutine. Producers only touch the
// events.Queue; everything here runs between two Drain calls.
package aggregator

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gameshell/internal/core"
	"github.com/vovakirdan/gameshell/internal/events"
	"github.com/vovakirdan/gameshell/internal/input"
	"github.com/vovakirdan/gameshell/internal/profiling"
)

// Settings control how events are interpreted. They are read at the start
// of every tick, so SetSettings takes effect on the next tick.
type Settings struct {
	PressMode     input.PressMode
	AnalogPolicy  input.AnalogPolicy
	StickDeadZone float32
	MouseDeadZone float32
	ArrowKeys     ArrowBinding
	TickScale     float64
	TimeScale     float64
}

// DefaultSettings returns de-duplicated presses, independent thresholds,
// a 0.5 stick dead zone and unscaled time.
func DefaultSettings() Settings {
	return Settings{
		PressMode:     input.PressDeduplicated,
		AnalogPolicy:  input.IndependentThreshold,
		StickDeadZone: 0.5,
		MouseDeadZone: 1,
		ArrowKeys:     ArrowsLeftStick,
		TickScale:     1,
		TimeScale:     1,
	}
}

// Aggregator turns drained events into an input.Snapshot.
type Aggregator struct {
	queue    *events.Queue
	timing   *profiling.Registry
	clock    profiling.Clock
	logger   *log.Logger
	settings atomic.Pointer[Settings]

	snapshot input.Snapshot
	devices  devices

	// bound publishes gamepad slot bindings to other goroutines as
	// DeviceID+1, zero for an empty slot.
	bound [input.MaxControllers]atomic.Int64

	lastTick time.Duration
	upTime   float64

	seq   int
	marks [input.MaxControllers][axisCount]axisMark

	motion     input.Vec2
	sawMotion  bool
	lastMotion bool
}

// axisMark records the sequence number of the last digital and analog
// input an Axis2 received during the current tick. Zero means none.
type axisMark struct {
	digital  int
	analog   int
	deadZone float32
}

// New creates an aggregator reading from queue. A nil clock uses the
// monotonic clock; timing and logger may be nil.
func New(queue *events.Queue, settings Settings, timing *profiling.Registry, clock profiling.Clock, logger *log.Logger) *Aggregator {
	if clock == nil {
		clock = profiling.MonotonicClock()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	a := &Aggregator{
		queue:   queue,
		timing:  timing,
		clock:   clock,
		logger:  logger,
		devices: newDevices(),
	}
	a.settings.Store(&settings)
	a.lastTick = clock()
	return a
}

// SetSettings replaces the settings used from the next tick on.
// Safe to call from any goroutine.
func (a *Aggregator) SetSettings(s Settings) {
	a.settings.Store(&s)
}

// Settings returns the current settings.
func (a *Aggregator) Settings() Settings {
	return *a.settings.Load()
}

// SlotOf returns the controller slot bound to a gamepad, or -1 if the
// device has no slot. Safe to call from any goroutine; the binding changes
// when the tick goroutine drains a connect or disconnect.
func (a *Aggregator) SlotOf(id events.DeviceID) int {
	for i := range a.bound {
		if a.bound[i].Load() == int64(id)+1 {
			return i
		}
	}
	return -1
}

// Snapshot returns the aggregator's snapshot. Only the tick goroutine may
// read it, and only between ticks.
func (a *Aggregator) Snapshot() *input.Snapshot {
	return &a.snapshot
}

// Tick drains the queue, updates the snapshot, hands it to step and resets
// the per-tick fields. It returns what step returned.
func (a *Aggregator) Tick(step func(*input.Snapshot) core.Output) core.Output {
	a.startTimer(profiling.TimerTick)
	s := a.settings.Load()

	// Drain and discover controllers
	drained := a.queue.Drain()
	for _, ev := range drained {
		if d, ok := ev.(events.Device); ok {
			a.discover(d)
		}
	}
	a.snapshot.CountConnected()

	a.advanceTime(s)

	// Apply events in arrival order
	a.seq = 0
	a.marks = [input.MaxControllers][axisCount]axisMark{}
	a.sawMotion = false
	a.motion = input.Vec2{}
	for _, ev := range drained {
		a.seq++
		a.apply(ev, s)
	}

	a.reconcile(s)
	a.interval(profiling.TimerTick, profiling.IntervalTickSetup)

	out := step(&a.snapshot)
	a.interval(profiling.TimerTick, profiling.IntervalTickDo)

	a.snapshot.ResetFrame()
	a.lastMotion = a.sawMotion
	a.interval(profiling.TimerTick, profiling.IntervalTickPost)

	return out
}

// advanceTime bumps the frame number and accumulates scaled time.
func (a *Aggregator) advanceTime(s *Settings) {
	now := a.clock()
	elapsed := now - a.lastTick
	a.lastTick = now

	a.snapshot.FrameNumber++
	a.upTime += float64(elapsed.Microseconds()) * s.TimeScale
	a.snapshot.UpTimeMicroseconds = int64(a.upTime)
	a.snapshot.ElapsedSeconds = elapsed.Seconds() * s.TickScale
}

func (a *Aggregator) startTimer(t profiling.Timer) {
	if a.timing != nil {
		a.timing.Start(t)
	}
}

func (a *Aggregator) interval(t profiling.Timer, i profiling.Interval) {
	if a.timing != nil {
		a.timing.Interval(t, i)
	}
}

func (a *Aggregator) count(c profiling.Counter, n uint64) {
	if a.timing != nil {
		a.timing.Count(c, n)
	}
}
