// Package shell drives a game core: it owns the input aggregator, the
// memory arena and the audio filler, and runs the tick loop that ties them
// together.
//
// Frontends push events into Queue, read presentation hints from Output
// and draw the latest committed state with Draw. All three are safe to call
// from any goroutine while Run is active.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gameshell/internal/aggregator"
	"github.com/vovakirdan/gameshell/internal/arena"
	"github.com/vovakirdan/gameshell/internal/audio"
	"github.com/vovakirdan/gameshell/internal/core"
	"github.com/vovakirdan/gameshell/internal/events"
	"github.com/vovakirdan/gameshell/internal/input"
	"github.com/vovakirdan/gameshell/internal/profiling"
	"github.com/vovakirdan/gameshell/internal/registry"
)

// Observer sees the snapshot of every tick after the core consumed it.
// The snapshot is only valid during the call.
type Observer interface {
	Observe(s *input.Snapshot)
}

// ReportSink receives periodic timing reports.
type ReportSink interface {
	SaveReport(runID string, rep profiling.Report) error
}

// Options configure a Shell. Core is required.
type Options struct {
	Core       registry.Core
	Runtime    core.RuntimeConfig
	Input      aggregator.Settings
	TickHz     float64
	ArenaSize  int
	Audio      audio.Format
	Device     audio.Device // nil runs without audio
	Timing     *profiling.Registry
	Clock      profiling.Clock
	Logger     *log.Logger
	Observer   Observer
	Reports    ReportSink
	ReportEach time.Duration
	RunID      string
	QueueSize  int
}

// Shell runs one core.
type Shell struct {
	core     registry.Core
	arena    *arena.Arena
	queue    *events.Queue
	agg      *aggregator.Aggregator
	filler   *audio.Filler
	timing   *profiling.Registry
	logger   *log.Logger
	observer Observer
	reports  ReportSink
	every    time.Duration
	runID    string

	tickHz atomic.Uint64
	rateCh chan struct{}

	outMu  sync.RWMutex
	output core.Output
	last   profiling.Report

	ticks atomic.Uint64
}

// New creates a shell and resets the core into the arena.
func New(opts Options) (*Shell, error) {
	if opts.Core == nil {
		return nil, errors.New("shell: core is required")
	}
	if opts.TickHz < 0 {
		return nil, fmt.Errorf("shell: tick rate must not be negative, got %g", opts.TickHz)
	}
	if opts.ArenaSize <= 0 {
		opts.ArenaSize = arena.DefaultSize
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Timing == nil {
		opts.Timing = profiling.NewRegistry(profiling.DefaultCapacity, opts.Clock)
	}

	s := &Shell{
		core:     opts.Core,
		arena:    arena.New(opts.ArenaSize),
		queue:    events.NewQueue(opts.QueueSize),
		timing:   opts.Timing,
		logger:   opts.Logger,
		observer: opts.Observer,
		reports:  opts.Reports,
		every:    opts.ReportEach,
		runID:    opts.RunID,
		rateCh:   make(chan struct{}, 1),
	}
	s.tickHz.Store(math.Float64bits(opts.TickHz))
	s.agg = aggregator.New(s.queue, opts.Input, s.timing, opts.Clock, opts.Logger.WithPrefix("input"))

	s.core.Reset(opts.Runtime, s.arena.Back())
	s.arena.Commit()

	if opts.Device != nil {
		s.filler = audio.NewFiller(opts.Device, opts.Audio, s.renderAudio, s.timing, opts.Logger.WithPrefix("audio"))
	}

	return s, nil
}

// Queue returns the event queue frontends push into.
func (s *Shell) Queue() *events.Queue {
	return s.queue
}

// Push is shorthand for Queue().Push.
func (s *Shell) Push(e events.Event) {
	s.queue.Push(e)
}

// Aggregator returns the input aggregator, e.g. to change settings at runtime.
func (s *Shell) Aggregator() *aggregator.Aggregator {
	return s.agg
}

// Timing returns the shared timing registry.
func (s *Shell) Timing() *profiling.Registry {
	return s.timing
}

// Core returns the running core.
func (s *Shell) Core() registry.Core {
	return s.core
}

// Ticks returns the number of completed ticks.
func (s *Shell) Ticks() uint64 {
	return s.ticks.Load()
}

// Output returns what the core returned from its most recent tick.
func (s *Shell) Output() core.Output {
	s.outMu.RLock()
	defer s.outMu.RUnlock()
	return s.output
}

// TickHz returns the current tick rate. Zero means paused.
func (s *Shell) TickHz() float64 {
	return math.Float64frombits(s.tickHz.Load())
}

// SetTickHz changes the tick rate. Zero pauses the tick loop.
func (s *Shell) SetTickHz(hz float64) {
	if hz < 0 || math.IsNaN(hz) {
		hz = 0
	}
	s.tickHz.Store(math.Float64bits(hz))
	select {
	case s.rateCh <- struct{}{}:
	default:
	}
}

// Step runs exactly one tick and publishes the new state.
func (s *Shell) Step() core.Output {
	s.timing.Interval(profiling.TimerTickToTick, profiling.IntervalTickToTick)

	mem := s.arena.Back()
	out := s.agg.Tick(func(in *input.Snapshot) core.Output {
		o := s.core.Tick(in, mem)
		if s.observer != nil {
			s.observer.Observe(in)
		}
		return o
	})

	s.timing.Start(profiling.TimerBufferCopy)
	s.arena.Commit()
	s.timing.Interval(profiling.TimerBufferCopy, profiling.IntervalBufferCopy)

	s.outMu.Lock()
	s.output = out
	s.outMu.Unlock()

	s.ticks.Add(1)
	return out
}

// Draw renders the latest committed state into dst.
func (s *Shell) Draw(dst *core.Screen) {
	s.timing.Start(profiling.TimerDraw)
	s.arena.View(func(mem []byte, _ uint64) {
		s.timing.Interval(profiling.TimerDraw, profiling.IntervalDrawWaitAndSetup)
		s.core.Draw(mem, dst)
		s.timing.Interval(profiling.TimerDraw, profiling.IntervalDrawEncoding)
	})
}

// renderAudio hands the latest committed state to the core's audio renderer.
func (s *Shell) renderAudio(dst []byte, desc audio.Descriptor) {
	s.arena.View(func(mem []byte, _ uint64) {
		s.core.RenderAudio(mem, dst, desc)
	})
}

// Run starts audio and ticks the core until ctx is cancelled or the core
// asks to quit. Audio setup failures are returned as *audio.SetupError.
func (s *Shell) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if s.filler != nil {
		if err := s.filler.Start(); err != nil {
			s.filler.Close()
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.filler.Run(ctx); err != nil {
				s.logger.Error("Audio filler failed", "err", err)
			}
		}()
	}

	err := s.loop(ctx)
	cancel()
	wg.Wait()

	if s.filler != nil {
		if cerr := s.filler.Close(); cerr != nil {
			s.logger.Warn("Cannot close audio device", "err", cerr)
		}
	}
	s.flushReport()
	return err
}

// loop ticks at the current rate and takes periodic reports.
func (s *Shell) loop(ctx context.Context) error {
	var reportC <-chan time.Time
	if s.every > 0 {
		t := time.NewTicker(s.every)
		defer t.Stop()
		reportC = t.C
	}

	for {
		hz := s.TickHz()
		var tickC <-chan time.Time
		var ticker *time.Ticker
		if hz > 0 {
			ticker = time.NewTicker(tickPeriod(hz))
			tickC = ticker.C
		}

		changed := false
		for !changed {
			select {
			case <-ctx.Done():
				stopTicker(ticker)
				return nil
			case <-s.rateCh:
				changed = true
			case <-reportC:
				s.flushReport()
			case <-tickC:
				if out := s.Step(); out.ShouldQuit {
					stopTicker(ticker)
					s.logger.Debug("Core requested quit", "ticks", s.Ticks())
					return nil
				}
			}
		}
		stopTicker(ticker)
		s.logger.Debug("Tick rate changed", "hz", s.TickHz())
	}
}

// flushReport takes the timing samples collected since the last report,
// keeps them for LastReport and hands them to the report sink.
func (s *Shell) flushReport() {
	rep := s.timing.Report()
	if rep.Empty() {
		return
	}

	s.outMu.Lock()
	s.last = rep
	s.outMu.Unlock()

	s.logger.Debug("Timing report\n" + rep.String())
	if s.reports == nil {
		return
	}
	if err := s.reports.SaveReport(s.runID, rep); err != nil {
		s.logger.Warn("Cannot save timing report", "err", err)
	}
}

// LastReport returns the most recent periodic timing report.
func (s *Shell) LastReport() profiling.Report {
	s.outMu.RLock()
	defer s.outMu.RUnlock()
	return s.last
}

// tickPeriod converts a positive tick rate to a ticker period of at least
// one nanosecond.
func tickPeriod(hz float64) time.Duration {
	return max(time.Duration(float64(time.Second)/hz), 1)
}

func stopTicker(t *time.Ticker) {
	if t != nil {
		t.Stop()
	}
}
