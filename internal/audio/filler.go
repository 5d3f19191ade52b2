package audio

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gameshell/internal/profiling"
)

// FillerState is the lifecycle state of a Filler.
type FillerState int32

const (
	FillerIdle FillerState = iota
	FillerFilling
	FillerEnqueued
	FillerStopped
)

// String returns a display name for the state.
func (s FillerState) String() string {
	switch s {
	case FillerIdle:
		return "idle"
	case FillerFilling:
		return "filling"
	case FillerEnqueued:
		return "enqueued"
	case FillerStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// RenderFunc writes PCM for the buffer described by desc into dst.
// dst always holds exactly one buffer; a renderer that has nothing to play
// must write silence.
type RenderFunc func(dst []byte, desc Descriptor)

// Filler keeps a Device fed from a Pool.
type Filler struct {
	format Format
	device Device
	render RenderFunc
	timing *profiling.Registry
	logger *log.Logger
	pool   *Pool

	state atomic.Int32

	// sampleTime is only touched by the goroutine filling buffers.
	sampleTime float64
	filled     atomic.Uint64
}

// NewFiller creates a filler. Nothing touches the device until Start.
// A nil render plays silence.
func NewFiller(device Device, format Format, render RenderFunc, timing *profiling.Registry, logger *log.Logger) *Filler {
	if render == nil {
		render = func(dst []byte, _ Descriptor) { Silence(dst) }
	}
	if timing == nil {
		timing = profiling.NewRegistry(profiling.DefaultCapacity, nil)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	count := max(format.BufferCount, 0)
	return &Filler{
		format: format,
		device: device,
		render: render,
		timing: timing,
		logger: logger,
		pool:   NewPool(count, max(format.BytesPerBuffer(), 0)),
	}
}

// Pool returns the buffer pool shared with the device.
func (f *Filler) Pool() *Pool {
	return f.pool
}

// State returns the current lifecycle state.
func (f *Filler) State() FillerState {
	return FillerState(f.state.Load())
}

// Filled returns the number of buffers queued so far.
func (f *Filler) Filled() uint64 {
	return f.filled.Load()
}

// Start opens the device, primes it with every buffer and starts playback.
// Any failure is returned as a *SetupError.
func (f *Filler) Start() error {
	if err := f.format.Validate(); err != nil {
		return &SetupError{Op: "validate format", Err: err}
	}

	cb := Callbacks{
		Release: f.pool.Release,
		Underrun: func() {
			f.timing.Count(profiling.CounterAudioUnderruns, 1)
		},
	}
	if err := f.device.Open(f.format, cb); err != nil {
		return &SetupError{Op: "open device", Err: err}
	}

	// Prime the device so it has a full queue before the clock starts
	for range f.pool.Len() {
		b, ok := f.pool.TryAcquire()
		if !ok {
			return &SetupError{Op: "prime buffers", Err: fmt.Errorf("pool exhausted after %d buffers", f.Filled())}
		}
		if err := f.fill(b); err != nil {
			return &SetupError{Op: "prime buffers", Err: err}
		}
	}

	if err := f.device.Start(); err != nil {
		return &SetupError{Op: "start device", Err: err}
	}

	f.logger.Info("audio started",
		"rate", f.format.SampleRate,
		"channels", f.format.ChannelsPerFrame,
		"frames", f.format.FramesPerBuffer,
		"buffers", f.format.BufferCount,
	)
	return nil
}

// Run refills buffers as the device returns them until ctx is cancelled.
// A fill that is in progress when ctx is cancelled completes first.
func (f *Filler) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, f.pool.Close)
	defer stop()
	defer f.state.Store(int32(FillerStopped))

	for {
		f.state.Store(int32(FillerIdle))
		b, ok := f.pool.Acquire()
		if !ok {
			f.logger.Debug("audio filler stopped", "buffers", f.Filled())
			return nil
		}

		f.timing.Interval(profiling.TimerAudioBufferToAudioBuffer, profiling.IntervalAudioBufferToAudioBuffer)
		if err := f.fill(b); err != nil {
			return fmt.Errorf("audio: %w", err)
		}
	}
}

// fill renders into b and queues it on the device.
func (f *Filler) fill(b *Buffer) error {
	f.state.Store(int32(FillerFilling))

	desc := Descriptor{
		Timestamp:        f.device.HostTime(),
		SampleTime:       f.sampleTime,
		SampleRate:       f.format.SampleRate,
		FramesPerBuffer:  f.format.FramesPerBuffer,
		ChannelsPerFrame: f.format.ChannelsPerFrame,
	}

	f.timing.Start(profiling.TimerFillAudioBuffer)
	f.render(b.Data, desc)
	f.timing.Interval(profiling.TimerFillAudioBuffer, profiling.IntervalFillAudioBuffer)

	f.state.Store(int32(FillerEnqueued))
	f.pool.Submitted(b)
	if err := f.device.Enqueue(b); err != nil {
		f.pool.Release(b)
		return fmt.Errorf("cannot enqueue buffer %d: %w", b.Index, err)
	}

	f.sampleTime += float64(f.format.FramesPerBuffer)
	f.filled.Add(1)
	return nil
}

// Close stops the filler and the device.
func (f *Filler) Close() error {
	f.pool.Close()
	return f.device.Close()
}
