package audio

import (
	"errors"
	"sync"
	"time"
)

// ErrDeviceNotOpen is returned when a device is used before Open.
var ErrDeviceNotOpen = errors.New("audio: device not open")

// ClockDevice is a software device that plays one queued buffer per buffer
// period on its own goroutine, like a hardware queue driven by a sample
// clock. Played PCM goes to an optional Sink. It backs headless runs and SSH
// sessions, which have no sound card.
type ClockDevice struct {
	sink Sink

	mu     sync.Mutex
	format Format
	cb     Callbacks
	queue  []*Buffer
	open   bool
	start  time.Time
	stop   chan struct{}
	done   chan struct{}
	err    error
}

// NewClockDevice creates a software device. sink may be nil.
func NewClockDevice(sink Sink) *ClockDevice {
	return &ClockDevice{sink: sink}
}

// Open prepares the queue for the format.
func (d *ClockDevice) Open(f Format, cb Callbacks) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if cb.Release == nil {
		return errors.New("audio: release callback is required")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.format = f
	d.cb = cb
	d.queue = make([]*Buffer, 0, f.BufferCount)
	d.open = true
	d.start = time.Now()
	return nil
}

// Enqueue appends a buffer to the play queue.
func (d *ClockDevice) Enqueue(b *Buffer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return ErrDeviceNotOpen
	}
	d.queue = append(d.queue, b)
	return nil
}

// Start launches the playback goroutine.
func (d *ClockDevice) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return ErrDeviceNotOpen
	}
	if d.stop != nil {
		return nil
	}

	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	go d.run(d.format.BufferDuration(), d.stop, d.done)
	return nil
}

// run plays one buffer per period until stopped.
func (d *ClockDevice) run(period time.Duration, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			d.Step()
		}
	}
}

// Step plays the head of the queue, or reports an underrun if the queue is
// empty. The playback goroutine calls it once per buffer period; tests call
// it directly.
func (d *ClockDevice) Step() {
	d.mu.Lock()
	if len(d.queue) == 0 {
		underrun := d.cb.Underrun
		d.mu.Unlock()
		if underrun != nil {
			underrun()
		}
		return
	}

	b := d.queue[0]
	copy(d.queue, d.queue[1:])
	d.queue[len(d.queue)-1] = nil
	d.queue = d.queue[:len(d.queue)-1]
	release := d.cb.Release
	sink := d.sink
	d.mu.Unlock()

	if sink != nil {
		if err := sink.Write(b.Data); err != nil {
			d.mu.Lock()
			if d.err == nil {
				d.err = err
			}
			d.mu.Unlock()
		}
	}
	release(b)
}

// Queued returns the number of buffers waiting to play.
func (d *ClockDevice) Queued() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// HostTime returns nanoseconds since Open.
func (d *ClockDevice) HostTime() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return 0
	}
	return time.Since(d.start).Nanoseconds()
}

// Close stops playback and closes the sink. It returns the first sink
// error seen while playing, if any.
func (d *ClockDevice) Close() error {
	d.mu.Lock()
	stop, done := d.stop, d.done
	d.stop = nil
	d.open = false
	d.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}

	var errs []error
	d.mu.Lock()
	if d.err != nil {
		errs = append(errs, d.err)
	}
	d.mu.Unlock()
	if d.sink != nil {
		if err := d.sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
