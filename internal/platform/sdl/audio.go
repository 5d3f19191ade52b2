//go:build sdl

package sdl

import (
	"fmt"
	"sync"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/vovakirdan/gameshell/internal/audio"
)

// AudioDevice plays pool buffers through an SDL queue device. SDL offers no
// per-buffer completion callback for queued audio, so a watcher goroutine
// polls the queued byte count and releases buffers as it drains.
type AudioDevice struct {
	name string

	mu     sync.Mutex
	id     sdl.AudioDeviceID
	format audio.Format
	cb     audio.Callbacks
	drain  *drain
	start  time.Time
	open   bool
	stop   chan struct{}
	done   chan struct{}
}

// NewAudioDevice creates an SDL audio device. An empty name selects the
// system default output.
func NewAudioDevice(name string) (*AudioDevice, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("sdl: cannot init audio: %w", err)
	}
	return &AudioDevice{name: name}, nil
}

// Open opens the SDL device for the format. The format must be played as
// is; SDL is not allowed to change it.
func (d *AudioDevice) Open(f audio.Format, cb audio.Callbacks) error {
	if err := f.Validate(); err != nil {
		return err
	}

	sampleFormat := sdl.AudioFormat(sdl.AUDIO_S16LSB)
	if f.BitsPerSample == 32 {
		sampleFormat = sdl.AUDIO_S32LSB
	}
	spec := &sdl.AudioSpec{
		Freq:     int32(f.SampleRate),
		Format:   sampleFormat,
		Channels: uint8(f.ChannelsPerFrame),
		Samples:  uint16(f.FramesPerBuffer),
	}

	var obtained sdl.AudioSpec
	id, err := sdl.OpenAudioDevice(d.name, false, spec, &obtained, 0)
	if err != nil {
		return fmt.Errorf("sdl: cannot open audio device %q: %w", d.name, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.id = id
	d.format = f
	d.cb = cb
	d.drain = newDrain(f.BytesPerBuffer(), f.BufferCount)
	d.start = time.Now()
	d.open = true
	return nil
}

// Enqueue queues the buffer's PCM on the device.
func (d *AudioDevice) Enqueue(b *audio.Buffer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return audio.ErrDeviceNotOpen
	}
	if err := sdl.QueueAudio(d.id, b.Data); err != nil {
		return fmt.Errorf("sdl: cannot queue audio: %w", err)
	}
	d.drain.push(b)
	return nil
}

// Start unpauses the device and starts the release watcher.
func (d *AudioDevice) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return audio.ErrDeviceNotOpen
	}
	if d.stop != nil {
		return nil
	}

	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	sdl.PauseAudioDevice(d.id, false)
	go d.watch(d.format.BufferDuration()/4, d.stop, d.done)
	return nil
}

// watch releases played buffers and reports underruns.
func (d *AudioDevice) watch(period time.Duration, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(max(period, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		d.mu.Lock()
		id, cb, dr := d.id, d.cb, d.drain
		d.mu.Unlock()

		queued := int(sdl.GetQueuedAudioSize(id))
		if left := dr.played(queued, cb.Release); left == 0 && queued == 0 && cb.Underrun != nil {
			cb.Underrun()
		}
	}
}

// HostTime returns nanoseconds since Open.
func (d *AudioDevice) HostTime() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return 0
	}
	return time.Since(d.start).Nanoseconds()
}

// Close stops the watcher and closes the SDL device.
func (d *AudioDevice) Close() error {
	d.mu.Lock()
	stop, done := d.stop, d.done
	wasOpen := d.open
	d.stop = nil
	d.open = false
	d.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
	if wasOpen {
		sdl.ClearQueuedAudio(d.id)
		sdl.CloseAudioDevice(d.id)
	}
	return nil
}
