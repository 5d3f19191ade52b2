// Package audio keeps an output device continuously fed with PCM rendered by
// the game core.
//
// A fixed Pool of equal sized buffers circulates between the device, which
// hands buffers back when it has played them, and the Filler, which renders
// into returned buffers and queues them again.
package audio

import (
	"errors"
	"fmt"
	"time"
)

// Format describes interleaved little-endian PCM and the buffer layout.
type Format struct {
	SampleRate       float64
	FramesPerBuffer  uint32
	ChannelsPerFrame uint32
	BitsPerSample    uint32
	BufferCount      int
}

// DefaultFormat is 48 kHz stereo 16-bit audio in five buffers of 256 frames.
func DefaultFormat() Format {
	return Format{
		SampleRate:       48000,
		FramesPerBuffer:  256,
		ChannelsPerFrame: 2,
		BitsPerSample:    16,
		BufferCount:      5,
	}
}

// ErrInvalidFormat is returned for formats no device can play.
var ErrInvalidFormat = errors.New("audio: invalid format")

// Validate checks the format for values the pipeline cannot handle.
func (f Format) Validate() error {
	switch {
	case f.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %v", ErrInvalidFormat, f.SampleRate)
	case f.FramesPerBuffer == 0:
		return fmt.Errorf("%w: zero frames per buffer", ErrInvalidFormat)
	case f.ChannelsPerFrame == 0:
		return fmt.Errorf("%w: zero channels", ErrInvalidFormat)
	case f.BitsPerSample != 16 && f.BitsPerSample != 32:
		return fmt.Errorf("%w: %d bits per sample", ErrInvalidFormat, f.BitsPerSample)
	case f.BufferCount < 2:
		return fmt.Errorf("%w: need at least 2 buffers, got %d", ErrInvalidFormat, f.BufferCount)
	}
	return nil
}

// BytesPerFrame returns the size of one frame across all channels.
func (f Format) BytesPerFrame() int {
	return int(f.ChannelsPerFrame * f.BitsPerSample / 8)
}

// BytesPerBuffer returns the size of one pool buffer.
func (f Format) BytesPerBuffer() int {
	return int(f.FramesPerBuffer) * f.BytesPerFrame()
}

// BufferDuration returns how long one buffer plays.
func (f Format) BufferDuration() time.Duration {
	return time.Duration(float64(f.FramesPerBuffer) / f.SampleRate * float64(time.Second))
}

// Descriptor tells a renderer where the buffer it fills sits in time.
// SampleTime is the position of the buffer's first frame in the stream and
// advances by FramesPerBuffer for every queued buffer.
type Descriptor struct {
	Timestamp        int64
	SampleTime       float64
	SampleRate       float64
	FramesPerBuffer  uint32
	ChannelsPerFrame uint32
}

// SetupError reports a failure while bringing the device up. The shell
// treats it as fatal.
type SetupError struct {
	Op  string
	Err error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("audio: setup failed: %s: %v", e.Op, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}
