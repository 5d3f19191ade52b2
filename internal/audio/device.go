package audio

// Callbacks are invoked by a device from its own goroutine.
type Callbacks struct {
	// Release hands a played buffer back. Required.
	Release func(*Buffer)
	// Underrun is called when the device ran out of queued data.
	Underrun func()
}

// Device is an audio output. Buffers passed to Enqueue belong to the device
// until it passes them to Callbacks.Release.
type Device interface {
	// Open prepares the device for the format.
	Open(f Format, cb Callbacks) error
	// Enqueue queues a filled buffer for playback.
	Enqueue(b *Buffer) error
	// Start begins consuming queued buffers.
	Start() error
	// HostTime returns the device clock in host ticks (nanoseconds).
	HostTime() int64
	// Close stops playback. Queued buffers are not released.
	Close() error
}

// Sink receives PCM a software device has played.
type Sink interface {
	Write(pcm []byte) error
	Close() error
}
