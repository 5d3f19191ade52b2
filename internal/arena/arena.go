// Package arena provides the memory block a game core keeps its state in.
//
// The tick goroutine is the only writer. Readers (audio rendering and
// presentation) never see a half written tick: the writer fills a back
// buffer and Commit publishes it as a new generation. Commit never waits
// for a reader; a reader pins the buffer it views and the writer only
// reuses buffers nobody pins.
package arena

import "sync/atomic"

// DefaultSize is the arena size handed to cores.
const DefaultSize = 640 * 1024

// buffer is one generation of arena memory. gen is written by the tick
// goroutine before the buffer is published and only read while pinned.
type buffer struct {
	mem  []byte
	gen  uint64
	refs atomic.Int32
}

// Arena is a versioned multi buffer: one published front, one back owned
// by the writer, and spares for readers still pinning older generations.
type Arena struct {
	size       int
	front      atomic.Pointer[buffer]
	back       *buffer
	buffers    []*buffer
	generation atomic.Uint64
}

// New allocates an arena of size bytes per buffer.
func New(size int) *Arena {
	if size <= 0 {
		size = DefaultSize
	}
	a := &Arena{size: size}
	for range 3 {
		a.buffers = append(a.buffers, &buffer{mem: make([]byte, size)})
	}
	a.front.Store(a.buffers[0])
	a.back = a.buffers[1]
	return a
}

// Size returns the size of one buffer.
func (a *Arena) Size() int {
	return a.size
}

// Back returns the buffer the writer fills for the next generation.
// It starts as a copy of the last committed generation.
// Only the tick goroutine may call Back and Commit.
func (a *Arena) Back() []byte {
	return a.back.mem
}

// Commit publishes the back buffer as the next generation and returns its
// number. Readers already inside View finish on the generation they pinned.
func (a *Arena) Commit() uint64 {
	published := a.back
	published.gen = a.generation.Load() + 1
	a.front.Store(published)
	a.generation.Store(published.gen)

	a.back = a.unpinned(published)
	copy(a.back.mem, published.mem)
	return published.gen
}

// unpinned returns a buffer that is neither front nor pinned by a reader.
// A new buffer is allocated only while readers hold every spare.
func (a *Arena) unpinned(front *buffer) *buffer {
	for _, b := range a.buffers {
		if b != front && b.refs.Load() == 0 {
			return b
		}
	}
	b := &buffer{mem: make([]byte, a.size)}
	a.buffers = append(a.buffers, b)
	return b
}

// View calls fn with the latest committed generation. The slice is only
// valid inside fn and must not be written to.
// Generation 0 means nothing was committed yet.
func (a *Arena) View(fn func(mem []byte, generation uint64)) {
	b := a.pin()
	defer b.refs.Add(-1)
	fn(b.mem, b.gen)
}

// pin takes a reference on the current front. The front is read again
// after the increment: if the writer moved on in between, the buffer may
// already be reused as a back buffer, so the reference is dropped and
// the read retried.
func (a *Arena) pin() *buffer {
	for {
		b := a.front.Load()
		b.refs.Add(1)
		if a.front.Load() == b {
			return b
		}
		b.refs.Add(-1)
	}
}

// Generation returns the number of the latest committed generation.
func (a *Arena) Generation() uint64 {
	return a.generation.Load()
}
