package audio

import "sync"

// owner records who holds a buffer.
type owner uint8

const (
	ownerAvailable owner = iota
	ownerFiller
	ownerDevice
)

// Buffer is one pool buffer. Index is stable for the lifetime of the pool.
type Buffer struct {
	Index int
	Data  []byte
}

// Pool is a fixed set of buffers shared between a device and a Filler.
//
// Every buffer is held by exactly one of the available list, the filler or
// the device. Release is the only call the device makes; it takes the lock
// briefly, appends to a pre-sized list and signals, so it never allocates.
type Pool struct {
	mu        sync.Mutex
	cond      *sync.Cond
	buffers   []*Buffer
	owners    []owner
	available []*Buffer
	closed    bool
}

// NewPool allocates count buffers of size bytes, all available.
func NewPool(count, size int) *Pool {
	p := &Pool{
		buffers:   make([]*Buffer, count),
		owners:    make([]owner, count),
		available: make([]*Buffer, 0, count),
	}
	p.cond = sync.NewCond(&p.mu)

	for i := range p.buffers {
		b := &Buffer{Index: i, Data: make([]byte, size)}
		p.buffers[i] = b
		p.available = append(p.available, b)
	}
	return p
}

// Len returns the number of buffers in the pool.
func (p *Pool) Len() int {
	return len(p.buffers)
}

// Acquire blocks until a buffer is available and hands it to the caller.
// It returns false once the pool is closed.
func (p *Pool) Acquire() (*Buffer, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.available) == 0 && !p.closed {
		p.cond.Wait()
	}
	if p.closed {
		return nil, false
	}
	return p.take(), true
}

// TryAcquire takes an available buffer without blocking.
func (p *Pool) TryAcquire() (*Buffer, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.available) == 0 || p.closed {
		return nil, false
	}
	return p.take(), true
}

// take pops the most recently returned buffer. Callers hold the lock.
func (p *Pool) take() *Buffer {
	n := len(p.available) - 1
	b := p.available[n]
	p.available[n] = nil
	p.available = p.available[:n]
	p.owners[b.Index] = ownerFiller
	return b
}

// Submitted records that a filled buffer was handed to the device.
func (p *Pool) Submitted(b *Buffer) {
	p.mu.Lock()
	p.owners[b.Index] = ownerDevice
	p.mu.Unlock()
}

// Release returns a buffer to the available list and wakes a waiter.
// Devices call it from their own goroutine when a buffer finished playing.
// Releasing a buffer that is already available is a no-op.
func (p *Pool) Release(b *Buffer) {
	p.mu.Lock()
	if p.owners[b.Index] == ownerAvailable {
		p.mu.Unlock()
		return
	}
	p.owners[b.Index] = ownerAvailable
	p.available = append(p.available, b)
	p.mu.Unlock()
	p.cond.Signal()
}

// Close wakes every waiter; Acquire returns false from now on.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cond.Broadcast()
}

// Counts returns how many buffers are available, being filled and queued on
// the device. The three always add up to Len.
func (p *Pool) Counts() (available, filling, device int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, o := range p.owners {
		switch o {
		case ownerAvailable:
			available++
		case ownerFiller:
			filling++
		case ownerDevice:
			device++
		}
	}
	return available, filling, device
}
