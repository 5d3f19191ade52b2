package events

import "sync"

// Queue is a multi-producer, single-consumer event queue.
//
// Push may be called from any goroutine. Drain is called by exactly one
// consumer, once per tick. Two backing slices alternate so steady-state
// operation does not allocate: the slice returned by Drain stays valid until
// the next Drain call.
type Queue struct {
	mu      sync.Mutex
	pending []Event
	spare   []Event
}

// NewQueue creates a queue with room for capacity events per tick before
// the backing slices grow.
func NewQueue(capacity int) *Queue {
	return &Queue{
		pending: make([]Event, 0, capacity),
		spare:   make([]Event, 0, capacity),
	}
}

// Push appends an event. Events pushed by one goroutine are drained in the
// order they were pushed.
func (q *Queue) Push(e Event) {
	q.mu.Lock()
	q.pending = append(q.pending, e)
	q.mu.Unlock()
}

// Drain removes and returns every pending event in push order.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	drained := q.pending
	clear(q.spare[:cap(q.spare)])
	q.pending = q.spare[:0]
	q.spare = drained
	q.mu.Unlock()
	return drained
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
