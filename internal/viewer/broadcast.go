package viewer

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/vovakirdan/gameshell/internal/input"
)

const (
	// DefaultInterval limits how often snapshots are taken from the tick loop.
	DefaultInterval = time.Second / 30

	fullSyncCount = 100
)

// Broadcaster observes tick snapshots and broadcasts changed controller
// state to the hub. Observe runs on the tick goroutine and never blocks.
type Broadcaster struct {
	hub      *Hub
	interval time.Duration
	changes  chan FrameState

	// lastObserved is only touched by Observe.
	lastObserved time.Time

	mu   sync.Mutex
	last FrameState
	seq  int64
}

// NewBroadcaster creates a broadcaster sampling at most once per interval.
func NewBroadcaster(h *Hub, interval time.Duration) *Broadcaster {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Broadcaster{
		hub:      h,
		interval: interval,
		changes:  make(chan FrameState, 1),
	}
}

// Observe samples the snapshot if the interval has passed.
func (b *Broadcaster) Observe(s *input.Snapshot) {
	now := time.Now()
	if now.Sub(b.lastObserved) < b.interval {
		return
	}
	b.lastObserved = now

	state := FromSnapshot(s)
	select {
	case b.changes <- state:
	default:
		// Replace the stale pending state
		select {
		case <-b.changes:
		default:
		}
		select {
		case b.changes <- state:
		default:
		}
	}
}

// Last returns the most recently broadcast state.
func (b *Broadcaster) Last() FrameState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// Run broadcasts sampled states until ctx is cancelled.
func (b *Broadcaster) Run(ctx context.Context) {
	var sent [input.MaxControllers]int

	for {
		select {
		case <-ctx.Done():
			return
		case state := <-b.changes:
			b.mu.Lock()
			prev := b.last
			b.last = state
			b.mu.Unlock()

			for i := range state.Controllers {
				sent[i]++
				if state.Controllers[i] == prev.Controllers[i] && sent[i] < fullSyncCount {
					continue
				}
				sent[i] = 0
				b.send(state.Frame, &state.Controllers[i])
			}
		}
	}
}

// SendInitialState sends the current state of the client's slot.
func (b *Broadcaster) SendInitialState(c *Client) {
	last := b.Last()
	data, err := b.encode(last.Frame, &last.Controllers[c.Slot()])
	if err != nil {
		return
	}
	b.hub.SendTo(c, data)
}

func (b *Broadcaster) send(frame uint64, state *ControllerState) {
	data, err := b.encode(frame, state)
	if err != nil {
		b.hub.logger.Warn("Cannot encode viewer state", "err", err)
		return
	}
	b.hub.BroadcastToSlot(data, state.Slot)
}

func (b *Broadcaster) encode(frame uint64, state *ControllerState) ([]byte, error) {
	b.mu.Lock()
	b.seq++
	seq := b.seq
	b.mu.Unlock()
	return json.Marshal(NewStateMessage(seq, frame, state))
}
