package viewer

import "time"

// Message is sent from server to client.
type Message struct {
	Type      string           `json:"type"` // "state" or "slot_selected"
	Seq       int64            `json:"seq"`
	Timestamp int64            `json:"timestamp"` // Unix milliseconds
	Frame     uint64           `json:"frame,omitempty"`
	Data      *ControllerState `json:"data,omitempty"`
	Slot      int              `json:"slot"`
}

// NewStateMessage creates a "state" message for one controller slot.
func NewStateMessage(seq int64, frame uint64, state *ControllerState) *Message {
	return &Message{
		Type:      "state",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Frame:     frame,
		Data:      state,
		Slot:      state.Slot,
	}
}

// NewSlotSelectedMessage confirms a slot switch.
func NewSlotSelectedMessage(slot int) *Message {
	return &Message{
		Type:      "slot_selected",
		Timestamp: time.Now().UnixMilli(),
		Slot:      slot,
	}
}

// ClientMessage is sent from client to server.
type ClientMessage struct {
	Type string `json:"type"` // "select_slot"
	Slot int    `json:"slot"`
}
