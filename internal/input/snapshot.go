package input

import "unicode/utf8"

// Snapshot capacities.
const (
	MaxTextLength  = 256
	MaxControllers = 5
)

// KeyboardMouseSlot is the controller slot fed by keyboard and mouse.
const KeyboardMouseSlot = 0

// Snapshot is the complete input state handed to a core for one tick.
// The aggregator owns it; a core must not keep the pointer after Tick returns.
type Snapshot struct {
	FrameNumber        uint64
	UpTimeMicroseconds int64
	ElapsedSeconds     float64

	Text       [MaxTextLength]byte
	TextLength int

	HasMouse bool
	Mouse    Mouse

	ControllerCount int
	Controllers     [MaxControllers]Controller

	CloseRequested bool
}

// TextString returns the text typed during the tick.
func (s *Snapshot) TextString() string {
	return string(s.Text[:s.TextLength])
}

// AppendText copies UTF-8 text into the text buffer.
// Copying stops at the first invalid byte sequence or at the last whole
// rune that fits. It returns the number of bytes that were dropped.
func (s *Snapshot) AppendText(text string) int {
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size <= 1 {
			return len(text) - i
		}
		if s.TextLength+size > MaxTextLength {
			return len(text) - i
		}
		copy(s.Text[s.TextLength:], text[i:i+size])
		s.TextLength += size
		i += size
	}
	return 0
}

// Keyboard returns the virtual keyboard and mouse controller.
func (s *Snapshot) Keyboard() *Controller {
	return &s.Controllers[KeyboardMouseSlot]
}

// CountConnected recomputes ControllerCount from the slots.
func (s *Snapshot) CountConnected() {
	n := 0
	for i := range s.Controllers {
		if s.Controllers[i].IsConnected {
			n++
		}
	}
	s.ControllerCount = n
}

// ResetFrame clears the per-tick fields after a core consumed the snapshot.
// Levels and transition counts are kept.
func (s *Snapshot) ResetFrame() {
	s.TextLength = 0
	s.CloseRequested = false
	s.Mouse.resetFrame()
}
