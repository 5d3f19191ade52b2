// Package input provides the fixed-shape input cells the shell hands to a
// game core once per tick: buttons, one and two dimensional axes, the mouse,
// controller slots and the snapshot that aggregates them.
// It has no external dependencies so cores can be tested without a host.
package input

// PressMode selects how a button counts edges.
type PressMode uint8

const (
	// PressDeduplicated counts an edge only when the level actually changes.
	// Event-driven sources (keyboard, mouse, controller change handlers) use it.
	PressDeduplicated PressMode = iota

	// PressRaw counts every observation, even a repeated level.
	// Used for raw hardware presses that already report edges.
	PressRaw
)

// String returns the configuration name of the mode.
func (m PressMode) String() string {
	switch m {
	case PressDeduplicated:
		return "dedup"
	case PressRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// ParsePressMode converts a configuration name to a PressMode.
// Unknown names fall back to PressDeduplicated.
func ParsePressMode(s string) PressMode {
	if s == "raw" {
		return PressRaw
	}
	return PressDeduplicated
}

// ButtonState is a digital control sampled at tick granularity.
// TransitionCount only grows; a core compares it with the value it saw on
// the previous tick to recover presses shorter than a tick.
type ButtonState struct {
	EndedDown       bool
	TransitionCount uint32
}

// Pressed records a de-duplicated observation.
func (b *ButtonState) Pressed(down bool) {
	if b.EndedDown != down {
		b.EndedDown = down
		b.TransitionCount++
	}
}

// PressedRaw records an observation and always counts it as an edge.
func (b *ButtonState) PressedRaw(down bool) {
	b.EndedDown = down
	b.TransitionCount++
}

// Apply records an observation using the given mode.
func (b *ButtonState) Apply(mode PressMode, down bool) {
	if mode == PressRaw {
		b.PressedRaw(down)
		return
	}
	b.Pressed(down)
}

// Press is shorthand for Pressed(true).
func (b *ButtonState) Press() { b.Pressed(true) }

// Release is shorthand for Pressed(false).
func (b *ButtonState) Release() { b.Pressed(false) }

// HalfTransitions reports how many edges happened since a previous count.
func (b ButtonState) HalfTransitions(since uint32) uint32 {
	return b.TransitionCount - since
}

// WentDown reports whether the button was pressed at least once since a
// previous count, even if it is released again now.
func (b ButtonState) WentDown(since uint32) bool {
	n := b.HalfTransitions(since)
	if b.EndedDown {
		return n >= 1
	}
	return n >= 2
}
