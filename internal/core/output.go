package core

import "github.com/vovakirdan/gameshell/internal/input"

// Rumble is a force feedback request for one controller. Strengths are 0..1.
type Rumble struct {
	Low  float32
	High float32
}

// Output is what a core returns from a tick. The shell reads it after every
// tick; frontends apply the presentation hints they support.
type Output struct {
	// ShouldQuit ends the tick loop after the current tick.
	ShouldQuit bool
	// NeedTextInput asks the frontend to deliver typed text.
	NeedTextInput bool
	// ShouldShowSystemCursor shows the host pointer over the surface.
	ShouldShowSystemCursor bool
	// ShouldPinMouse asks for relative mouse mode.
	ShouldPinMouse bool
	// Rumble per controller slot.
	Rumble [input.MaxControllers]Rumble
}

// RuntimeConfig is passed to a core when it is created or reset.
type RuntimeConfig struct {
	ScreenW  int     // Screen width in characters
	ScreenH  int     // Screen height in characters
	TickRate float64 // Simulation ticks per second
	Seed     int64   // RNG seed, 0 means time based
}

// DefaultConfig returns an 80x24 screen at 100 ticks per second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 100,
	}
}
