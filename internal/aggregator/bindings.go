package aggregator

import (
	"github.com/vovakirdan/gameshell/internal/events"
	"github.com/vovakirdan/gameshell/internal/input"
)

// ArrowBinding selects which stick the arrow keys drive.
type ArrowBinding uint8

const (
	ArrowsLeftStick ArrowBinding = iota
	ArrowsRightStick
)

// String returns the configuration name of the binding.
func (b ArrowBinding) String() string {
	if b == ArrowsRightStick {
		return "right_stick"
	}
	return "left_stick"
}

// ParseArrowBinding converts a configuration name to an ArrowBinding.
func ParseArrowBinding(s string) ArrowBinding {
	if s == "right_stick" {
		return ArrowsRightStick
	}
	return ArrowsLeftStick
}

// axisID names the Axis2 fields of a controller.
type axisID uint8

const (
	axisNone axisID = iota
	axisStickLeft
	axisStickRight
	axisDPad
	axisCount
)

// axis returns the Axis2 for id.
func axis(c *input.Controller, id axisID) *input.Axis2 {
	switch id {
	case axisStickLeft:
		return &c.StickLeft
	case axisStickRight:
		return &c.StickRight
	case axisDPad:
		return &c.DPad
	default:
		return nil
	}
}

// direction names one of the four buttons of an Axis2.
type direction uint8

const (
	dirUp direction = iota
	dirDown
	dirLeft
	dirRight
)

// target is a controller field an input is bound to: either a plain button,
// or one direction of an Axis2.
type target struct {
	button func(*input.Controller) *input.ButtonState
	axis   axisID
	dir    direction
}

// resolve returns the ButtonState the target points at.
func (t target) resolve(c *input.Controller) *input.ButtonState {
	if t.axis == axisNone {
		return t.button(c)
	}
	a := axis(c, t.axis)
	switch t.dir {
	case dirUp:
		return &a.Up
	case dirDown:
		return &a.Down
	case dirLeft:
		return &a.Left
	default:
		return &a.Right
	}
}

func buttonTarget(f func(*input.Controller) *input.ButtonState) target {
	return target{button: f}
}

func axisTarget(id axisID, d direction) target {
	return target{axis: id, dir: d}
}

var (
	toButtonA          = buttonTarget(func(c *input.Controller) *input.ButtonState { return &c.ButtonA })
	toButtonB          = buttonTarget(func(c *input.Controller) *input.ButtonState { return &c.ButtonB })
	toButtonX          = buttonTarget(func(c *input.Controller) *input.ButtonState { return &c.ButtonX })
	toButtonY          = buttonTarget(func(c *input.Controller) *input.ButtonState { return &c.ButtonY })
	toShoulderLeft     = buttonTarget(func(c *input.Controller) *input.ButtonState { return &c.ShoulderLeft })
	toShoulderRight    = buttonTarget(func(c *input.Controller) *input.ButtonState { return &c.ShoulderRight })
	toButtonStart      = buttonTarget(func(c *input.Controller) *input.ButtonState { return &c.ButtonStart })
	toButtonBack       = buttonTarget(func(c *input.Controller) *input.ButtonState { return &c.ButtonBack })
	toButtonStickLeft  = buttonTarget(func(c *input.Controller) *input.ButtonState { return &c.ButtonStickLeft })
	toButtonStickRight = buttonTarget(func(c *input.Controller) *input.ButtonState { return &c.ButtonStickRight })
	toTriggerLeft      = buttonTarget(func(c *input.Controller) *input.ButtonState { return &c.TriggerLeft.Trigger })
	toTriggerRight     = buttonTarget(func(c *input.Controller) *input.ButtonState { return &c.TriggerRight.Trigger })
)

// keyTarget maps a key to the virtual controller of slot 0.
func keyTarget(code events.KeyCode, arrows ArrowBinding) (target, bool) {
	arrowAxis := axisStickLeft
	if arrows == ArrowsRightStick {
		arrowAxis = axisStickRight
	}

	switch code {
	case events.KeyW:
		return axisTarget(axisStickLeft, dirUp), true
	case events.KeyA:
		return axisTarget(axisStickLeft, dirLeft), true
	case events.KeyS:
		return axisTarget(axisStickLeft, dirDown), true
	case events.KeyD:
		return axisTarget(axisStickLeft, dirRight), true

	case events.KeyUp:
		return axisTarget(arrowAxis, dirUp), true
	case events.KeyDown:
		return axisTarget(arrowAxis, dirDown), true
	case events.KeyLeft:
		return axisTarget(arrowAxis, dirLeft), true
	case events.KeyRight:
		return axisTarget(arrowAxis, dirRight), true

	case events.Key1:
		return axisTarget(axisDPad, dirUp), true
	case events.Key2:
		return axisTarget(axisDPad, dirDown), true
	case events.Key3:
		return axisTarget(axisDPad, dirLeft), true
	case events.Key4:
		return axisTarget(axisDPad, dirRight), true

	case events.KeyLeftControl:
		return toShoulderLeft, true
	case events.KeyLeftShift:
		return toShoulderRight, true
	case events.KeySpace:
		return toButtonA, true
	case events.KeyF:
		return toButtonB, true
	case events.KeyR:
		return toButtonX, true
	case events.KeyC:
		return toButtonY, true
	case events.KeyTab:
		return toButtonStickRight, true
	case events.KeyEscape:
		return toButtonBack, true
	case events.KeyReturn:
		return toButtonStart, true
	}
	return target{}, false
}

// mouseTarget maps a mouse button to the virtual controller of slot 0.
func mouseTarget(b events.MouseButton) target {
	switch b {
	case events.MouseLeft:
		return toTriggerRight
	case events.MouseRight:
		return toTriggerLeft
	default:
		return toButtonStickRight
	}
}

// padButtonTarget maps a gamepad button for the given capability.
func padButtonTarget(capability events.Capability, b events.GamepadButton) (target, bool) {
	if capability == events.SimplePad {
		switch b {
		case events.PadA:
			return toButtonA, true
		case events.PadX:
			return toButtonX, true
		}
		return target{}, false
	}

	switch b {
	case events.PadA:
		return toButtonA, true
	case events.PadB:
		return toButtonB, true
	case events.PadX:
		return toButtonX, true
	case events.PadY:
		return toButtonY, true
	case events.PadShoulderLeft:
		return toShoulderLeft, true
	case events.PadShoulderRight:
		return toShoulderRight, true
	case events.PadOptions:
		return toButtonBack, true
	case events.PadMenu:
		return toButtonStart, true
	case events.PadThumbLeft:
		return toButtonStickLeft, true
	case events.PadThumbRight:
		return toButtonStickRight, true
	}
	return target{}, false
}

// padStickTarget maps a gamepad stick for the given capability.
// A simple pad's d-pad drives the left stick.
func padStickTarget(capability events.Capability, s events.Stick) axisID {
	if capability == events.SimplePad {
		if s == events.StickDPad {
			return axisStickLeft
		}
		return axisNone
	}

	switch s {
	case events.StickLeft:
		return axisStickLeft
	case events.StickRight:
		return axisStickRight
	case events.StickDPad:
		return axisDPad
	}
	return axisNone
}

// padTrigger returns the trigger axis for a full gamepad.
func padTrigger(c *input.Controller, capability events.Capability, t events.Trigger) *input.Axis1 {
	if capability == events.SimplePad {
		return nil
	}
	if t == events.TriggerLeft {
		return &c.TriggerLeft
	}
	return &c.TriggerRight
}
