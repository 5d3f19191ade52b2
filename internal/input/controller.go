package input

// SubType identifies what kind of device feeds a controller slot.
type SubType uint8

const (
	SubTypeNone SubType = iota
	SubTypeGeneric
	SubTypeKeyboard
	SubTypeMouse
	SubTypeKeyboardAndMouse
	SubTypeGamepad
)

// String returns a display name for the subtype.
func (t SubType) String() string {
	switch t {
	case SubTypeNone:
		return "none"
	case SubTypeGeneric:
		return "generic"
	case SubTypeKeyboard:
		return "keyboard"
	case SubTypeMouse:
		return "mouse"
	case SubTypeKeyboardAndMouse:
		return "keyboard+mouse"
	case SubTypeGamepad:
		return "gamepad"
	default:
		return "unknown"
	}
}

// Controller is one controller slot. Slot 0 is the virtual controller fed by
// keyboard and mouse, slots 1..4 are physical gamepads.
type Controller struct {
	IsConnected bool
	IsActive    bool
	SubType     SubType

	ButtonA          ButtonState
	ButtonB          ButtonState
	ButtonX          ButtonState
	ButtonY          ButtonState
	ShoulderLeft     ButtonState
	ShoulderRight    ButtonState
	ButtonStart      ButtonState
	ButtonBack       ButtonState
	ButtonStickLeft  ButtonState
	ButtonStickRight ButtonState

	TriggerLeft  Axis1
	TriggerRight Axis1

	StickLeft  Axis2
	StickRight Axis2
	DPad       Axis2
}

// Disconnect marks the slot empty. Button transition counts survive so a
// core never observes a counter going backwards; levels and vectors are
// released.
func (c *Controller) Disconnect() {
	c.IsConnected = false
	c.IsActive = false
	c.SubType = SubTypeNone

	for _, b := range c.buttons() {
		b.Pressed(false)
	}
	for _, t := range []*Axis1{&c.TriggerLeft, &c.TriggerRight} {
		t.End = 0
		t.IsAnalog = false
		t.Trigger.Pressed(false)
	}
	for _, a := range []*Axis2{&c.StickLeft, &c.StickRight, &c.DPad} {
		a.Release()
		a.IsAnalog = false
	}
}

// buttons lists the plain digital buttons of the slot.
func (c *Controller) buttons() []*ButtonState {
	return []*ButtonState{
		&c.ButtonA, &c.ButtonB, &c.ButtonX, &c.ButtonY,
		&c.ShoulderLeft, &c.ShoulderRight,
		&c.ButtonStart, &c.ButtonBack,
		&c.ButtonStickLeft, &c.ButtonStickRight,
	}
}
