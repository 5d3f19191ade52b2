// Package events defines the typed input notifications produced by host
// frontends and the queue that carries them to the tick goroutine.
//
// Every notification the host delivers, whatever thread it arrives on,
// becomes one Event pushed into a single Queue, so the aggregator observes
// them in one total order.
package events

import "github.com/vovakirdan/gameshell/internal/input"

// Event is a sealed interface for all input notifications.
// Only types declared in this package implement it.
type Event interface {
	isEvent()
}

// Key is a keyboard key transition. Text carries the characters the key
// produced, if any; it is appended to the snapshot text buffer on key down.
type Key struct {
	Code   KeyCode
	Down   bool
	Text   string
	Repeat bool
}

// MouseMoveKind distinguishes surface pointer notifications.
type MouseMoveKind uint8

const (
	MouseMoved MouseMoveKind = iota
	MouseDragged
	MouseScrolled
)

// MouseMove is a pointer move, drag or scroll over the presentation surface.
// Over is false when the pointer is outside the surface; Position is then
// meaningless.
type MouseMove struct {
	Kind     MouseMoveKind
	Position input.Vec2
	Over     bool
	Relative input.Vec2
	Scroll   input.Vec2
}

// MouseButton names a mouse button.
type MouseButton uint8

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseOther
)

// MouseClick is a mouse button transition.
type MouseClick struct {
	Button   MouseButton
	Down     bool
	Position input.Vec2
}

// MouseMotion is raw relative motion from a mouse device, independent of
// the pointer position (relative mouse mode).
type MouseMotion struct {
	Delta input.Vec2
}

// DeviceKind is a connection lifecycle notification.
type DeviceKind uint8

const (
	Connect DeviceKind = iota
	Disconnect
	BecomeCurrent
	StopBeingCurrent
)

// String returns a display name for the kind.
func (k DeviceKind) String() string {
	switch k {
	case Connect:
		return "connect"
	case Disconnect:
		return "disconnect"
	case BecomeCurrent:
		return "become-current"
	case StopBeingCurrent:
		return "stop-being-current"
	default:
		return "unknown"
	}
}

// DeviceClass is the kind of device a lifecycle notification refers to.
type DeviceClass uint8

const (
	ClassKeyboard DeviceClass = iota
	ClassMouse
	ClassGamepad
)

// String returns a display name for the class.
func (c DeviceClass) String() string {
	switch c {
	case ClassKeyboard:
		return "keyboard"
	case ClassMouse:
		return "mouse"
	case ClassGamepad:
		return "gamepad"
	default:
		return "unknown"
	}
}

// Capability is the control profile a gamepad reports.
type Capability uint8

const (
	// SimplePad has two face buttons and a d-pad.
	SimplePad Capability = iota
	// FullGamepad has face buttons, shoulders, triggers, two sticks and a d-pad.
	FullGamepad
)

// DeviceID identifies a physical gamepad for the lifetime of its connection.
type DeviceID int64

// Device is a connection lifecycle notification. DeviceID and Capability are
// only meaningful for ClassGamepad.
type Device struct {
	Kind       DeviceKind
	Class      DeviceClass
	DeviceID   DeviceID
	Capability Capability
	Name       string
}

// GamepadButton names a digital gamepad element.
type GamepadButton uint8

const (
	PadA GamepadButton = iota
	PadB
	PadX
	PadY
	PadShoulderLeft
	PadShoulderRight
	PadOptions
	PadMenu
	PadThumbLeft
	PadThumbRight
)

// GamepadButtonEvent is a gamepad button transition.
type GamepadButtonEvent struct {
	DeviceID DeviceID
	Button   GamepadButton
	Down     bool
}

// Trigger names an analog trigger.
type Trigger uint8

const (
	TriggerLeft Trigger = iota
	TriggerRight
)

// GamepadTrigger is an analog trigger change. Pressed is the digital state
// the hardware reports alongside the value.
type GamepadTrigger struct {
	DeviceID DeviceID
	Trigger  Trigger
	Value    float32
	Pressed  bool
}

// Stick names a two dimensional gamepad element.
type Stick uint8

const (
	StickLeft Stick = iota
	StickRight
	StickDPad
)

// GamepadStick is a two dimensional element change. X and Y are in -1..1 with
// up positive. Analog is false for d-pads that only report -1, 0 and 1.
type GamepadStick struct {
	DeviceID DeviceID
	Stick    Stick
	X, Y     float32
	Analog   bool
}

// Quit is a request from the host to close the presentation surface.
type Quit struct{}

func (Key) isEvent()                {}
func (MouseMove) isEvent()          {}
func (MouseClick) isEvent()         {}
func (MouseMotion) isEvent()        {}
func (Device) isEvent()             {}
func (GamepadButtonEvent) isEvent() {}
func (GamepadTrigger) isEvent()     {}
func (GamepadStick) isEvent()       {}
func (Quit) isEvent()               {}
