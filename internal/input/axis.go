package input

import "math"

// Vec2 is a 2D vector in float32 precision, matching the snapshot layout.
type Vec2 struct {
	X, Y float32
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Axis1 is a single analog value with a digital trigger, e.g. a shoulder
// trigger or a mouse button bound to one.
type Axis1 struct {
	End      float32
	Trigger  ButtonState
	IsAnalog bool
}

// Set stores an analog value and digitises the trigger from the pressed
// flag reported by hardware. The trigger only changes on an edge, so a
// stream of samples on the same side of the threshold adds no transitions.
func (a *Axis1) Set(value float32, pressed bool) {
	a.End = value
	a.IsAnalog = true
	a.Trigger.Pressed(pressed)
}

// SetThreshold stores an analog value and digitises it against threshold.
func (a *Axis1) SetThreshold(value, threshold float32) {
	a.Set(value, value > threshold)
}

// AnalogPolicy decides which directional buttons an analog vector presses.
type AnalogPolicy uint8

const (
	// IndependentThreshold tests each component against the dead zone on
	// its own, so a diagonal may press two buttons.
	IndependentThreshold AnalogPolicy = iota

	// DominantAxis only lets the component with the larger magnitude press
	// a button. Ties go to the horizontal axis.
	DominantAxis
)

// String returns the configuration name of the policy.
func (p AnalogPolicy) String() string {
	switch p {
	case IndependentThreshold:
		return "independent"
	case DominantAxis:
		return "dominant"
	default:
		return "unknown"
	}
}

// ParseAnalogPolicy converts a configuration name to an AnalogPolicy.
// Unknown names fall back to IndependentThreshold.
func ParseAnalogPolicy(s string) AnalogPolicy {
	if s == "dominant" {
		return DominantAxis
	}
	return IndependentThreshold
}

// Axis2 is a two dimensional control (stick or d-pad) carrying both an
// analog vector and four directional buttons. The aggregator keeps the two
// views consistent with DigitalToAnalog and AnalogToDigital.
type Axis2 struct {
	End      Vec2
	Up       ButtonState
	Down     ButtonState
	Left     ButtonState
	Right    ButtonState
	IsAnalog bool
	Latches  bool
}

// DigitalToAnalog derives End from the directional buttons.
// Up wins over Down and Right wins over Left.
func (a *Axis2) DigitalToAnalog() {
	switch {
	case a.Up.EndedDown:
		a.End.Y = 1
	case a.Down.EndedDown:
		a.End.Y = -1
	default:
		a.End.Y = 0
	}

	switch {
	case a.Right.EndedDown:
		a.End.X = 1
	case a.Left.EndedDown:
		a.End.X = -1
	default:
		a.End.X = 0
	}
}

// AnalogToDigital derives the directional buttons from End.
// A component must exceed deadZone strictly to press a button. Derived
// buttons always de-duplicate, so repeated calls on the same vector are
// no-ops.
func (a *Axis2) AnalogToDigital(deadZone float32, policy AnalogPolicy) {
	x, y := a.End.X, a.End.Y

	if policy == DominantAxis {
		if math.Abs(float64(x)) >= math.Abs(float64(y)) {
			y = 0
		} else {
			x = 0
		}
	}

	a.Left.Pressed(x < -deadZone)
	a.Right.Pressed(x > deadZone)
	a.Down.Pressed(y < -deadZone)
	a.Up.Pressed(y > deadZone)
}

// Release lifts all four directions and zeroes the vector.
func (a *Axis2) Release() {
	a.End = Vec2{}
	a.Up.Release()
	a.Down.Release()
	a.Left.Release()
	a.Right.Release()
}
