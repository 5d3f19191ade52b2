// Package viewer streams per-tick controller state to websocket clients,
// e.g. a browser overlay showing what the core currently sees.
package viewer

import "github.com/vovakirdan/gameshell/internal/input"

// Vector is a stick position.
type Vector struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// StickState is one Axis2 as seen by the core.
type StickState struct {
	Position Vector `json:"position"`
	Up       bool   `json:"up"`
	Down     bool   `json:"down"`
	Left     bool   `json:"left"`
	Right    bool   `json:"right"`
	Analog   bool   `json:"analog"`
}

// ButtonState holds the levels of the plain buttons.
type ButtonState struct {
	A          bool `json:"a"`
	B          bool `json:"b"`
	X          bool `json:"x"`
	Y          bool `json:"y"`
	LB         bool `json:"lb"`
	RB         bool `json:"rb"`
	Back       bool `json:"back"`
	Start      bool `json:"start"`
	StickLeft  bool `json:"ls"`
	StickRight bool `json:"rs"`
}

// TriggerState is one Axis1.
type TriggerState struct {
	Value   float32 `json:"value"`
	Pressed bool    `json:"pressed"`
}

// ControllerState is the JSON view of one controller slot.
type ControllerState struct {
	Slot           int          `json:"slot"`
	Connected      bool         `json:"connected"`
	Active         bool         `json:"active"`
	ControllerType string       `json:"controllerType"`
	Buttons        ButtonState  `json:"buttons"`
	LT             TriggerState `json:"lt"`
	RT             TriggerState `json:"rt"`
	StickLeft      StickState   `json:"stickLeft"`
	StickRight     StickState   `json:"stickRight"`
	DPad           StickState   `json:"dpad"`
}

// FrameState is the controller state of every slot at one tick.
type FrameState struct {
	Frame       uint64                                `json:"frame"`
	UpTimeUs    int64                                 `json:"upTimeUs"`
	Controllers [input.MaxControllers]ControllerState `json:"controllers"`
}

// FromSnapshot copies the controller state out of a snapshot.
func FromSnapshot(s *input.Snapshot) FrameState {
	f := FrameState{
		Frame:    s.FrameNumber,
		UpTimeUs: s.UpTimeMicroseconds,
	}
	for i := range s.Controllers {
		f.Controllers[i] = fromController(i, &s.Controllers[i])
	}
	return f
}

func fromController(slot int, c *input.Controller) ControllerState {
	return ControllerState{
		Slot:           slot,
		Connected:      c.IsConnected,
		Active:         c.IsActive,
		ControllerType: c.SubType.String(),
		Buttons: ButtonState{
			A:          c.ButtonA.EndedDown,
			B:          c.ButtonB.EndedDown,
			X:          c.ButtonX.EndedDown,
			Y:          c.ButtonY.EndedDown,
			LB:         c.ShoulderLeft.EndedDown,
			RB:         c.ShoulderRight.EndedDown,
			Back:       c.ButtonBack.EndedDown,
			Start:      c.ButtonStart.EndedDown,
			StickLeft:  c.ButtonStickLeft.EndedDown,
			StickRight: c.ButtonStickRight.EndedDown,
		},
		LT:         fromTrigger(&c.TriggerLeft),
		RT:         fromTrigger(&c.TriggerRight),
		StickLeft:  fromStick(&c.StickLeft),
		StickRight: fromStick(&c.StickRight),
		DPad:       fromStick(&c.DPad),
	}
}

func fromTrigger(a *input.Axis1) TriggerState {
	return TriggerState{Value: a.End, Pressed: a.Trigger.EndedDown}
}

func fromStick(a *input.Axis2) StickState {
	return StickState{
		Position: Vector{X: a.End.X, Y: a.End.Y},
		Up:       a.Up.EndedDown,
		Down:     a.Down.EndedDown,
		Left:     a.Left.EndedDown,
		Right:    a.Right.EndedDown,
		Analog:   a.IsAnalog,
	}
}
