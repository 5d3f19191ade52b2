package aggregator

import (
	"github.com/vovakirdan/gameshell/internal/events"
	"github.com/vovakirdan/gameshell/internal/input"
	"github.com/vovakirdan/gameshell/internal/profiling"
)

// apply folds one event into the snapshot.
func (a *Aggregator) apply(ev events.Event, s *Settings) {
	switch e := ev.(type) {
	case events.Key:
		a.applyKey(e, s)
	case events.MouseMove:
		a.applyMouseMove(e)
	case events.MouseClick:
		a.applyMouseClick(e, s)
	case events.MouseMotion:
		a.applyMouseMotion(e, s)
	case events.Device:
		if e.Kind == events.BecomeCurrent || e.Kind == events.StopBeingCurrent {
			a.setCurrent(e)
		}
	case events.GamepadButtonEvent:
		a.applyPadButton(e, s)
	case events.GamepadTrigger:
		a.applyPadTrigger(e, s)
	case events.GamepadStick:
		a.applyPadStick(e, s)
	case events.Quit:
		a.snapshot.CloseRequested = true
	}
}

func (a *Aggregator) applyKey(e events.Key, s *Settings) {
	if e.Down && e.Text != "" {
		if dropped := a.snapshot.AppendText(e.Text); dropped > 0 {
			a.count(profiling.CounterDroppedText, uint64(dropped))
		}
	}

	kbm := a.snapshot.Keyboard()
	t, ok := keyTarget(e.Code, s.ArrowKeys)
	if !ok {
		kbm.IsActive = false
		return
	}
	kbm.IsActive = true

	// Repeats carry text only
	if e.Repeat {
		return
	}
	if t.axis != axisNone {
		a.markDigital(input.KeyboardMouseSlot, t.axis, s)
	}
	t.resolve(kbm).Apply(s.PressMode, e.Down)
}

func (a *Aggregator) applyMouseMove(e events.MouseMove) {
	m := &a.snapshot.Mouse
	if e.Kind == events.MouseScrolled {
		m.AddScroll(e.Scroll)
		return
	}
	if !m.Move(e.Relative, e.Position, e.Over) {
		a.count(profiling.CounterDroppedTrack, 1)
	}
}

func (a *Aggregator) applyMouseClick(e events.MouseClick, s *Settings) {
	m := &a.snapshot.Mouse
	switch e.Button {
	case events.MouseLeft:
		m.ButtonLeft.Apply(s.PressMode, e.Down)
	case events.MouseRight:
		m.ButtonRight.Apply(s.PressMode, e.Down)
	default:
		m.ButtonMiddle.Apply(s.PressMode, e.Down)
	}

	kbm := a.snapshot.Keyboard()
	mouseTarget(e.Button).resolve(kbm).Apply(s.PressMode, e.Down)
}

func (a *Aggregator) applyMouseMotion(e events.MouseMotion, s *Settings) {
	a.motion = a.motion.Add(e.Delta)
	a.sawMotion = true

	a.markAnalog(input.KeyboardMouseSlot, axisStickRight, s.MouseDeadZone, s)
	stick := &a.snapshot.Keyboard().StickRight
	stick.End = a.motion
	stick.IsAnalog = true
}

func (a *Aggregator) applyPadButton(e events.GamepadButtonEvent, s *Settings) {
	i, pad, ok := a.devices.slotOf(e.DeviceID)
	if !ok {
		a.untracked(1)
		return
	}
	t, ok := padButtonTarget(pad.capability, e.Button)
	if !ok {
		return
	}
	t.resolve(&a.snapshot.Controllers[i]).Apply(s.PressMode, e.Down)
}

func (a *Aggregator) applyPadTrigger(e events.GamepadTrigger, s *Settings) {
	i, pad, ok := a.devices.slotOf(e.DeviceID)
	if !ok {
		a.untracked(1)
		return
	}
	if t := padTrigger(&a.snapshot.Controllers[i], pad.capability, e.Trigger); t != nil {
		t.Set(e.Value, e.Pressed)
	}
}

func (a *Aggregator) applyPadStick(e events.GamepadStick, s *Settings) {
	i, pad, ok := a.devices.slotOf(e.DeviceID)
	if !ok {
		a.untracked(1)
		return
	}
	id := padStickTarget(pad.capability, e.Stick)
	if id == axisNone {
		return
	}

	a.markAnalog(i, id, s.StickDeadZone, s)
	ax := axis(&a.snapshot.Controllers[i], id)
	ax.End = input.Vec2{X: e.X, Y: e.Y}
	ax.IsAnalog = e.Analog
}

// markDigital records a digital edge on an axis. Pending analog input is
// converted first so the edge lands on top of it.
func (a *Aggregator) markDigital(slot int, id axisID, s *Settings) {
	m := &a.marks[slot][id]
	if m.analog > m.digital {
		a.convert(slot, id, s)
	}
	m.digital = a.seq
}

// markAnalog records an analog value on an axis. Pending digital edges are
// converted first.
func (a *Aggregator) markAnalog(slot int, id axisID, deadZone float32, s *Settings) {
	m := &a.marks[slot][id]
	if m.digital > m.analog {
		a.convert(slot, id, s)
	}
	m.analog = a.seq
	m.deadZone = deadZone
}

// convert runs the conversion for whichever kind of input the axis received
// last.
func (a *Aggregator) convert(slot int, id axisID, s *Settings) {
	m := a.marks[slot][id]
	ax := axis(&a.snapshot.Controllers[slot], id)
	switch {
	case m.analog > m.digital:
		ax.AnalogToDigital(m.deadZone, s.AnalogPolicy)
	case m.digital > 0:
		ax.DigitalToAnalog()
	}
}

// reconcile keeps the analog and digital views of every Axis2 consistent.
// Conversions for the earlier kind already ran in markDigital and
// markAnalog, so only the last kind is left to convert.
func (a *Aggregator) reconcile(s *Settings) {
	// Raw mouse motion is frame-local: once it stops, the stick recentres.
	m := &a.marks[input.KeyboardMouseSlot][axisStickRight]
	if a.lastMotion && !a.sawMotion && m.digital == 0 {
		a.snapshot.Keyboard().StickRight.End = input.Vec2{}
		m.analog = a.seq + 1
		m.deadZone = s.MouseDeadZone
	}

	for slot := range a.marks {
		for id := axisStickLeft; id < axisCount; id++ {
			a.convert(slot, id, s)
		}
	}
}
