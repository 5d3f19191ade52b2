package aggregator

import (
	"github.com/vovakirdan/gameshell/internal/events"
	"github.com/vovakirdan/gameshell/internal/input"
	"github.com/vovakirdan/gameshell/internal/profiling"
)

// padSlot is the binding of one physical gamepad to a controller slot.
type padSlot struct {
	id         events.DeviceID
	capability events.Capability
	name       string
}

// devices tracks which device feeds which controller slot.
// Slot 0 is the union of keyboard and mouse; gamepads take the first free
// slot of 1..4 and keep it until they disconnect.
type devices struct {
	keyboard bool
	mouse    bool
	pads     map[events.DeviceID]int
	slots    [input.MaxControllers]*padSlot
}

func newDevices() devices {
	return devices{pads: make(map[events.DeviceID]int)}
}

// slotOf returns the slot bound to a gamepad.
func (d *devices) slotOf(id events.DeviceID) (int, *padSlot, bool) {
	i, ok := d.pads[id]
	if !ok {
		return 0, nil, false
	}
	return i, d.slots[i], true
}

// freeSlot returns the first gamepad slot that has no device, or -1.
func (d *devices) freeSlot() int {
	for i := input.KeyboardMouseSlot + 1; i < input.MaxControllers; i++ {
		if d.slots[i] == nil {
			return i
		}
	}
	return -1
}

// keyboardMouseSubType returns the slot 0 subtype for the connected set.
func (d *devices) keyboardMouseSubType() input.SubType {
	switch {
	case d.keyboard && d.mouse:
		return input.SubTypeKeyboardAndMouse
	case d.keyboard:
		return input.SubTypeKeyboard
	case d.mouse:
		return input.SubTypeMouse
	default:
		return input.SubTypeNone
	}
}

// discover applies a connect or disconnect notification to the snapshot.
// Other lifecycle kinds are ignored here.
func (a *Aggregator) discover(ev events.Device) {
	switch ev.Class {
	case events.ClassKeyboard, events.ClassMouse:
		a.discoverKeyboardMouse(ev)
	case events.ClassGamepad:
		a.discoverGamepad(ev)
	}
}

func (a *Aggregator) discoverKeyboardMouse(ev events.Device) {
	connected := ev.Kind == events.Connect
	if ev.Kind != events.Connect && ev.Kind != events.Disconnect {
		return
	}

	if ev.Class == events.ClassKeyboard {
		a.devices.keyboard = connected
	} else {
		a.devices.mouse = connected
		a.snapshot.HasMouse = connected
	}

	kbm := a.snapshot.Keyboard()
	if !a.devices.keyboard && !a.devices.mouse {
		kbm.Disconnect()
		return
	}
	kbm.IsConnected = true
	kbm.SubType = a.devices.keyboardMouseSubType()
}

func (a *Aggregator) discoverGamepad(ev events.Device) {
	switch ev.Kind {
	case events.Connect:
		if _, _, ok := a.devices.slotOf(ev.DeviceID); ok {
			return
		}
		i := a.devices.freeSlot()
		if i < 0 {
			a.logger.Debug("No free controller slot", "device", ev.DeviceID, "name", ev.Name)
			a.untracked(1)
			return
		}

		a.devices.slots[i] = &padSlot{id: ev.DeviceID, capability: ev.Capability, name: ev.Name}
		a.devices.pads[ev.DeviceID] = i
		a.bound[i].Store(int64(ev.DeviceID) + 1)

		c := &a.snapshot.Controllers[i]
		c.IsConnected = true
		c.SubType = input.SubTypeGamepad
		if ev.Capability == events.SimplePad {
			c.SubType = input.SubTypeGeneric
		}
		a.logger.Debug("Controller connected", "slot", i, "device", ev.DeviceID, "type", c.SubType)

	case events.Disconnect:
		i, _, ok := a.devices.slotOf(ev.DeviceID)
		if !ok {
			a.untracked(1)
			return
		}
		a.snapshot.Controllers[i].Disconnect()
		a.devices.slots[i] = nil
		delete(a.devices.pads, ev.DeviceID)
		a.bound[i].Store(0)
		a.logger.Debug("Controller disconnected", "slot", i, "device", ev.DeviceID)
	}
}

// setCurrent applies BecomeCurrent and StopBeingCurrent.
func (a *Aggregator) setCurrent(ev events.Device) {
	active := ev.Kind == events.BecomeCurrent

	switch ev.Class {
	case events.ClassKeyboard, events.ClassMouse:
		a.snapshot.Keyboard().IsActive = active
	case events.ClassGamepad:
		i, _, ok := a.devices.slotOf(ev.DeviceID)
		if !ok {
			a.untracked(1)
			return
		}
		a.snapshot.Controllers[i].IsActive = active
	}
}

// untracked counts notifications from devices that have no slot.
func (a *Aggregator) untracked(n uint64) {
	a.count(profiling.CounterUntrackedEvents, n)
}
