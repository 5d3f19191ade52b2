// Package inputview is a diagnostic core that draws the input snapshot it
// receives: every controller slot, the mouse and the typed text.
package inputview

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/vovakirdan/gameshell/internal/audio"
	"github.com/vovakirdan/gameshell/internal/core"
	"github.com/vovakirdan/gameshell/internal/input"
	"github.com/vovakirdan/gameshell/internal/registry"
)

const historyLength = 64

// Button bits in controllerView.Buttons.
const (
	bitA uint16 = 1 << iota
	bitB
	bitX
	bitY
	bitLB
	bitRB
	bitBack
	bitStart
	bitLS
	bitRS
	bitLT
	bitRT
)

var buttonLabels = []struct {
	bit   uint16
	label string
}{
	{bitA, "A"}, {bitB, "B"}, {bitX, "X"}, {bitY, "Y"},
	{bitLB, "LB"}, {bitRB, "RB"}, {bitLT, "LT"}, {bitRT, "RT"},
	{bitBack, "Back"}, {bitStart, "Start"}, {bitLS, "LS"}, {bitRS, "RS"},
}

type controllerView struct {
	Connected bool
	Active    bool
	SubType   uint8
	Buttons   uint16
	Presses   uint32 // Transitions of every button since connect
	Sticks    [3][2]float32
	Analog    [3]bool
	TriggerL  float32
	TriggerR  float32
}

// view is the arena layout: a digest of the latest snapshot.
type view struct {
	Frame       uint64
	UpTime      int64
	Elapsed     float64
	Count       int32
	Controllers [input.MaxControllers]controllerView

	HasMouse    bool
	MouseOver   bool
	MousePos    [2]float32
	MouseTrack  int32
	MouseScroll [2]float32
	MouseRel    [2]float32
	MouseBtn    [3]bool

	History    [historyLength]byte
	HistoryLen int32
}

// Core draws the input it receives.
type Core struct{}

// New creates an input viewer.
func New() *Core {
	return &Core{}
}

// ID returns the unique identifier for this core.
func (c *Core) ID() string { return "inputview" }

// Title returns the display name for this core.
func (c *Core) Title() string { return "Input Viewer" }

// Reset clears the view.
func (c *Core) Reset(_ core.RuntimeConfig, mem []byte) {
	store(mem, &view{})
}

// Tick copies the snapshot into the arena.
func (c *Core) Tick(in *input.Snapshot, mem []byte) core.Output {
	v := load(mem)

	v.Frame = in.FrameNumber
	v.UpTime = in.UpTimeMicroseconds
	v.Elapsed = in.ElapsedSeconds
	v.Count = int32(in.ControllerCount)
	for i := range in.Controllers {
		v.Controllers[i] = digest(&in.Controllers[i])
	}

	v.HasMouse = in.HasMouse
	m := &in.Mouse
	v.MouseOver = m.EndedOver
	if pos, ok := m.LastPosition(); ok {
		v.MousePos = [2]float32{pos.X, pos.Y}
	}
	v.MouseTrack = int32(m.TrackLength)
	v.MouseScroll = [2]float32{m.Scroll.X, m.Scroll.Y}
	v.MouseRel = [2]float32{m.RelativeMovement.X, m.RelativeMovement.Y}
	v.MouseBtn = [3]bool{m.ButtonLeft.EndedDown, m.ButtonRight.EndedDown, m.ButtonMiddle.EndedDown}

	v.appendHistory(in.Text[:in.TextLength])
	store(mem, &v)

	out := core.Output{
		ShouldQuit:             in.CloseRequested,
		NeedTextInput:          true,
		ShouldShowSystemCursor: true,
	}
	for i := range in.Controllers {
		c := &in.Controllers[i]
		out.Rumble[i] = core.Rumble{Low: c.TriggerLeft.End, High: c.TriggerRight.End}
	}
	return out
}

func digest(c *input.Controller) controllerView {
	bits := []struct {
		b   *input.ButtonState
		bit uint16
	}{
		{&c.ButtonA, bitA}, {&c.ButtonB, bitB}, {&c.ButtonX, bitX}, {&c.ButtonY, bitY},
		{&c.ShoulderLeft, bitLB}, {&c.ShoulderRight, bitRB},
		{&c.ButtonBack, bitBack}, {&c.ButtonStart, bitStart},
		{&c.ButtonStickLeft, bitLS}, {&c.ButtonStickRight, bitRS},
		{&c.TriggerLeft.Trigger, bitLT}, {&c.TriggerRight.Trigger, bitRT},
	}

	cv := controllerView{
		Connected: c.IsConnected,
		Active:    c.IsActive,
		SubType:   uint8(c.SubType),
		TriggerL:  c.TriggerLeft.End,
		TriggerR:  c.TriggerRight.End,
	}
	for _, b := range bits {
		if b.b.EndedDown {
			cv.Buttons |= b.bit
		}
		cv.Presses += b.b.TransitionCount
	}
	for i, a := range []*input.Axis2{&c.StickLeft, &c.StickRight, &c.DPad} {
		cv.Sticks[i] = [2]float32{a.End.X, a.End.Y}
		cv.Analog[i] = a.IsAnalog
	}
	return cv
}

// appendHistory keeps the most recent typed bytes.
func (v *view) appendHistory(text []byte) {
	for _, b := range text {
		if b == '\n' {
			b = ' '
		}
		if int(v.HistoryLen) == historyLength {
			copy(v.History[:], v.History[1:])
			v.HistoryLen--
		}
		v.History[v.HistoryLen] = b
		v.HistoryLen++
	}
}

// RenderAudio plays a tone while A is held on any controller. The left
// stick's Y bends the pitch.
func (c *Core) RenderAudio(mem []byte, dst []byte, desc audio.Descriptor) {
	v := load(mem)

	pitch := 0.0
	for _, cv := range v.Controllers {
		if cv.Connected && cv.Buttons&bitA != 0 {
			pitch = 330 * math.Pow(2, float64(cv.Sticks[0][1]))
			break
		}
	}

	frames := int(desc.FramesPerBuffer)
	channels := int(desc.ChannelsPerFrame)
	if pitch == 0 || frames == 0 || channels == 0 || desc.SampleRate <= 0 {
		audio.Silence(dst)
		return
	}

	bits := uint32(len(dst) / (frames * channels) * 8)
	off := 0
	for i := range frames {
		t := (desc.SampleTime + float64(i)) / desc.SampleRate
		s := 0.2 * math.Sin(2*math.Pi*pitch*t)
		for range channels {
			off += audio.PutSample(dst[off:], bits, s)
		}
	}
}

// Draw renders the input view.
func (c *Core) Draw(mem []byte, dst *core.Screen) {
	v := load(mem)
	dst.Clear()

	dst.DrawTextColor(0, 0, fmt.Sprintf("frame %d  up %.3fs  dt %.2fms  controllers %d",
		v.Frame, float64(v.UpTime)/1e6, v.Elapsed*1000, v.Count), core.ColorBrightWhite)

	row := 2
	for i, cv := range v.Controllers {
		row = drawController(dst, row, i, &cv)
	}

	mouse := "no mouse"
	if v.HasMouse {
		mouse = fmt.Sprintf("mouse over=%v pos=(%.0f,%.0f) track=%d rel=(%.1f,%.1f) scroll=(%.0f,%.0f) L=%v R=%v M=%v",
			v.MouseOver, v.MousePos[0], v.MousePos[1], v.MouseTrack,
			v.MouseRel[0], v.MouseRel[1], v.MouseScroll[0], v.MouseScroll[1],
			v.MouseBtn[0], v.MouseBtn[1], v.MouseBtn[2])
	}
	dst.DrawTextColor(0, row, mouse, core.ColorCyan)
	dst.DrawText(0, row+1, "text: "+string(v.History[:v.HistoryLen]))
}

// drawController draws one slot and returns the next free row.
func drawController(dst *core.Screen, row, slot int, cv *controllerView) int {
	if !cv.Connected {
		dst.DrawTextColor(0, row, fmt.Sprintf("%d: -", slot), core.ColorGray)
		return row + 1
	}

	color := core.ColorGreen
	if !cv.Active {
		color = core.ColorYellow
	}
	dst.DrawTextColor(0, row, fmt.Sprintf("%d: %-14s presses %-5d LT %.2f RT %.2f",
		slot, input.SubType(cv.SubType), cv.Presses, cv.TriggerL, cv.TriggerR), color)

	x := 0
	for _, b := range buttonLabels {
		c := core.ColorGray
		if cv.Buttons&b.bit != 0 {
			c = core.ColorBrightYellow
		}
		dst.DrawTextColor(x+3, row+1, b.label, c)
		x += len(b.label) + 1
	}

	for i, name := range []string{"LS", "RS", "DP"} {
		mode := "d"
		if cv.Analog[i] {
			mode = "a"
		}
		dst.DrawText(3+i*20, row+2, fmt.Sprintf("%s%s %+.2f %+.2f", name, mode, cv.Sticks[i][0], cv.Sticks[i][1]))
	}
	return row + 3
}

func load(mem []byte) view {
	var v view
	if _, err := binary.Decode(mem, binary.LittleEndian, &v); err != nil {
		panic("inputview: arena too small: " + err.Error())
	}
	return v
}

func store(mem []byte, v *view) {
	if _, err := binary.Encode(mem, binary.LittleEndian, v); err != nil {
		panic("inputview: arena too small: " + err.Error())
	}
}

func init() {
	registry.Register("inputview", func() registry.Core {
		return New()
	})
}
