//go:build sdl

package sdl

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/vovakirdan/gameshell/internal/core"
	"github.com/vovakirdan/gameshell/internal/events"
	"github.com/vovakirdan/gameshell/internal/input"
	"github.com/vovakirdan/gameshell/internal/profiling"
	"github.com/vovakirdan/gameshell/internal/shell"
)

// Available reports whether the binary was built with SDL support.
func Available() bool {
	return true
}

// Options configure the SDL window.
type Options struct {
	Title   string
	FrameHz int // 0 presents only when the window needs it
	Width   int // Screen size in cells
	Height  int
	CellW   int // Cell size in pixels
	CellH   int
	Logger  *log.Logger
}

// pad is one opened game controller.
type pad struct {
	ctrl   *sdl.GameController
	id     events.DeviceID
	dpad   dpad
	sticks [2][2]float32
}

// frontend owns the window and the opened controllers.
type frontend struct {
	sh       *shell.Shell
	opts     Options
	logger   *log.Logger
	window   *sdl.Window
	renderer *sdl.Renderer
	screen   *core.Screen

	pads    map[sdl.JoystickID]*pad
	lastKey events.KeyCode
	text    bool
	cursor  bool
	pinned  bool
}

// Run opens a window and feeds the shell until ctx is cancelled, the window
// is closed or the shell stops. It must be called from the main goroutine.
func Run(ctx context.Context, sh *shell.Shell, opts Options) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		def := core.DefaultConfig()
		opts.Width, opts.Height = def.ScreenW, def.ScreenH
	}
	if opts.CellW <= 0 || opts.CellH <= 0 {
		opts.CellW, opts.CellH = 10, 20
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_GAMECONTROLLER); err != nil {
		return fmt.Errorf("sdl: cannot init: %w", err)
	}
	defer sdl.Quit()

	f := &frontend{
		sh:     sh,
		opts:   opts,
		logger: opts.Logger,
		screen: core.NewScreen(opts.Width, opts.Height),
		pads:   make(map[sdl.JoystickID]*pad),
		cursor: true,
	}
	if err := f.open(); err != nil {
		return err
	}
	defer f.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stopped := make(chan error, 1)
	go func() {
		stopped <- sh.Run(ctx)
	}()

	f.sh.Push(events.Device{Kind: events.Connect, Class: events.ClassKeyboard})
	f.sh.Push(events.Device{Kind: events.Connect, Class: events.ClassMouse})

	var frameC <-chan time.Time
	if opts.FrameHz > 0 {
		t := time.NewTicker(time.Second / time.Duration(opts.FrameHz))
		defer t.Stop()
		frameC = t.C
	}

	for {
		for ev := sdl.WaitEventTimeout(5); ev != nil; ev = sdl.PollEvent() {
			if f.handle(ev) {
				f.sh.Push(events.Quit{})
			}
		}

		select {
		case err := <-stopped:
			return err
		case <-frameC:
			f.present()
		default:
		}
		if ctx.Err() != nil {
			return <-stopped
		}
	}
}

func (f *frontend) open() error {
	w := int32(f.opts.Width * f.opts.CellW)
	h := int32(f.opts.Height * f.opts.CellH)

	window, err := sdl.CreateWindow(f.opts.Title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, w, h, sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("sdl: cannot create window: %w", err)
	}
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		_ = window.Destroy()
		return fmt.Errorf("sdl: cannot create renderer: %w", err)
	}
	f.window = window
	f.renderer = renderer
	return nil
}

func (f *frontend) close() {
	for id := range f.pads {
		f.removePad(id)
	}
	if f.renderer != nil {
		_ = f.renderer.Destroy()
	}
	if f.window != nil {
		_ = f.window.Destroy()
	}
}

// handle translates one SDL event. It returns true when the window was
// asked to close.
func (f *frontend) handle(ev sdl.Event) bool {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		return true

	case *sdl.WindowEvent:
		f.handleWindow(e)

	case *sdl.KeyboardEvent:
		code := mapKey(e.Keysym.Sym)
		if e.Type == sdl.KEYDOWN {
			f.lastKey = code
		}
		f.sh.Push(events.Key{Code: code, Down: e.Type == sdl.KEYDOWN, Repeat: e.Repeat != 0})

	case *sdl.TextInputEvent:
		// Text arrives after its key down, as a repeat of that key.
		f.sh.Push(events.Key{Code: f.lastKey, Down: true, Text: e.GetText(), Repeat: true})

	case *sdl.MouseMotionEvent:
		x, y := cellAt(e.X, e.Y, f.opts.CellW, f.opts.CellH)
		kind := events.MouseMoved
		if e.State != 0 {
			kind = events.MouseDragged
		}
		rel := input.Vec2{X: float32(e.XRel), Y: float32(e.YRel)}
		if f.pinned {
			f.sh.Push(events.MouseMotion{Delta: rel})
			return false
		}
		f.sh.Push(events.MouseMove{Kind: kind, Position: input.Vec2{X: x, Y: y}, Over: true, Relative: rel})

	case *sdl.MouseButtonEvent:
		x, y := cellAt(e.X, e.Y, f.opts.CellW, f.opts.CellH)
		f.sh.Push(events.MouseClick{Button: mapMouseButton(e.Button), Down: e.Type == sdl.MOUSEBUTTONDOWN, Position: input.Vec2{X: x, Y: y}})

	case *sdl.MouseWheelEvent:
		f.sh.Push(events.MouseMove{Kind: events.MouseScrolled, Over: true, Scroll: input.Vec2{X: float32(e.X), Y: float32(e.Y)}})

	case *sdl.ControllerDeviceEvent:
		switch e.Type {
		case sdl.CONTROLLERDEVICEADDED:
			f.addPad(int(e.Which))
		case sdl.CONTROLLERDEVICEREMOVED:
			f.removePad(e.Which)
		}

	case *sdl.ControllerButtonEvent:
		if p, ok := f.pads[e.Which]; ok {
			f.padButton(p, sdl.GameControllerButton(e.Button), e.State == sdl.PRESSED)
		}

	case *sdl.ControllerAxisEvent:
		if p, ok := f.pads[e.Which]; ok {
			f.padAxis(p, sdl.GameControllerAxis(e.Axis), e.Value)
		}
	}
	return false
}

func (f *frontend) handleWindow(e *sdl.WindowEvent) {
	switch e.Event {
	case sdl.WINDOWEVENT_FOCUS_GAINED:
		f.sh.Push(events.Device{Kind: events.BecomeCurrent, Class: events.ClassKeyboard})
	case sdl.WINDOWEVENT_FOCUS_LOST:
		f.sh.Push(events.Device{Kind: events.StopBeingCurrent, Class: events.ClassKeyboard})
	case sdl.WINDOWEVENT_LEAVE:
		f.sh.Push(events.MouseMove{Kind: events.MouseMoved, Over: false})
	case sdl.WINDOWEVENT_EXPOSED:
		f.present()
	}
}

func (f *frontend) addPad(index int) {
	ctrl := sdl.GameControllerOpen(index)
	if ctrl == nil {
		f.logger.Warn("Cannot open game controller", "index", index, "err", sdl.GetError())
		return
	}
	jid := ctrl.Joystick().InstanceID()
	if _, ok := f.pads[jid]; ok {
		return
	}

	p := &pad{ctrl: ctrl, id: events.DeviceID(jid)}
	f.pads[jid] = p
	f.logger.Info("Game controller connected", "name", ctrl.Name(), "id", jid)
	f.sh.Push(events.Device{
		Kind:       events.Connect,
		Class:      events.ClassGamepad,
		DeviceID:   p.id,
		Capability: events.FullGamepad,
		Name:       ctrl.Name(),
	})
}

func (f *frontend) removePad(jid sdl.JoystickID) {
	p, ok := f.pads[jid]
	if !ok {
		return
	}
	delete(f.pads, jid)
	f.logger.Info("Game controller disconnected", "id", jid)
	f.sh.Push(events.Device{Kind: events.Disconnect, Class: events.ClassGamepad, DeviceID: p.id})
	p.ctrl.Close()
}

func (f *frontend) padButton(p *pad, b sdl.GameControllerButton, down bool) {
	switch b {
	case sdl.CONTROLLER_BUTTON_DPAD_UP:
		p.dpad.up = down
	case sdl.CONTROLLER_BUTTON_DPAD_DOWN:
		p.dpad.down = down
	case sdl.CONTROLLER_BUTTON_DPAD_LEFT:
		p.dpad.left = down
	case sdl.CONTROLLER_BUTTON_DPAD_RIGHT:
		p.dpad.right = down
	default:
		if pb, ok := padButtons[b]; ok {
			f.sh.Push(events.GamepadButtonEvent{DeviceID: p.id, Button: pb, Down: down})
		}
		return
	}
	x, y := p.dpad.vector()
	f.sh.Push(events.GamepadStick{DeviceID: p.id, Stick: events.StickDPad, X: x, Y: y})
}

func (f *frontend) padAxis(p *pad, a sdl.GameControllerAxis, value int16) {
	switch a {
	case sdl.CONTROLLER_AXIS_TRIGGERLEFT, sdl.CONTROLLER_AXIS_TRIGGERRIGHT:
		t := events.TriggerLeft
		if a == sdl.CONTROLLER_AXIS_TRIGGERRIGHT {
			t = events.TriggerRight
		}
		v := normTrigger(value)
		f.sh.Push(events.GamepadTrigger{DeviceID: p.id, Trigger: t, Value: v, Pressed: v > 0.5})
		return
	case sdl.CONTROLLER_AXIS_LEFTX:
		p.sticks[0][0] = normAxis(value)
	case sdl.CONTROLLER_AXIS_LEFTY:
		p.sticks[0][1] = -normAxis(value)
	case sdl.CONTROLLER_AXIS_RIGHTX:
		p.sticks[1][0] = normAxis(value)
	case sdl.CONTROLLER_AXIS_RIGHTY:
		p.sticks[1][1] = -normAxis(value)
	default:
		return
	}

	stick, i := events.StickLeft, 0
	if a == sdl.CONTROLLER_AXIS_RIGHTX || a == sdl.CONTROLLER_AXIS_RIGHTY {
		stick, i = events.StickRight, 1
	}
	f.sh.Push(events.GamepadStick{DeviceID: p.id, Stick: stick, X: p.sticks[i][0], Y: p.sticks[i][1], Analog: true})
}

// present draws the latest committed state and applies the core's
// presentation hints.
func (f *frontend) present() {
	timing := f.sh.Timing()
	timing.Interval(profiling.TimerFrameToFrame, profiling.IntervalFrameToFrame)
	timing.Start(profiling.TimerDraw)
	timing.Interval(profiling.TimerDraw, profiling.IntervalDrawBefore)

	f.sh.Draw(f.screen)

	_ = f.renderer.SetDrawColor(0, 0, 0, 255)
	_ = f.renderer.Clear()
	for y := range f.screen.Height() {
		for x := range f.screen.Width() {
			cell := f.screen.GetCell(x, y)
			if cell.Rune == ' ' || cell.Rune == 0 {
				continue
			}
			c := rgb(cell.Color)
			_ = f.renderer.SetDrawColor(c[0], c[1], c[2], 255)
			_ = f.renderer.FillRect(&sdl.Rect{
				X: int32(x * f.opts.CellW),
				Y: int32(y * f.opts.CellH),
				W: int32(f.opts.CellW - 1),
				H: int32(f.opts.CellH - 1),
			})
		}
	}
	f.renderer.Present()
	timing.Interval(profiling.TimerDraw, profiling.IntervalDrawPresent)

	f.applyOutput(f.sh.Output())
}

func (f *frontend) applyOutput(out core.Output) {
	if out.NeedTextInput != f.text {
		f.text = out.NeedTextInput
		if f.text {
			sdl.StartTextInput()
		} else {
			sdl.StopTextInput()
		}
	}
	if out.ShouldShowSystemCursor != f.cursor {
		f.cursor = out.ShouldShowSystemCursor
		toggle := sdl.DISABLE
		if f.cursor {
			toggle = sdl.ENABLE
		}
		_, _ = sdl.ShowCursor(toggle)
	}
	if out.ShouldPinMouse != f.pinned {
		f.pinned = out.ShouldPinMouse
		sdl.SetRelativeMouseMode(f.pinned)
	}

	for _, p := range f.pads {
		slot := f.sh.Aggregator().SlotOf(p.id)
		if slot <= input.KeyboardMouseSlot {
			continue
		}
		r := out.Rumble[slot]
		if r.Low == 0 && r.High == 0 {
			continue
		}
		if err := p.ctrl.Rumble(rumbleLevel(r.Low), rumbleLevel(r.High), 100); err != nil {
			f.logger.Debug("Rumble failed", "id", p.id, "err", err)
		}
	}
}
