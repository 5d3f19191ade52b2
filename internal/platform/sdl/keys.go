//go:build sdl

package sdl

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/vovakirdan/gameshell/internal/events"
)

var keys = map[sdl.Keycode]events.KeyCode{
	sdl.K_w:         events.KeyW,
	sdl.K_a:         events.KeyA,
	sdl.K_s:         events.KeyS,
	sdl.K_d:         events.KeyD,
	sdl.K_f:         events.KeyF,
	sdl.K_r:         events.KeyR,
	sdl.K_c:         events.KeyC,
	sdl.K_q:         events.KeyQ,
	sdl.K_p:         events.KeyP,
	sdl.K_1:         events.Key1,
	sdl.K_2:         events.Key2,
	sdl.K_3:         events.Key3,
	sdl.K_4:         events.Key4,
	sdl.K_UP:        events.KeyUp,
	sdl.K_DOWN:      events.KeyDown,
	sdl.K_LEFT:      events.KeyLeft,
	sdl.K_RIGHT:     events.KeyRight,
	sdl.K_LCTRL:     events.KeyLeftControl,
	sdl.K_LSHIFT:    events.KeyLeftShift,
	sdl.K_SPACE:     events.KeySpace,
	sdl.K_TAB:       events.KeyTab,
	sdl.K_ESCAPE:    events.KeyEscape,
	sdl.K_RETURN:    events.KeyReturn,
	sdl.K_BACKSPACE: events.KeyBackspace,
}

// mapKey translates an SDL key to a shell key code.
func mapKey(k sdl.Keycode) events.KeyCode {
	if code, ok := keys[k]; ok {
		return code
	}
	return events.KeyUnknown
}

func mapMouseButton(b uint8) events.MouseButton {
	switch b {
	case sdl.BUTTON_LEFT:
		return events.MouseLeft
	case sdl.BUTTON_RIGHT:
		return events.MouseRight
	default:
		return events.MouseOther
	}
}

// padButtons maps controller buttons other than the d-pad.
var padButtons = map[sdl.GameControllerButton]events.GamepadButton{
	sdl.CONTROLLER_BUTTON_A:             events.PadA,
	sdl.CONTROLLER_BUTTON_B:             events.PadB,
	sdl.CONTROLLER_BUTTON_X:             events.PadX,
	sdl.CONTROLLER_BUTTON_Y:             events.PadY,
	sdl.CONTROLLER_BUTTON_LEFTSHOULDER:  events.PadShoulderLeft,
	sdl.CONTROLLER_BUTTON_RIGHTSHOULDER: events.PadShoulderRight,
	sdl.CONTROLLER_BUTTON_BACK:          events.PadOptions,
	sdl.CONTROLLER_BUTTON_START:         events.PadMenu,
	sdl.CONTROLLER_BUTTON_LEFTSTICK:     events.PadThumbLeft,
	sdl.CONTROLLER_BUTTON_RIGHTSTICK:    events.PadThumbRight,
}
