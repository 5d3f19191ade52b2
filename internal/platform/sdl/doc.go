// Package sdl is the SDL2 frontend. It turns SDL keyboard, mouse, window
// and game controller events into shell events, paints the core's screen as
// coloured cells and plays audio through an SDL queue device.
//
// The package only does real work when built with the sdl tag; without it
// Available reports false and Run and NewAudioDevice return ErrUnavailable.
package sdl

import "errors"

// ErrUnavailable is returned when the binary was built without SDL support.
var ErrUnavailable = errors.New("sdl: built without sdl support (use -tags sdl)")
