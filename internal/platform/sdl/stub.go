//go:build !sdl

package sdl

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gameshell/internal/audio"
	"github.com/vovakirdan/gameshell/internal/shell"
)

// Available reports whether the binary was built with SDL support.
func Available() bool {
	return false
}

// Options configure the SDL window.
type Options struct {
	Title   string
	FrameHz int
	Width   int
	Height  int
	CellW   int
	CellH   int
	Logger  *log.Logger
}

// Run returns ErrUnavailable.
func Run(context.Context, *shell.Shell, Options) error {
	return ErrUnavailable
}

// NewAudioDevice returns ErrUnavailable.
func NewAudioDevice(string) (audio.Device, error) {
	return nil, ErrUnavailable
}
