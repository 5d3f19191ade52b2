//go:build !statsview

package statsview

import (
	"context"

	"github.com/charmbracelet/log"
)

// Available reports whether the stats server is compiled in.
func Available() bool {
	return false
}

// Launch does nothing without the statsview build tag.
func Launch(_ context.Context, _ string, logger *log.Logger) {
	logger.Warn("Stats server requested but not compiled in (build with -tags statsview)")
}
