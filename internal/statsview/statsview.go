//go:build statsview

package statsview

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Available reports whether the stats server is compiled in.
func Available() bool {
	return true
}

// Launch starts the stats server in a goroutine and stops it when ctx is
// cancelled. An empty addr uses DefaultAddr.
func Launch(ctx context.Context, addr string, logger *log.Logger) {
	if addr == "" {
		addr = DefaultAddr
	}
	viewer.SetConfiguration(viewer.WithAddr(addr))
	mgr := statsview.New()

	go func() {
		if err := mgr.Start(); err != nil {
			logger.Debug("Stats server stopped", "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		mgr.Stop()
	}()

	logger.Info("Stats server available", "url", "http://"+addr+Path)
}
