package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gameshell/internal/audio"
	"github.com/vovakirdan/gameshell/internal/core"
	"github.com/vovakirdan/gameshell/internal/platform/tui"
	"github.com/vovakirdan/gameshell/internal/registry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gameshell SSH server",
	Long: `Start an SSH server that runs one shell per connection.

Every session gets its own core instance sized to its terminal, driven by
the same input pipeline as a local run. Sessions play audio into a software
clock device, so audio timing is exercised without a sound card. Timing
reports from all sessions go to the shared database.

Host key handling:
  - --host-key is resolved against the home directory
  - A missing key is generated on first start

Examples:
  gameshell serve                       # Listen on the configured address
  gameshell serve --ssh :2222           # Listen on port 2222
  gameshell serve --core inputview      # Serve the input viewer

Users can connect with:
  ssh localhost -p 2222`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, settings.Log.Level)

	if !registry.Exists(settings.Core) {
		return fmt.Errorf("unknown core %q, run 'gameshell list' to see available cores", settings.Core)
	}

	store := openStore(settings, logger)
	if store != nil {
		defer store.Close()
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     settings.Serve.Addr,
		HostKeyPath: settings.Serve.HostKeyPath,
		IdleTimeout: time.Duration(settings.Serve.IdleMinutes) * time.Minute,
		FrameHz:     settings.Frame.TargetHz,
		KeyHold:     settings.KeyHold(),
		Logger:      logger.WithPrefix("ssh"),
		NewSession: func(rc core.RuntimeConfig, user string) (tui.Session, error) {
			sess, err := newSession(settings, sessionConfig{
				coreID:   settings.Core,
				frontend: "ssh",
				runtime:  rc,
				device:   audio.NewClockDevice(nil),
				store:    store,
			}, logger.With("user", user))
			if err != nil {
				return tui.Session{}, err
			}
			return tui.Session{Shell: sess.shell, Close: sess.finish}, nil
		},
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving %s, press Ctrl+C to stop\n", settings.Core)
	return server.Serve(ctx)
}
