package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gameshell/internal/audio"
	"github.com/vovakirdan/gameshell/internal/config"
	"github.com/vovakirdan/gameshell/internal/core"
	sdlfront "github.com/vovakirdan/gameshell/internal/platform/sdl"
	"github.com/vovakirdan/gameshell/internal/platform/tui"
	"github.com/vovakirdan/gameshell/internal/registry"
	"github.com/vovakirdan/gameshell/internal/shell"
	"github.com/vovakirdan/gameshell/internal/statsview"
	"github.com/vovakirdan/gameshell/internal/storage"
	"github.com/vovakirdan/gameshell/internal/viewer"
)

var (
	flagSDL  bool
	flagMenu bool
)

var runCmd = &cobra.Command{
	Use:   "run [core]",
	Short: "Run a core",
	Long: `Run a core in the terminal, or in an SDL window with --sdl.

Keyboard and mouse feed controller slot 0:
  W/A/S/D      - Left stick
  Arrows       - Left stick (or right stick with --arrows right_stick)
  1/2/3/4      - D-pad up/down/left/right
  Space/F/R/C  - A/B/X/Y
  LCtrl/LShift - Left/right shoulder
  Tab          - Right stick button
  Esc/Enter    - Back/Start
  Ctrl+C       - Quit
  Ctrl+S       - Save a screenshot of the screen
  F2           - Toggle the timing overlay

Gamepads take slots 1-4 in the SDL frontend.

Examples:
  gameshell run pong
  gameshell run --menu
  gameshell run inputview --sdl --device sdl
  gameshell run pong --capture ./pong.wav --tick-hz 60`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&flagSDL, "sdl", false, "Use the SDL frontend (build with -tags sdl)")
	runCmd.Flags().BoolVar(&flagMenu, "menu", false, "Pick the core from a menu")
}

func runRun(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	// The terminal frontend owns the terminal, so logs go to a file
	logOut := io.Writer(os.Stderr)
	if !flagSDL {
		f, path, ferr := openLogFile()
		if ferr != nil {
			logOut = io.Discard
		} else {
			defer f.Close()
			logOut = f
			fmt.Fprintf(os.Stderr, "Logging to %s\n", path)
		}
	}
	logger := newLogger(logOut, settings.Log.Level)
	logger.Debug("Settings loaded", "source", settings.Source)

	if flagSDL && !sdlfront.Available() {
		return sdlfront.ErrUnavailable
	}

	coreID := settings.Core
	if len(args) == 1 {
		coreID = args[0]
	}

	width, height := settings.Screen.Width, settings.Screen.Height
	if !flagSDL {
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := openStore(settings, logger)
	if store != nil {
		defer store.Close()
	}

	if flagMenu {
		return runMenu(ctx, settings, store, width, height, logger)
	}

	if !registry.Exists(coreID) {
		return fmt.Errorf("unknown core %q, run 'gameshell list' to see available cores", coreID)
	}
	return runCore(ctx, settings, store, coreID, width, height, logger)
}

// runMenu loops between the core picker, the timings board and runs.
func runMenu(ctx context.Context, settings config.Settings, store *storage.Store, width, height int, logger *log.Logger) error {
	for ctx.Err() == nil {
		res, err := tui.RunMenu(width, height)
		if err != nil {
			return err
		}
		if res.Quit {
			return nil
		}

		if res.WantsTimings {
			if store == nil {
				logger.Warn("Timings requested but no database is open")
				continue
			}
			if err := tui.RunTimings(store, width, height); err != nil {
				return err
			}
			continue
		}

		if err := runCore(ctx, settings, store, res.CoreID, width, height, logger); err != nil {
			return err
		}
	}
	return nil
}

// runCore runs one core until it quits or ctx is cancelled.
func runCore(ctx context.Context, settings config.Settings, store *storage.Store, coreID string, width, height int, logger *log.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var observer shell.Observer
	if addr := settings.Viewer.Addr; addr != "" {
		srv := viewer.NewServer(addr, logger.WithPrefix("viewer"))
		observer = srv.Observer()
		go func() {
			if err := srv.Run(ctx); err != nil {
				logger.Error("Viewer stopped", "err", err)
			}
		}()
		logger.Info("Controller viewer listening", "addr", addr)
	}

	if addr := settings.Profiling.StatsAddr; addr != "" {
		statsview.Launch(ctx, addr, logger.WithPrefix("stats"))
	}

	device, err := newAudioDevice(settings)
	if err != nil {
		return err
	}

	frontend := "tui"
	if flagSDL {
		frontend = "sdl"
	}
	sess, err := newSession(settings, sessionConfig{
		coreID:   coreID,
		frontend: frontend,
		runtime:  core.RuntimeConfig{ScreenW: width, ScreenH: height},
		device:   device,
		observer: observer,
		store:    store,
	}, logger)
	if err != nil {
		if device != nil {
			_ = device.Close()
		}
		return err
	}
	defer sess.finish()

	if flagSDL {
		err = sdlfront.Run(ctx, sess.shell, sdlfront.Options{
			Title:   sess.shell.Core().Title(),
			FrameHz: settings.Frame.TargetHz,
			Width:   width,
			Height:  height,
			Logger:  logger.WithPrefix("sdl"),
		})
	} else {
		err = tui.Run(ctx, sess.shell, tui.Options{
			FrameHz: settings.Frame.TargetHz,
			KeyHold: settings.KeyHold(),
			Width:   width,
			Height:  height,
			Logger:  logger.WithPrefix("tui"),
		})
	}

	var setupErr *audio.SetupError
	if errors.As(err, &setupErr) {
		return fmt.Errorf("cannot start audio (try --device none): %w", err)
	}
	return err
}
