package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gameshell/internal/audio"
	"github.com/vovakirdan/gameshell/internal/config"
	"github.com/vovakirdan/gameshell/internal/core"
	sdlfront "github.com/vovakirdan/gameshell/internal/platform/sdl"
	"github.com/vovakirdan/gameshell/internal/profiling"
	"github.com/vovakirdan/gameshell/internal/registry"
	"github.com/vovakirdan/gameshell/internal/shell"
	"github.com/vovakirdan/gameshell/internal/storage"
)

// session is one shell plus the bookkeeping around its run.
type session struct {
	shell  *shell.Shell
	store  *storage.Store
	runID  string
	logger *log.Logger
}

// sessionConfig is what a frontend contributes to a session.
type sessionConfig struct {
	coreID   string
	frontend string // Recorded with the run: tui, sdl or ssh
	runtime  core.RuntimeConfig
	device   audio.Device
	observer shell.Observer
	store    *storage.Store // nil disables persisted reports
}

// newSession creates a core and a shell around it and registers the run.
func newSession(settings config.Settings, sc sessionConfig, logger *log.Logger) (*session, error) {
	c, err := registry.Create(sc.coreID)
	if err != nil {
		return nil, err
	}

	if sc.runtime.Seed == 0 {
		sc.runtime.Seed = settings.Tick.Seed
	}
	if sc.runtime.Seed == 0 {
		sc.runtime.Seed = time.Now().UnixNano()
	}
	sc.runtime.TickRate = settings.Tick.TargetHz

	runID := fmt.Sprintf("%s-%s-%d", sc.frontend, sc.coreID, time.Now().UnixNano())
	opts := shell.Options{
		Core:       c,
		Runtime:    sc.runtime,
		Input:      settings.Aggregator(),
		TickHz:     settings.Tick.TargetHz,
		Audio:      settings.AudioFormat(),
		Device:     sc.device,
		Timing:     profiling.NewRegistry(settings.Profiling.Capacity, nil),
		Logger:     logger.WithPrefix(sc.coreID),
		Observer:   sc.observer,
		ReportEach: settings.ReportInterval(),
		RunID:      runID,
	}
	if sc.store != nil {
		opts.Reports = sc.store
	}

	sh, err := shell.New(opts)
	if err != nil {
		return nil, err
	}

	s := &session{shell: sh, runID: runID, logger: logger}
	if sc.store != nil {
		if _, err := sc.store.StartRun(runID, sc.coreID, sc.frontend); err != nil {
			logger.Warn("Cannot record run", "run", runID, "err", err)
		} else {
			s.store = sc.store
		}
	}
	return s, nil
}

// finish records how many ticks the run took.
func (s *session) finish() {
	if s.store == nil {
		return
	}
	if err := s.store.FinishRun(s.runID, s.shell.Ticks()); err != nil {
		s.logger.Warn("Cannot finish run", "run", s.runID, "err", err)
	}
}

// newAudioDevice builds the configured output device. A nil device runs
// the shell without audio.
func newAudioDevice(settings config.Settings) (audio.Device, error) {
	switch settings.Audio.Device {
	case "none":
		return nil, nil
	case "sdl":
		dev, err := sdlfront.NewAudioDevice("")
		if err != nil {
			return nil, err
		}
		return dev, nil
	case "", "clock":
		var sink audio.Sink
		if path := settings.Audio.CapturePath; path != "" {
			wav, err := audio.NewWAVSink(path, settings.AudioFormat())
			if err != nil {
				return nil, err
			}
			sink = wav
		}
		return audio.NewClockDevice(sink), nil
	default:
		return nil, fmt.Errorf("unknown audio device %q (expected clock, sdl or none)", settings.Audio.Device)
	}
}

// openStore opens the timings database. Failing to open it only disables
// persisted reports.
func openStore(settings config.Settings, logger *log.Logger) *storage.Store {
	if settings.Profiling.DBPath == "" {
		return nil
	}
	store, err := storage.Open(settings.Profiling.DBPath)
	if err != nil {
		logger.Warn("Cannot open timings database", "path", settings.Profiling.DBPath, "err", err)
		return nil
	}
	return store
}
