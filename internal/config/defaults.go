package config

import (
	_ "embed"
)

//go:embed defaults/gameshell.yaml
var defaultYAML []byte

// DefaultSettings returns the default shell configuration.
func DefaultSettings() Settings {
	return Settings{
		Core: "pong",
		Tick: TickSettings{
			TargetHz:  100,
			Scale:     1.0,
			TimeScale: 1.0,
		},
		Frame: FrameSettings{
			TargetHz: 60,
		},
		Screen: ScreenSettings{
			Width:  80,
			Height: 24,
		},
		Input: InputSettings{
			PressMode:     "dedup",
			AnalogPolicy:  "independent",
			StickDeadZone: 0.5,
			MouseDeadZone: 1.0,
			ArrowKeys:     "left_stick",
			KeyHoldMs:     120,
		},
		Audio: AudioSettings{
			SampleRate:      48000,
			FramesPerBuffer: 256,
			Channels:        2,
			BitsPerSample:   16,
			BufferCount:     5,
			Device:          "clock",
		},
		Profiling: ProfilingSettings{
			ReportIntervalSec: 5,
			Capacity:          100,
			DBPath:            "~/.gameshell/timings.db",
		},
		Serve: ServeSettings{
			Addr:        ":2222",
			HostKeyPath: ".ssh/gameshell_ed25519",
			IdleMinutes: 30,
		},
		Log: LogSettings{
			Level: "info",
		},
		Source: "embedded",
	}
}
