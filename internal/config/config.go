// Package config provides YAML-based shell configuration loading, layered
// with environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/gameshell/internal/aggregator"
	"github.com/vovakirdan/gameshell/internal/audio"
	"github.com/vovakirdan/gameshell/internal/input"
)

// FrameTargets are the presenter refresh rates that can be selected.
// Zero stops presenting.
var FrameTargets = []int{0, 5, 15, 60, 120}

// ErrInvalidSettings is returned by Validate.
var ErrInvalidSettings = errors.New("config: invalid settings")

// Settings contains all configuration for the shell.
type Settings struct {
	Core      string            `yaml:"core" mapstructure:"core"`
	Tick      TickSettings      `yaml:"tick" mapstructure:"tick"`
	Frame     FrameSettings     `yaml:"frame" mapstructure:"frame"`
	Screen    ScreenSettings    `yaml:"screen" mapstructure:"screen"`
	Input     InputSettings     `yaml:"input" mapstructure:"input"`
	Audio     AudioSettings     `yaml:"audio" mapstructure:"audio"`
	Profiling ProfilingSettings `yaml:"profiling" mapstructure:"profiling"`
	Viewer    ViewerSettings    `yaml:"viewer" mapstructure:"viewer"`
	Serve     ServeSettings     `yaml:"serve" mapstructure:"serve"`
	Log       LogSettings       `yaml:"log" mapstructure:"log"`

	// Source is the file the settings were read from, or "embedded".
	Source string `yaml:"-" mapstructure:"-"`
}

// TickSettings define the simulation clock.
type TickSettings struct {
	TargetHz  float64 `yaml:"target_hz" mapstructure:"target_hz"`
	Scale     float64 `yaml:"scale" mapstructure:"scale"`
	TimeScale float64 `yaml:"time_scale" mapstructure:"time_scale"`
	Seed      int64   `yaml:"seed" mapstructure:"seed"`
}

// FrameSettings define the presenter refresh rate.
type FrameSettings struct {
	TargetHz int `yaml:"target_hz" mapstructure:"target_hz"`
}

// ScreenSettings define the character grid handed to cores.
type ScreenSettings struct {
	Width  int `yaml:"width" mapstructure:"width"`
	Height int `yaml:"height" mapstructure:"height"`
}

// InputSettings control event aggregation.
type InputSettings struct {
	PressMode     string  `yaml:"press_mode" mapstructure:"press_mode"`
	AnalogPolicy  string  `yaml:"analog_policy" mapstructure:"analog_policy"`
	StickDeadZone float32 `yaml:"stick_dead_zone" mapstructure:"stick_dead_zone"`
	MouseDeadZone float32 `yaml:"mouse_dead_zone" mapstructure:"mouse_dead_zone"`
	ArrowKeys     string  `yaml:"arrow_keys" mapstructure:"arrow_keys"`
	KeyHoldMs     int     `yaml:"key_hold_ms" mapstructure:"key_hold_ms"`
}

// AudioSettings define the output format and where samples go.
type AudioSettings struct {
	SampleRate      float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	FramesPerBuffer uint32  `yaml:"frames_per_buffer" mapstructure:"frames_per_buffer"`
	Channels        uint32  `yaml:"channels" mapstructure:"channels"`
	BitsPerSample   uint32  `yaml:"bits_per_sample" mapstructure:"bits_per_sample"`
	BufferCount     int     `yaml:"buffer_count" mapstructure:"buffer_count"`
	Device          string  `yaml:"device" mapstructure:"device"`
	CapturePath     string  `yaml:"capture_path" mapstructure:"capture_path"`
}

// ProfilingSettings control timing reports.
type ProfilingSettings struct {
	ReportIntervalSec int    `yaml:"report_interval_sec" mapstructure:"report_interval_sec"`
	Capacity          int    `yaml:"capacity" mapstructure:"capacity"`
	DBPath            string `yaml:"db_path" mapstructure:"db_path"`
	StatsAddr         string `yaml:"stats_addr" mapstructure:"stats_addr"`
}

// ViewerSettings control the websocket controller viewer.
type ViewerSettings struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// ServeSettings control the SSH server.
type ServeSettings struct {
	Addr        string `yaml:"addr" mapstructure:"addr"`
	HostKeyPath string `yaml:"host_key_path" mapstructure:"host_key_path"`
	IdleMinutes int    `yaml:"idle_minutes" mapstructure:"idle_minutes"`
}

// LogSettings control the logger.
type LogSettings struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// Validate checks values that would make the shell misbehave.
// Time scales are deliberately not range checked.
func (s Settings) Validate() error {
	if s.Tick.TargetHz < 0 {
		return fmt.Errorf("%w: tick.target_hz must not be negative, got %g", ErrInvalidSettings, s.Tick.TargetHz)
	}
	if !slices.Contains(FrameTargets, s.Frame.TargetHz) {
		return fmt.Errorf("%w: frame.target_hz must be one of %v, got %d", ErrInvalidSettings, FrameTargets, s.Frame.TargetHz)
	}
	if s.Screen.Width <= 0 || s.Screen.Height <= 0 {
		return fmt.Errorf("%w: screen must be positive, got %dx%d", ErrInvalidSettings, s.Screen.Width, s.Screen.Height)
	}
	if err := s.AudioFormat().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	return nil
}

// Aggregator converts the input section to aggregator settings.
func (s Settings) Aggregator() aggregator.Settings {
	return aggregator.Settings{
		PressMode:     input.ParsePressMode(s.Input.PressMode),
		AnalogPolicy:  input.ParseAnalogPolicy(s.Input.AnalogPolicy),
		StickDeadZone: s.Input.StickDeadZone,
		MouseDeadZone: s.Input.MouseDeadZone,
		ArrowKeys:     aggregator.ParseArrowBinding(s.Input.ArrowKeys),
		TickScale:     s.Tick.Scale,
		TimeScale:     s.Tick.TimeScale,
	}
}

// AudioFormat converts the audio section to a buffer format.
func (s Settings) AudioFormat() audio.Format {
	return audio.Format{
		SampleRate:       s.Audio.SampleRate,
		FramesPerBuffer:  s.Audio.FramesPerBuffer,
		ChannelsPerFrame: s.Audio.Channels,
		BitsPerSample:    s.Audio.BitsPerSample,
		BufferCount:      s.Audio.BufferCount,
	}
}

// ReportInterval returns how often timing reports are taken.
// Zero disables reporting.
func (s Settings) ReportInterval() time.Duration {
	return time.Duration(s.Profiling.ReportIntervalSec) * time.Second
}

// KeyHold returns how long a terminal key counts as held without repeats.
func (s Settings) KeyHold() time.Duration {
	return time.Duration(s.Input.KeyHoldMs) * time.Millisecond
}

// Show writes the settings as YAML.
func (s Settings) Show(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("config: cannot encode settings: %w", err)
	}
	return enc.Close()
}
