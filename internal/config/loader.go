package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. GAMESHELL_TICK_TARGET_HZ.
const EnvPrefix = "GAMESHELL"

// Options control where Load looks for settings.
type Options struct {
	// Path is an explicit config file. When set, failing to read it is an error.
	Path string
	// Flags are bound on top of file and environment values. May be nil.
	Flags *pflag.FlagSet
}

// flagKeys maps command line flag names to setting keys.
var flagKeys = map[string]string{
	"core":          "core",
	"tick-hz":       "tick.target_hz",
	"frame-hz":      "frame.target_hz",
	"seed":          "tick.seed",
	"press-mode":    "input.press_mode",
	"analog-policy": "input.analog_policy",
	"arrows":        "input.arrow_keys",
	"device":        "audio.device",
	"capture":       "audio.capture_path",
	"db":            "profiling.db_path",
	"stats":         "profiling.stats_addr",
	"viewer":        "viewer.addr",
	"ssh":           "serve.addr",
	"host-key":      "serve.host_key_path",
	"log-level":     "log.level",
}

// Load builds the effective settings.
// Search order: opts.Path -> ~/.gameshell/config.yaml -> ./configs/gameshell.yaml -> embedded default,
// then GAMESHELL_* environment variables, then flags that were set.
func Load(opts Options) (Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Embedded defaults are the base layer
	if err := v.ReadConfig(bytes.NewReader(defaultYAML)); err != nil {
		return DefaultSettings(), fmt.Errorf("config: cannot parse embedded defaults: %w", err)
	}
	source := "embedded"

	if opts.Path != "" {
		v.SetConfigFile(opts.Path)
		if err := v.MergeInConfig(); err != nil {
			return Settings{}, fmt.Errorf("config: cannot read %s: %w", opts.Path, err)
		}
		source = opts.Path
	} else {
		// First readable file wins; broken files are skipped
		for _, p := range searchPaths() {
			if _, err := os.Stat(p); err != nil {
				continue
			}
			v.SetConfigFile(p)
			if err := v.MergeInConfig(); err == nil {
				source = p
				break
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Settings{}, fmt.Errorf("config: cannot bind flag %s: %w", name, err)
				}
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("config: cannot decode settings: %w", err)
	}
	s.Source = source

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// searchPaths lists the implicit config file locations in priority order.
func searchPaths() []string {
	var paths []string
	if p := userConfigPath("config.yaml"); p != "" {
		paths = append(paths, p)
	}
	return append(paths, filepath.Join("configs", "gameshell.yaml"))
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gameshell", filename)
}
