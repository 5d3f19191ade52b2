// gameshell hosts game cores: it aggregates keyboard, mouse and gamepad
// input into per-tick snapshots, keeps the audio device fed and presents
// the core's screen in a terminal, an SDL window or over SSH.
//
// Usage:
//
//	gameshell list              - List available cores
//	gameshell run [core]        - Run a core (pong by default)
//	gameshell run --menu        - Pick a core interactively
//	gameshell serve             - Start SSH server for remote sessions
//	gameshell timings           - Browse stored timing reports
//	gameshell config show       - Print the effective configuration
//
// Global flags override the configuration file; see `gameshell config show`.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gameshell/internal/config"

	// Import cores to register them
	_ "github.com/vovakirdan/gameshell/internal/games/inputview"
	_ "github.com/vovakirdan/gameshell/internal/games/pong"
)

var flagConfig string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gameshell",
	Short: "gameshell - a platform shell for game cores",
	Long: `gameshell runs game cores behind a fixed boundary: once per tick a core
receives a complete input snapshot and a memory arena, and returns what the
frontend should do next. Audio is rendered from the same arena into a
continuously fed buffer pool.

Available commands:
  list     - Show all available cores
  run      - Run a core in the terminal or an SDL window
  serve    - Start SSH server for remote sessions
  timings  - Browse stored timing reports
  config   - Inspect configuration

Examples:
  gameshell list
  gameshell run pong
  gameshell run inputview --press-mode raw --viewer :8080
  gameshell serve --ssh :2222
  gameshell timings`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to a config YAML file")
	pf.String("core", "", "Core to run")
	pf.Float64("tick-hz", 0, "Tick rate (0 pauses the simulation)")
	pf.Int("frame-hz", 0, "Presenter refresh rate: 0, 5, 15, 60 or 120")
	pf.Int64("seed", 0, "RNG seed (0 = random based on time)")
	pf.String("press-mode", "", "Button press variant: dedup or raw")
	pf.String("analog-policy", "", "Stick threshold policy: independent or dominant")
	pf.String("arrows", "", "Stick driven by arrow keys: left_stick or right_stick")
	pf.String("device", "", "Audio device: clock, sdl or none")
	pf.String("capture", "", "Write played audio to this WAV file")
	pf.String("db", "", "Path to timings database")
	pf.String("stats", "", "Runtime stats server address (statsview build)")
	pf.String("viewer", "", "Websocket controller viewer address, e.g. :8080")
	pf.String("ssh", "", "SSH server address (host:port)")
	pf.String("host-key", "", "Path to SSH host key (relative to home)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(timingsCmd)
	rootCmd.AddCommand(configCmd)
}

// loadSettings reads the layered configuration with the command's flags on top.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	return config.Load(config.Options{Path: flagConfig, Flags: cmd.Flags()})
}

// newLogger creates the process logger at the configured level.
func newLogger(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "gameshell",
	})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	} else if level != "" {
		logger.Warn("Unknown log level, using info", "level", level)
	}
	return logger
}

// openLogFile opens ~/.gameshell/gameshell.log for appending. Terminal
// frontends own stdout and stderr, so they log there instead.
func openLogFile() (io.WriteCloser, string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("cannot get home directory: %w", err)
	}
	dir := filepath.Join(home, ".gameshell")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("cannot create %s: %w", dir, err)
	}
	path := filepath.Join(dir, "gameshell.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, "", fmt.Errorf("cannot open log file: %w", err)
	}
	return f, path, nil
}
