package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the settings after layering the config file, GAMESHELL_*
environment variables and command line flags.

Config file search order:
  --config <path>
  ~/.gameshell/config.yaml
  ./configs/gameshell.yaml
  built-in defaults

Examples:
  gameshell config show
  GAMESHELL_TICK_TARGET_HZ=30 gameshell config show
  gameshell config show --press-mode raw`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	fmt.Printf("# source: %s\n", settings.Source)
	return settings.Show(os.Stdout)
}
