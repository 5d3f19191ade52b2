package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gameshell/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available cores",
	Long:  `Shows a list of all cores registered in the shell.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	cores := registry.List()

	if len(cores) == 0 {
		fmt.Println("No cores available.")
		return
	}

	fmt.Println("Available cores:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, c := range cores {
		maxIDLen = max(maxIDLen, len(c.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, c := range cores {
		fmt.Printf("  %-*s  %s\n", maxIDLen, c.ID, c.Title)
	}

	fmt.Println()
	fmt.Println("Run 'gameshell run <id>' to start a core.")
}
