package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gameshell/internal/platform/tui"
	"github.com/vovakirdan/gameshell/internal/storage"
)

var (
	flagTimingsPlain bool
	flagTimingsClear bool
	flagTimingsLimit int
)

var timingsCmd = &cobra.Command{
	Use:   "timings [core]",
	Short: "Browse stored timing reports",
	Long: `Browse the timing reports stored while cores ran.

Every run records its core, frontend and tick count. Periodic reports add
per-interval sample counts and mean, minimum and maximum durations, plus
counters such as dropped text bytes or untracked device events.

Examples:
  gameshell timings               # Interactive board
  gameshell timings pong --plain  # Print the latest pong runs
  gameshell timings --clear       # Delete all stored runs`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTimings,
}

func init() {
	timingsCmd.Flags().BoolVar(&flagTimingsPlain, "plain", false, "Print runs instead of opening the board")
	timingsCmd.Flags().BoolVar(&flagTimingsClear, "clear", false, "Delete all stored runs")
	timingsCmd.Flags().IntVar(&flagTimingsLimit, "limit", 10, "Number of runs to print with --plain")
}

func runTimings(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if settings.Profiling.DBPath == "" {
		return errors.New("no timings database configured (set profiling.db_path or --db)")
	}

	store, err := storage.Open(settings.Profiling.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagTimingsClear {
		if err := store.ClearRuns(); err != nil {
			return err
		}
		fmt.Println("Stored runs deleted.")
		return nil
	}

	coreID := ""
	if len(args) == 1 {
		coreID = args[0]
	}
	if flagTimingsPlain {
		return printTimings(store, coreID, flagTimingsLimit)
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}
	return tui.RunTimings(store, width, height)
}

// printTimings writes the latest runs of a core with their interval summaries.
func printTimings(store *storage.Store, coreID string, limit int) error {
	runs, err := store.RecentRuns(coreID, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'gameshell run <core>' to record the first one.")
		return nil
	}

	for _, run := range runs {
		fmt.Printf("%s  %s via %s  %d ticks  %s\n",
			run.RunID, run.CoreID, run.Frontend, run.Ticks, run.StartedAt.Format("2006-01-02 15:04"))

		intervals, err := store.Intervals(run.RunID)
		if err != nil {
			return err
		}
		for _, iv := range intervals {
			fmt.Printf("  %-28s %8d  mean %10s  min %10s  max %10s\n",
				iv.Name, iv.Count, iv.Mean, iv.Min, iv.Max)
		}

		counters, err := store.Counters(run.RunID)
		if err != nil {
			return err
		}
		for _, c := range counters {
			fmt.Printf("  %-28s %8d\n", c.Name, c.Total)
		}
		fmt.Println()
	}
	return nil
}
