package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"archmap/internal/errors"
	"archmap/internal/storage"
)

var (
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent builds",
	Long: `Show recent build runs from the history database, newest first.

Examples:
  archmap history
  archmap history -n 50
  archmap history --format=json`,
	Run: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Maximum builds to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	projectRoot := mustGetProjectRoot()
	logger := newLogger(projectRoot)

	history, err := storage.Open(projectRoot, logger)
	if err != nil {
		exitWithError(errors.Wrap(errors.HistoryUnavailable, "failed to open build history", err))
	}
	defer history.Close()

	builds, err := history.Recent(historyLimit)
	if err != nil {
		exitWithError(errors.Wrap(errors.HistoryUnavailable, "failed to read build history", err))
	}
	total, err := history.Count()
	if err != nil {
		total = len(builds)
	}

	resp := &HistoryResponseCLI{
		Total:  total,
		Builds: builds,
	}

	output, err := FormatResponse(resp, outputFormat())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)
}

// HistoryResponseCLI contains build history rows for CLI output
type HistoryResponseCLI struct {
	Total  int                   `json:"total"`
	Builds []storage.BuildRecord `json:"builds"`
}
