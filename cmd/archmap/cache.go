package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"archmap/internal/errors"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the context cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Run:   runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cache entries",
	Run:   runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(cmd *cobra.Command, args []string) {
	projectRoot := mustGetProjectRoot()
	logger := newLogger(projectRoot)
	store := mustGetStore(projectRoot, logger)

	stats := store.Stats()
	resp := &CacheStatsResponseCLI{
		Dir:       sharedConfig.CacheDir(projectRoot),
		Entries:   stats.Entries,
		SizeBytes: stats.ApproxSize,
		Hits:      stats.Hits,
		Misses:    stats.Misses,
	}

	output, err := FormatResponse(resp, outputFormat())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)
}

func runCacheClear(cmd *cobra.Command, args []string) {
	projectRoot := mustGetProjectRoot()
	logger := newLogger(projectRoot)
	store := mustGetStore(projectRoot, logger)

	if err := store.Clear(); err != nil {
		exitWithError(errors.Wrap(errors.CacheUnavailable, "failed to clear cache", err))
	}

	fmt.Println("Cache cleared.")
}

// CacheStatsResponseCLI contains cache statistics for CLI output
type CacheStatsResponseCLI struct {
	Dir       string `json:"dir"`
	Entries   int    `json:"entries"`
	SizeBytes int64  `json:"approxSizeBytes"`
	Hits      int    `json:"hits"`
	Misses    int    `json:"misses"`
}
