package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"archmap/internal/arch"
	"archmap/internal/compose"
	"archmap/internal/logging"
	"archmap/internal/project"
	"archmap/internal/storage"
)

var (
	buildNoCache bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Scan the project and build its dependency graph",
	Long: `Scan the project tree, extract cross-file dependencies, and classify
architectural roles.

The result is cached under .archmap/cache and keyed to the tree's
fingerprint; an unchanged tree restores from cache instead of rescanning.

Examples:
  archmap build
  archmap build --no-cache
  archmap build --project=/path/to/app --format=json`,
	Run: runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&buildNoCache, "no-cache", false, "Force a fresh scan even when a cached build exists")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) {
	projectRoot := mustGetProjectRoot()
	logger := newLogger(projectRoot)
	composer := mustGetComposer(projectRoot, logger)

	result := composer.Build(compose.BuildOptions{SkipCache: buildNoCache})
	info := project.Detect(projectRoot, logger)
	recordBuild(projectRoot, logger, result, info)

	resp := &BuildResponseCLI{
		Project:    info.Name,
		Kind:       string(info.Kind),
		Files:      result.Files,
		Edges:      result.Edges,
		Roles:      result.Roles,
		Patterns:   result.Patterns,
		CacheHit:   result.CacheHit,
		Truncated:  result.Truncated,
		DurationMS: result.DurationMS,
	}

	output, err := FormatResponse(resp, outputFormat())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)
}

// BuildResponseCLI contains build results for CLI output
type BuildResponseCLI struct {
	Project    string         `json:"project"`
	Kind       string         `json:"kind"`
	Files      int            `json:"files"`
	Edges      int            `json:"edges"`
	Roles      map[string]int `json:"roles,omitempty"`
	Patterns   []arch.Pattern `json:"patterns,omitempty"`
	CacheHit   bool           `json:"cacheHit"`
	Truncated  bool           `json:"truncated"`
	DurationMS int64          `json:"durationMs"`
}

// recordBuild appends one row to the build history database when history is
// enabled. Failures log and never affect the build output.
func recordBuild(projectRoot string, logger *logging.Logger, result *compose.BuildResult, info *project.Info) {
	if sharedConfig == nil || !sharedConfig.History.Enabled {
		return
	}

	history, err := storage.Open(projectRoot, logger)
	if err != nil {
		logger.Warn("build history unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	defer history.Close()

	rec := storage.BuildRecord{
		DurationMS:  result.DurationMS,
		Files:       result.Files,
		Edges:       result.Edges,
		Patterns:    len(result.Patterns),
		CacheHit:    result.CacheHit,
		Truncated:   result.Truncated,
		ProjectKind: string(info.Kind),
	}
	if err := history.RecordBuild(rec); err != nil {
		logger.Warn("failed to record build history", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
