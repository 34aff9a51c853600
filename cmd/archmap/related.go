package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"archmap/internal/impact"
)

var (
	relatedDepth int
)

var relatedCmd = &cobra.Command{
	Use:   "related <file>",
	Short: "List files related to a file",
	Long: `List every file within a fixed number of dependency hops of the given
file, following relationships in both directions.

Examples:
  archmap related app/Models/User.php
  archmap related app/Models/User.php --depth=3
  archmap related app/Models/User.php --format=json`,
	Args: cobra.ExactArgs(1),
	Run:  runRelated,
}

func init() {
	relatedCmd.Flags().IntVar(&relatedDepth, "depth", impact.DefaultDepth, "Maximum traversal depth in hops")
	rootCmd.AddCommand(relatedCmd)
}

func runRelated(cmd *cobra.Command, args []string) {
	start := time.Now()
	projectRoot := mustGetProjectRoot()
	logger := newLogger(projectRoot)
	composer := mustGetBuiltComposer(projectRoot, logger)
	path := requireIndexedFile(composer, projectRoot, args[0])

	depth := relatedDepth
	if depth <= 0 {
		depth = impact.DefaultDepth
	}

	files := composer.Analyzer().RelatedFiles(path, depth)
	roles := composer.Roles()

	related := make([]RelatedFileCLI, 0, len(files))
	for _, f := range files {
		related = append(related, RelatedFileCLI{Path: f, Role: string(roles[f])})
	}

	resp := &RelatedResponseCLI{
		File:    path,
		Depth:   depth,
		Total:   len(related),
		Related: related,
	}

	output, err := FormatResponse(resp, outputFormat())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)

	logger.Debug("Related query completed", map[string]interface{}{
		"file":     path,
		"count":    len(related),
		"duration": time.Since(start).Milliseconds(),
	})
}

// RelatedResponseCLI contains traversal results for CLI output
type RelatedResponseCLI struct {
	File    string           `json:"file"`
	Depth   int              `json:"depth"`
	Total   int              `json:"total"`
	Related []RelatedFileCLI `json:"related"`
}

// RelatedFileCLI is one file reached by the traversal
type RelatedFileCLI struct {
	Path string `json:"path"`
	Role string `json:"role"`
}
