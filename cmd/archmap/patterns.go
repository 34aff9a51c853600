package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"archmap/internal/arch"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Show detected architectural patterns and project structure",
	Long: `Show the architectural patterns derived from file roles (MVC, repository
layer, service layer) together with a structural analysis of the tree
(domain-driven design, modular layout, action classes, DTOs).

Examples:
  archmap patterns
  archmap patterns --format=json`,
	Run: runPatterns,
}

func init() {
	rootCmd.AddCommand(patternsCmd)
}

func runPatterns(cmd *cobra.Command, args []string) {
	start := time.Now()
	projectRoot := mustGetProjectRoot()
	logger := newLogger(projectRoot)
	composer := mustGetBuiltComposer(projectRoot, logger)

	report := arch.AnalyzeStructure(composer.Table(), newStructureLogger(projectRoot))

	resp := &PatternsResponseCLI{
		Patterns:  composer.Patterns(),
		Structure: report,
	}

	output, err := FormatResponse(resp, outputFormat())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)

	logger.Debug("Pattern analysis completed", map[string]interface{}{
		"patterns": len(resp.Patterns),
		"primary":  report.Primary,
		"duration": time.Since(start).Milliseconds(),
	})
}

// PatternsResponseCLI contains pattern detections for CLI output
type PatternsResponseCLI struct {
	Patterns  []arch.Pattern        `json:"patterns"`
	Structure *arch.StructureReport `json:"structure,omitempty"`
}
