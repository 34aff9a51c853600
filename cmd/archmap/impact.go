package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"archmap/internal/impact"
)

var (
	impactReport bool
)

var impactCmd = &cobra.Command{
	Use:   "impact <file>",
	Short: "Analyze change impact for a file",
	Long: `Analyze the potential impact of changing a file.

Provides:
  - Dependencies (files it imports, extends, or uses)
  - Dependents (files a change here will affect)
  - Risk level based on the dependent count
  - Suggested test files

Examples:
  archmap impact app/Models/User.php
  archmap impact app/Models/User.php --report
  archmap impact app/Models/User.php --format=json`,
	Args: cobra.ExactArgs(1),
	Run:  runImpact,
}

func init() {
	impactCmd.Flags().BoolVar(&impactReport, "report", false, "Render the full change impact report")
	rootCmd.AddCommand(impactCmd)
}

func runImpact(cmd *cobra.Command, args []string) {
	start := time.Now()
	projectRoot := mustGetProjectRoot()
	logger := newLogger(projectRoot)
	composer := mustGetBuiltComposer(projectRoot, logger)
	path := requireIndexedFile(composer, projectRoot, args[0])

	resp := &ImpactResponseCLI{
		File:    path,
		Summary: composer.Analyzer().Summary(path),
	}
	if impactReport {
		resp.Report = composer.Analyzer().ChangeImpactReport(path, composer.Patterns())
	} else {
		resp.Analysis = composer.ImpactAnalysis(path)
	}

	output, err := FormatResponse(resp, outputFormat())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)

	logger.Debug("Impact analysis completed", map[string]interface{}{
		"file":     path,
		"risk":     string(resp.Summary.Risk),
		"duration": time.Since(start).Milliseconds(),
	})
}

// ImpactResponseCLI contains impact analysis results for CLI output
type ImpactResponseCLI struct {
	File     string          `json:"file"`
	Summary  *impact.Summary `json:"summary,omitempty"`
	Analysis string          `json:"analysis,omitempty"`
	Report   string          `json:"report,omitempty"`
}
