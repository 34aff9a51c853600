package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	contextBrief bool
)

var contextCmd = &cobra.Command{
	Use:   "context <file>",
	Short: "Show architectural context for a file",
	Long: `Show the architectural context block for a file: its role, the files
related to it, the patterns it participates in, the impact of changing it,
and snippets from its closest neighbors.

Examples:
  archmap context app/Http/Controllers/UserController.php
  archmap context app/Models/User.php --brief
  archmap context app/Models/User.php --format=json`,
	Args: cobra.ExactArgs(1),
	Run:  runContext,
}

func init() {
	contextCmd.Flags().BoolVar(&contextBrief, "brief", false, "Role, related files, and patterns only; no impact or snippets")
	rootCmd.AddCommand(contextCmd)
}

func runContext(cmd *cobra.Command, args []string) {
	start := time.Now()
	projectRoot := mustGetProjectRoot()
	logger := newLogger(projectRoot)
	composer := mustGetBuiltComposer(projectRoot, logger)
	path := requireIndexedFile(composer, projectRoot, args[0])

	context := composer.ComprehensiveContext(path)
	if contextBrief {
		context = composer.ArchitecturalContext(path)
	}

	resp := &ContextResponseCLI{
		File:    path,
		Role:    string(composer.Roles()[path]),
		Context: context,
	}

	output, err := FormatResponse(resp, outputFormat())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)

	logger.Debug("Context query completed", map[string]interface{}{
		"file":     path,
		"duration": time.Since(start).Milliseconds(),
	})
}

// ContextResponseCLI contains a file's context block for CLI output
type ContextResponseCLI struct {
	File    string `json:"file"`
	Role    string `json:"role"`
	Context string `json:"context"`
}
