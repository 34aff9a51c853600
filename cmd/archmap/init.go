package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"archmap/internal/config"
	"archmap/internal/errors"
)

var (
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize archmap configuration",
	Long:  "Creates a .archmap/ directory with default configuration in the project root",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Force reinitialization (removes the existing .archmap directory)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	projectRoot, err := getProjectRoot()
	if err != nil {
		return err
	}
	logger := newLogger(projectRoot)

	dotDir := filepath.Join(projectRoot, config.DotDir)
	if _, statErr := os.Stat(dotDir); statErr == nil {
		if !initForce {
			// Idempotent behavior: already initialized is success (CI-friendly)
			fmt.Println("archmap already initialized.")
			fmt.Printf("Configuration at: %s\n", filepath.Join(dotDir, "config.json"))
			fmt.Println("\nRun 'archmap init --force' to reinitialize.")
			return nil
		}
		if removeErr := os.RemoveAll(dotDir); removeErr != nil {
			return errors.Wrap(errors.InternalError, "failed to remove existing .archmap directory", removeErr)
		}
		logger.Info("Removed existing .archmap directory", nil)
	}

	cfg := config.DefaultConfig()
	if saveErr := cfg.Save(projectRoot); saveErr != nil {
		return errors.Wrap(errors.InternalError, "failed to write config file", saveErr)
	}

	logger.Info("archmap initialized", map[string]interface{}{
		"config_path": filepath.Join(dotDir, "config.json"),
	})

	fmt.Println("archmap initialized.")
	fmt.Printf("Configuration written to: %s\n", filepath.Join(dotDir, "config.json"))
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Run 'archmap build' to scan the project")
	fmt.Println("  2. Run 'archmap patterns' to see the detected architecture")

	return nil
}
