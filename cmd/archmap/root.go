package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"archmap/internal/config"
	"archmap/internal/logging"
	"archmap/internal/version"
)

var (
	// projectFlag is the CLI --project flag value
	projectFlag string
	// formatFlag is the CLI --format flag value
	formatFlag string
	// logLevelFlag is the CLI --log-level flag value
	logLevelFlag string
	// logFormatFlag is the CLI --log-format flag value
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "archmap",
	Short: "archmap - architectural context for project trees",
	Long: `archmap scans a project tree, extracts cross-file dependencies, and answers
architectural questions about the result: which role a file plays, which files
a change would reach, and which patterns the codebase follows.

All state lives under .archmap/ in the project root: configuration, the
context cache, and the build history.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("archmap version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&projectFlag, "project", "",
		"Project root (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "text",
		"Output format: text, json, or yaml")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: human or json")
}

// outputFormat returns the effective output format from the --format flag.
func outputFormat() OutputFormat {
	return OutputFormat(strings.ToLower(formatFlag))
}

// resolveLogLevel determines the effective log level.
// Precedence: CLI flag > ARCHMAP_LOG_LEVEL env var > config.json logging.level > info
func resolveLogLevel(cfg *config.Config) logging.LogLevel {
	if logLevelFlag != "" {
		return logging.LevelFromString(logLevelFlag)
	}
	if env := os.Getenv("ARCHMAP_LOG_LEVEL"); env != "" {
		return logging.LevelFromString(env)
	}
	if cfg != nil && cfg.Logging.Level != "" {
		return logging.LevelFromString(cfg.Logging.Level)
	}
	return logging.InfoLevel
}

// resolveLogFormat determines the effective log format.
// Precedence: CLI flag > ARCHMAP_LOG_FORMAT env var > config.json logging.format > human
func resolveLogFormat(cfg *config.Config) logging.Format {
	raw := logFormatFlag
	if raw == "" {
		raw = os.Getenv("ARCHMAP_LOG_FORMAT")
	}
	if raw == "" && cfg != nil {
		raw = cfg.Logging.Format
	}
	if strings.EqualFold(raw, "json") {
		return logging.JSONFormat
	}
	return logging.HumanFormat
}
