package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"archmap/internal/cache"
	"archmap/internal/compose"
	"archmap/internal/config"
	"archmap/internal/errors"
	"archmap/internal/logging"
	"archmap/internal/paths"
	"archmap/internal/slogutil"
)

var (
	composerOnce   sync.Once
	sharedComposer *compose.Composer
	sharedConfig   *config.Config
	sharedStore    *cache.Store
	composerErr    error
)

// getComposer returns a shared Composer instance.
// The composer is lazily initialized on first use.
func getComposer(projectRoot string, logger *logging.Logger) (*compose.Composer, error) {
	composerOnce.Do(func() {
		// Load configuration
		cfg, err := config.LoadConfig(projectRoot)
		if err != nil {
			logger.Warn("Failed to load config, using defaults", map[string]interface{}{
				"error": err.Error(),
			})
			cfg = config.DefaultConfig()
		}
		if err := cfg.Validate(); err != nil {
			composerErr = errors.Wrap(errors.ConfigInvalid, "invalid configuration", err).
				WithFixes(errors.GetSuggestedFixes(errors.ConfigInvalid)...)
			return
		}
		sharedConfig = cfg

		sharedStore = cache.NewStore(cfg.CacheDir(projectRoot), cfg.Cache.MaxEntries, logger)
		sharedComposer = compose.New(projectRoot, cfg, sharedStore, logger)
	})

	return sharedComposer, composerErr
}

// mustGetComposer returns the shared Composer or exits on error.
func mustGetComposer(projectRoot string, logger *logging.Logger) *compose.Composer {
	composer, err := getComposer(projectRoot, logger)
	if err != nil {
		exitWithError(err)
	}
	return composer
}

// mustGetBuiltComposer returns the shared Composer with a completed build,
// restored from the aggregate cache when the tree is unchanged.
func mustGetBuiltComposer(projectRoot string, logger *logging.Logger) *compose.Composer {
	composer := mustGetComposer(projectRoot, logger)
	composer.Build(compose.BuildOptions{})
	return composer
}

// mustGetStore returns the shared cache store, initializing the composer
// stack on first use.
func mustGetStore(projectRoot string, logger *logging.Logger) *cache.Store {
	mustGetComposer(projectRoot, logger)
	return sharedStore
}

// getProjectRoot returns the project root: the --project flag when set, the
// current working directory otherwise.
func getProjectRoot() (string, error) {
	if projectFlag == "" {
		return os.Getwd()
	}

	abs, err := filepath.Abs(projectFlag)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", errors.New(errors.ProjectNotFound,
			fmt.Sprintf("project root %s is not a directory", abs))
	}
	return abs, nil
}

// mustGetProjectRoot returns the project root or exits on error.
func mustGetProjectRoot() string {
	projectRoot, err := getProjectRoot()
	if err != nil {
		exitWithError(err)
	}
	return projectRoot
}

// newLogger creates the logger used by command implementations, with level
// and format resolved against the project's config file.
func newLogger(projectRoot string) *logging.Logger {
	cfg := loadConfigQuiet(projectRoot)
	return logging.NewLogger(logging.Config{
		Format: resolveLogFormat(cfg),
		Level:  resolveLogLevel(cfg),
	})
}

// newStructureLogger creates the slog logger handed to the structure
// analyzer, at the same level as the command logger.
func newStructureLogger(projectRoot string) *slog.Logger {
	level := resolveLogLevel(loadConfigQuiet(projectRoot))
	return slogutil.NewLogger(os.Stderr, slogutil.LevelFromString(string(level)))
}

// loadConfigQuiet reads the project config for settings needed before the
// main config load, ignoring errors.
func loadConfigQuiet(projectRoot string) *config.Config {
	cfg, err := config.LoadConfig(projectRoot)
	if err != nil {
		return nil
	}
	return cfg
}

// resolveFileArg converts a file argument to the project-relative form used
// as a file table key. Absolute paths are relativized against the project
// root; relative ones are cleaned and slash-normalized.
func resolveFileArg(projectRoot, arg string) string {
	if filepath.IsAbs(arg) {
		if canonical, err := paths.Canonicalize(arg, projectRoot); err == nil {
			return canonical
		}
	}
	return paths.Normalize(filepath.Clean(arg))
}

// requireIndexedFile resolves a file argument and exits when the file is not
// part of the current build.
func requireIndexedFile(composer *compose.Composer, projectRoot, arg string) string {
	path := resolveFileArg(projectRoot, arg)
	if _, ok := composer.Table()[path]; !ok {
		exitWithError(errors.New(errors.FileNotIndexed,
			fmt.Sprintf("file %s is not in the scanned file table", path)).
			WithFixes(errors.GetSuggestedFixes(errors.FileNotIndexed)...))
	}
	return path
}

// exitWithError prints an error to stderr and exits. Typed errors render
// their suggested fixes as runnable commands.
func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if e, ok := err.(*errors.Error); ok {
		for _, fix := range e.SuggestedFixes {
			if fix.Command != "" {
				fmt.Fprintf(os.Stderr, "  Try: %s\n", fix.Command)
			}
		}
	}
	os.Exit(1)
}
