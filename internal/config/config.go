// Package config loads and validates archmap's per-project configuration
// from .archmap/config.json. The engine never reads settings from ambient
// state; callers load a Config once and inject it.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DotDir is the per-project directory holding config, cache, and history.
const DotDir = ".archmap"

// Config represents the complete archmap configuration (v1 schema)
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Scan    ScanConfig    `json:"scan" mapstructure:"scan"`
	Extract ExtractConfig `json:"extract" mapstructure:"extract"`
	Cache   CacheConfig   `json:"cache" mapstructure:"cache"`
	History HistoryConfig `json:"history" mapstructure:"history"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// ScanConfig bounds the filesystem walk.
type ScanConfig struct {
	// Extensions are file-name suffixes to include; longest match wins, so
	// .blade.php files are classified as blade templates even though they
	// also end in .php.
	Extensions []string `json:"extensions" mapstructure:"extensions"`
	// ExcludedDirs are directory names pruned before descent.
	ExcludedDirs       []string `json:"excludedDirs" mapstructure:"excludedDirs"`
	MaxFiles           int      `json:"maxFiles" mapstructure:"maxFiles"`
	MaxFileSizeBytes   int64    `json:"maxFileSizeBytes" mapstructure:"maxFileSizeBytes"`
	MaxDurationSeconds int      `json:"maxDurationSeconds" mapstructure:"maxDurationSeconds"`
}

// ExtractConfig tunes dependency extraction.
type ExtractConfig struct {
	// NamespaceRoots maps root namespaces to project directories, e.g.
	// App -> app, so `use App\Models\User` resolves to app/Models/User.php.
	NamespaceRoots map[string]string `json:"namespaceRoots" mapstructure:"namespaceRoots"`
	// PatternsFile optionally points at a TOML file of extra extraction
	// rules, relative to the project root.
	PatternsFile string `json:"patternsFile" mapstructure:"patternsFile"`
}

// CacheConfig tunes the disk context cache.
type CacheConfig struct {
	// Directory holds cache entries; relative paths are resolved against
	// the project root. Empty means .archmap/cache.
	Directory  string `json:"directory" mapstructure:"directory"`
	TTLSeconds int    `json:"ttlSeconds" mapstructure:"ttlSeconds"`
	MaxEntries int    `json:"maxEntries" mapstructure:"maxEntries"`
}

// HistoryConfig controls the build history database.
type HistoryConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Scan: ScanConfig{
			Extensions: []string{".php", ".js", ".py", ".blade.php", ".vue"},
			// DotDir is excluded so the engine never scans its own cache
			// and history files.
			ExcludedDirs: []string{
				".git", DotDir, "node_modules", "vendor", "storage",
				"cache", "logs", "tmp", ".idea", "build", "dist",
			},
			MaxFiles:           1000,
			MaxFileSizeBytes:   1024 * 1024,
			MaxDurationSeconds: 30,
		},
		Extract: ExtractConfig{
			NamespaceRoots: map[string]string{
				"App":      "app",
				"Tests":    "tests",
				"Database": "database",
			},
			PatternsFile: "",
		},
		Cache: CacheConfig{
			Directory:  "",
			TTLSeconds: 1800,
			MaxEntries: 100,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .archmap/config.json
func LoadConfig(projectRoot string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, DotDir))

	if err := v.ReadInConfig(); err != nil {
		// Missing config is the common case; run on defaults.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	// Start from defaults so a sparse config file keeps sane budgets.
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to .archmap/config.json
func (c *Config) Save(projectRoot string) error {
	dir := filepath.Join(projectRoot, DotDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if len(c.Scan.Extensions) == 0 {
		return &ConfigError{Field: "scan.extensions", Message: "at least one extension is required"}
	}
	if c.Scan.MaxFiles <= 0 {
		return &ConfigError{Field: "scan.maxFiles", Message: "must be positive"}
	}
	if c.Scan.MaxFileSizeBytes <= 0 {
		return &ConfigError{Field: "scan.maxFileSizeBytes", Message: "must be positive"}
	}
	if c.Scan.MaxDurationSeconds <= 0 {
		return &ConfigError{Field: "scan.maxDurationSeconds", Message: "must be positive"}
	}
	if c.Cache.TTLSeconds <= 0 {
		return &ConfigError{Field: "cache.ttlSeconds", Message: "must be positive"}
	}
	if c.Cache.MaxEntries <= 0 {
		return &ConfigError{Field: "cache.maxEntries", Message: "must be positive"}
	}
	return nil
}

// CacheDir resolves the cache directory for a project root.
func (c *Config) CacheDir(projectRoot string) string {
	dir := c.Cache.Directory
	if dir == "" {
		return filepath.Join(projectRoot, DotDir, "cache")
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(projectRoot, dir)
}

// HistoryDBPath resolves the build history database path for a project root.
func HistoryDBPath(projectRoot string) string {
	return filepath.Join(projectRoot, DotDir, "archmap.db")
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
