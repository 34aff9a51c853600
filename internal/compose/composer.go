// Package compose orchestrates the engine: one Composer runs the
// scan → extract → graph → classify pipeline (or restores it from the
// aggregate cache) and answers context queries against the result.
//
// A Composer is not safe for concurrent use; create one per build. The
// cache layer underneath it may be shared.
package compose

import (
	"path/filepath"
	"time"

	"archmap/internal/arch"
	"archmap/internal/cache"
	"archmap/internal/config"
	"archmap/internal/extract"
	"archmap/internal/graph"
	"archmap/internal/impact"
	"archmap/internal/logging"
	"archmap/internal/scan"
)

// BuildOptions tunes one Build call.
type BuildOptions struct {
	// SkipCache forces a fresh scan even when a valid aggregate payload
	// exists.
	SkipCache bool
}

// BuildResult summarizes what a Build produced.
type BuildResult struct {
	Files      int            `json:"files"`
	Edges      int            `json:"edges"`
	Roles      map[string]int `json:"roles"`
	Patterns   []arch.Pattern `json:"patterns"`
	CacheHit   bool           `json:"cacheHit"`
	Truncated  bool           `json:"truncated"`
	DurationMS int64          `json:"durationMs"`
}

// Composer holds one project's configuration and the state of its latest
// build.
type Composer struct {
	root    string
	cfg     *config.Config
	store   *cache.Store
	logger  *logging.Logger
	scanner *scan.Scanner
	set     *extract.Set

	table    scan.FileTable
	graph    *graph.Graph
	roles    map[string]arch.Role
	patterns []arch.Pattern
	analyzer *impact.Analyzer
}

// New creates a Composer for the project at root. Custom extraction rules
// are read from the configured patterns file, defaulting to
// .archmap/patterns.toml.
func New(root string, cfg *config.Config, store *cache.Store, logger *logging.Logger) *Composer {
	patternsPath := filepath.Join(root, config.DotDir, extract.PatternsFileName)
	if cfg.Extract.PatternsFile != "" {
		patternsPath = cfg.Extract.PatternsFile
		if !filepath.IsAbs(patternsPath) {
			patternsPath = filepath.Join(root, patternsPath)
		}
	}

	return &Composer{
		root:    root,
		cfg:     cfg,
		store:   store,
		logger:  logger,
		scanner: scan.NewScanner(cfg.Scan, logger),
		set:     extract.NewSet(&cfg.Extract, patternsPath, logger),
	}
}

// Build produces the file table, dependency graph, roles and patterns for
// the project, consulting the aggregate cache first. It never fails: an
// inaccessible root yields an empty result.
func (c *Composer) Build(opts BuildOptions) *BuildResult {
	start := time.Now()

	fingerprint := c.scanner.Fingerprint(c.root)
	if !opts.SkipCache {
		if data, ok := c.store.Get(c.root, aggregateEntry, fingerprint); ok {
			if c.restore(data) {
				c.logger.Info("build restored from cache", map[string]interface{}{
					"files": len(c.table),
					"edges": c.graph.EdgeCount(),
				})
				return c.result(true, false, start)
			}
		}
	}

	table, info := c.scanner.Scan(c.root)
	g := graph.Build(table, c.set)
	roles := arch.ClassifyAll(table)
	for p, role := range roles {
		table[p].Role = string(role)
	}
	patterns := arch.DetectPatterns(roles)

	c.table = table
	c.graph = g
	c.roles = roles
	c.patterns = patterns
	c.analyzer = impact.New(table, g, roles)

	c.store.Set(c.root, aggregateEntry, fingerprint, c.marshalPayload(),
		time.Duration(c.cfg.Cache.TTLSeconds)*time.Second)

	c.logger.Info("build complete", map[string]interface{}{
		"files":     len(table),
		"edges":     g.EdgeCount(),
		"patterns":  len(patterns),
		"truncated": info.Truncated,
	})
	return c.result(false, info.Truncated, start)
}

func (c *Composer) result(cacheHit, truncated bool, start time.Time) *BuildResult {
	roleCounts := make(map[string]int)
	for _, role := range c.roles {
		roleCounts[string(role)]++
	}
	return &BuildResult{
		Files:      len(c.table),
		Edges:      c.graph.EdgeCount(),
		Roles:      roleCounts,
		Patterns:   c.patterns,
		CacheHit:   cacheHit,
		Truncated:  truncated,
		DurationMS: time.Since(start).Milliseconds(),
	}
}

// built reports whether a Build has populated the composer.
func (c *Composer) built() bool {
	return c.table != nil
}

// Table returns the current build's file table.
func (c *Composer) Table() scan.FileTable { return c.table }

// Graph returns the current build's dependency graph.
func (c *Composer) Graph() *graph.Graph { return c.graph }

// Roles returns the current build's role classification.
func (c *Composer) Roles() map[string]arch.Role { return c.roles }

// Patterns returns the current build's detected patterns.
func (c *Composer) Patterns() []arch.Pattern { return c.patterns }

// Analyzer returns the impact analyzer for the current build.
func (c *Composer) Analyzer() *impact.Analyzer { return c.analyzer }
