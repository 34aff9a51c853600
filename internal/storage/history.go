// Package storage persists the build history to a SQLite database under the
// project's .archmap directory. One row is appended per engine build; the
// history command reads them back newest first.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"archmap/internal/config"
	"archmap/internal/logging"
)

// defaultRecentLimit is how many rows Recent returns when the caller does
// not pick a limit.
const defaultRecentLimit = 10

// BuildRecord is one build's row in the history table.
type BuildRecord struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"startedAt"`
	DurationMS  int64     `json:"durationMs"`
	Files       int       `json:"files"`
	Edges       int       `json:"edges"`
	Patterns    int       `json:"patterns"`
	CacheHit    bool      `json:"cacheHit"`
	Truncated   bool      `json:"truncated"`
	ProjectKind string    `json:"projectKind"`
}

// History is a handle on the project's build history database.
type History struct {
	conn   *sql.DB
	logger *logging.Logger
	dbPath string
}

// Open opens or creates the history database at .archmap/archmap.db.
func Open(projectRoot string, logger *logging.Logger) (*History, error) {
	dotDir := filepath.Join(projectRoot, config.DotDir)
	if err := os.MkdirAll(dotDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", config.DotDir, err)
	}

	dbPath := config.HistoryDBPath(projectRoot)
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	h := &History{conn: conn, logger: logger, dbPath: dbPath}
	if err := h.initializeSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return h, nil
}

// Close closes the database connection.
func (h *History) Close() error {
	if h.conn != nil {
		return h.conn.Close()
	}
	return nil
}

func (h *History) initializeSchema() error {
	_, err := h.conn.Exec(`
		CREATE TABLE IF NOT EXISTS builds (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			files INTEGER NOT NULL,
			edges INTEGER NOT NULL,
			patterns INTEGER NOT NULL,
			cache_hit INTEGER NOT NULL,
			truncated INTEGER NOT NULL,
			project_kind TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create builds table: %w", err)
	}

	_, err = h.conn.Exec(
		"CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at)")
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}

// RecordBuild appends one build to the history. A zero ID gets a fresh UUID
// and a zero StartedAt gets the current time.
func (h *History) RecordBuild(rec BuildRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now().UTC()
	}

	_, err := h.conn.Exec(`
		INSERT INTO builds (id, started_at, duration_ms, files, edges, patterns, cache_hit, truncated, project_kind)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.DurationMS,
		rec.Files,
		rec.Edges,
		rec.Patterns,
		boolToInt(rec.CacheHit),
		boolToInt(rec.Truncated),
		rec.ProjectKind,
	)
	if err != nil {
		return fmt.Errorf("failed to record build: %w", err)
	}

	h.logger.Debug("build recorded", map[string]interface{}{
		"id":    rec.ID,
		"files": rec.Files,
	})
	return nil
}

// Recent returns the latest builds, newest first. A limit of zero or less
// falls back to defaultRecentLimit.
func (h *History) Recent(limit int) ([]BuildRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	rows, err := h.conn.Query(`
		SELECT id, started_at, duration_ms, files, edges, patterns, cache_hit, truncated, project_kind
		FROM builds
		ORDER BY started_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query builds: %w", err)
	}
	defer rows.Close()

	var records []BuildRecord
	for rows.Next() {
		var rec BuildRecord
		var startedAt string
		var cacheHit, truncated int
		if err := rows.Scan(&rec.ID, &startedAt, &rec.DurationMS, &rec.Files, &rec.Edges,
			&rec.Patterns, &cacheHit, &truncated, &rec.ProjectKind); err != nil {
			return nil, fmt.Errorf("failed to scan build row: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			// Rows written by hand or by other tools should not sink the
			// whole listing.
			h.logger.Warn("unparseable build timestamp", map[string]interface{}{
				"id":    rec.ID,
				"value": startedAt,
			})
			continue
		}
		rec.StartedAt = ts
		rec.CacheHit = cacheHit != 0
		rec.Truncated = truncated != 0
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read build rows: %w", err)
	}
	return records, nil
}

// Count returns the number of recorded builds.
func (h *History) Count() (int, error) {
	var n int
	if err := h.conn.QueryRow("SELECT COUNT(*) FROM builds").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count builds: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
