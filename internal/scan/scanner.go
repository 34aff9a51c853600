// Package scan walks a project tree into an in-memory file table under
// explicit budgets: excluded directories are pruned before descent, files
// over the size cap are skipped, and a file-count cap plus a wall-clock
// deadline end the walk early with partial results. Budget exhaustion is
// never an error; an inaccessible root yields an empty table.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"archmap/internal/config"
	"archmap/internal/logging"
)

// FileRecord holds one scanned file. Records are owned by the file table
// for a single build; callers must not mutate them.
type FileRecord struct {
	// Path is project-relative with forward slashes.
	Path    string    `json:"path"`
	Content string    `json:"content"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
	// Ext is the longest configured suffix that matched, so a blade
	// template carries ".blade.php", not ".php".
	Ext string `json:"ext"`
	// Role is assigned by classification after the scan.
	Role string `json:"role"`
}

// FileTable maps project-relative paths to their records.
type FileTable map[string]*FileRecord

// Info reports what a scan did, including early-termination reasons.
type Info struct {
	Files             int
	SkippedLarge      int
	SkippedUnreadable int
	Truncated         bool
	Duration          time.Duration
}

// Scanner walks project trees under the budgets in its config.
type Scanner struct {
	cfg    config.ScanConfig
	logger *logging.Logger
}

// NewScanner creates a scanner with the given budgets.
func NewScanner(cfg config.ScanConfig, logger *logging.Logger) *Scanner {
	return &Scanner{cfg: cfg, logger: logger}
}

// Scan walks root and returns the file table plus scan statistics. All
// failure modes degrade: unreadable files are skipped, exhausted budgets
// truncate the result, and an unreadable root returns an empty table.
func (s *Scanner) Scan(root string) (FileTable, Info) {
	start := time.Now()
	deadline := start.Add(time.Duration(s.cfg.MaxDurationSeconds) * time.Second)

	table := make(FileTable)
	info := Info{}

	excluded := make(map[string]bool, len(s.cfg.ExcludedDirs))
	for _, d := range s.cfg.ExcludedDirs {
		excluded[d] = true
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d == nil {
				// The root itself could not be statted.
				return err
			}
			// Permission-denied subtrees are skipped, not fatal.
			if d.IsDir() {
				return fs.SkipDir
			}
			info.SkippedUnreadable++
			return nil
		}

		if d.IsDir() {
			if path != root && excluded[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}

		// Budgets are polled per file inside the walk loop.
		if time.Now().After(deadline) {
			info.Truncated = true
			return fs.SkipAll
		}

		ext, ok := MatchExtension(d.Name(), s.cfg.Extensions)
		if !ok {
			return nil
		}

		// Only a file that would have been admitted counts against the cap.
		if len(table) >= s.cfg.MaxFiles {
			info.Truncated = true
			return fs.SkipAll
		}

		fi, err := d.Info()
		if err != nil {
			info.SkippedUnreadable++
			return nil
		}
		if fi.Size() > s.cfg.MaxFileSizeBytes {
			info.SkippedLarge++
			s.logger.Debug("file over size cap skipped", map[string]interface{}{
				"path": path, "size": fi.Size(),
			})
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			info.SkippedUnreadable++
			s.logger.Debug("unreadable file skipped", map[string]interface{}{
				"path": path, "error": err.Error(),
			})
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		table[rel] = &FileRecord{
			Path:    rel,
			Content: string(content),
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
			Ext:     ext,
		}
		return nil
	})

	if err != nil {
		// WalkDir only returns the root stat error here; everything else
		// was swallowed above.
		s.logger.Warn("scan root inaccessible", map[string]interface{}{
			"root": root, "error": err.Error(),
		})
		return make(FileTable), Info{Duration: time.Since(start)}
	}

	info.Files = len(table)
	info.Duration = time.Since(start)

	s.logger.Info("scan complete", map[string]interface{}{
		"root":      root,
		"files":     info.Files,
		"truncated": info.Truncated,
		"ms":        info.Duration.Milliseconds(),
	})
	return table, info
}

// Fingerprint produces a stat-only digest input for the whole tree: one
// "path:size:mtime" line per includable file, sorted. It follows the same
// pruning and suffix rules as Scan but never reads file contents, so cache
// validation stays cheap.
func (s *Scanner) Fingerprint(root string) []byte {
	excluded := make(map[string]bool, len(s.cfg.ExcludedDirs))
	for _, d := range s.cfg.ExcludedDirs {
		excluded[d] = true
	}

	var lines []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && excluded[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if _, ok := MatchExtension(d.Name(), s.cfg.Extensions); !ok {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		lines = append(lines, fmt.Sprintf("%s:%d:%d", filepath.ToSlash(rel), fi.Size(), fi.ModTime().UnixNano()))
		return nil
	})

	sort.Strings(lines)
	return []byte(strings.Join(lines, "\n"))
}

// MatchExtension returns the longest configured suffix matching name.
func MatchExtension(name string, extensions []string) (string, bool) {
	best := ""
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) && len(ext) > len(best) {
			best = ext
		}
	}
	return best, best != ""
}
