// Package cache implements archmap's disk context cache: one zstd-compressed
// payload file per entry plus a single JSON index of entry metadata. Entries
// are keyed by a hash of (scope key, relative path, content hash), so any
// content change is an automatic miss. The cache is strictly a performance
// layer; every I/O failure inside it degrades to a miss or a no-op.
//
// The index is read and rewritten whole on each mutation with no file
// locking. Two processes mutating the same cache directory can lose each
// other's index updates (last writer wins); a lost update only costs a
// future cache miss. An in-process mutex keeps a single Store safe for
// concurrent use.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"archmap/internal/logging"
)

const indexFile = "index.json"

// indexEntry is the metadata tracked per cache entry.
type indexEntry struct {
	ScopeKey     string `json:"scopeKey"`
	RelativePath string `json:"relativePath"`
	Timestamp    int64  `json:"timestamp"` // unix nanoseconds at Set time
	TTLSeconds   int    `json:"ttl"`
	ApproxSize   int64  `json:"approxSize"` // uncompressed payload bytes
}

// Stats reports cache effectiveness for the current process.
type Stats struct {
	Hits       int   `json:"hits"`
	Misses     int   `json:"misses"`
	Entries    int   `json:"entries"`
	ApproxSize int64 `json:"approxSizeBytes"`
}

// Store is a content-hash-keyed disk cache with TTL expiry and
// oldest-first eviction.
type Store struct {
	dir        string
	maxEntries int
	logger     *logging.Logger

	mu     sync.Mutex
	index  map[string]indexEntry
	hits   int
	misses int

	enc *zstd.Encoder
	dec *zstd.Decoder

	now func() time.Time
}

// NewStore opens (or creates) a cache directory. It never fails: a cache
// that cannot reach its directory simply misses on every lookup.
func NewStore(dir string, maxEntries int, logger *logging.Logger) *Store {
	s := &Store{
		dir:        dir,
		maxEntries: maxEntries,
		logger:     logger,
		index:      make(map[string]indexEntry),
		now:        time.Now,
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Warn("cache directory unavailable", map[string]interface{}{
			"dir": dir, "error": err.Error(),
		})
	}

	// Encoder/decoder construction only fails on invalid options.
	s.enc, _ = zstd.NewWriter(nil)
	s.dec, _ = zstd.NewReader(nil)

	s.loadIndex()
	return s
}

// Get returns the payload cached for (scopeKey, relativePath) if an entry
// exists for the current content and its TTL has not elapsed.
func (s *Store) Get(scopeKey, relativePath string, content []byte) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := entryKey(scopeKey, relativePath, content)
	entry, ok := s.index[key]
	if !ok {
		s.misses++
		return nil, false
	}

	age := s.now().UnixNano() - entry.Timestamp
	if age >= int64(entry.TTLSeconds)*int64(time.Second) {
		s.removeEntryLocked(key)
		s.persistIndexLocked()
		s.misses++
		return nil, false
	}

	data, err := os.ReadFile(s.entryPath(key))
	if err != nil {
		// Backing file lost or unreadable: drop the stale index row.
		s.removeEntryLocked(key)
		s.persistIndexLocked()
		s.misses++
		return nil, false
	}

	payload, err := s.decompress(data)
	if err != nil {
		s.logger.Debug("corrupt cache entry dropped", map[string]interface{}{
			"key": key, "error": err.Error(),
		})
		s.removeEntryLocked(key)
		s.persistIndexLocked()
		s.misses++
		return nil, false
	}

	s.hits++
	return payload, true
}

// Set stores payload for (scopeKey, relativePath, content), evicting the
// oldest entries first when the index is full. Failures are logged and
// swallowed.
func (s *Store) Set(scopeKey, relativePath string, content, payload []byte, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.index) >= s.maxEntries {
		s.evictOldestLocked()
	}

	key := entryKey(scopeKey, relativePath, content)
	compressed := s.enc.EncodeAll(payload, nil)

	if err := os.WriteFile(s.entryPath(key), compressed, 0644); err != nil {
		s.logger.Warn("cache write failed", map[string]interface{}{
			"key": key, "error": err.Error(),
		})
		return
	}

	s.index[key] = indexEntry{
		ScopeKey:     scopeKey,
		RelativePath: relativePath,
		Timestamp:    s.now().UnixNano(),
		TTLSeconds:   int(ttl / time.Second),
		ApproxSize:   int64(len(payload)),
	}
	s.persistIndexLocked()
}

// Clear removes all entries and their backing files.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for key := range s.index {
		if err := os.Remove(s.entryPath(key)); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	s.index = make(map[string]indexEntry)
	s.persistIndexLocked()
	return firstErr
}

// Stats returns hit/miss counters for this process and the current entry
// count and approximate payload bytes tracked by the index.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var size int64
	for _, e := range s.index {
		size += e.ApproxSize
	}
	return Stats{
		Hits:       s.hits,
		Misses:     s.misses,
		Entries:    len(s.index),
		ApproxSize: size,
	}
}

// evictOldestLocked removes the oldest 20% of entries (at least one) by
// timestamp, including their backing files.
func (s *Store) evictOldestLocked() {
	count := len(s.index) / 5
	if count < 1 {
		count = 1
	}

	type aged struct {
		key string
		ts  int64
	}
	entries := make([]aged, 0, len(s.index))
	for key, e := range s.index {
		entries = append(entries, aged{key: key, ts: e.Timestamp})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ts < entries[j].ts })

	if count > len(entries) {
		count = len(entries)
	}
	for _, e := range entries[:count] {
		s.removeEntryLocked(e.key)
	}

	s.logger.Debug("cache eviction", map[string]interface{}{
		"evicted": count, "remaining": len(s.index),
	})
}

func (s *Store) removeEntryLocked(key string) {
	delete(s.index, key)
	if err := os.Remove(s.entryPath(key)); err != nil && !os.IsNotExist(err) {
		s.logger.Debug("cache file removal failed", map[string]interface{}{
			"key": key, "error": err.Error(),
		})
	}
}

func (s *Store) loadIndex() {
	data, err := os.ReadFile(filepath.Join(s.dir, indexFile))
	if err != nil {
		return
	}
	var idx map[string]indexEntry
	if err := json.Unmarshal(data, &idx); err != nil {
		s.logger.Warn("cache index corrupt, starting empty", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	s.index = idx
}

// persistIndexLocked rewrites the whole index. Written to a temp file and
// renamed so a crash mid-write leaves the previous index intact.
func (s *Store) persistIndexLocked() {
	data, err := json.Marshal(s.index)
	if err != nil {
		return
	}
	tmp := filepath.Join(s.dir, indexFile+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		s.logger.Debug("cache index write failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, indexFile)); err != nil {
		s.logger.Debug("cache index rename failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *Store) entryPath(key string) string {
	return filepath.Join(s.dir, key+".cache")
}

func (s *Store) decompress(data []byte) ([]byte, error) {
	return s.dec.DecodeAll(data, nil)
}

// entryKey derives the cache key from scope, path, and a digest of the
// current content.
func entryKey(scopeKey, relativePath string, content []byte) string {
	contentHash := sha256.Sum256(content)
	h := sha256.New()
	h.Write([]byte(scopeKey))
	h.Write([]byte(":"))
	h.Write([]byte(relativePath))
	h.Write([]byte(":"))
	h.Write([]byte(hex.EncodeToString(contentHash[:])))
	return hex.EncodeToString(h.Sum(nil))
}
