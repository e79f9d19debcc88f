// Package cache stores profile reports addressed by content fingerprint:
// an in-memory index over one JSON file per fingerprint on disk, with TTL
// eviction. The cache is a best-effort side channel; no operation's
// correctness depends on it, read errors convert to misses and write
// errors to a stored=false outcome.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"goprofile/domain/core"
	"goprofile/domain/profile"
	"goprofile/internal"
)

// DefaultTTL is how long an entry stays valid
const DefaultTTL = 24 * time.Hour

// SweepInterval is how often the background sweeper runs
const SweepInterval = time.Hour

// Entry is the on-disk format: one file per fingerprint
type Entry struct {
	Fingerprint string          `json:"fingerprint"`
	Timestamp   time.Time       `json:"timestamp"`
	Result      *profile.Report `json:"result"`
}

type indexEntry struct {
	path     string
	storedAt time.Time
}

// Store is the two-tier report cache
type Store struct {
	dir    string
	ttl    time.Duration
	logger *internal.Logger
	now    func() time.Time

	mu    sync.Mutex
	index map[core.Fingerprint]indexEntry
}

// New opens a cache rooted at dir, creating it on demand, and loads the
// index from entries already on disk. Files older than the TTL or that
// fail to parse are skipped.
func New(dir string, ttl time.Duration) (*Store, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	s := &Store{
		dir:    dir,
		ttl:    ttl,
		logger: internal.NewDefaultLogger("Cache"),
		now:    time.Now,
		index:  make(map[core.Fingerprint]indexEntry),
	}
	s.loadExisting()
	return s, nil
}

func (s *Store) loadExisting() {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Warn("cache directory scan failed: %v", err)
		return
	}

	loaded := 0
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dir, f.Name())
		info, err := f.Info()
		if err != nil {
			continue
		}
		if s.now().Sub(info.ModTime()) > s.ttl {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil || entry.Fingerprint == "" {
			s.logger.Warn("skipping unreadable cache file %s", f.Name())
			continue
		}

		s.index[core.Fingerprint(entry.Fingerprint)] = indexEntry{
			path:     path,
			storedAt: info.ModTime(),
		}
		loaded++
	}
	if loaded > 0 {
		s.logger.Info("loaded %d cached report(s) from %s", loaded, s.dir)
	}
}

// Lookup returns the cached report for fp when present and fresh. Expired,
// missing, or corrupt entries are deleted and reported as a miss; a hit
// refreshes the file's recency marker.
func (s *Store) Lookup(fp core.Fingerprint) (*profile.Report, bool) {
	s.mu.Lock()
	entry, ok := s.index[fp]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}

	if s.now().Sub(entry.storedAt) > s.ttl {
		s.evict(fp, entry.path)
		return nil, false
	}

	data, err := os.ReadFile(entry.path)
	if err != nil {
		s.logger.Warn("cache read failed for %s: %v", short(fp), err)
		s.evict(fp, entry.path)
		return nil, false
	}

	var stored Entry
	if err := json.Unmarshal(data, &stored); err != nil || stored.Result == nil {
		s.logger.Warn("cache entry %s is corrupt, evicting", short(fp))
		s.evict(fp, entry.path)
		return nil, false
	}

	// Touch the file so mtime tracks recency
	touch := s.now()
	if err := os.Chtimes(entry.path, touch, touch); err == nil {
		s.mu.Lock()
		if cur, ok := s.index[fp]; ok {
			cur.storedAt = touch
			s.index[fp] = cur
		}
		s.mu.Unlock()
	}

	return stored.Result, true
}

// Store writes the report under its fingerprint and indexes it. Returns
// false when the write fails; callers treat that as a non-fatal outcome.
func (s *Store) Store(fp core.Fingerprint, report *profile.Report) bool {
	entry := Entry{
		Fingerprint: fp.String(),
		Timestamp:   s.now(),
		Result:      report,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		s.logger.Error("cache serialization failed for %s: %v", short(fp), err)
		return false
	}

	path := filepath.Join(s.dir, fp.String()+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		s.logger.Error("cache write failed for %s: %v", short(fp), err)
		return false
	}

	s.mu.Lock()
	s.index[fp] = indexEntry{path: path, storedAt: entry.Timestamp}
	s.mu.Unlock()
	return true
}

// Len returns the number of indexed entries
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.index)
}

// Sweep evicts every expired entry and deletes its file
func (s *Store) Sweep() int {
	s.mu.Lock()
	expired := make(map[core.Fingerprint]string)
	for fp, entry := range s.index {
		if s.now().Sub(entry.storedAt) > s.ttl {
			expired[fp] = entry.path
		}
	}
	s.mu.Unlock()

	for fp, path := range expired {
		s.evict(fp, path)
	}
	if len(expired) > 0 {
		s.logger.Info("swept %d expired cache entr(ies)", len(expired))
	}
	return len(expired)
}

// StartSweeper runs Sweep on a fixed interval until done is closed
func (s *Store) StartSweeper(done <-chan struct{}, interval time.Duration) {
	if interval <= 0 {
		interval = SweepInterval
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-done:
				return
			}
		}
	}()
}

func (s *Store) evict(fp core.Fingerprint, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("cache delete failed for %s: %v", short(fp), err)
	}
	s.mu.Lock()
	delete(s.index, fp)
	s.mu.Unlock()
}

func short(fp core.Fingerprint) string {
	str := fp.String()
	if len(str) > 12 {
		return str[:12]
	}
	return str
}
