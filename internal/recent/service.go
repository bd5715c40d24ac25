// Package recent keeps the persisted most-recently-used list of
// library archives plus a metadata cache per path. It is independent
// of any loaded library: registering usage re-reads the manifest on
// its own and never touches an active loader session.
package recent

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/driftline/cratectl/internal/archive"
	"github.com/driftline/cratectl/internal/logging"
)

const (
	keyPaths = "recent.paths"
	keyMeta  = "recent.meta"

	// keyLegacyLast held a single path in older releases; it is
	// consumed once at startup and folded into the list.
	keyLegacyLast = "last_library_path"
)

// Entry is one recent library with its cached summary metadata.
type Entry struct {
	Path         string    `json:"path"`
	LibraryName  string    `json:"libraryName"`
	AssetCount   int       `json:"assetCount"`
	LastModified time.Time `json:"lastModified"`
	LastAccessed time.Time `json:"lastAccessed"`
}

// Service is the process-wide recent-library cache. Constructed once,
// it loads persisted state immediately and flushes on mutation; an
// explicit Save is only needed to force a flush.
type Service struct {
	log logging.Logger

	mu    sync.Mutex
	store *Store
	order []string         // MRU order, most recent first
	meta  map[string]Entry // path → cached metadata
	dirty bool
}

// NewService loads persisted state from store, migrating the legacy
// single-path key if present.
func NewService(store *Store, log logging.Logger) *Service {
	s := &Service{log: log, store: store, meta: map[string]Entry{}}

	if blob := store.Get(keyPaths); blob != "" {
		if err := json.Unmarshal([]byte(blob), &s.order); err != nil {
			log.Warn("discarding unreadable recent-library list: %v", err)
			s.order = nil
		}
	}
	if blob := store.Get(keyMeta); blob != "" {
		var entries []Entry
		if err := json.Unmarshal([]byte(blob), &entries); err != nil {
			log.Warn("discarding unreadable recent-library metadata: %v", err)
		} else {
			for _, e := range entries {
				s.meta[e.Path] = e
			}
		}
	}

	if legacy := store.Get(keyLegacyLast); legacy != "" {
		if !s.contains(legacy) {
			s.order = append([]string{legacy}, s.order...)
		}
		store.Delete(keyLegacyLast)
		s.dirty = true
		s.saveLocked()
	}
	return s
}

// Recent re-validates every stored path, dropping any that no longer
// resolves to a valid archive, then returns entries in MRU order.
// Paths without cached metadata get a minimal placeholder.
func (s *Service) Recent() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var surviving []string
	for _, p := range s.order {
		if archive.ValidateLibraryFile(p) != nil {
			delete(s.meta, p)
			s.dirty = true
			continue
		}
		surviving = append(surviving, p)
	}
	if len(surviving) != len(s.order) {
		s.order = surviving
		s.saveLocked()
	}

	out := make([]Entry, 0, len(s.order))
	for _, p := range s.order {
		e, ok := s.meta[p]
		if !ok {
			e = placeholder(p)
		}
		out = append(out, e)
	}
	return out
}

// RegisterUsage records that the library at path was opened: the path
// moves to the front of the MRU order and its metadata is refreshed
// by a read-only manifest fetch. Invalid paths are silently ignored.
func (s *Service) RegisterUsage(path string) {
	if archive.ValidateLibraryFile(path) != nil {
		return
	}

	e := placeholder(path)
	if m, err := archive.LoadManifest(path, s.log); err == nil {
		e.LibraryName = m.LibraryName
		e.AssetCount = len(m.Assets)
		e.LastModified = m.LastModifiedDate
	} else {
		s.log.Warn("could not refresh metadata for %s: %v", path, err)
	}
	e.LastAccessed = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(path)
	s.order = append([]string{path}, s.order...)
	s.meta[path] = e
	s.dirty = true
	s.saveLocked()
}

// Remove drops one path from the order and the metadata cache.
func (s *Service) Remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removeLocked(path) {
		s.dirty = true
		s.saveLocked()
	}
}

// ClearAll drops every entry.
func (s *Service) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order) == 0 && len(s.meta) == 0 {
		return
	}
	s.order = nil
	s.meta = map[string]Entry{}
	s.dirty = true
	s.saveLocked()
}

// Save flushes pending state if anything changed since the last save.
func (s *Service) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Service) saveLocked() error {
	if !s.dirty {
		return nil
	}
	paths, err := json.Marshal(s.order)
	if err != nil {
		return err
	}
	entries := make([]Entry, 0, len(s.meta))
	for _, p := range s.order {
		if e, ok := s.meta[p]; ok {
			entries = append(entries, e)
		}
	}
	metaBlob, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	s.store.Set(keyPaths, string(paths))
	s.store.Set(keyMeta, string(metaBlob))
	if err := s.store.Save(); err != nil {
		s.log.Error("persisting recent libraries: %v", err)
		return err
	}
	s.dirty = false
	return nil
}

func (s *Service) contains(path string) bool {
	for _, p := range s.order {
		if p == path {
			return true
		}
	}
	return false
}

func (s *Service) removeLocked(path string) bool {
	for i, p := range s.order {
		if p == path {
			s.order = append(s.order[:i], s.order[i+1:]...)
			delete(s.meta, path)
			return true
		}
	}
	return false
}

func placeholder(path string) Entry {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return Entry{Path: path, LibraryName: name}
}
