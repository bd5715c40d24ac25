// Package library exposes the loader facade: one open library at a
// time, served by whichever read strategy the archive admits, with a
// query surface that is a cheap no-op when nothing is loaded.
package library

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/driftline/cratectl/internal/archive"
	"github.com/driftline/cratectl/internal/logging"
	"github.com/driftline/cratectl/internal/manifest"
)

// Strategy names the read strategy serving the current session.
type Strategy string

const (
	StrategyNone      Strategy = ""
	StrategyLazy      Strategy = "lazy"
	StrategyExtracted Strategy = "extracted"
)

// source is the read surface both strategies share.
type source interface {
	ReadFile(rel string) ([]byte, error)
	FileExists(rel string) bool
	FileSize(rel string) int64
	Close() error
}

// Info is a read-only library summary for display purposes.
type Info struct {
	Path       string
	Name       string
	Version    string
	AssetCount int
	Created    time.Time
	Modified   time.Time
	Strategy   Strategy
}

// Loader owns the active reader/manifest pair. At most one of {lazy
// reader, extraction scratch dir} is held at a time; both are
// released on Unload, on re-Load, and on teardown.
type Loader struct {
	log logging.Logger

	mu       sync.RWMutex
	path     string
	strategy Strategy
	src      source
	m        *manifest.Manifest

	// distinct value sets, recomputed only when the manifest
	// changes so frequent pollers stay cheap
	types  []string
	tags   []string
	groups []string
}

// New returns an unloaded Loader.
func New(log logging.Logger) *Loader {
	return &Loader{log: log}
}

// Load opens the library at path, replacing any previous session.
// The lazy strategy is attempted first; extraction is the fallback.
// On failure the loader is left unloaded with nothing held.
func (l *Loader) Load(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unloadLocked()

	// Fast-fail before touching the archive proper.
	if err := archive.ValidateLibraryFile(path); err != nil {
		return err
	}

	if r, err := archive.Open(path); err == nil {
		m, err := r.Manifest()
		if err == nil {
			l.install(path, StrategyLazy, r, m)
			return nil
		}
		_ = r.Close()
	}

	ex, err := archive.OpenExtracted(path, l.log)
	if err != nil {
		return fmt.Errorf("loading library %s: %w", path, err)
	}
	m, err := ex.Manifest()
	if err != nil {
		_ = ex.Close()
		return fmt.Errorf("loading library %s: %w", path, err)
	}
	l.install(path, StrategyExtracted, ex, m)
	return nil
}

func (l *Loader) install(path string, s Strategy, src source, m *manifest.Manifest) {
	l.path = path
	l.strategy = s
	l.src = src
	l.m = m
	l.recompute()
}

// Reload re-opens the current library, picking up external mutations.
// No-op when nothing is loaded.
func (l *Loader) Reload() error {
	l.mu.RLock()
	path := l.path
	l.mu.RUnlock()
	if path == "" {
		return nil
	}
	return l.Load(path)
}

// Unload releases whichever reader is active and clears the session.
// Safe to call when nothing is loaded.
func (l *Loader) Unload() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unloadLocked()
}

func (l *Loader) unloadLocked() {
	if l.src != nil {
		if err := l.src.Close(); err != nil {
			l.log.Warn("closing library reader: %v", err)
		}
	}
	l.path = ""
	l.strategy = StrategyNone
	l.src = nil
	l.m = nil
	l.types, l.tags, l.groups = nil, nil, nil
}

// Loaded reports whether a library session is active.
func (l *Loader) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.m != nil
}

// Strategy returns the active read strategy, StrategyNone if unloaded.
func (l *Loader) Strategy() Strategy {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.strategy
}

// Path returns the loaded archive path, "" if unloaded.
func (l *Loader) Path() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.path
}

// Assets returns a copy of all records. Empty when unloaded.
func (l *Loader) Assets() []manifest.Asset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.m == nil {
		return nil
	}
	out := make([]manifest.Asset, len(l.m.Assets))
	copy(out, l.m.Assets)
	return out
}

// Asset returns the record with the given id.
func (l *Loader) Asset(id string) (manifest.Asset, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.m == nil {
		return manifest.Asset{}, false
	}
	a := l.m.ByID(id)
	if a == nil {
		return manifest.Asset{}, false
	}
	return *a, true
}

// Search returns assets whose name contains q, case-insensitively.
func (l *Loader) Search(q string) []manifest.Asset {
	return l.FilterBy(manifest.Filter{Search: q})
}

// FilterBy applies a filter to all records. Empty filter fields do
// not constrain; an unloaded loader yields nothing.
func (l *Loader) FilterBy(f manifest.Filter) []manifest.Asset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.m == nil {
		return nil
	}
	return f.Apply(l.m.Assets)
}

// Types returns the distinct asset types present, sorted.
func (l *Loader) Types() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.types
}

// Tags returns the distinct tags present (lowercased), sorted.
func (l *Loader) Tags() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tags
}

// Groups returns the distinct non-empty groups present, sorted.
func (l *Loader) Groups() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.groups
}

// Info returns the library summary; the zero Info when unloaded.
func (l *Loader) Info() Info {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.m == nil {
		return Info{}
	}
	return Info{
		Path:       l.path,
		Name:       l.m.LibraryName,
		Version:    l.m.Version,
		AssetCount: len(l.m.Assets),
		Created:    l.m.CreatedDate,
		Modified:   l.m.LastModifiedDate,
		Strategy:   l.strategy,
	}
}

// AssetFile reads the record's payload from the active reader.
func (l *Loader) AssetFile(a manifest.Asset) ([]byte, error) {
	l.mu.RLock()
	src := l.src
	l.mu.RUnlock()
	if src == nil {
		return nil, fmt.Errorf("no library loaded")
	}
	return src.ReadFile(a.RelativePath)
}

// AssetThumbnail returns the record's preview image bytes, or nil
// when it has none, which is a valid and common state. Image
// assets without an explicit thumbnail serve their own payload.
func (l *Loader) AssetThumbnail(a manifest.Asset) []byte {
	l.mu.RLock()
	src := l.src
	l.mu.RUnlock()
	if src == nil {
		return nil
	}
	rel := a.ThumbnailPath
	if rel == "" {
		if !a.Type.IsImage() {
			return nil
		}
		rel = a.RelativePath
	}
	data, err := src.ReadFile(rel)
	if err != nil {
		return nil
	}
	return data
}

// recompute rebuilds the distinct type/tag/group sets. Called with
// the write lock held whenever the manifest changes.
func (l *Loader) recompute() {
	typeSet := map[string]bool{}
	tagSet := map[string]bool{}
	groupSet := map[string]bool{}
	for i := range l.m.Assets {
		a := &l.m.Assets[i]
		typeSet[string(a.Type)] = true
		for _, t := range a.Tags {
			tagSet[strings.ToLower(t)] = true
		}
		if a.Group != "" {
			groupSet[a.Group] = true
		}
	}
	l.types = sortedKeys(typeSet)
	l.tags = sortedKeys(tagSet)
	l.groups = sortedKeys(groupSet)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
