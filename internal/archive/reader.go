package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/driftline/cratectl/internal/manifest"
)

// Reader serves individual entry reads from an open archive handle
// without extracting anything to disk. It is read-only by
// construction; mutation goes through the writer operations.
//
// All methods are safe for concurrent use. Lookups and stream reads
// are serialized behind one mutex per Reader because the underlying
// random-access handle is shared.
type Reader struct {
	path string

	mu      sync.Mutex
	zr      *zip.ReadCloser
	entries map[string]*zip.File
	closed  bool
}

// Open opens the archive at path for lazy reads. It fails if the file
// does not exist, is not a valid zip, or carries no manifest entry.
// In every failure case the underlying handle is closed before
// returning.
func Open(path string) (*Reader, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}

	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		entries[NormalizePath(f.Name)] = f
	}

	if _, ok := entries[ManifestName]; !ok {
		_ = zr.Close()
		return nil, fmt.Errorf("archive %s has no %s entry", path, ManifestName)
	}

	return &Reader{path: path, zr: zr, entries: entries}, nil
}

// Path returns the archive file path this reader was opened on.
func (r *Reader) Path() string { return r.path }

// ReadFile streams one entry fully into memory. Returns ErrNotFound
// when no entry matches, ErrClosed after Close.
func (r *Reader) ReadFile(rel string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	f, ok := r.entries[NormalizePath(rel)]
	if !ok {
		return nil, ErrNotFound
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening entry %s: %w", rel, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading entry %s: %w", rel, err)
	}
	return data, nil
}

// FileExists reports whether an entry exists. Never errors; a closed
// reader answers false.
func (r *Reader) FileExists(rel string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	_, ok := r.entries[NormalizePath(rel)]
	return ok
}

// FileSize returns the uncompressed size of an entry, or 0 when the
// entry is absent.
func (r *Reader) FileSize(rel string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0
	}
	f, ok := r.entries[NormalizePath(rel)]
	if !ok {
		return 0
	}
	return int64(f.UncompressedSize64)
}

// Manifest reads and parses the manifest entry.
func (r *Reader) Manifest() (*manifest.Manifest, error) {
	data, err := r.ReadFile(ManifestName)
	if err != nil {
		return nil, err
	}
	return manifest.Parse(data)
}

// Close releases the archive handle. Idempotent; reads after Close
// fail with ErrClosed rather than touching a stale handle.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	r.entries = nil
	return r.zr.Close()
}
