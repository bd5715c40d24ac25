package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/driftline/cratectl/internal/logging"
	"github.com/driftline/cratectl/internal/manifest"
)

// ExtractLibrary unpacks the entire archive into a freshly created
// scratch directory and returns its path. The caller owns cleanup of
// the directory. On any failure the partially written directory is
// removed before the error is returned.
func ExtractLibrary(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("opening archive %s: %w", path, err)
	}
	defer zr.Close()

	dir, err := os.MkdirTemp("", "cratectl-*")
	if err != nil {
		return "", fmt.Errorf("creating scratch directory: %w", err)
	}

	for _, f := range zr.File {
		if err := extractEntry(f, dir); err != nil {
			_ = os.RemoveAll(dir)
			return "", err
		}
	}
	return dir, nil
}

func extractEntry(f *zip.File, dir string) error {
	rel := NormalizePath(f.Name)
	target := filepath.Join(dir, filepath.FromSlash(rel))

	// Refuse entries that would escape the scratch root.
	if !strings.HasPrefix(filepath.Clean(target), filepath.Clean(dir)+string(os.PathSeparator)) {
		return fmt.Errorf("entry %q escapes extraction root", f.Name)
	}

	if strings.HasSuffix(f.Name, "/") {
		return os.MkdirAll(target, 0755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return fmt.Errorf("extracting %s: %w", f.Name, err)
	}
	return out.Close()
}

// ReadManifestDir parses the manifest's extracted copy under dir.
func ReadManifestDir(dir string) (*manifest.Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, fmt.Errorf("reading extracted manifest: %w", err)
	}
	return manifest.Parse(data)
}

// RemoveScratch deletes a scratch directory best-effort. A leaked
// directory is logged, never fatal to the surrounding operation.
func RemoveScratch(dir string, log logging.Logger) {
	if dir == "" {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		log.Warn("could not remove scratch directory %s: %v", dir, err)
	}
}

// Extracted is the extraction-based read strategy: the archive is
// unpacked once and entries are served as plain file reads. It is the
// fallback when lazy opening fails on unusual archive layouts.
type Extracted struct {
	path string
	log  logging.Logger

	mu     sync.Mutex
	dir    string
	closed bool
}

// OpenExtracted extracts the archive and verifies the manifest copy
// parses. On failure nothing is left on disk.
func OpenExtracted(path string, log logging.Logger) (*Extracted, error) {
	dir, err := ExtractLibrary(path)
	if err != nil {
		return nil, err
	}
	if _, err := ReadManifestDir(dir); err != nil {
		RemoveScratch(dir, log)
		return nil, err
	}
	return &Extracted{path: path, dir: dir, log: log}, nil
}

// Path returns the archive file path this strategy was opened on.
func (e *Extracted) Path() string { return e.path }

// ScratchDir returns the extraction root.
func (e *Extracted) ScratchDir() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dir
}

func (e *Extracted) target(rel string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return "", false
	}
	return filepath.Join(e.dir, filepath.FromSlash(NormalizePath(rel))), true
}

// ReadFile reads one extracted entry. Returns ErrNotFound for absent
// entries, ErrClosed after Close.
func (e *Extracted) ReadFile(rel string) ([]byte, error) {
	target, ok := e.target(rel)
	if !ok {
		return nil, ErrClosed
	}
	data, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}
	return data, nil
}

// FileExists reports whether the extracted entry exists.
func (e *Extracted) FileExists(rel string) bool {
	target, ok := e.target(rel)
	if !ok {
		return false
	}
	fi, err := os.Stat(target)
	return err == nil && !fi.IsDir()
}

// FileSize returns the entry size in bytes, or 0 when absent.
func (e *Extracted) FileSize(rel string) int64 {
	target, ok := e.target(rel)
	if !ok {
		return 0
	}
	fi, err := os.Stat(target)
	if err != nil || fi.IsDir() {
		return 0
	}
	return fi.Size()
}

// Manifest parses the extracted manifest copy.
func (e *Extracted) Manifest() (*manifest.Manifest, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrClosed
	}
	dir := e.dir
	e.mu.Unlock()
	return ReadManifestDir(dir)
}

// Close removes the scratch directory. Idempotent; cleanup failure is
// logged, not returned.
func (e *Extracted) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	RemoveScratch(e.dir, e.log)
	e.dir = ""
	return nil
}
