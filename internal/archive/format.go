// Package archive implements the portable library container: a zip
// file holding one manifest.json entry, asset payload entries grouped
// by type under assets/, and preview images under thumbnails/.
//
// Two read strategies exist over the same layout. Reader serves
// entries straight out of an open zip handle; Extracted unpacks the
// whole archive to a scratch directory first. All mutation goes
// through the writer operations, which rewrite the archive to a
// temporary file and atomically replace the original.
package archive

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/driftline/cratectl/internal/manifest"
	"github.com/klauspost/compress/flate"
)

const (
	// ManifestName is the well-known manifest entry path.
	ManifestName = "manifest.json"

	// AssetsDir is the root of payload entries: assets/<type>/<file>.
	AssetsDir = "assets"

	// ThumbnailsDir is the root of preview image entries.
	ThumbnailsDir = "thumbnails"

	// Ext is the canonical library file extension.
	Ext = ".crate"
)

// NormalizePath canonicalizes an in-archive path: forward slashes
// regardless of host OS, no leading separators or "./".
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimPrefix(p, "./")
	return strings.TrimLeft(p, "/")
}

// AssetPath returns the canonical payload path for a type and file name.
func AssetPath(t manifest.AssetType, filename string) string {
	return path.Join(AssetsDir, string(t), filename)
}

// ThumbnailPath returns the canonical thumbnail path for a file name.
func ThumbnailPath(filename string) string {
	return path.Join(ThumbnailsDir, filename)
}

// SanitizeFileName reduces a source file name to a safe in-archive
// name: lowercase, spaces and path separators collapsed to hyphens,
// extension preserved.
func SanitizeFileName(name string) string {
	ext := strings.ToLower(path.Ext(name))
	stem := strings.TrimSuffix(name, path.Ext(name))
	var b strings.Builder
	for _, r := range strings.ToLower(stem) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case r == ' ', r == '/', r == '\\':
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	for strings.Contains(out, "--") {
		out = strings.ReplaceAll(out, "--", "-")
	}
	if out == "" {
		out = "asset"
	}
	return out + ext
}

// IsLibraryPath reports whether the path carries a plausible library
// extension. Plain .zip is accepted for archives produced elsewhere.
func IsLibraryPath(p string) bool {
	ext := strings.ToLower(path.Ext(NormalizePath(p)))
	return ext == Ext || ext == ".zip"
}

var zipMagic = []byte{'P', 'K'}

// ValidateLibraryFile fast-fails on paths that cannot be a library
// archive: wrong extension, missing file, or not a zip container.
// It reads at most two bytes and never opens the archive proper.
func ValidateLibraryFile(p string) error {
	if p == "" {
		return fmt.Errorf("library path is empty")
	}
	if !IsLibraryPath(p) {
		return fmt.Errorf("%s: not a library archive (expected %s)", p, Ext)
	}
	f, err := os.Open(p)
	if err != nil {
		return fmt.Errorf("opening library: %w", err)
	}
	defer f.Close()
	magic := make([]byte, 2)
	if _, err := f.Read(magic); err != nil {
		return fmt.Errorf("%s: not a valid archive", p)
	}
	if magic[0] != zipMagic[0] || magic[1] != zipMagic[1] {
		return fmt.Errorf("%s: not a valid archive", p)
	}
	return nil
}

// Level is a compression level applied to newly written entries.
type Level int

const (
	LevelStore   Level = flate.NoCompression
	LevelFastest Level = flate.BestSpeed
	LevelDefault Level = 6
	LevelMax     Level = flate.BestCompression
)

// ParseLevel maps a config string to a compression level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "store":
		return LevelStore, nil
	case "fastest":
		return LevelFastest, nil
	case "default", "":
		return LevelDefault, nil
	case "max":
		return LevelMax, nil
	default:
		return 0, fmt.Errorf("unknown compression level %q", s)
	}
}

// Policy is the archive compression policy. Full applies to create
// and whole-archive rewrites; Incremental applies to entries added by
// single-asset operations, kept fast so interactive adds stay
// responsive. The split is a deliberate speed/size trade-off.
type Policy struct {
	Full        Level
	Incremental Level
}

// DefaultPolicy returns maximum compression for full rewrites and
// fastest for incremental additions.
func DefaultPolicy() Policy {
	return Policy{Full: LevelMax, Incremental: LevelFastest}
}
