package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/driftline/cratectl/internal/manifest"
	"github.com/driftline/cratectl/internal/util"
	"github.com/google/uuid"
	"github.com/klauspost/compress/flate"
)

// writeLocks serializes mutations per archive path. Two writers on
// the same archive is an invariant violation, prevented here rather
// than detected after the fact.
var writeLocks sync.Map

func lockArchive(p string) func() {
	key := p
	if abs, err := filepath.Abs(p); err == nil {
		key = abs
	}
	muAny, _ := writeLocks.LoadOrStore(key, &sync.Mutex{})
	mu := muAny.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func registerLevel(w *zip.Writer, level Level) {
	w.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, int(level))
	})
}

func writeEntry(w *zip.Writer, name string, data []byte) error {
	ew, err := w.Create(name)
	if err != nil {
		return fmt.Errorf("creating entry %s: %w", name, err)
	}
	if _, err := ew.Write(data); err != nil {
		return fmt.Errorf("writing entry %s: %w", name, err)
	}
	return nil
}

// Create builds a new, empty library archive at path: an initialized
// manifest plus the directory skeleton, written at the full (maximum)
// compression level. It fails if a file already exists at path.
func Create(p, name string, pol Policy) error {
	if p == "" {
		return fmt.Errorf("library path is empty")
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("library name is empty")
	}
	if _, err := os.Stat(p); err == nil {
		return fmt.Errorf("%s already exists", p)
	}
	if err := util.EnsureDir(filepath.Dir(p)); err != nil {
		return fmt.Errorf("creating library directory: %w", err)
	}

	data, err := manifest.Marshal(manifest.New(name))
	if err != nil {
		return err
	}

	unlock := lockArchive(p)
	defer unlock()

	return writeReplacing(p, pol.Full, func(w *zip.Writer) error {
		for _, dir := range []string{AssetsDir + "/", ThumbnailsDir + "/"} {
			if _, err := w.Create(dir); err != nil {
				return fmt.Errorf("creating entry %s: %w", dir, err)
			}
		}
		return writeEntry(w, ManifestName, data)
	})
}

// AddOptions carries the metadata for a new asset. SourceName is the
// original file name the payload came from; it drives type derivation
// and the in-archive payload name.
type AddOptions struct {
	SourceName  string
	Name        string
	Type        manifest.AssetType
	Group       string
	Tags        []string
	Description string

	// Thumbnail, when non-nil, is stored as the asset's preview
	// image. ThumbnailName supplies its extension.
	Thumbnail     []byte
	ThumbnailName string
}

// AddAsset assigns a new unique id, writes the payload (and optional
// thumbnail) into the archive at the incremental compression level,
// appends the record to m, and rewrites the manifest entry. Existing
// entries are carried over without recompression. m is only mutated
// once the archive on disk has been atomically replaced.
func AddAsset(p string, m *manifest.Manifest, payload []byte, opts AddOptions, pol Policy) (*manifest.Asset, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("asset payload is empty")
	}
	if opts.SourceName == "" {
		return nil, fmt.Errorf("asset source name is empty")
	}

	typ := opts.Type
	if typ == "" {
		typ = manifest.TypeFromFilename(opts.SourceName)
	}
	name := opts.Name
	if name == "" {
		name = strings.TrimSuffix(opts.SourceName, path.Ext(opts.SourceName))
	}

	id := uuid.NewString()
	rel := uniqueAssetPath(m, typ, SanitizeFileName(opts.SourceName))

	var thumbRel string
	if opts.Thumbnail != nil {
		ext := strings.ToLower(path.Ext(opts.ThumbnailName))
		if ext == "" {
			ext = ".png"
		}
		thumbRel = ThumbnailPath(id + ext)
	}

	asset := manifest.Asset{
		ID:            id,
		Name:          name,
		Type:          typ,
		Group:         opts.Group,
		Tags:          opts.Tags,
		Description:   opts.Description,
		RelativePath:  rel,
		ThumbnailPath: thumbRel,
		Checksum:      util.SHA256Bytes(payload),
		SizeBytes:     int64(len(payload)),
		DateAdded:     time.Now().UTC(),
	}

	updated := cloneManifest(m)
	updated.Append(asset)
	updated.Touch()
	data, err := manifest.Marshal(updated)
	if err != nil {
		return nil, err
	}

	unlock := lockArchive(p)
	defer unlock()

	err = rewrite(p, pol.Incremental, func(src *zip.Reader, w *zip.Writer) error {
		if err := copyEntries(src, w, ManifestName); err != nil {
			return err
		}
		if err := writeEntry(w, ManifestName, data); err != nil {
			return err
		}
		if err := writeEntry(w, rel, payload); err != nil {
			return err
		}
		if thumbRel != "" {
			return writeEntry(w, thumbRel, opts.Thumbnail)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	*m = *updated
	return m.ByID(id), nil
}

// UpdateFields holds the mutable metadata of an asset. Nil fields are
// left untouched; the payload and relativePath never change here.
type UpdateFields struct {
	Name        *string
	Type        *manifest.AssetType
	Group       *string
	Tags        *[]string
	Description *string
}

// UpdateAsset mutates one record's metadata and rewrites the manifest
// entry. Returns found=false when no record carries the id.
func UpdateAsset(p string, m *manifest.Manifest, id string, fields UpdateFields, pol Policy) (bool, error) {
	if m.ByID(id) == nil {
		return false, nil
	}

	updated := cloneManifest(m)
	a := updated.ByID(id)
	if fields.Name != nil {
		a.Name = *fields.Name
	}
	if fields.Type != nil {
		a.Type = *fields.Type
	}
	if fields.Group != nil {
		a.Group = *fields.Group
	}
	if fields.Tags != nil {
		a.Tags = *fields.Tags
	}
	if fields.Description != nil {
		a.Description = *fields.Description
	}
	updated.Touch()

	data, err := manifest.Marshal(updated)
	if err != nil {
		return false, err
	}

	unlock := lockArchive(p)
	defer unlock()

	err = rewrite(p, pol.Incremental, func(src *zip.Reader, w *zip.Writer) error {
		if err := copyEntries(src, w, ManifestName); err != nil {
			return err
		}
		return writeEntry(w, ManifestName, data)
	})
	if err != nil {
		return false, err
	}

	*m = *updated
	return true, nil
}

// DeleteAsset removes a record together with its payload and
// thumbnail entries. The zip format has no in-place deletion, so this
// is a compaction: every surviving entry is copied into a new archive
// which then atomically replaces the original. On any failure the
// original archive remains intact.
func DeleteAsset(p string, m *manifest.Manifest, id string, pol Policy) (bool, error) {
	victim := m.ByID(id)
	if victim == nil {
		return false, nil
	}

	skip := map[string]bool{
		ManifestName:                       true,
		NormalizePath(victim.RelativePath): true,
	}
	if victim.ThumbnailPath != "" {
		skip[NormalizePath(victim.ThumbnailPath)] = true
	}

	updated := cloneManifest(m)
	updated.Remove(id)
	updated.Touch()
	data, err := manifest.Marshal(updated)
	if err != nil {
		return false, err
	}

	unlock := lockArchive(p)
	defer unlock()

	err = rewrite(p, pol.Full, func(src *zip.Reader, w *zip.Writer) error {
		for _, f := range src.File {
			if skip[NormalizePath(f.Name)] {
				continue
			}
			if err := w.Copy(f); err != nil {
				return fmt.Errorf("copying entry %s: %w", f.Name, err)
			}
		}
		return writeEntry(w, ManifestName, data)
	})
	if err != nil {
		return false, err
	}

	*m = *updated
	return true, nil
}

// copyEntries copies every entry of src into w raw (no recompression),
// skipping the named entries.
func copyEntries(src *zip.Reader, w *zip.Writer, except ...string) error {
	skip := make(map[string]bool, len(except))
	for _, name := range except {
		skip[NormalizePath(name)] = true
	}
	for _, f := range src.File {
		if skip[NormalizePath(f.Name)] {
			continue
		}
		if err := w.Copy(f); err != nil {
			return fmt.Errorf("copying entry %s: %w", f.Name, err)
		}
	}
	return nil
}

// rewrite opens the archive at p, streams a replacement into a temp
// file in the same directory via fn, and atomically renames it over
// the original. If fn or any close fails, the temp file is removed
// and the original archive is untouched.
func rewrite(p string, level Level, fn func(src *zip.Reader, w *zip.Writer) error) error {
	f, err := os.Open(p)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", p, err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return err
	}
	src, err := zip.NewReader(f, fi.Size())
	if err != nil {
		return fmt.Errorf("reading archive %s: %w", p, err)
	}

	return writeReplacing(p, level, func(w *zip.Writer) error {
		return fn(src, w)
	})
}

// writeReplacing writes a brand new archive through fn into a temp
// file next to p, then renames it into place.
func writeReplacing(p string, level Level, fn func(w *zip.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(p), ".crate-rewrite-*")
	if err != nil {
		return fmt.Errorf("creating temp archive: %w", err)
	}
	tmpPath := tmp.Name()
	discard := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	w := zip.NewWriter(tmp)
	registerLevel(w, level)
	if err := fn(w); err != nil {
		_ = w.Close()
		discard()
		return err
	}
	if err := w.Close(); err != nil {
		discard()
		return fmt.Errorf("finalizing archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, p); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing archive: %w", err)
	}
	return nil
}

// uniqueAssetPath picks a payload path that no existing record
// claims, suffixing the stem on collision.
func uniqueAssetPath(m *manifest.Manifest, typ manifest.AssetType, base string) string {
	rel := AssetPath(typ, base)
	if !m.HasRelativePath(rel) {
		return rel
	}
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for i := 2; ; i++ {
		rel = AssetPath(typ, fmt.Sprintf("%s-%d%s", stem, i, ext))
		if !m.HasRelativePath(rel) {
			return rel
		}
	}
}

func cloneManifest(m *manifest.Manifest) *manifest.Manifest {
	out := *m
	out.Assets = make([]manifest.Asset, len(m.Assets))
	copy(out.Assets, m.Assets)
	return &out
}
