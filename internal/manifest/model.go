package manifest

import (
	"strings"
	"time"
)

// SchemaVersion is written into newly created manifests.
const SchemaVersion = "1.0"

// Asset is one cataloged entry in a library's manifest.json.
type Asset struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Type          AssetType `json:"type"`
	Group         string    `json:"group,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Description   string    `json:"description,omitempty"`
	RelativePath  string    `json:"relativePath"`
	ThumbnailPath string    `json:"thumbnailPath,omitempty"`
	Checksum      string    `json:"checksum,omitempty"`
	SizeBytes     int64     `json:"sizeBytes"`
	DateAdded     time.Time `json:"dateAdded"`
}

// HasTag reports whether the asset carries the tag, case-insensitively.
func (a *Asset) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Manifest is one library archive's catalogue.
type Manifest struct {
	LibraryName      string    `json:"libraryName"`
	Version          string    `json:"version"`
	CreatedDate      time.Time `json:"createdDate"`
	LastModifiedDate time.Time `json:"lastModifiedDate"`
	Assets           []Asset   `json:"assets"`
}

// New returns an initialized, empty manifest.
func New(name string) *Manifest {
	now := time.Now().UTC()
	return &Manifest{
		LibraryName:      name,
		Version:          SchemaVersion,
		CreatedDate:      now,
		LastModifiedDate: now,
		Assets:           []Asset{},
	}
}

// Touch bumps the last-modified timestamp. Writer operations call it
// after every mutation.
func (m *Manifest) Touch() {
	m.LastModifiedDate = time.Now().UTC()
}

// ByID returns the asset with the given ID, or nil.
func (m *Manifest) ByID(id string) *Asset {
	for i := range m.Assets {
		if m.Assets[i].ID == id {
			return &m.Assets[i]
		}
	}
	return nil
}

// Append adds an asset to the manifest. If an asset with the same ID
// already exists it is replaced in place.
func (m *Manifest) Append(a Asset) {
	for i, existing := range m.Assets {
		if existing.ID == a.ID {
			m.Assets[i] = a
			return
		}
	}
	m.Assets = append(m.Assets, a)
}

// Remove removes an asset by ID and reports whether it was present.
func (m *Manifest) Remove(id string) bool {
	for i := range m.Assets {
		if m.Assets[i].ID == id {
			m.Assets = append(m.Assets[:i], m.Assets[i+1:]...)
			return true
		}
	}
	return false
}

// HasRelativePath reports whether any record already claims the given
// archive path. Used for collision-safe payload naming.
func (m *Manifest) HasRelativePath(rel string) bool {
	for i := range m.Assets {
		if m.Assets[i].RelativePath == rel {
			return true
		}
	}
	return false
}
