package archive

import (
	"github.com/driftline/cratectl/internal/logging"
	"github.com/driftline/cratectl/internal/manifest"
)

// LoadManifest performs a read-only manifest fetch from the archive
// at path, trying the lazy reader first and falling back to a full
// extraction. It holds no state after returning, so it is safe to
// call regardless of what any loader session has open.
func LoadManifest(path string, log logging.Logger) (*manifest.Manifest, error) {
	if err := ValidateLibraryFile(path); err != nil {
		return nil, err
	}
	if r, err := Open(path); err == nil {
		defer r.Close()
		return r.Manifest()
	}
	ex, err := OpenExtracted(path, log)
	if err != nil {
		return nil, err
	}
	defer ex.Close()
	return ex.Manifest()
}
