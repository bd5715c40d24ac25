package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Parse decodes manifest JSON bytes.
func Parse(data []byte) (*Manifest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("manifest is empty")
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest JSON: %w", err)
	}
	if m.Assets == nil {
		m.Assets = []Asset{}
	}
	return &m, nil
}

// Marshal encodes the manifest as indented UTF-8 JSON, the form
// stored inside the archive.
func Marshal(m *Manifest) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return append(data, '\n'), nil
}
