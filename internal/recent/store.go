package recent

import (
	"fmt"
	"os"
	"sync"

	"github.com/driftline/cratectl/internal/util"
	"gopkg.in/yaml.v3"
)

// Store is a string key/value preference file, the persistence the
// recent-library service writes through. Values are opaque blobs;
// the service keeps JSON lists in them.
type Store struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// OpenStore loads the preference file at path. A missing file yields
// an empty store; the first save creates it.
func OpenStore(path string) (*Store, error) {
	st := &Store{path: path, values: map[string]string{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return nil, fmt.Errorf("reading preferences: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &st.values); err != nil {
			return nil, fmt.Errorf("parsing preferences: %w", err)
		}
	}
	if st.values == nil {
		st.values = map[string]string{}
	}
	return st, nil
}

// Get returns the value for key, "" when absent.
func (s *Store) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

// Set stores a value.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Delete removes a key.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Save writes the store to disk atomically.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := yaml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	if err := util.WriteFileAtomic(s.path, data, 0600); err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	return nil
}
