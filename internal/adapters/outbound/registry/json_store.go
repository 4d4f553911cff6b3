package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/agentvet/agentvet/internal/domain"
)

const jsonFile = ".agentvet/registry/hashes.json"

// JSONStore implements domain.RegistryStore with a single JSON file mapping
// normalized paths to entries. A process-wide mutex serializes read-modify-
// write cycles so concurrent per-component updates never lose writes.
type JSONStore struct {
	path string
	mu   sync.Mutex
}

// NewJSONStore creates a store rooted at projectPath.
func NewJSONStore(projectPath string) *JSONStore {
	return &JSONStore{path: filepath.Join(projectPath, jsonFile)}
}

// Get returns the entry for path, or (nil, nil) when none exists.
func (s *JSONStore) Get(path string) (*domain.RegistryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	entry, ok := entries[path]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// Put overwrites the entry for path, creating the file as needed.
func (s *JSONStore) Put(path string, entry domain.RegistryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	entries[path] = entry

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) load() (map[string]domain.RegistryEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]domain.RegistryEntry{}, nil // no registry is not an error
		}
		return nil, err
	}
	entries := map[string]domain.RegistryEntry{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
