package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Records is the persisted layout: one root key per record id, each holding one boolean
// per flag name.
type Records map[string]map[string]bool

// KeyValueStore loads and saves the complete record set in one operation.
type KeyValueStore interface {
	Load() (Records, error)
	Save(Records) error
}

// YAMLFile is a KeyValueStore backed by a single YAML document.
type YAMLFile struct {
	path string

	mu sync.Mutex
}

func NewYAMLFile(path string) *YAMLFile {
	return &YAMLFile{path: path}
}

// Load reads every record from the file. A missing file yields an empty set.
func (f *YAMLFile) Load() (Records, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Records{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	recs := Records{}
	if err := yaml.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	return recs, nil
}

// Save replaces the file contents with recs.
func (f *YAMLFile) Save(recs Records) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := yaml.Marshal(recs)
	if err != nil {
		return fmt.Errorf("marshalling yaml: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	return atomicWrite(f.path, data, 0644)
}

// Path returns the backing file path.
func (f *YAMLFile) Path() string {
	return f.path
}

// atomicWrite writes data to a temp file then renames it to the target path.
// This prevents partial or empty files if the process is interrupted.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		if removeErr := os.Remove(tmp); removeErr != nil {
			slog.Warn("failed to remove temp file after rename failure", "path", tmp, "error", removeErr)
		}
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
