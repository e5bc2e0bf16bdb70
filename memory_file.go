//go:build !baremetal

package sleep

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultRetainedPath is where DefaultMemory keeps the retained status on a
// hosted system. It must be on storage that survives a power off.
const DefaultRetainedPath = "/var/lib/sleep/retained.yaml"

// DefaultMemory keeps the retained status in DefaultRetainedPath.
var DefaultMemory Memory = NewFileMemory(DefaultRetainedPath)

const memoryLostOnReset = false

// FileMemory is retained memory kept in a small YAML file. A missing file
// reads as zero.
type FileMemory struct {
	mu   sync.Mutex
	path string
}

type retainedFile struct {
	Status int32 `yaml:"status"`
}

// NewFileMemory returns a FileMemory stored at path.
func NewFileMemory(path string) *FileMemory {
	return &FileMemory{path: path}
}

// Path returns the location of the backing file.
func (m *FileMemory) Path() string {
	return m.path
}

func (m *FileMemory) Load() (int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("sleep: read retained memory: %w", err)
	}
	var f retainedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return 0, fmt.Errorf("sleep: invalid retained memory %s: %w", m.path, err)
	}
	return f.Status, nil
}

// Store replaces the file atomically.
func (m *FileMemory) Store(v int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := yaml.Marshal(retainedFile{Status: v})
	if err != nil {
		return err
	}
	if err := writeFileAtomic(m.path, data); err != nil {
		return fmt.Errorf("sleep: write retained memory: %w", err)
	}
	return nil
}

// writeFileAtomic replaces path through a temporary file and a rename.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
