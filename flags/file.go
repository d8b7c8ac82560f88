package flags

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// File is a Store backed by a single JSON file. The file is read once at
// construction and rewritten in full on every Set.
type File struct {
	mu     sync.Mutex
	path   string
	values map[string]any
}

// NewFile opens or creates a file-backed store at path. A missing file is
// treated as an empty store; it is created on the first Set.
func NewFile(path string) (*File, error) {
	f := &File{path: path, values: map[string]any{}}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading flag file %s: %w", path, err)
	}
	if len(data) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(data, &f.values); err != nil {
		return nil, fmt.Errorf("parsing flag file %s: %w", path, err)
	}
	return f, nil
}

func (f *File) Get(name string) (any, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[name]
	return v, ok, nil
}

func (f *File) Set(name string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[name] = value

	data, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding flags: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating flag directory: %w", err)
		}
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("writing flag file %s: %w", f.path, err)
	}
	return nil
}
