package preset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Ext is the file extension of stored presets.
const Ext = ".json"

// Store persists user presets.
type Store interface {
	// List returns the names of stored presets.
	List() ([]string, error)
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
	Delete(name string) error
}

// DirStore keeps one JSON file per preset in a directory. The readable
// preset name is the file name without its extension.
type DirStore struct {
	dir string
}

// NewDirStore returns a store rooted at dir. The directory is created on
// first write.
func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

// Dir returns the store directory.
func (s *DirStore) Dir() string {
	return s.dir
}

// List implements Store.
func (s *DirStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), Ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	sort.Strings(names)
	return names, nil
}

// Read implements Store.
func (s *DirStore) Read(name string) ([]byte, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Write implements Store.
func (s *DirStore) Write(name string, data []byte) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create preset dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Delete implements Store.
func (s *DirStore) Delete(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// path rejects names that would escape the directory.
func (s *DirStore) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("preset name %q: %w", name, ErrInvalidDocument)
	}
	return filepath.Join(s.dir, name+Ext), nil
}
