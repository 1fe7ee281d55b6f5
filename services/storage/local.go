// Package storage keeps rendered documents on the local filesystem.
package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Local stores files under a single root directory.
type Local struct {
	root string
}

func NewLocal(root string) *Local {
	return &Local{root: root}
}

// Save writes data under name and returns the stored path relative to root.
// An existing file with the same name is replaced.
func (l *Local) Save(name string, data []byte) (string, error) {
	name, err := clean(name)
	if err != nil {
		return "", err
	}

	// Create destination directory if it doesn't exist
	full := filepath.Join(l.root, name)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", errors.Wrap(err, "create storage directory")
	}

	// write to a temp file first so readers never see a partial document
	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", errors.Wrap(err, "write document")
	}
	if err := os.Rename(tmp, full); err != nil {
		os.Remove(tmp)
		return "", errors.Wrap(err, "store document")
	}
	return name, nil
}

// Load reads a file previously returned by Save.
func (l *Local) Load(path string) ([]byte, error) {
	path, err := clean(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(l.root, path))
	if err != nil {
		return nil, errors.Wrapf(err, "read document %s", path)
	}
	return data, nil
}

func (l *Local) Exists(path string) bool {
	if path == "" {
		return false
	}
	path, err := clean(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(filepath.Join(l.root, path))
	return err == nil && !info.IsDir()
}

func clean(name string) (string, error) {
	c := filepath.Clean(strings.TrimSpace(name))
	if c == "." || c == "" || filepath.IsAbs(c) || strings.HasPrefix(c, "..") {
		return "", errors.Errorf("invalid document path %q", name)
	}
	return c, nil
}
