// Package workspace locates the project's workspace root.
package workspace

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	DefaultManifestName = "Cargo.toml"
	DefaultMarker       = "[workspace]"
)

type finder struct {
	manifest string
	marker   []byte
}

// Option configures FindRoot
type Option func(*finder)

// WithManifestName sets the manifest file looked for in each directory
func WithManifestName(name string) Option {
	return func(f *finder) {
		if name != "" {
			f.manifest = name
		}
	}
}

// WithMarker sets the substring that marks a manifest as the workspace root
func WithMarker(marker string) Option {
	return func(f *finder) {
		if marker != "" {
			f.marker = []byte(marker)
		}
	}
}

// FindRoot walks upward from start until it finds a directory whose manifest
// contains the workspace marker. It never changes the process working directory.
func FindRoot(start string, opts ...Option) (string, error) {
	f := &finder{
		manifest: DefaultManifestName,
		marker:   []byte(DefaultMarker),
	}
	for _, opt := range opts {
		opt(f)
	}

	current, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}

	for {
		ok, err := f.isRoot(current)
		if err != nil {
			return "", err
		}
		if ok {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrWorkspaceNotFound{Start: start}
		}
		current = parent
	}
}

func (f *finder) isRoot(dir string) (bool, error) {
	path := filepath.Join(dir, f.manifest)
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, ManifestReadError{Path: path, Err: err}
	}
	return bytes.Contains(content, f.marker), nil
}
