package workspace

import (
	"errors"
	"fmt"
)

// ErrWorkspaceNotFound represents an error when no ancestor directory holds a workspace manifest
type ErrWorkspaceNotFound struct {
	Start string
}

func (e ErrWorkspaceNotFound) Error() string {
	return fmt.Sprintf("could not find Lunaris workspace root (searched upward from %s)\n"+
		"lunac must be run from within the Lunaris project directory", e.Start)
}

// ManifestReadError represents an error reading a candidate manifest during traversal
type ManifestReadError struct {
	Path string
	Err  error
}

func (e ManifestReadError) Error() string {
	return fmt.Sprintf("failed to read manifest %s: %v", e.Path, e.Err)
}

func (e ManifestReadError) Unwrap() error {
	return e.Err
}

// IsWorkspaceNotFound checks if the error is a workspace not found error
func IsWorkspaceNotFound(err error) bool {
	var target ErrWorkspaceNotFound
	return errors.As(err, &target)
}

// IsManifestReadError checks if the error is a manifest read error
func IsManifestReadError(err error) bool {
	var target ManifestReadError
	return errors.As(err, &target)
}
