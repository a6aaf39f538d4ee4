package executor

import (
	"errors"
	"fmt"
	"strings"
)

// SpawnError represents an error when the build tool could not be started
type SpawnError struct {
	Tool string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Tool, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// FailedError represents a build tool run that exited with a non-zero status
type FailedError struct {
	Tool string
	Args []string
	Code int
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("%s %s failed with exit code %d", e.Tool, strings.Join(e.Args, " "), e.Code)
}

// IsSpawnError checks if the error is a spawn error
func IsSpawnError(err error) bool {
	var target *SpawnError
	return errors.As(err, &target)
}

// IsFailedError checks if the error is a non-zero exit error
func IsFailedError(err error) bool {
	var target *FailedError
	return errors.As(err, &target)
}

// ExitCode maps err to a process exit code. A failed subprocess yields its own
// code so scripts see what cargo returned; any other error yields 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var failed *FailedError
	if errors.As(err, &failed) && failed.Code > 0 {
		return failed.Code
	}
	return 1
}
