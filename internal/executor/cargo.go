// Package executor runs the underlying build tool as a child process.
package executor

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/zyanho/lunac/internal/logging"
)

// Runner runs the build tool with the given arguments
type Runner interface {
	Run(ctx context.Context, args []string) error
}

// Cargo runs Tool inside Dir with the parent's standard streams
type Cargo struct {
	Tool string
	Dir  string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	logger logging.Logger
}

// CargoOption configures a Cargo runner
type CargoOption func(*Cargo)

// WithLogger sets the logger used for invocation tracing
func WithLogger(logger logging.Logger) CargoOption {
	return func(c *Cargo) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStreams replaces the inherited standard streams
func WithStreams(stdin io.Reader, stdout, stderr io.Writer) CargoOption {
	return func(c *Cargo) {
		c.Stdin = stdin
		c.Stdout = stdout
		c.Stderr = stderr
	}
}

// NewCargo creates a runner for tool rooted at dir
func NewCargo(tool, dir string, opts ...CargoOption) *Cargo {
	c := &Cargo{
		Tool:   tool,
		Dir:    dir,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run starts the tool and blocks until it exits
func (c *Cargo) Run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, c.Tool, args...)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	c.logger.Debug("Running build tool", "tool", c.Tool, "args", args, "dir", c.Dir)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return &SpawnError{Tool: c.Tool, Err: err}
	}

	err := cmd.Wait()
	duration := time.Since(start)
	if err == nil {
		c.logger.Debug("Build tool finished", "tool", c.Tool, "duration", duration)
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		c.logger.Debug("Build tool failed", "tool", c.Tool, "code", code, "duration", duration)
		return &FailedError{
			Tool: c.Tool,
			Args: append([]string(nil), args...),
			Code: code,
		}
	}
	return &SpawnError{Tool: c.Tool, Err: err}
}
