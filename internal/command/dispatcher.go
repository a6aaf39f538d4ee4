package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/zyanho/lunac/internal/config"
	"github.com/zyanho/lunac/internal/executor"
	"github.com/zyanho/lunac/internal/logging"
)

// Dispatcher executes parsed commands against a Runner
type Dispatcher struct {
	builder *Builder
	runner  executor.Runner
	out     io.Writer
	logger  logging.Logger
}

// DispatcherOption defines a function type for configuring Dispatcher
type DispatcherOption func(*Dispatcher)

// WithOutput sets where stub commands print their acknowledgments
func WithOutput(w io.Writer) DispatcherOption {
	return func(d *Dispatcher) {
		if w != nil {
			d.out = w
		}
	}
}

// WithLogger sets an external logger implementation
func WithLogger(logger logging.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher creates a dispatcher for cfg that runs commands with runner
func NewDispatcher(cfg *config.Config, runner executor.Runner, opts ...DispatcherOption) (*Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if runner == nil {
		return nil, fmt.Errorf("runner cannot be nil")
	}

	d := &Dispatcher{
		builder: NewBuilder(cfg.Clone()),
		runner:  runner,
		out:     os.Stdout,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Dispatch executes c
func (d *Dispatcher) Dispatch(ctx context.Context, c Command) error {
	switch c := c.(type) {
	case Build:
		return d.runner.Run(ctx, d.builder.BuildArgs(c))
	case Run:
		if err := d.update(ctx); err != nil {
			return err
		}
		return d.runner.Run(ctx, d.builder.RunArgs(c))
	case Check:
		return d.runner.Run(ctx, d.builder.CheckArgs(c))
	case Clippy:
		return d.runner.Run(ctx, d.builder.ClippyArgs(c))
	case Test:
		return d.runner.Run(ctx, d.builder.TestArgs(c))
	case Update:
		return d.update(ctx)

	// Plugin management is not implemented yet. These accept their input,
	// acknowledge it and never touch the runner.
	case AddPlugin:
		d.printf("Adding plugin: %s\n", c.Plugin)
		d.printf("(Not implemented yet - will install from registry)\n")
		return nil
	case RemovePlugin:
		d.printf("Removing plugin: %s\n", c.Plugin)
		d.printf("(Not implemented yet)\n")
		return nil
	case Align:
		d.printf("Aligning plugin versions...\n")
		d.printf("(Not implemented yet)\n")
		return nil
	case Validate:
		d.printf("Validating lunaris.toml...\n")
		d.printf("(Not implemented yet)\n")
		return nil
	case NewPlugin:
		d.printf("Creating new %s plugin: %s\n", c.Type, c.Name)
		d.printf("(Not implemented yet)\n")
		return nil

	default:
		return fmt.Errorf("unsupported command %T", c)
	}
}

// update runs the linker updater; Run depends on it succeeding
func (d *Dispatcher) update(ctx context.Context) error {
	d.logger.Debug("Updating plugin linker")
	if err := d.runner.Run(ctx, d.builder.UpdateArgs()); err != nil {
		return fmt.Errorf("failed to update plugin linker: %w", err)
	}
	return nil
}

func (d *Dispatcher) printf(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(d.out, format, args...); err != nil {
		d.logger.Warn("Failed to write output", "error", err)
	}
}
