// Package cmd implements command-line interface for lunac
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zyanho/lunac/internal/command"
	"github.com/zyanho/lunac/internal/config"
	"github.com/zyanho/lunac/internal/executor"
	"github.com/zyanho/lunac/internal/logging"
	"github.com/zyanho/lunac/internal/workspace"
)

// annotation marking commands that operate on the workspace root
const needsWorkspace = "lunac/workspace"

// RunnerFactory builds the Runner used for a resolved workspace
type RunnerFactory func(tool, root string, logger logging.Logger) executor.Runner

// app carries the state shared by every subcommand of one invocation
type app struct {
	dir      string
	profile  string
	logLevel string
	verbose  bool
	quiet    bool

	lookup    config.LookupFunc
	newRunner RunnerFactory

	logger     logging.Logger
	root       string
	cfg        *config.Config
	dispatcher *command.Dispatcher
}

func newApp() *app {
	return &app{
		lookup: os.LookupEnv,
		newRunner: func(tool, root string, logger logging.Logger) executor.Runner {
			return executor.NewCargo(tool, root, executor.WithLogger(logger))
		},
		logger: logging.Nop(),
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lunac",
		Short: "Lunaris compiler - build tool and plugin manager",
		Long: `lunac drives cargo for the Lunaris workspace. It can be run from any
directory inside the project and always operates on the workspace root.

Global flags go before the subcommand. Anything after build, run, check,
clippy or test that is not one of that command's own flags goes to cargo.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Global flags are parsed only up to the subcommand name so that
		// cargo's own -v/-q reach cargo untouched.
		TraverseChildren: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[needsWorkspace] == "" {
				return nil
			}
			return a.prepare(cmd)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&a.dir, "dir", "C", "", "directory to start the workspace search from (default: current directory)")
	flags.StringVar(&a.profile, "profile", "", fmt.Sprintf("project layout profile (default %q, or $%sPROFILE)", config.DefaultProfile, config.EnvPrefix))
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (default warn)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log resolved paths and build tool invocations")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "only log errors")

	rootCmd.AddCommand(
		newBuildCmd(a),
		newRunCmd(a),
		newCheckCmd(a),
		newClippyCmd(a),
		newTestCmd(a),
		newUpdateCmd(a),
		newAddCmd(a),
		newRemoveCmd(a),
		newAlignCmd(a),
		newValidateCmd(a),
		newNewCmd(a),
	)
	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return newRootCmd(newApp()).Execute()
}

// level picks the log level from the global flags, falling back to def
func (a *app) level(def logging.Level) (logging.Level, error) {
	if a.verbose && a.quiet {
		return def, fmt.Errorf("--verbose and --quiet cannot be used together")
	}
	switch {
	case a.verbose:
		return logging.LevelDebug, nil
	case a.quiet:
		return logging.LevelError, nil
	case a.logLevel != "":
		return logging.ParseLevel(a.logLevel)
	default:
		return def, nil
	}
}

// prepare resolves the workspace root and builds the dispatcher for it
func (a *app) prepare(cmd *cobra.Command) error {
	level, err := a.level(logging.LevelWarn)
	if err != nil {
		return err
	}
	a.logger = logging.New(level)

	profile := config.Profile(a.profile)
	if profile == "" {
		profile = config.ProfileFromEnv(a.lookup)
	}

	// Discovery settings come from the profile and environment only.
	discovery, err := config.ForProfile(profile)
	if err != nil {
		return err
	}
	if err := discovery.ApplyEnv(a.lookup); err != nil {
		return err
	}

	start := a.dir
	if start == "" {
		if start, err = os.Getwd(); err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	root, err := workspace.FindRoot(start,
		workspace.WithManifestName(discovery.ManifestName),
		workspace.WithMarker(discovery.WorkspaceMarker),
	)
	if err != nil {
		return err
	}
	a.logger.Debug("Resolved workspace root", "root", root, "start", start, "level", level.String())

	cfg, err := config.Load(profile, root, a.lookup)
	if err != nil {
		return err
	}
	a.logger.Debug("Loaded config", "profile", profile, "package", cfg.Package, "tool", cfg.Tool)

	d, err := command.NewDispatcher(cfg, a.newRunner(cfg.Tool, root, a.logger),
		command.WithOutput(cmd.OutOrStdout()),
		command.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}

	a.root = root
	a.cfg = cfg
	a.dispatcher = d
	return nil
}

// workspaceCmd marks c as needing a resolved workspace and returns it
func workspaceCmd(c *cobra.Command) *cobra.Command {
	if c.Annotations == nil {
		c.Annotations = map[string]string{}
	}
	c.Annotations[needsWorkspace] = "true"
	return c
}
