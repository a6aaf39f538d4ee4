package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zyanho/lunac/internal/command"
)

// forwardCmd turns c into a command that forwards its trailing arguments to cargo.
// Only c's own leading bool flags are consumed, and a single `--` after them.
// Every other token, hyphenated or not, is passed through in order.
func forwardCmd(a *app, c *cobra.Command, build func(rest []string) (command.Command, error)) *cobra.Command {
	c.Args = cobra.ArbitraryArgs
	c.DisableFlagParsing = true
	c.RunE = func(cmd *cobra.Command, args []string) error {
		rest, err := splitOwnFlags(cmd.Flags(), args)
		if err != nil {
			return err
		}
		if help, _ := cmd.Flags().GetBool("help"); help {
			return cmd.Help()
		}

		if err := a.prepare(cmd); err != nil {
			return err
		}
		next, err := build(rest)
		if err != nil {
			return err
		}
		return a.dispatcher.Dispatch(cmd.Context(), next)
	}
	return c
}

// splitOwnFlags parses the leading flags that belong to fs and returns the rest
func splitOwnFlags(fs *pflag.FlagSet, args []string) ([]string, error) {
	for i, arg := range args {
		if arg == "--" {
			return args[i+1:], fs.Parse(args[:i])
		}
		if !isOwnFlag(fs, arg) {
			return args[i:], fs.Parse(args[:i])
		}
	}
	return nil, fs.Parse(args)
}

// isOwnFlag reports whether arg names one of fs's bool flags, e.g. -r or --release
func isOwnFlag(fs *pflag.FlagSet, arg string) bool {
	var f *pflag.Flag
	switch {
	case strings.HasPrefix(arg, "--"):
		f = fs.Lookup(arg[2:])
	case len(arg) == 2 && arg[0] == '-':
		f = fs.ShorthandLookup(arg[1:])
	}
	return f != nil && f.NoOptDefVal != ""
}

func passthroughCmd(a *app, use, short string, next func(args []string) command.Command) *cobra.Command {
	return forwardCmd(a, &cobra.Command{
		Use:   use + " [cargo args...]",
		Short: short,
	}, func(rest []string) (command.Command, error) {
		return next(rest), nil
	})
}

func newCheckCmd(a *app) *cobra.Command {
	return passthroughCmd(a, "check", "Check code without building", func(args []string) command.Command {
		return command.Check{Args: args}
	})
}

func newClippyCmd(a *app) *cobra.Command {
	return passthroughCmd(a, "clippy", "Run clippy linter", func(args []string) command.Command {
		return command.Clippy{Args: args}
	})
}

func newTestCmd(a *app) *cobra.Command {
	return passthroughCmd(a, "test", "Run tests", func(args []string) command.Command {
		return command.Test{Args: args}
	})
}
