package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zyanho/lunac/internal/command"
)

// profileFlags are the options shared by build and run
type profileFlags struct {
	release   bool
	barebones bool
}

func addProfileFlags(fs *pflag.FlagSet, verb string) *profileFlags {
	var p profileFlags
	fs.BoolVarP(&p.release, "release", "r", false, verb+" with release optimizations")
	fs.BoolVar(&p.barebones, "barebones", false, verb+" without the runtime (barebones)")
	return &p
}

// checkBarebones rejects --barebones for packages without optional features
func (a *app) checkBarebones(p *profileFlags) error {
	if p.barebones && !a.cfg.Barebones {
		return fmt.Errorf("--barebones is not supported for package %s", a.cfg.Package)
	}
	return nil
}

func newBuildCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "build [--release] [--barebones] [cargo args...]",
		Short: "Build Lunaris",
	}
	p := addProfileFlags(c.Flags(), "Build")
	return forwardCmd(a, c, func(rest []string) (command.Command, error) {
		if err := a.checkBarebones(p); err != nil {
			return nil, err
		}
		return command.Build{Release: p.release, Barebones: p.barebones, Args: rest}, nil
	})
}

func newRunCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "run [--release] [--barebones] [cargo args...]",
		Short: "Run Lunaris",
		Long:  "Update the plugin linker, then run Lunaris. Nothing is run if the update fails.",
	}
	p := addProfileFlags(c.Flags(), "Run")
	return forwardCmd(a, c, func(rest []string) (command.Command, error) {
		if err := a.checkBarebones(p); err != nil {
			return nil, err
		}
		return command.Run{Release: p.release, Barebones: p.barebones, Args: rest}, nil
	})
}
