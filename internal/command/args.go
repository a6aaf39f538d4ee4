package command

import (
	"github.com/zyanho/lunac/internal/config"
)

// Builder produces build tool argument vectors from commands
type Builder struct {
	cfg *config.Config
}

// NewBuilder creates a builder for the given configuration
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{cfg: cfg}
}

// BuildArgs returns the arguments for `build`
func (b *Builder) BuildArgs(c Build) []string {
	return b.compile("build", c.Release, c.Barebones, c.Args)
}

// RunArgs returns the arguments for `run`
func (b *Builder) RunArgs(c Run) []string {
	return b.compile("run", c.Release, c.Barebones, c.Args)
}

// CheckArgs returns the arguments for `check`
func (b *Builder) CheckArgs(c Check) []string {
	return b.scoped("check", c.Args)
}

// ClippyArgs returns the arguments for `clippy`
func (b *Builder) ClippyArgs(c Clippy) []string {
	return b.scoped("clippy", c.Args)
}

// TestArgs returns the arguments for `test`
func (b *Builder) TestArgs(c Test) []string {
	return b.scoped("test", c.Args)
}

// UpdateArgs returns the arguments that run the linker updater
func (b *Builder) UpdateArgs() []string {
	return []string{
		"run", "-q", "-p", b.cfg.LinkerPackage,
		"--",
		b.cfg.LinkerManifest,
		b.cfg.PluginsDir,
	}
}

// compile builds the argument vector shared by build and run.
// Passthrough args always come last and are never altered.
func (b *Builder) compile(action string, release, barebones bool, passthrough []string) []string {
	args := []string{action, "--package", b.cfg.Package}
	if b.cfg.Barebones && !barebones {
		args = append(args, "--features", b.cfg.FullFeature)
	}
	if release {
		args = append(args, "--release")
	}
	return append(args, passthrough...)
}

func (b *Builder) scoped(action string, passthrough []string) []string {
	args := make([]string, 0, 3+len(passthrough))
	args = append(args, action, "--package", b.cfg.Package)
	return append(args, passthrough...)
}
