// Package command models a parsed lunac invocation and turns it into build
// tool argument vectors.
package command

// Command is one parsed subcommand. The set of implementations is closed.
type Command interface {
	command()
}

// Build compiles the configured package
type Build struct {
	Release   bool
	Barebones bool
	Args      []string
}

// Run updates the plugin linker, then runs the configured package
type Run struct {
	Release   bool
	Barebones bool
	Args      []string
}

// Check type-checks the package without building
type Check struct {
	Args []string
}

// Clippy runs the linter
type Clippy struct {
	Args []string
}

// Test runs the package tests
type Test struct {
	Args []string
}

// Update refreshes the plugin linker metadata
type Update struct{}

// AddPlugin adds a plugin dependency by name or path
type AddPlugin struct {
	Plugin string
}

// RemovePlugin removes a plugin dependency
type RemovePlugin struct {
	Plugin string
}

// Align aligns plugin versions
type Align struct{}

// Validate validates lunaris.toml
type Validate struct{}

// NewPlugin scaffolds a plugin of the given type
type NewPlugin struct {
	Type string
	Name string
}

func (Build) command()        {}
func (Run) command()          {}
func (Check) command()        {}
func (Clippy) command()       {}
func (Test) command()         {}
func (Update) command()       {}
func (AddPlugin) command()    {}
func (RemovePlugin) command() {}
func (Align) command()        {}
func (Validate) command()     {}
func (NewPlugin) command()    {}
