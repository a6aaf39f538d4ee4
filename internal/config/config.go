// Package config holds the parameters that differ between Lunaris project layouts.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zyanho/lunac/internal/workspace"
)

// Profile names a preset layout
type Profile string

const (
	// ProfileLunaris builds the `lunaris` package with optional features
	ProfileLunaris Profile = "lunaris"
	// ProfileCore builds `lunaris_core` which has no barebones distinction
	ProfileCore Profile = "core"
)

// DefaultProfile is used when no profile is selected
const DefaultProfile = ProfileLunaris

// Config defines how lunac drives the underlying build tool
type Config struct {
	// Tool is the build tool resolved on PATH
	Tool string `yaml:"tool"`
	// Package is the package passed to --package
	Package string `yaml:"package"`
	// Barebones reports whether the project supports building without
	// optional features. When false --features is never passed.
	Barebones bool `yaml:"barebones"`
	// FullFeature is enabled unless --barebones is given
	FullFeature string `yaml:"full_feature"`

	LinkerPackage  string `yaml:"linker_package"`
	LinkerManifest string `yaml:"linker_manifest"`
	PluginsDir     string `yaml:"plugins_dir"`

	// ManifestName and WorkspaceMarker drive root discovery. They are not
	// read from lunac.yaml since that file lives inside the root.
	ManifestName    string `yaml:"-"`
	WorkspaceMarker string `yaml:"-"`
}

var profiles = map[Profile]func() *Config{
	ProfileLunaris: func() *Config {
		return &Config{
			Tool:            "cargo",
			Package:         "lunaris",
			Barebones:       true,
			FullFeature:     "full",
			LinkerPackage:   "linker_updater",
			LinkerManifest:  "crates/linker/Cargo.toml",
			PluginsDir:      "plugins/",
			ManifestName:    workspace.DefaultManifestName,
			WorkspaceMarker: workspace.DefaultMarker,
		}
	},
	ProfileCore: func() *Config {
		return &Config{
			Tool:            "cargo",
			Package:         "lunaris_core",
			Barebones:       false,
			LinkerPackage:   "linker_updater",
			LinkerManifest:  "linker/Cargo.toml",
			PluginsDir:      "plugins/",
			ManifestName:    workspace.DefaultManifestName,
			WorkspaceMarker: workspace.DefaultMarker,
		}
	},
}

// DefaultConfig returns the configuration of the default profile
func DefaultConfig() *Config {
	return profiles[DefaultProfile]()
}

// ForProfile returns the preset configuration for the named profile
func ForProfile(p Profile) (*Config, error) {
	if p == "" {
		p = DefaultProfile
	}
	fn, ok := profiles[p]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q (available: %s)", p, strings.Join(ProfileNames(), ", "))
	}
	return fn(), nil
}

// ProfileNames lists the known profiles in sorted order
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for p := range profiles {
		names = append(names, string(p))
	}
	sort.Strings(names)
	return names
}

// Validate checks that the configuration can produce usable commands
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if strings.TrimSpace(c.Tool) == "" {
		return fmt.Errorf("tool cannot be empty")
	}
	if strings.TrimSpace(c.Package) == "" {
		return fmt.Errorf("package cannot be empty")
	}
	if c.Barebones && strings.TrimSpace(c.FullFeature) == "" {
		return fmt.Errorf("full_feature must be set when barebones is enabled")
	}
	if strings.TrimSpace(c.LinkerPackage) == "" {
		return fmt.Errorf("linker_package cannot be empty")
	}
	if strings.TrimSpace(c.LinkerManifest) == "" {
		return fmt.Errorf("linker_manifest cannot be empty")
	}
	if strings.TrimSpace(c.PluginsDir) == "" {
		return fmt.Errorf("plugins_dir cannot be empty")
	}
	return nil
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
