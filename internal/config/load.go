package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FileName is the optional per-workspace config file
const FileName = "lunac.yaml"

// EnvPrefix prefixes every environment override
const EnvPrefix = "LUNAC_"

// LookupFunc matches os.LookupEnv
type LookupFunc func(key string) (string, bool)

// LoadFile overlays the workspace's lunac.yaml onto c. A missing file is not an error.
func (c *Config) LoadFile(root string) error {
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays LUNAC_* variables onto c
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	strs := map[string]*string{
		"TOOL":             &c.Tool,
		"PACKAGE":          &c.Package,
		"FULL_FEATURE":     &c.FullFeature,
		"LINKER_PACKAGE":   &c.LinkerPackage,
		"LINKER_MANIFEST":  &c.LinkerManifest,
		"PLUGINS_DIR":      &c.PluginsDir,
		"MANIFEST_NAME":    &c.ManifestName,
		"WORKSPACE_MARKER": &c.WorkspaceMarker,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup(EnvPrefix + "BAREBONES"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sBAREBONES: %w", EnvPrefix, err)
		}
		c.Barebones = b
	}
	return nil
}

// ProfileFromEnv returns the profile named by LUNAC_PROFILE, if any
func ProfileFromEnv(lookup LookupFunc) Profile {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, _ := lookup(EnvPrefix + "PROFILE")
	return Profile(v)
}

// Load builds the effective configuration for a resolved workspace root:
// profile defaults, then lunac.yaml, then the environment.
func Load(profile Profile, root string, lookup LookupFunc) (*Config, error) {
	cfg, err := ForProfile(profile)
	if err != nil {
		return nil, err
	}
	if err := cfg.LoadFile(root); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
