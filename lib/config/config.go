// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/wheelhouse-project/wheelhouse/lib/digest"
	"github.com/wheelhouse-project/wheelhouse/lib/tags"
	"github.com/wheelhouse-project/wheelhouse/lib/version"
	"github.com/wheelhouse-project/wheelhouse/lib/wheel"
)

// Config holds the settings shared by wheelhouse commands.
type Config struct {
	// House is the default wheel directory for commands that operate
	// on a directory of wheels.
	House string `yaml:"house"`

	// CacheDir is where the metadata cache lives.
	CacheDir string `yaml:"cache_dir"`

	// Generator is recorded in the WHEEL file of archives built by
	// the pack command.
	Generator string `yaml:"generator"`

	// DigestAlgorithm names the RECORD digest algorithm for built
	// archives. It must be registered: sha256, sha384, sha512, or
	// blake2b_256.
	DigestAlgorithm string `yaml:"digest_algorithm"`

	// Compression selects the archive member compression, "deflate"
	// or "store".
	Compression string `yaml:"compression"`

	// SupportedTags lists the tag sets this host can install, most
	// preferred first. Compressed sets ("cp311-abi3.none-manylinux")
	// expand in place.
	SupportedTags []string `yaml:"supported_tags"`
}

// Default returns the stock configuration. These defaults are a
// usable base on their own; a config file overrides them field by
// field.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		House:           ".",
		CacheDir:        filepath.Join(homeDir, ".cache", "wheelhouse"),
		Generator:       "wheelhouse " + version.Short(),
		DigestAlgorithm: "sha256",
		Compression:     "deflate",
		SupportedTags:   []string{"py3-none-any"},
	}
}

// Load loads configuration from the WHEELHOUSE_CONFIG environment
// variable. Unlike LoadFile it fails when the variable is unset,
// since a caller reaching for Load asked for an explicit file.
func Load() (*Config, error) {
	configPath := os.Getenv("WHEELHOUSE_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("WHEELHOUSE_CONFIG environment variable not set; " +
			"set it to the path of your wheelhouse.yaml config file, or use --config")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, merged over
// Default. The config file is the single source of truth: environment
// variables do not override config values. The only expansion
// performed is ${HOME} and similar path variables for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.expandVariables()

	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in path
// fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.House = expandVars(c.House, vars)
	c.CacheDir = expandVars(c.CacheDir, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration against what the underlying
// packages accept, reporting every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.House == "" {
		errs = append(errs, fmt.Errorf("house is required"))
	}
	if c.CacheDir == "" {
		errs = append(errs, fmt.Errorf("cache_dir is required"))
	}

	if c.DigestAlgorithm == "" {
		errs = append(errs, fmt.Errorf("digest_algorithm is required"))
	} else if _, err := digest.Default().Lookup(c.DigestAlgorithm); err != nil {
		errs = append(errs, fmt.Errorf("digest_algorithm: %w", err))
	}

	if _, err := wheel.ParseCompression(c.Compression); err != nil {
		errs = append(errs, fmt.Errorf("compression: %w", err))
	}

	if len(c.SupportedTags) == 0 {
		errs = append(errs, fmt.Errorf("supported_tags must list at least one tag set"))
	}
	for _, set := range c.SupportedTags {
		if _, err := tags.ParseTagSet(set); err != nil {
			errs = append(errs, fmt.Errorf("supported_tags: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Supported expands SupportedTags into the flat preference-ordered
// tag list that selection wants. Call Validate first; this reports
// the first parse error it hits.
func (c *Config) Supported() ([]tags.Tag, error) {
	var supported []tags.Tag
	for _, set := range c.SupportedTags {
		expanded, err := tags.ParseTagSet(set)
		if err != nil {
			return nil, fmt.Errorf("supported_tags: %w", err)
		}
		supported = append(supported, expanded...)
	}
	return supported, nil
}

// EnsureDirs creates the configured directories if they don't exist.
func (c *Config) EnsureDirs() error {
	for _, path := range []string{c.House, c.CacheDir} {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}
