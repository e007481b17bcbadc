// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for wheelhouse
// commands.
//
// Configuration is loaded from a single file specified by either the
// WHEELHOUSE_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There are no fallbacks, no ~/.config
// discovery, and no automatic file search. This ensures deterministic,
// auditable configuration with no hidden overrides.
//
// Variable expansion is performed on path fields after loading:
// ${HOME} and ${VAR:-default} patterns are expanded. No other
// environment variables override config values.
//
// Key exports:
//
//   - [Config] -- build and selection settings for every command
//   - [Default] -- returns a Config with stock defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on lib/digest, lib/tags, and lib/wheel only to
// validate configured names against what those packages accept.
package config
