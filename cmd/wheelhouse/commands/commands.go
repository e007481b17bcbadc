// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete wheelhouse CLI command tree.
// Each command's work happens in an unexported run function that
// takes an io.Writer, so tests drive commands without touching
// process stdout.
package commands

import (
	"fmt"
	"os"

	"github.com/wheelhouse-project/wheelhouse/cmd/wheelhouse/cli"
	"github.com/wheelhouse-project/wheelhouse/lib/config"
	"github.com/wheelhouse-project/wheelhouse/lib/version"
)

// Root builds and returns the complete wheelhouse CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "wheelhouse",
		Description: `Wheelhouse: build, inspect, and verify wheel archives.

Wheels are reproducible here: packing the same input twice yields
byte-identical archives. Verification re-computes every RECORD digest
and reports all discrepancies, never just the first.`,
		Subcommands: []*cli.Command{
			packCommand(),
			unpackCommand(),
			verifyCommand(),
			showCommand(),
			tagsCommand(),
			selectCommand(),
			lintCommand(),
			cacheCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Printf("wheelhouse %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Build a wheel from a source tree",
				Command:     "wheelhouse pack src/ --name demo --version 1.2.0",
			},
			{
				Description: "Verify an archive's digests (exit 2 on mismatch)",
				Command:     "wheelhouse verify dist/demo-1.2.0-py3-none-any.whl",
			},
			{
				Description: "Show archive metadata",
				Command:     "wheelhouse show dist/demo-1.2.0-py3-none-any.whl",
			},
			{
				Description: "Expand a compressed filename tag set",
				Command:     "wheelhouse tags cryptography-41.0-cp37.cp38-abi3-manylinux_2_17_x86_64.whl",
			},
			{
				Description: "Pick the best installable wheel from a directory",
				Command:     "wheelhouse select ./house --project demo --supported cp311-cp311-manylinux_2_17_x86_64,py3-none-any",
			},
			{
				Description: "Lint metadata before an index upload",
				Command:     "wheelhouse lint dist/demo-1.2.0-py3-none-any.whl",
			},
		},
	}
}

// loadConfig resolves configuration for a command: an explicit
// --config path wins, then WHEELHOUSE_CONFIG, then stock defaults.
// The result is always validated.
func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case path != "":
		cfg, err = config.LoadFile(path)
	case os.Getenv("WHEELHOUSE_CONFIG") != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
