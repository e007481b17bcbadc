// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/wheelhouse-project/wheelhouse/cmd/wheelhouse/cli"
	"github.com/wheelhouse-project/wheelhouse/lib/wheelhouse"
)

type cacheWarmParams struct {
	Config  string `flag:"config" desc:"config file path"`
	Verbose bool   `flag:"verbose,v" desc:"log skipped files"`
}

type cachePruneParams struct {
	Config    string        `flag:"config" desc:"config file path"`
	OlderThan time.Duration `flag:"older-than" desc:"remove entries cached longer ago than this" default:"720h"`
}

func cacheCommand() *cli.Command {
	return &cli.Command{
		Name:    "cache",
		Summary: "Maintain the wheel metadata cache",
		Description: `Maintain the on-disk metadata cache.

Cache entries are keyed by file content hash, so a rebuilt wheel never
serves stale metadata; pruning only reclaims disk space.`,
		Subcommands: []*cli.Command{
			cacheWarmCommand(),
			cachePruneCommand(),
		},
	}
}

func cacheWarmCommand() *cli.Command {
	var params cacheWarmParams

	return &cli.Command{
		Name:    "warm",
		Summary: "Cache metadata for every wheel in a directory",
		Usage:   "wheelhouse cache warm [dir] [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("warm", &params)
		},
		Run: func(args []string) error {
			return runCacheWarm(os.Stdout, &params, args)
		},
	}
}

func runCacheWarm(stdout io.Writer, params *cacheWarmParams, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("cache warm: expected at most one directory, got %d arguments", len(args))
	}

	cfg, err := loadConfig(params.Config)
	if err != nil {
		return err
	}
	dir := cfg.House
	if len(args) == 1 {
		dir = args[0]
	}

	logger := cli.NewCommandLogger(params.Verbose)
	candidates, err := wheelhouse.Scan(dir, wheelhouse.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("cache warm: %w", err)
	}

	cache, err := wheelhouse.NewCache(cfg.CacheDir, wheelhouse.WithCacheLogger(logger))
	if err != nil {
		return fmt.Errorf("cache warm: %w", err)
	}
	for _, candidate := range candidates {
		if _, err := cache.Metadata(candidate.Path); err != nil {
			return fmt.Errorf("cache warm: %w", err)
		}
	}

	fmt.Fprintf(stdout, "cached metadata for %d wheels\n", len(candidates))
	return nil
}

func cachePruneCommand() *cli.Command {
	var params cachePruneParams

	return &cli.Command{
		Name:    "prune",
		Summary: "Remove cache entries past an age cutoff",
		Usage:   "wheelhouse cache prune [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("prune", &params)
		},
		Run: func(args []string) error {
			return runCachePrune(os.Stdout, &params, args)
		},
		Examples: []cli.Example{
			{
				Description: "Drop entries older than a week",
				Command:     "wheelhouse cache prune --older-than 168h",
			},
		},
	}
}

func runCachePrune(stdout io.Writer, params *cachePruneParams, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("cache prune: unexpected arguments: %v", args)
	}

	cfg, err := loadConfig(params.Config)
	if err != nil {
		return err
	}

	cache, err := wheelhouse.NewCache(cfg.CacheDir)
	if err != nil {
		return fmt.Errorf("cache prune: %w", err)
	}
	removed, err := cache.Prune(time.Now().Add(-params.OlderThan))
	if err != nil {
		return fmt.Errorf("cache prune: %w", err)
	}

	fmt.Fprintf(stdout, "removed %d cache entries\n", removed)
	return nil
}
