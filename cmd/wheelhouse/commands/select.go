// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/wheelhouse-project/wheelhouse/cmd/wheelhouse/cli"
	"github.com/wheelhouse-project/wheelhouse/lib/tags"
	"github.com/wheelhouse-project/wheelhouse/lib/wheelhouse"
)

type selectParams struct {
	cli.JSONOutput
	Supported []string `flag:"supported" desc:"supported tag sets, most preferred first (falls back to config)"`
	Project   string   `flag:"project" desc:"resolve a single project: newest version with an installable wheel"`
	Config    string   `flag:"config" desc:"config file path"`
	Verbose   bool     `flag:"verbose,v" desc:"log skipped files"`
}

// selectResult is the JSON shape of the select command's output.
type selectResult struct {
	Path         string `json:"path"`
	Distribution string `json:"distribution"`
	Version      string `json:"version"`
}

func selectCommand() *cli.Command {
	var params selectParams

	return &cli.Command{
		Name:    "select",
		Summary: "Pick the best installable wheel from a directory",
		Description: `Scan a directory of wheels and pick the best installable candidate
for a supported-tag list (most preferred first).

With --project, resolution works the way an installer's resolver does:
versions are walked newest to oldest and the first version with any
installable wheel wins — a newer version with no compatible wheel
does not shadow an older compatible one. Without --project, all
candidates compete directly.

Exits 1 when nothing is installable.`,
		Usage: "wheelhouse select [dir] --supported TAGSET,... [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("select", &params)
		},
		Run: func(args []string) error {
			return runSelect(os.Stdout, os.Stderr, &params, args)
		},
		Examples: []cli.Example{
			{
				Description: "Best wheel for a CPython 3.11 manylinux host",
				Command:     "wheelhouse select ./house --project demo --supported cp311-cp311-manylinux_2_17_x86_64,cp311-abi3-manylinux_2_17_x86_64,py3-none-any",
			},
		},
	}
}

func runSelect(stdout, stderr io.Writer, params *selectParams, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("select: expected at most one directory, got %d arguments", len(args))
	}

	cfg, err := loadConfig(params.Config)
	if err != nil {
		return err
	}

	dir := cfg.House
	if len(args) == 1 {
		dir = args[0]
	}

	var supported []tags.Tag
	if len(params.Supported) > 0 {
		for _, set := range params.Supported {
			expanded, err := tags.ParseTagSet(set)
			if err != nil {
				return fmt.Errorf("select: --supported: %w", err)
			}
			supported = append(supported, expanded...)
		}
	} else {
		supported, err = cfg.Supported()
		if err != nil {
			return fmt.Errorf("select: %w", err)
		}
	}

	logger := cli.NewCommandLogger(params.Verbose)
	candidates, err := wheelhouse.Scan(dir, wheelhouse.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("select: %w", err)
	}

	var winner wheelhouse.Candidate
	var ok bool
	if params.Project != "" {
		winner, ok = wheelhouse.SelectProject(candidates, params.Project, supported)
	} else {
		winner, ok = wheelhouse.Select(candidates, supported)
	}
	if !ok {
		fmt.Fprintln(stderr, "select: no installable wheel for the supported tags")
		return &cli.ExitError{Code: 1}
	}

	result := selectResult{
		Path:         winner.Path,
		Distribution: winner.Filename.Distribution,
		Version:      winner.Filename.Version,
	}
	if done, err := params.EmitJSON(stdout, result); done {
		return err
	}
	fmt.Fprintln(stdout, winner.Path)
	return nil
}
