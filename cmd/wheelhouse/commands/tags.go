// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/wheelhouse-project/wheelhouse/cmd/wheelhouse/cli"
	"github.com/wheelhouse-project/wheelhouse/lib/tags"
)

type tagsParams struct {
	cli.JSONOutput
}

// tagsReport is the JSON shape of the tags command's output.
type tagsReport struct {
	Distribution string   `json:"distribution"`
	Canonical    string   `json:"canonical"`
	Version      string   `json:"version"`
	Build        string   `json:"build,omitempty"`
	Tags         []string `json:"tags"`
}

func tagsCommand() *cli.Command {
	var params tagsParams

	return &cli.Command{
		Name:    "tags",
		Summary: "Parse a wheel filename and expand its tags",
		Description: `Parse a wheel filename into distribution, version, build tag, and
compatibility tags, expanding compressed tag sets into the full cross
product. Accepts a bare filename or a path.`,
		Usage: "wheelhouse tags <filename> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("tags", &params)
		},
		Run: func(args []string) error {
			return runTags(os.Stdout, &params, args)
		},
		Examples: []cli.Example{
			{
				Description: "Expand a compressed tag set",
				Command:     "wheelhouse tags cryptography-41.0-cp37.cp38-abi3-manylinux_2_17_x86_64.whl",
			},
		},
	}
}

func runTags(stdout io.Writer, params *tagsParams, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("tags: expected exactly one filename, got %d arguments", len(args))
	}

	parsed, err := tags.ParseFilename(filepath.Base(args[0]))
	if err != nil {
		return fmt.Errorf("tags: %w", err)
	}

	report := tagsReport{
		Distribution: parsed.Distribution,
		Canonical:    tags.CanonicalName(parsed.Distribution),
		Version:      parsed.Version,
		Build:        parsed.Build.String(),
	}
	for _, t := range parsed.Tags {
		report.Tags = append(report.Tags, t.String())
	}

	if done, err := params.EmitJSON(stdout, report); done {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 2, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Distribution:\t%s\n", report.Distribution)
	fmt.Fprintf(tw, "Canonical:\t%s\n", report.Canonical)
	fmt.Fprintf(tw, "Version:\t%s\n", report.Version)
	if report.Build != "" {
		fmt.Fprintf(tw, "Build:\t%s\n", report.Build)
	}
	tw.Flush()
	for _, t := range report.Tags {
		fmt.Fprintln(stdout, t)
	}
	return nil
}
