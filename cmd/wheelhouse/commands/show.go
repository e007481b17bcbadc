// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/wheelhouse-project/wheelhouse/cmd/wheelhouse/cli"
	"github.com/wheelhouse-project/wheelhouse/lib/wheel"
)

type showParams struct {
	cli.JSONOutput
	All bool `flag:"all,a" desc:"print every metadata field"`
}

// showSummary is the JSON shape of the show command's output.
type showSummary struct {
	Distribution  string            `json:"distribution"`
	Version       string            `json:"version"`
	Summary       string            `json:"summary,omitempty"`
	WheelVersion  string            `json:"wheel_version"`
	Generator     string            `json:"generator,omitempty"`
	RootIsPurelib bool              `json:"root_is_purelib"`
	Tags          []string          `json:"tags"`
	Build         string            `json:"build,omitempty"`
	Files         int               `json:"files"`
	Scripts       []string          `json:"console_scripts,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

func showCommand() *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Print a wheel's metadata summary",
		Description: `Print the distribution metadata of a wheel archive.

The default view is the core fields; --all adds every METADATA field
and --json emits the summary as JSON. Digest verification is skipped;
use the verify command for that.`,
		Usage: "wheelhouse show <wheel> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("show", &params)
		},
		Run: func(args []string) error {
			return runShow(os.Stdout, &params, args)
		},
	}
}

func runShow(stdout io.Writer, params *showParams, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("show: expected exactly one wheel file, got %d arguments", len(args))
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	w, err := wheel.Open(data, wheel.WithoutVerify())
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}

	info := w.Info()
	summary := showSummary{
		Distribution:  w.Name(),
		Version:       w.Version(),
		WheelVersion:  info.WheelVersion,
		Generator:     info.Generator,
		RootIsPurelib: info.RootIsPurelib,
		Build:         info.Build.String(),
		Files:         len(w.Paths()),
	}
	summary.Summary, _ = w.Metadata().Get("Summary")
	for _, t := range info.Tags {
		summary.Tags = append(summary.Tags, t.String())
	}
	if eps, err := w.EntryPoints(); err == nil && eps != nil {
		for _, script := range eps.ConsoleScripts() {
			summary.Scripts = append(summary.Scripts, script.Name+" = "+script.Object)
		}
	}
	if params.All {
		summary.Metadata = make(map[string]string)
		for _, name := range w.Metadata().Names() {
			values := w.Metadata().GetAll(name)
			if len(values) == 1 {
				summary.Metadata[name] = values[0]
			} else {
				for i, v := range values {
					summary.Metadata[fmt.Sprintf("%s[%d]", name, i)] = v
				}
			}
		}
	}

	if done, err := params.EmitJSON(stdout, summary); done {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 2, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", summary.Distribution)
	fmt.Fprintf(tw, "Version:\t%s\n", summary.Version)
	if summary.Summary != "" {
		fmt.Fprintf(tw, "Summary:\t%s\n", summary.Summary)
	}
	fmt.Fprintf(tw, "Wheel-Version:\t%s\n", summary.WheelVersion)
	if summary.Generator != "" {
		fmt.Fprintf(tw, "Generator:\t%s\n", summary.Generator)
	}
	fmt.Fprintf(tw, "Root-Is-Purelib:\t%t\n", summary.RootIsPurelib)
	for _, t := range summary.Tags {
		fmt.Fprintf(tw, "Tag:\t%s\n", t)
	}
	if summary.Build != "" {
		fmt.Fprintf(tw, "Build:\t%s\n", summary.Build)
	}
	fmt.Fprintf(tw, "Files:\t%d\n", summary.Files)
	for _, script := range summary.Scripts {
		fmt.Fprintf(tw, "Script:\t%s\n", script)
	}
	tw.Flush()

	if params.All {
		fmt.Fprintln(stdout)
		for _, field := range w.Metadata().Fields {
			fmt.Fprintf(stdout, "%s: %s\n", field.Name, field.Value)
		}
		if body := w.Metadata().Body; body != "" {
			fmt.Fprintf(stdout, "\n%s\n", body)
		}
	}
	return nil
}
