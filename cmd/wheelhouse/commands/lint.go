// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wheelhouse-project/wheelhouse/cmd/wheelhouse/cli"
	"github.com/wheelhouse-project/wheelhouse/lib/tags"
	"github.com/wheelhouse-project/wheelhouse/lib/wheel"
)

func lintCommand() *cli.Command {
	return &cli.Command{
		Name:    "lint",
		Summary: "Check a wheel's metadata for index-rejection problems",
		Description: `Check a wheel's METADATA for the problems that make package indexes
reject an upload: missing or repeated core fields, malformed names,
invalid SPDX license expressions, undeclared or unrenderable
descriptions, and filename/metadata disagreements.

Exits 1 when problems are found.`,
		Usage: "wheelhouse lint <wheel>...",
		Run: func(args []string) error {
			return runLint(os.Stdout, args)
		},
	}
}

func runLint(stdout io.Writer, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("lint: expected at least one wheel file")
	}

	total := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("lint: %w", err)
		}
		w, err := wheel.Open(data, wheel.WithoutVerify())
		if err != nil {
			return fmt.Errorf("lint: %s: %w", path, err)
		}

		opts := wheel.LintOptions{}
		if parsed, err := tags.ParseFilename(filepath.Base(path)); err == nil {
			opts.Filename = parsed
		}

		problems := wheel.Lint(w.Metadata(), opts)
		total += len(problems)
		if len(problems) == 0 {
			fmt.Fprintf(stdout, "%s: OK\n", path)
			continue
		}
		fmt.Fprintf(stdout, "%s: %d problems:\n", path, len(problems))
		for _, p := range problems {
			fmt.Fprintf(stdout, "  %s\n", p)
		}
	}

	if total > 0 {
		return &cli.ExitError{Code: 1}
	}
	return nil
}
