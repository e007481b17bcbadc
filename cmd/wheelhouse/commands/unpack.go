// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/wheelhouse-project/wheelhouse/cmd/wheelhouse/cli"
	"github.com/wheelhouse-project/wheelhouse/lib/wheel"
)

type unpackParams struct {
	Dest string `flag:"dest,d" desc:"destination directory" default:"."`
}

func unpackCommand() *cli.Command {
	var params unpackParams

	return &cli.Command{
		Name:    "unpack",
		Summary: "Extract a wheel archive to a directory",
		Description: `Extract a wheel's payload and dist-info directory.

The archive is verified before anything is written: a wheel whose
contents disagree with RECORD is reported and not extracted (exit 2).
This is the tool-level unpack operation, not an installation — no
scripts are generated and RECORD is extracted as-is.`,
		Usage: "wheelhouse unpack <wheel> [-d dir]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("unpack", &params)
		},
		Run: func(args []string) error {
			return runUnpack(os.Stdout, &params, args)
		},
	}
}

func runUnpack(stdout io.Writer, params *unpackParams, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("unpack: expected exactly one wheel file, got %d arguments", len(args))
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("unpack: %w", err)
	}

	w, err := wheel.Open(data)
	if err != nil {
		var integrity *wheel.IntegrityError
		if errors.As(err, &integrity) {
			fmt.Fprintf(stdout, "%s: refusing to extract, %d discrepancies:\n", args[0], len(integrity.Discrepancies))
			for _, d := range integrity.Discrepancies {
				fmt.Fprintf(stdout, "  %s\n", d)
			}
			return &cli.ExitError{Code: 2}
		}
		return fmt.Errorf("unpack: %w", err)
	}

	for _, p := range w.Paths() {
		if !filepath.IsLocal(filepath.FromSlash(p)) {
			return fmt.Errorf("unpack: archive path %q escapes the destination", p)
		}
		data, _ := w.File(p)
		target := filepath.Join(params.Dest, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("unpack: %w", err)
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return fmt.Errorf("unpack: %w", err)
		}
	}

	fmt.Fprintf(stdout, "extracted %d files to %s\n", len(w.Paths()), params.Dest)
	return nil
}
