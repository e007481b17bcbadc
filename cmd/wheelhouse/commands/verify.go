// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/wheelhouse-project/wheelhouse/cmd/wheelhouse/cli"
	"github.com/wheelhouse-project/wheelhouse/lib/wheel"
)

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:    "verify",
		Summary: "Re-verify a wheel's RECORD digests",
		Description: `Re-compute every digest in a wheel's RECORD and compare sizes.

Every discrepancy is reported, not just the first. Exit codes are
scriptable: 0 for a clean archive, 2 for integrity violations, 1 when
the archive could not be checked at all (structural damage, unknown
digest algorithm).`,
		Usage: "wheelhouse verify <wheel>...",
		Run: func(args []string) error {
			return runVerify(os.Stdout, args)
		},
		Examples: []cli.Example{
			{
				Description: "Verify one archive",
				Command:     "wheelhouse verify dist/demo-1.2.0-py3-none-any.whl",
			},
			{
				Description: "Verify a whole directory",
				Command:     "wheelhouse verify dist/*.whl",
			},
		},
	}
}

func runVerify(stdout io.Writer, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("verify: expected at least one wheel file")
	}

	violations := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("verify: %w", err)
		}

		w, err := wheel.Open(data)
		if err != nil {
			var integrity *wheel.IntegrityError
			if !errors.As(err, &integrity) {
				return fmt.Errorf("verify: %s: %w", path, err)
			}
			violations++
			fmt.Fprintf(stdout, "%s: FAILED, %d discrepancies:\n", path, len(integrity.Discrepancies))
			for _, d := range integrity.Discrepancies {
				fmt.Fprintf(stdout, "  %s\n", d)
			}
			continue
		}

		verified := 0
		for _, entry := range w.Record() {
			if !entry.Digest.IsZero() || entry.Size >= 0 {
				verified++
			}
		}
		fmt.Fprintf(stdout, "%s: OK (%d files verified)\n", path, verified)
	}

	if violations > 0 {
		return &cli.ExitError{Code: 2}
	}
	return nil
}
