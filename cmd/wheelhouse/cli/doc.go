// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli implements the command tree framework for the
// wheelhouse binary: dispatch, flag binding, help output, and exit
// code conventions.
//
// Commands are declared as [Command] values with pflag flag sets
// bound from tagged params structs (see [BindFlags]). Dispatch walks
// the first positional arguments through Subcommands; unknown names
// and flags get an edit-distance suggestion before the --help
// pointer.
//
// Two error conventions cross the framework boundary:
//
//   - A plain error prints as "error: ..." and exits 1.
//   - An [ExitError] exits with its code and prints nothing extra;
//     the command has already written its report. The verify command
//     uses code 2 to make integrity violations scriptable.
package cli
