// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

// Wheelhouse is the CLI for building, inspecting, and verifying wheel
// archives. It provides subcommands for archive construction (pack),
// extraction (unpack), digest verification (verify), metadata
// inspection (show, tags, lint), and candidate selection across a
// directory of wheels (select).
package main
