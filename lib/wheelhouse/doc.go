// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

// Package wheelhouse works with directories of wheels: scanning them
// into candidate lists, selecting the best installable wheel for a
// project against an installer's supported tags, and caching parsed
// wheel metadata keyed by file content hash so repeated scans do not
// reopen unchanged archives.
package wheelhouse
