// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

// Package record reads, writes, and checks the digest manifest stored
// as RECORD inside a wheel: one CSV row per archived file carrying the
// path, a digest, and a byte size.
//
// A row's digest and size columns may be empty. The manifest's own row
// and directory marker rows are written that way, and such rows are
// exempt from verification. Paths use forward slashes and are unique
// within a manifest.
//
// Verification recomputes digests over the actual archive contents and
// reports every deviation as a Discrepancy rather than failing on the
// first, so callers can present a complete integrity report.
package record

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wheelhouse-project/wheelhouse/lib/digest"
)

// Entry is one manifest row. A zero Digest means the row carries no
// digest; Size is -1 when the row carries no size.
type Entry struct {
	Path   string
	Digest digest.Value
	Size   int64
}

// SelfEntry returns the conventional row for the manifest's own path:
// no digest, no size.
func SelfEntry(path string) Entry {
	return Entry{Path: path, Size: -1}
}

// verifiable reports whether the row carries anything to check.
func (e Entry) verifiable() bool {
	return !e.Digest.IsZero() || e.Size >= 0
}

// RowError reports a manifest row that does not conform to the
// grammar. Line is 1-based.
type RowError struct {
	Line   int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("manifest line %d: %s", e.Line, e.Reason)
}

// Parse decodes a manifest. Rows must have exactly three columns;
// quoting follows CSV rules, and both LF and CRLF line endings are
// accepted. Digest values are decoded but their algorithms are not
// resolved here; Verify does that against a registry.
func Parse(data []byte) ([]Entry, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = 3

	var entries []Entry
	for {
		row, err := r.Read()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, &RowError{Line: perr.Line, Reason: perr.Err.Error()}
			}
			return nil, fmt.Errorf("reading manifest: %w", err)
		}
		line, _ := r.FieldPos(0)

		entry := Entry{Path: row[0], Size: -1}
		if entry.Path == "" {
			return nil, &RowError{Line: line, Reason: "empty path"}
		}
		v, err := digest.ParseValue(row[1])
		if err != nil {
			return nil, &RowError{Line: line, Reason: err.Error()}
		}
		entry.Digest = v
		if row[2] != "" {
			size, err := strconv.ParseInt(row[2], 10, 64)
			if err != nil {
				return nil, &RowError{Line: line, Reason: fmt.Sprintf("size %q is not an integer", row[2])}
			}
			if size < 0 {
				return nil, &RowError{Line: line, Reason: fmt.Sprintf("size %d is negative", size)}
			}
			entry.Size = size
		}
		entries = append(entries, entry)
	}
}

// Encode serializes entries in order, one row per entry, LF line
// endings, quoting only the fields that need it.
func Encode(entries []Entry) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, e := range entries {
		size := ""
		if e.Size >= 0 {
			size = strconv.FormatInt(e.Size, 10)
		}
		// Write cannot fail on a bytes.Buffer.
		w.Write([]string{e.Path, e.Digest.String(), size})
	}
	w.Flush()
	return buf.Bytes()
}

// ValidateEntries checks manifest-level invariants that row parsing
// cannot see: unique paths, forward-slash separators, no absolute or
// parent-escaping paths. All violations are reported together.
func ValidateEntries(entries []Entry) error {
	var errs []error
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.Path] {
			errs = append(errs, fmt.Errorf("duplicate manifest path %q", e.Path))
		}
		seen[e.Path] = true
		if strings.Contains(e.Path, `\`) {
			errs = append(errs, fmt.Errorf("manifest path %q contains a backslash", e.Path))
		}
		if strings.HasPrefix(e.Path, "/") {
			errs = append(errs, fmt.Errorf("manifest path %q is absolute", e.Path))
		}
		if pathEscapes(e.Path) {
			errs = append(errs, fmt.Errorf("manifest path %q escapes the archive root", e.Path))
		}
	}
	return errors.Join(errs...)
}

// pathEscapes reports whether a slash-separated path contains a ".."
// segment.
func pathEscapes(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
