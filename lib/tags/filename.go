// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package tags

import (
	"fmt"
	"strconv"
	"strings"
)

// Filename is a parsed wheel filename:
//
//	{distribution}-{version}[-{build}]-{interpreters}-{abis}-{platforms}.whl
//
// The three tag fields keep their dot-separated components in declared
// order (normalized), and Tags carries the expanded cross product.
type Filename struct {
	Distribution string
	Version      string
	Build        *BuildTag
	Interpreters []string
	ABIs         []string
	Platforms    []string
	Tags         []Tag
}

// BuildTag is the optional build field: a leading number and an
// arbitrary suffix. "12abc" parses as {12, "abc"}.
type BuildTag struct {
	Number int
	Suffix string
}

func (b *BuildTag) String() string {
	if b == nil {
		return ""
	}
	return strconv.Itoa(b.Number) + b.Suffix
}

// ParseBuildTag parses a build field. It must begin with a decimal
// digit.
func ParseBuildTag(s string) (*BuildTag, error) {
	if s == "" {
		return nil, fmt.Errorf("build tag is empty")
	}
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		return nil, fmt.Errorf("build tag %q does not start with a digit", s)
	}
	n, err := strconv.Atoi(s[:digits])
	if err != nil {
		return nil, fmt.Errorf("build tag %q: number out of range", s)
	}
	return &BuildTag{Number: n, Suffix: s[digits:]}, nil
}

// CompareBuild orders build tags: by number, then suffix. A nil build
// tag sorts below every defined one.
func CompareBuild(a, b *BuildTag) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if a.Number != b.Number {
		if a.Number < b.Number {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Suffix, b.Suffix)
}

// InvalidFilenameError reports a filename that does not follow the
// wheel naming convention.
type InvalidFilenameError struct {
	Name   string
	Reason string
}

func (e *InvalidFilenameError) Error() string {
	return fmt.Sprintf("invalid wheel filename %q: %s", e.Name, e.Reason)
}

// ParseFilename parses a bare wheel filename (no directory part). The
// name must end in ".whl" and split into five or six dash-separated
// fields. Tag fields are expanded; the distribution and version fields
// are kept verbatim.
func ParseFilename(name string) (*Filename, error) {
	fail := func(reason string) (*Filename, error) {
		return nil, &InvalidFilenameError{Name: name, Reason: reason}
	}
	if strings.ContainsAny(name, `/\`) {
		return fail("contains a path separator")
	}
	base, ok := strings.CutSuffix(name, ".whl")
	if !ok {
		return fail("missing .whl suffix")
	}
	parts := strings.Split(base, "-")
	if len(parts) != 5 && len(parts) != 6 {
		return fail(fmt.Sprintf("expected 5 or 6 dash-separated fields, got %d", len(parts)))
	}

	f := &Filename{Distribution: parts[0], Version: parts[1]}
	if f.Distribution == "" {
		return fail("empty distribution field")
	}
	if f.Version == "" {
		return fail("empty version field")
	}
	tagFields := parts[2:]
	if len(parts) == 6 {
		build, err := ParseBuildTag(parts[2])
		if err != nil {
			return fail(err.Error())
		}
		f.Build = build
		tagFields = parts[3:]
	}

	var err error
	if f.Interpreters, err = splitComponents(tagFields[0]); err != nil {
		return fail(fmt.Sprintf("interpreter field: %v", err))
	}
	if f.ABIs, err = splitComponents(tagFields[1]); err != nil {
		return fail(fmt.Sprintf("abi field: %v", err))
	}
	if f.Platforms, err = splitComponents(tagFields[2]); err != nil {
		return fail(fmt.Sprintf("platform field: %v", err))
	}
	f.Tags, err = expandTriple(tagFields[0], tagFields[1], tagFields[2])
	if err != nil {
		return fail(err.Error())
	}
	return f, nil
}

// String reassembles the filename in compressed form.
func (f *Filename) String() string {
	var b strings.Builder
	b.WriteString(f.Distribution)
	b.WriteByte('-')
	b.WriteString(f.Version)
	if f.Build != nil {
		b.WriteByte('-')
		b.WriteString(f.Build.String())
	}
	b.WriteByte('-')
	b.WriteString(strings.Join(f.Interpreters, "."))
	b.WriteByte('-')
	b.WriteString(strings.Join(f.ABIs, "."))
	b.WriteByte('-')
	b.WriteString(strings.Join(f.Platforms, "."))
	b.WriteString(".whl")
	return b.String()
}

// NormalizeDistribution escapes a distribution name for use in a wheel
// filename: every run of hyphens, underscores, and dots becomes a
// single underscore. Case is preserved.
func NormalizeDistribution(name string) string {
	return collapseRuns(name, '_')
}

// CanonicalName reduces a distribution name to its canonical
// comparison form: lowercase, with every run of hyphens, underscores,
// and dots collapsed to a single hyphen.
func CanonicalName(name string) string {
	return collapseRuns(strings.ToLower(name), '-')
}

// EscapeVersion escapes a version for use in a wheel filename: runs of
// hyphens become underscores so the dash-separated fields stay
// unambiguous.
func EscapeVersion(version string) string {
	var b strings.Builder
	b.Grow(len(version))
	run := false
	for _, r := range version {
		if r == '-' {
			run = true
			continue
		}
		if run {
			b.WriteByte('_')
			run = false
		}
		b.WriteRune(r)
	}
	if run {
		b.WriteByte('_')
	}
	return b.String()
}

func collapseRuns(s string, repl byte) string {
	var b strings.Builder
	b.Grow(len(s))
	run := false
	for _, r := range s {
		if r == '-' || r == '_' || r == '.' {
			run = true
			continue
		}
		if run {
			b.WriteByte(repl)
			run = false
		}
		b.WriteRune(r)
	}
	if run {
		b.WriteByte(repl)
	}
	return b.String()
}
