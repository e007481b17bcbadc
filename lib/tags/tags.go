// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

// Package tags implements wheel compatibility tags and the filename
// convention that carries them: parsing wheel filenames, expanding
// compressed tag sets into interpreter/ABI/platform triples, ordering
// versions and build numbers, and ranking candidate wheels against an
// installer's supported-tag list.
package tags

import (
	"fmt"
	"strings"
)

// Tag is one interpreter/ABI/platform compatibility triple, e.g.
// {cp311, cp311, manylinux_2_17_x86_64}. Components are stored
// normalized: lowercase, with runs of characters outside [a-z0-9_.]
// collapsed to a single underscore.
type Tag struct {
	Interpreter string
	ABI         string
	Platform    string
}

func (t Tag) String() string {
	return t.Interpreter + "-" + t.ABI + "-" + t.Platform
}

// ParseTag parses a single dash-separated triple such as
// "py3-none-any". Components are normalized; none may be empty or
// contain dots (use ParseTagSet for the compressed form).
func ParseTag(s string) (Tag, error) {
	set, err := ParseTagSet(s)
	if err != nil {
		return Tag{}, err
	}
	if len(set) != 1 {
		return Tag{}, fmt.Errorf("tag %q: compressed tag sets not allowed here", s)
	}
	return set[0], nil
}

// ParseTagSet parses a possibly compressed triple such as
// "cp310.cp311-abi3-manylinux_2_17_x86_64.musllinux_1_1_x86_64" and
// expands it into the cross product of its dot-separated components.
func ParseTagSet(s string) ([]Tag, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return nil, fmt.Errorf("tag %q: expected 3 dash-separated components, got %d", s, len(parts))
	}
	set, err := expandTriple(parts[0], parts[1], parts[2])
	if err != nil {
		return nil, fmt.Errorf("tag %q: %w", s, err)
	}
	return set, nil
}

// expandTriple expands compressed interpreter, ABI, and platform
// fields into their cross product: interpreters vary slowest,
// platforms fastest. Duplicate triples collapse to their first
// occurrence.
func expandTriple(interp, abi, platform string) ([]Tag, error) {
	interps, err := splitComponents(interp)
	if err != nil {
		return nil, fmt.Errorf("interpreter field: %w", err)
	}
	abis, err := splitComponents(abi)
	if err != nil {
		return nil, fmt.Errorf("abi field: %w", err)
	}
	platforms, err := splitComponents(platform)
	if err != nil {
		return nil, fmt.Errorf("platform field: %w", err)
	}

	tags := make([]Tag, 0, len(interps)*len(abis)*len(platforms))
	seen := make(map[Tag]bool)
	for _, i := range interps {
		for _, a := range abis {
			for _, p := range platforms {
				t := Tag{Interpreter: i, ABI: a, Platform: p}
				if seen[t] {
					continue
				}
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	return tags, nil
}

// splitComponents splits a compressed tag field on dots and normalizes
// each component.
func splitComponents(field string) ([]string, error) {
	parts := strings.Split(field, ".")
	for i, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("empty component in %q", field)
		}
		parts[i] = normalize(p)
	}
	return parts, nil
}

// normalize lowercases a tag component and collapses every run of
// characters outside [a-z0-9_.] to a single underscore.
func normalize(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	pendingUnderscore := false
	for _, r := range s {
		ok := r == '.' || r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !ok {
			pendingUnderscore = true
			continue
		}
		if pendingUnderscore {
			b.WriteByte('_')
			pendingUnderscore = false
		}
		b.WriteRune(r)
	}
	if pendingUnderscore {
		b.WriteByte('_')
	}
	return b.String()
}
