// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package tags

import "testing"

func mustParse(t *testing.T, name string) *Filename {
	t.Helper()
	f, err := ParseFilename(name)
	if err != nil {
		t.Fatalf("ParseFilename(%q): %v", name, err)
	}
	return f
}

func mustTags(t *testing.T, triples ...string) []Tag {
	t.Helper()
	var out []Tag
	for _, s := range triples {
		tag, err := ParseTag(s)
		if err != nil {
			t.Fatalf("ParseTag(%q): %v", s, err)
		}
		out = append(out, tag)
	}
	return out
}

func TestPriority(t *testing.T) {
	supported := mustTags(t,
		"cp311-cp311-linux_x86_64",
		"cp311-abi3-linux_x86_64",
		"py3-none-any",
	)
	f := mustParse(t, "pkg-1.0-cp311-abi3-linux_x86_64.whl")
	p, ok := Priority(f, supported)
	if !ok || p != 1 {
		t.Fatalf("Priority = %d, %v; want 1, true", p, ok)
	}
	if _, ok := Priority(mustParse(t, "pkg-1.0-cp39-cp39-win32.whl"), supported); ok {
		t.Fatal("incompatible wheel reported as supported")
	}
}

func TestRankPrefersMostSpecificTag(t *testing.T) {
	supported := mustTags(t,
		"cp311-cp311-linux_x86_64",
		"cp311-abi3-linux_x86_64",
		"py3-none-any",
	)
	candidates := []*Filename{
		mustParse(t, "pkg-1.0-py3-none-any.whl"),
		mustParse(t, "pkg-1.0-cp311-cp311-linux_x86_64.whl"),
		mustParse(t, "pkg-1.0-cp311-abi3-linux_x86_64.whl"),
	}
	best, ok := Rank(candidates, supported)
	if !ok || best != 1 {
		t.Fatalf("Rank = %d, %v; want 1, true", best, ok)
	}
}

func TestRankSkipsUnmatchedPreferredTags(t *testing.T) {
	// The most-preferred supported tag has no candidate at all; the
	// wheel matching at index 1 still beats the one at index 2.
	supported := mustTags(t,
		"cp310-cp310-manylinux_2_17_x86_64",
		"cp39-abi3-manylinux_2_17_x86_64",
		"py3-none-any",
	)
	candidates := []*Filename{
		mustParse(t, "pkg-1.0-py3-none-any.whl"),
		mustParse(t, "pkg-1.0-cp39-abi3-manylinux_2_17_x86_64.whl"),
	}
	best, ok := Rank(candidates, supported)
	if !ok || best != 1 {
		t.Fatalf("Rank = %d, %v; want 1, true", best, ok)
	}
}

func TestRankNoCandidate(t *testing.T) {
	supported := mustTags(t, "py3-none-any")
	candidates := []*Filename{
		mustParse(t, "pkg-1.0-cp39-cp39-win32.whl"),
	}
	if _, ok := Rank(candidates, supported); ok {
		t.Fatal("Rank found a winner among incompatible wheels")
	}
	if _, ok := Rank(nil, supported); ok {
		t.Fatal("Rank found a winner among no candidates")
	}
}

func TestRankTieBreakBuild(t *testing.T) {
	supported := mustTags(t, "py3-none-any")
	candidates := []*Filename{
		mustParse(t, "pkg-1.0-1-py3-none-any.whl"),
		mustParse(t, "pkg-1.0-3-py3-none-any.whl"),
		mustParse(t, "pkg-1.0-2-py3-none-any.whl"),
	}
	best, ok := Rank(candidates, supported)
	if !ok || best != 1 {
		t.Fatalf("Rank = %d, %v; want 1 (highest build)", best, ok)
	}
}

func TestRankTieBreakBuildSuffix(t *testing.T) {
	supported := mustTags(t, "py3-none-any")
	candidates := []*Filename{
		mustParse(t, "pkg-1.0-2a-py3-none-any.whl"),
		mustParse(t, "pkg-1.0-2b-py3-none-any.whl"),
	}
	best, ok := Rank(candidates, supported)
	if !ok || best != 1 {
		t.Fatalf("Rank = %d, %v; want 1 (suffix b beats a)", best, ok)
	}
}

func TestRankTieBreakSpecificity(t *testing.T) {
	supported := mustTags(t, "py3-none-any")
	candidates := []*Filename{
		mustParse(t, "pkg-1.0-py2.py3-none-any.whl"),
		mustParse(t, "pkg-1.0-py3-none-any.whl"),
	}
	// Equal priority, no build tags: the narrower declaration wins.
	best, ok := Rank(candidates, supported)
	if !ok || best != 1 {
		t.Fatalf("Rank = %d, %v; want 1 (strict subset)", best, ok)
	}
}

func TestRankPolicyOrder(t *testing.T) {
	supported := mustTags(t, "py3-none-any")
	candidates := []*Filename{
		mustParse(t, "pkg-1.0-2-py2.py3-none-any.whl"),
		mustParse(t, "pkg-1.0-1-py3-none-any.whl"),
	}
	// Default policy: build tag first, so the wider wheel with the
	// higher build wins.
	best, ok := Rank(candidates, supported)
	if !ok || best != 0 {
		t.Fatalf("default Rank = %d, %v; want 0", best, ok)
	}
	// Specificity-first policy flips the outcome.
	policy := RankPolicy{TieBreaks: []TieBreak{TieBreakSpecificity, TieBreakBuild}}
	best, ok = RankWithPolicy(candidates, supported, policy)
	if !ok || best != 1 {
		t.Fatalf("specificity-first Rank = %d, %v; want 1", best, ok)
	}
}

func TestRankStableOnFullTie(t *testing.T) {
	supported := mustTags(t, "py3-none-any")
	candidates := []*Filename{
		mustParse(t, "first-1.0-py3-none-any.whl"),
		mustParse(t, "second-1.0-py3-none-any.whl"),
	}
	best, ok := Rank(candidates, supported)
	if !ok || best != 0 {
		t.Fatalf("Rank = %d, %v; want 0 (earlier candidate on full tie)", best, ok)
	}
}
