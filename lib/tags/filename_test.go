// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package tags

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseFilenameBasic(t *testing.T) {
	f, err := ParseFilename("sampledist-1.0.2-py3-none-any.whl")
	if err != nil {
		t.Fatalf("ParseFilename: %v", err)
	}
	if f.Distribution != "sampledist" || f.Version != "1.0.2" {
		t.Fatalf("parsed = %+v", f)
	}
	if f.Build != nil {
		t.Fatalf("build = %v, want nil", f.Build)
	}
	if len(f.Tags) != 1 || f.Tags[0] != (Tag{"py3", "none", "any"}) {
		t.Fatalf("tags = %+v", f.Tags)
	}
}

func TestParseFilenameBuildTag(t *testing.T) {
	f, err := ParseFilename("sampledist-1.0-12abc-cp311-cp311-linux_x86_64.whl")
	if err != nil {
		t.Fatalf("ParseFilename: %v", err)
	}
	if f.Build == nil || f.Build.Number != 12 || f.Build.Suffix != "abc" {
		t.Fatalf("build = %+v", f.Build)
	}
	if f.Build.String() != "12abc" {
		t.Fatalf("build String = %q", f.Build.String())
	}
}

func TestParseFilenameExpansion(t *testing.T) {
	f, err := ParseFilename("pkg-2.0-py2.py3-none-manylinux_2_17_x86_64.musllinux_1_1_x86_64.whl")
	if err != nil {
		t.Fatalf("ParseFilename: %v", err)
	}
	// Cross product: interpreters vary slowest, platforms fastest.
	want := []Tag{
		{"py2", "none", "manylinux_2_17_x86_64"},
		{"py2", "none", "musllinux_1_1_x86_64"},
		{"py3", "none", "manylinux_2_17_x86_64"},
		{"py3", "none", "musllinux_1_1_x86_64"},
	}
	if !reflect.DeepEqual(f.Tags, want) {
		t.Fatalf("tags = %+v, want %+v", f.Tags, want)
	}
	if len(f.Tags) != len(f.Interpreters)*len(f.ABIs)*len(f.Platforms) {
		t.Fatalf("expansion size %d, want product %d", len(f.Tags),
			len(f.Interpreters)*len(f.ABIs)*len(f.Platforms))
	}
}

func TestParseFilenameNormalizesTags(t *testing.T) {
	f, err := ParseFilename("pkg-1.0-PY3-None-ANY.whl")
	if err != nil {
		t.Fatalf("ParseFilename: %v", err)
	}
	if f.Tags[0] != (Tag{"py3", "none", "any"}) {
		t.Fatalf("tags = %+v", f.Tags)
	}
}

func TestParseFilenameErrors(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		reason string
	}{
		{"no extension", "pkg-1.0-py3-none-any", "missing .whl"},
		{"wrong extension", "pkg-1.0-py3-none-any.zip", "missing .whl"},
		{"four fields", "pkg-1.0-py3-none.whl", "5 or 6"},
		{"seven fields", "pkg-1.0-1-py3-none-any-extra.whl", "5 or 6"},
		{"build without digit", "pkg-1.0-abc-py3-none-any.whl", "start with a digit"},
		{"empty distribution", "-1.0-py3-none-any.whl", "empty distribution"},
		{"empty version", "pkg--py3-none-any.whl", "empty version"},
		{"empty tag component", "pkg-1.0-py3..py2-none-any.whl", "empty component"},
		{"path separator", "dir/pkg-1.0-py3-none-any.whl", "path separator"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFilename(tc.input)
			var ferr *InvalidFilenameError
			if !errors.As(err, &ferr) {
				t.Fatalf("error = %v, want *InvalidFilenameError", err)
			}
			if !strings.Contains(ferr.Reason, tc.reason) {
				t.Fatalf("reason = %q, want substring %q", ferr.Reason, tc.reason)
			}
		})
	}
}

func TestFilenameString(t *testing.T) {
	for _, name := range []string{
		"pkg-1.0-py3-none-any.whl",
		"pkg-1.0-2b-py2.py3-none-any.whl",
		"pkg-2.0-cp310.cp311-abi3-manylinux_2_17_x86_64.musllinux_1_1_x86_64.whl",
	} {
		f, err := ParseFilename(name)
		if err != nil {
			t.Fatalf("ParseFilename(%q): %v", name, err)
		}
		if got := f.String(); got != name {
			t.Errorf("String = %q, want %q", got, name)
		}
	}
}

func TestParseBuildTagDirect(t *testing.T) {
	b, err := ParseBuildTag("7")
	if err != nil {
		t.Fatalf("ParseBuildTag: %v", err)
	}
	if b.Number != 7 || b.Suffix != "" {
		t.Fatalf("build = %+v", b)
	}
	for _, s := range []string{"", "abc", "a1"} {
		if _, err := ParseBuildTag(s); err == nil {
			t.Errorf("ParseBuildTag(%q) succeeded, want error", s)
		}
	}
}

func TestCompareBuild(t *testing.T) {
	cases := []struct {
		a, b *BuildTag
		want int
	}{
		{nil, nil, 0},
		{nil, &BuildTag{Number: 0}, -1},
		{&BuildTag{Number: 1}, nil, 1},
		{&BuildTag{Number: 1}, &BuildTag{Number: 2}, -1},
		{&BuildTag{Number: 2, Suffix: "a"}, &BuildTag{Number: 2, Suffix: "b"}, -1},
		{&BuildTag{Number: 3}, &BuildTag{Number: 3}, 0},
	}
	for _, tc := range cases {
		if got := CompareBuild(tc.a, tc.b); got != tc.want {
			t.Errorf("CompareBuild(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNormalizeDistribution(t *testing.T) {
	cases := []struct{ in, want string }{
		{"my-dist.name", "my_dist_name"},
		{"My.Dist", "My_Dist"},
		{"a---b", "a_b"},
		{"plain", "plain"},
		{"under_score", "under_score"},
	}
	for _, tc := range cases {
		if got := NormalizeDistribution(tc.in); got != tc.want {
			t.Errorf("NormalizeDistribution(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanonicalName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"My--Dist__name", "my-dist-name"},
		{"friendly.Bard", "friendly-bard"},
		{"plain", "plain"},
	}
	for _, tc := range cases {
		if got := CanonicalName(tc.in); got != tc.want {
			t.Errorf("CanonicalName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	// Every spelling variant of a name shares one canonical form.
	variants := []string{"friendly-bard", "Friendly-Bard", "FRIENDLY.BARD", "friendly_bard", "friendly--bard"}
	for _, v := range variants {
		if CanonicalName(v) != "friendly-bard" {
			t.Errorf("CanonicalName(%q) = %q, want friendly-bard", v, CanonicalName(v))
		}
	}
}

func TestEscapeVersion(t *testing.T) {
	if got := EscapeVersion("1.0-alpha"); got != "1.0_alpha" {
		t.Fatalf("EscapeVersion = %q", got)
	}
	if got := EscapeVersion("1.0"); got != "1.0" {
		t.Fatalf("EscapeVersion = %q", got)
	}
}
