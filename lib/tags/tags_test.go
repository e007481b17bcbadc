// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package tags

import (
	"reflect"
	"testing"
)

func TestParseTag(t *testing.T) {
	tag, err := ParseTag("cp311-cp311-manylinux_2_17_x86_64")
	if err != nil {
		t.Fatalf("ParseTag: %v", err)
	}
	want := Tag{Interpreter: "cp311", ABI: "cp311", Platform: "manylinux_2_17_x86_64"}
	if tag != want {
		t.Fatalf("tag = %+v, want %+v", tag, want)
	}
	if tag.String() != "cp311-cp311-manylinux_2_17_x86_64" {
		t.Fatalf("String = %q", tag.String())
	}
}

func TestParseTagRejectsCompressed(t *testing.T) {
	if _, err := ParseTag("py2.py3-none-any"); err == nil {
		t.Fatal("ParseTag accepted a compressed tag set")
	}
}

func TestParseTagErrors(t *testing.T) {
	for _, s := range []string{"", "py3-none", "py3-none-any-extra", "py3--any", "-none-any"} {
		if _, err := ParseTag(s); err == nil {
			t.Errorf("ParseTag(%q) succeeded, want error", s)
		}
	}
}

func TestParseTagSetExpansion(t *testing.T) {
	set, err := ParseTagSet("py2.py3-none-manylinux_2_17_x86_64.musllinux_1_1_x86_64")
	if err != nil {
		t.Fatalf("ParseTagSet: %v", err)
	}
	want := []Tag{
		{"py2", "none", "manylinux_2_17_x86_64"},
		{"py2", "none", "musllinux_1_1_x86_64"},
		{"py3", "none", "manylinux_2_17_x86_64"},
		{"py3", "none", "musllinux_1_1_x86_64"},
	}
	if !reflect.DeepEqual(set, want) {
		t.Fatalf("set = %+v, want %+v", set, want)
	}
}

func TestParseTagSetDeduplicates(t *testing.T) {
	set, err := ParseTagSet("py3.py3-none-any")
	if err != nil {
		t.Fatalf("ParseTagSet: %v", err)
	}
	if len(set) != 1 {
		t.Fatalf("set = %+v, want single tag", set)
	}
}

func TestNormalizeComponents(t *testing.T) {
	cases := []struct{ in, want string }{
		{"CP311", "cp311"},
		{"macosx+10+9", "macosx_10_9"},
		{"linux++x86!!64", "linux_x86_64"},
		{"already_fine", "already_fine"},
	}
	for _, tc := range cases {
		tag, err := ParseTag("py3-none-" + tc.in)
		if err != nil {
			t.Fatalf("ParseTag with platform %q: %v", tc.in, err)
		}
		if tag.Platform != tc.want {
			t.Errorf("normalize(%q) = %q, want %q", tc.in, tag.Platform, tc.want)
		}
	}
}
