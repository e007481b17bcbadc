// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/wheelhouse-project/wheelhouse/lib/digest"
)

func TestParseBasic(t *testing.T) {
	input := "pkg/__init__.py,sha256=LPJNul-wow4m6DsqxbninhsWHlwfp0JecwQzYpOLmCQ,5\n" +
		"pkg-1.0.dist-info/RECORD,,\n"
	entries, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	first := entries[0]
	if first.Path != "pkg/__init__.py" || first.Size != 5 || first.Digest.Algorithm != "sha256" {
		t.Fatalf("first entry = %+v", first)
	}
	self := entries[1]
	if !self.Digest.IsZero() || self.Size != -1 {
		t.Fatalf("self entry = %+v, want empty digest and size", self)
	}
}

func TestParseCRLF(t *testing.T) {
	entries, err := Parse([]byte("a.py,,3\r\nb.py,,4\r\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 2 || entries[0].Path != "a.py" || entries[1].Size != 4 {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestParseQuotedPath(t *testing.T) {
	entries, err := Parse([]byte("\"odd,name.py\",,7\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if entries[0].Path != "odd,name.py" {
		t.Fatalf("path = %q", entries[0].Path)
	}
}

func TestParseRowErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		line  int
	}{
		{"two columns", "good.py,,1\nbad.py,\n", 2},
		{"four columns", "bad.py,,1,extra\n", 1},
		{"bad digest", "f.py,sha256=???,1\n", 1},
		{"negative size", "f.py,,-4\n", 1},
		{"non-integer size", "f.py,,many\n", 1},
		{"empty path", ",,1\n", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.input))
			var rerr *RowError
			if !errors.As(err, &rerr) {
				t.Fatalf("Parse error = %v, want *RowError", err)
			}
			if rerr.Line != tc.line {
				t.Fatalf("error line = %d, want %d", rerr.Line, tc.line)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	entries := []Entry{
		{Path: "pkg/mod.py", Digest: digest.SHA256().Sum([]byte("data2")), Size: 5},
		SelfEntry("pkg-1.0.dist-info/RECORD"),
	}
	out := string(Encode(entries))
	if strings.Contains(out, "\r") {
		t.Fatal("encoded manifest contains CR")
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("encoded %d lines, want 2:\n%s", len(lines), out)
	}
	if lines[1] != "pkg-1.0.dist-info/RECORD,," {
		t.Fatalf("self row = %q", lines[1])
	}
	if strings.Contains(lines[0], "\"") {
		t.Fatalf("plain row was quoted: %q", lines[0])
	}
}

func TestEncodeQuotesOnlyWhenNeeded(t *testing.T) {
	out := string(Encode([]Entry{{Path: "odd,name.py", Size: 7}}))
	if !strings.HasPrefix(out, "\"odd,name.py\",") {
		t.Fatalf("encoded = %q, want quoted path", out)
	}
}

func TestRoundTrip(t *testing.T) {
	entries := []Entry{
		{Path: "pkg/__init__.py", Digest: digest.SHA256().Sum([]byte("init")), Size: 4},
		{Path: "weird, path.py", Digest: digest.SHA256().Sum([]byte("x")), Size: 1},
		SelfEntry("pkg-1.0.dist-info/RECORD"),
	}
	parsed, err := Parse(Encode(entries))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(parsed, entries) {
		t.Fatalf("round trip changed entries:\nin:  %+v\nout: %+v", entries, parsed)
	}
}

func TestValidateEntries(t *testing.T) {
	cases := []struct {
		name    string
		entries []Entry
		wantErr string
	}{
		{"valid", []Entry{{Path: "a.py"}, {Path: "b/c.py"}}, ""},
		{"duplicate", []Entry{{Path: "a.py"}, {Path: "a.py"}}, "duplicate"},
		{"backslash", []Entry{{Path: `pkg\mod.py`}}, "backslash"},
		{"absolute", []Entry{{Path: "/etc/passwd"}}, "absolute"},
		{"parent escape", []Entry{{Path: "../outside.py"}}, "escapes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateEntries(tc.entries)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateEntries: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("ValidateEntries = %v, want %q", err, tc.wantErr)
			}
		})
	}
}
