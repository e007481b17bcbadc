// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package wheelhouse

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/wheelhouse-project/wheelhouse/lib/tags"
	"github.com/wheelhouse-project/wheelhouse/lib/wheel"
	"github.com/wheelhouse-project/wheelhouse/lib/wheeltest"
)

func scanNames(candidates []Candidate) []string {
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = filepath.Base(c.Path)
	}
	return names
}

func TestScanSortsDeterministically(t *testing.T) {
	dir := t.TempDir()
	// Written in an order unrelated to the expected result.
	wheeltest.Write(t, dir, "beta", "0.3")
	wheeltest.Write(t, dir, "alpha", "1.0")
	wheeltest.Write(t, dir, "alpha", "2.0")
	wheeltest.Write(t, dir, "alpha", "2.0", withBuild(t, "2"))
	wheeltest.Write(t, dir, "alpha", "2.0", withBuild(t, "10"))

	candidates, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	want := []string{
		"alpha-2.0-10-py3-none-any.whl",
		"alpha-2.0-2-py3-none-any.whl",
		"alpha-2.0-py3-none-any.whl",
		"alpha-1.0-py3-none-any.whl",
		"beta-0.3-py3-none-any.whl",
	}
	got := scanNames(candidates)
	if len(got) != len(want) {
		t.Fatalf("Scan returned %d candidates, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScanIgnoresNonWheels(t *testing.T) {
	dir := t.TempDir()
	wheeltest.Write(t, dir, "demo", "1.0")
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a wheel"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "subdir.whl"), 0o755); err != nil {
		t.Fatal(err)
	}

	candidates, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Scan returned %d candidates, want 1: %v", len(candidates), scanNames(candidates))
	}
}

func TestScanSkipsUnparsableNames(t *testing.T) {
	dir := t.TempDir()
	wheeltest.Write(t, dir, "demo", "1.0")
	// Two dash-separated fields is one short of a wheel name.
	if err := os.WriteFile(filepath.Join(dir, "broken-name.whl"), []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}

	var logOutput bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logOutput, nil))
	candidates, err := Scan(dir, WithLogger(logger))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Scan returned %d candidates, want 1: %v", len(candidates), scanNames(candidates))
	}
	if !bytes.Contains(logOutput.Bytes(), []byte("broken-name.whl")) {
		t.Errorf("skip was not logged; log output:\n%s", logOutput.String())
	}
}

func TestScanRecordsSize(t *testing.T) {
	dir := t.TempDir()
	path := wheeltest.Write(t, dir, "demo", "1.0")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	candidates, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if candidates[0].Size != info.Size() {
		t.Errorf("Size = %d, want %d", candidates[0].Size, info.Size())
	}
	if candidates[0].Path != path {
		t.Errorf("Path = %s, want %s", candidates[0].Path, path)
	}
}

func TestScanMissingDirectory(t *testing.T) {
	if _, err := Scan(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("Scan of a missing directory succeeded")
	}
}

func TestFilterProjectCanonicalizes(t *testing.T) {
	dir := t.TempDir()
	wheeltest.Write(t, dir, "My-Dist", "1.0")
	wheeltest.Write(t, dir, "other", "1.0")

	candidates, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	for _, query := range []string{"my-dist", "MY.DIST", "my_dist"} {
		matched := FilterProject(candidates, query)
		if len(matched) != 1 {
			t.Errorf("FilterProject(%q) returned %d candidates, want 1", query, len(matched))
			continue
		}
		if got := matched[0].Filename.Distribution; got != "My_Dist" {
			t.Errorf("FilterProject(%q) matched %s", query, got)
		}
	}
	if matched := FilterProject(candidates, "absent"); len(matched) != 0 {
		t.Errorf("FilterProject(absent) returned %d candidates, want 0", len(matched))
	}
}

// withBuild parses a build tag for fixture wheels.
func withBuild(t *testing.T, s string) wheel.BuilderOption {
	t.Helper()
	b, err := tags.ParseBuildTag(s)
	if err != nil {
		t.Fatalf("ParseBuildTag(%s): %v", s, err)
	}
	return wheel.WithBuild(*b)
}
