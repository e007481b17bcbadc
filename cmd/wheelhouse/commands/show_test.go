// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wheelhouse-project/wheelhouse/lib/metadoc"
	"github.com/wheelhouse-project/wheelhouse/lib/wheel"
	"github.com/wheelhouse-project/wheelhouse/lib/wheeltest"
)

func TestShowText(t *testing.T) {
	path := wheeltest.Write(t, t.TempDir(), "demo", "1.2.0",
		wheel.WithMetadata(metadoc.Field{Name: "Summary", Value: "A demo"}))

	var buf bytes.Buffer
	if err := runShow(&buf, &showParams{}, []string{path}); err != nil {
		t.Fatalf("runShow: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"demo", "1.2.0", "A demo", "py3-none-any", "Files:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Build:") {
		t.Errorf("output should omit the absent build tag:\n%s", out)
	}
}

func TestShowJSON(t *testing.T) {
	path := wheeltest.Write(t, t.TempDir(), "demo", "1.2.0",
		wheel.WithMetadata(metadoc.Field{Name: "Summary", Value: "A demo"}))

	var buf bytes.Buffer
	params := &showParams{All: true}
	params.OutputJSON = true
	if err := runShow(&buf, params, []string{path}); err != nil {
		t.Fatalf("runShow: %v", err)
	}

	var got showSummary
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if got.Distribution != "demo" || got.Version != "1.2.0" {
		t.Errorf("got %s %s, want demo 1.2.0", got.Distribution, got.Version)
	}
	if got.Files != 5 {
		t.Errorf("files = %d, want 5", got.Files)
	}
	if got.Summary != "A demo" {
		t.Errorf("summary = %q", got.Summary)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "py3-none-any" {
		t.Errorf("tags = %v", got.Tags)
	}
	if got.Metadata["Summary"] != "A demo" {
		t.Errorf("metadata map = %v", got.Metadata)
	}
}

func TestShowConsoleScripts(t *testing.T) {
	b, err := wheel.NewBuilder("demo", "1.0")
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	if err := b.Add("demo/__init__.py", []byte("")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.Add("demo-1.0.dist-info/entry_points.txt",
		[]byte("[console_scripts]\ndemo = demo.cli:main\n")); err != nil {
		t.Fatalf("Add entry_points.txt: %v", err)
	}
	data, err := b.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	path := filepath.Join(t.TempDir(), b.Filename())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing wheel: %v", err)
	}

	var buf bytes.Buffer
	if err := runShow(&buf, &showParams{}, []string{path}); err != nil {
		t.Fatalf("runShow: %v", err)
	}
	if !strings.Contains(buf.String(), "demo = demo.cli:main") {
		t.Errorf("output missing console script:\n%s", buf.String())
	}
}

func TestShowSkipsVerification(t *testing.T) {
	data, name := wheeltest.Bytes(t, "demo", "1.0")
	tampered := tamper(t, data, "demo/core.py", []byte("changed\n"))
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, tampered, 0o644); err != nil {
		t.Fatalf("writing tampered wheel: %v", err)
	}

	var buf bytes.Buffer
	if err := runShow(&buf, &showParams{}, []string{path}); err != nil {
		t.Fatalf("show should not verify digests: %v", err)
	}
}

func TestShowErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := runShow(&buf, &showParams{}, nil); err == nil {
		t.Error("expected an error for missing arguments")
	}
	if err := runShow(&buf, &showParams{}, []string{filepath.Join(t.TempDir(), "absent.whl")}); err == nil {
		t.Error("expected an error for a missing file")
	}
}
