// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

// Package wheeltest provides shared helpers for tests that need real
// wheel files. Tests across the repository build small but fully
// valid archives (payload, METADATA, WHEEL, RECORD) instead of
// checking in binary fixtures, so the fixtures always match what the
// builder currently produces.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since fixture construction failures are not recoverable.
package wheeltest

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/wheelhouse-project/wheelhouse/lib/wheel"
)

// Bytes builds a small valid wheel in memory and returns its archive
// bytes and canonical filename. The wheel carries two payload files
// so that RECORD has something beyond the metadata members.
func Bytes(t *testing.T, distribution, version string, opts ...wheel.BuilderOption) ([]byte, string) {
	t.Helper()
	b, err := wheel.NewBuilder(distribution, version, opts...)
	if err != nil {
		t.Fatalf("NewBuilder(%s, %s): %v", distribution, version, err)
	}
	pkg := distribution
	if err := b.Add(pkg+"/__init__.py", []byte("__version__ = \""+version+"\"\n")); err != nil {
		t.Fatalf("adding __init__.py: %v", err)
	}
	if err := b.Add(pkg+"/core.py", []byte("def run():\n    return 0\n")); err != nil {
		t.Fatalf("adding core.py: %v", err)
	}
	data, err := b.Bytes()
	if err != nil {
		t.Fatalf("building %s %s: %v", distribution, version, err)
	}
	return data, b.Filename()
}

// Write builds a wheel with Bytes and writes it into dir under its
// canonical filename, returning the full path.
func Write(t *testing.T, dir, distribution, version string, opts ...wheel.BuilderOption) string {
	t.Helper()
	data, name := Bytes(t, distribution, version, opts...)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

var uniqueCounter atomic.Uint64

// UniqueDistribution returns a distribution name of the form
// "prefix_N" where N is monotonically increasing. Use it when a test
// needs several distinct projects in one directory.
func UniqueDistribution(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, uniqueCounter.Add(1))
}
