// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package wheelhouse

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wheelhouse-project/wheelhouse/lib/codec"
	"github.com/wheelhouse-project/wheelhouse/lib/metadoc"
	"github.com/wheelhouse-project/wheelhouse/lib/wheel"
	"github.com/wheelhouse-project/wheelhouse/lib/wheeltest"
)

func TestCacheMissPopulates(t *testing.T) {
	house := t.TempDir()
	path := wheeltest.Write(t, house, "demo", "1.0",
		wheel.WithMetadata(metadoc.Field{Name: "Summary", Value: "A demonstration"}))

	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	entry, err := cache.Metadata(path)
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}

	if entry.Distribution != "demo" || entry.Version != "1.0" {
		t.Errorf("cached %s %s, want demo 1.0", entry.Distribution, entry.Version)
	}
	if entry.WheelVersion != "1.0" {
		t.Errorf("WheelVersion = %s", entry.WheelVersion)
	}
	if !entry.RootIsPurelib {
		t.Error("RootIsPurelib = false")
	}
	if len(entry.Tags) != 1 || entry.Tags[0] != "py3-none-any" {
		t.Errorf("Tags = %v", entry.Tags)
	}
	if entry.Summary != "A demonstration" {
		t.Errorf("Summary = %q", entry.Summary)
	}
	if len(entry.Key) != 64 {
		t.Errorf("Key = %q, want 64 hex characters", entry.Key)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if entry.FileSize != info.Size() {
		t.Errorf("FileSize = %d, want %d", entry.FileSize, info.Size())
	}
	if entry.CachedAt.IsZero() {
		t.Error("CachedAt is zero")
	}

	// The entry must have landed in the sharded on-disk layout.
	stored := filepath.Join(cache.root, entry.Key[:2], entry.Key[2:4], entry.Key+".cbor")
	if _, err := os.Stat(stored); err != nil {
		t.Errorf("stored entry not found: %v", err)
	}
}

func TestCacheHitServesFromDisk(t *testing.T) {
	house := t.TempDir()
	path := wheeltest.Write(t, house, "demo", "1.0")

	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	entry, err := cache.Metadata(path)
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}

	// Plant a sentinel in the stored entry. A second lookup must
	// return the sentinel, proving it never reopened the wheel.
	stored := cache.entryPath(entry.Key)
	data, err := os.ReadFile(stored)
	if err != nil {
		t.Fatal(err)
	}
	var onDisk CachedWheel
	if err := codec.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("decoding stored entry: %v", err)
	}
	onDisk.Generator = "sentinel"
	data, err = codec.Marshal(&onDisk)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stored, data, 0o644); err != nil {
		t.Fatal(err)
	}

	again, err := cache.Metadata(path)
	if err != nil {
		t.Fatalf("Metadata (hit): %v", err)
	}
	if again.Generator != "sentinel" {
		t.Errorf("Generator = %q, want the planted sentinel", again.Generator)
	}
}

func TestCacheKeyTracksContent(t *testing.T) {
	house := t.TempDir()
	one := wheeltest.Write(t, house, "demo", "1.0")
	two := wheeltest.Write(t, house, "demo", "2.0")

	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	first, err := cache.Metadata(one)
	if err != nil {
		t.Fatal(err)
	}
	second, err := cache.Metadata(two)
	if err != nil {
		t.Fatal(err)
	}
	if first.Key == second.Key {
		t.Error("different files share a cache key")
	}

	repeat, err := cache.Metadata(one)
	if err != nil {
		t.Fatal(err)
	}
	if repeat.Key != first.Key {
		t.Errorf("key changed across lookups: %s then %s", first.Key, repeat.Key)
	}
}

func TestCacheCorruptEntryIsMiss(t *testing.T) {
	house := t.TempDir()
	path := wheeltest.Write(t, house, "demo", "1.0")

	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	entry, err := cache.Metadata(path)
	if err != nil {
		t.Fatal(err)
	}

	stored := cache.entryPath(entry.Key)
	if err := os.WriteFile(stored, []byte("not cbor"), 0o644); err != nil {
		t.Fatal(err)
	}

	recovered, err := cache.Metadata(path)
	if err != nil {
		t.Fatalf("Metadata after corruption: %v", err)
	}
	if recovered.Distribution != "demo" {
		t.Errorf("Distribution = %s", recovered.Distribution)
	}
	// The miss path rewrites the entry, healing the corruption.
	data, err := os.ReadFile(stored)
	if err != nil {
		t.Fatal(err)
	}
	var healed CachedWheel
	if err := codec.Unmarshal(data, &healed); err != nil {
		t.Errorf("stored entry still corrupt: %v", err)
	}
}

func TestCacheMetadataErrors(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	if _, err := cache.Metadata(filepath.Join(t.TempDir(), "absent.whl")); err == nil {
		t.Error("Metadata on a missing file succeeded")
	}

	notWheel := filepath.Join(t.TempDir(), "junk-1.0-py3-none-any.whl")
	if err := os.WriteFile(notWheel, []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Metadata(notWheel); err == nil {
		t.Error("Metadata on a non-wheel succeeded")
	}
}

func TestCachePrune(t *testing.T) {
	house := t.TempDir()
	oldWheel := wheeltest.Write(t, house, "old", "1.0")
	newWheel := wheeltest.Write(t, house, "new", "1.0")

	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	oldEntry, err := cache.Metadata(oldWheel)
	if err != nil {
		t.Fatal(err)
	}
	newEntry, err := cache.Metadata(newWheel)
	if err != nil {
		t.Fatal(err)
	}

	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(cache.entryPath(oldEntry.Key), past, past); err != nil {
		t.Fatal(err)
	}

	removed, err := cache.Prune(time.Now().Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Errorf("Prune removed %d entries, want 1", removed)
	}
	if _, err := os.Stat(cache.entryPath(oldEntry.Key)); !os.IsNotExist(err) {
		t.Errorf("pruned entry still present (err=%v)", err)
	}
	if _, err := os.Stat(cache.entryPath(newEntry.Key)); err != nil {
		t.Errorf("fresh entry was pruned: %v", err)
	}
}

func TestNewCacheEmptyRoot(t *testing.T) {
	if _, err := NewCache(""); err == nil {
		t.Fatal("NewCache(\"\") succeeded")
	}
}
