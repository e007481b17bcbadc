// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package wheelhouse

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wheelhouse-project/wheelhouse/lib/codec"
	"github.com/wheelhouse-project/wheelhouse/lib/filehash"
	"github.com/wheelhouse-project/wheelhouse/lib/wheel"
)

// CachedWheel is the cached metadata of one wheel file. Entries are
// keyed by the BLAKE3 hash of the file's bytes, so any change to the
// file produces a fresh key and stale entries are simply never read
// again.
type CachedWheel struct {
	// Key is the lowercase hex BLAKE3 hash of the wheel file.
	Key string `cbor:"key"`
	// FileSize is the wheel file's size in bytes.
	FileSize int64 `cbor:"file_size"`

	Distribution  string `cbor:"distribution"`
	Version       string `cbor:"version"`
	WheelVersion  string `cbor:"wheel_version"`
	Generator     string `cbor:"generator,omitempty"`
	RootIsPurelib bool   `cbor:"root_is_purelib"`
	// Tags are the declared compatibility tags in WHEEL order.
	Tags []string `cbor:"tags"`
	// Build is the build tag, empty when the wheel has none.
	Build string `cbor:"build,omitempty"`

	// Metadata is every METADATA field in document order.
	Metadata []MetadataField `cbor:"metadata"`
	// Summary is the METADATA Summary field, duplicated for listings
	// that do not want to walk Metadata.
	Summary string `cbor:"summary,omitempty"`

	// CachedAt is when the entry was written, for pruning.
	CachedAt time.Time `cbor:"cached_at"`
}

// MetadataField mirrors one metadoc field in CBOR form.
type MetadataField struct {
	Name  string `cbor:"name"`
	Value string `cbor:"value"`
}

// Cache is an on-disk store of CachedWheel entries under a root
// directory, sharded two levels deep by key prefix. Writes are atomic
// (temp file and rename), so concurrent readers never observe partial
// entries.
type Cache struct {
	root   string
	logger *slog.Logger
}

// CacheOption configures NewCache.
type CacheOption func(*Cache)

// WithCacheLogger routes cache diagnostics to a specific logger.
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) { c.logger = logger }
}

// NewCache opens (creating if needed) a cache rooted at root.
func NewCache(root string, opts ...CacheOption) (*Cache, error) {
	if root == "" {
		return nil, fmt.Errorf("empty cache root")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache root: %w", err)
	}
	c := &Cache{root: root, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Metadata returns the metadata of the wheel file at path, from cache
// when the file's content hash is known, otherwise by opening the
// archive and caching the result. The archive is parsed structurally
// but not digest-verified; verification is a separate, deliberate
// operation.
func (c *Cache) Metadata(path string) (*CachedWheel, error) {
	key, size, err := filehash.HashFile(path)
	if err != nil {
		return nil, err
	}
	if entry, ok := c.lookup(key); ok {
		return entry, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	w, err := wheel.Open(data, wheel.WithoutVerify())
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	entry := newCachedWheel(key, size, w)
	if err := c.store(entry); err != nil {
		// A cache that cannot persist still serves the result.
		c.logger.Warn("failed to store cache entry", "path", path, "error", err)
	}
	return entry, nil
}

func newCachedWheel(key string, size int64, w *wheel.Wheel) *CachedWheel {
	info := w.Info()
	entry := &CachedWheel{
		Key:           key,
		FileSize:      size,
		Distribution:  w.Name(),
		Version:       w.Version(),
		WheelVersion:  info.WheelVersion,
		Generator:     info.Generator,
		RootIsPurelib: info.RootIsPurelib,
		Build:         info.Build.String(),
		CachedAt:      time.Now().UTC(),
	}
	for _, t := range info.Tags {
		entry.Tags = append(entry.Tags, t.String())
	}
	for _, f := range w.Metadata().Fields {
		entry.Metadata = append(entry.Metadata, MetadataField{Name: f.Name, Value: f.Value})
	}
	entry.Summary, _ = w.Metadata().Get("Summary")
	return entry
}

// lookup reads an entry, treating any damage as a miss.
func (c *Cache) lookup(key string) (*CachedWheel, bool) {
	data, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("unreadable cache entry", "key", key, "error", err)
		}
		return nil, false
	}
	var entry CachedWheel
	if err := codec.Unmarshal(data, &entry); err != nil {
		c.logger.Warn("undecodable cache entry", "key", key, "error", err)
		return nil, false
	}
	return &entry, true
}

// store writes an entry atomically: temp file in the final directory,
// then rename.
func (c *Cache) store(entry *CachedWheel) error {
	path := c.entryPath(entry.Key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache shard: %w", err)
	}
	data, err := codec.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "entry-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing cache entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publishing cache entry: %w", err)
	}
	return nil
}

// entryPath shards entries two levels deep: root/ab/cd/abcd….cbor.
func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.root, key[:2], key[2:4], key+".cbor")
}

// Prune removes entries cached before cutoff and reports how many
// were removed.
func (c *Cache) Prune(cutoff time.Time) (int, error) {
	removed := 0
	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".cbor") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("pruning cache: %w", err)
	}
	return removed, nil
}
