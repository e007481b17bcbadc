// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package wheelhouse

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/wheelhouse-project/wheelhouse/lib/tags"
)

// Candidate is one wheel file found by Scan.
type Candidate struct {
	// Path is the file's full path.
	Path string
	// Filename is the parsed base name.
	Filename *tags.Filename
	// Size and ModTime come from the directory entry.
	Size    int64
	ModTime time.Time
}

type scanConfig struct {
	logger *slog.Logger
}

// ScanOption configures Scan.
type ScanOption func(*scanConfig)

// WithLogger routes scan diagnostics (skipped files) to a specific
// logger instead of the default.
func WithLogger(logger *slog.Logger) ScanOption {
	return func(c *scanConfig) { c.logger = logger }
}

// Scan lists the wheels in a directory. Files without a .whl suffix
// and subdirectories are ignored; .whl files whose names do not parse
// are logged and skipped rather than failing the scan.
//
// The result is deterministic: sorted by canonical project name, then
// version descending, then build tag descending, then filename.
func Scan(dir string, opts ...ScanOption) ([]Candidate, error) {
	cfg := scanConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning wheelhouse: %w", err)
	}

	var candidates []Candidate
	for _, ent := range dirents {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".whl") {
			continue
		}
		parsed, err := tags.ParseFilename(ent.Name())
		if err != nil {
			cfg.logger.Warn("skipping wheel with unparsable name",
				"file", ent.Name(), "error", err)
			continue
		}
		info, err := ent.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", ent.Name(), err)
		}
		candidates = append(candidates, Candidate{
			Path:     filepath.Join(dir, ent.Name()),
			Filename: parsed,
			Size:     info.Size(),
			ModTime:  info.ModTime(),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i].Filename, candidates[j].Filename
		if na, nb := tags.CanonicalName(a.Distribution), tags.CanonicalName(b.Distribution); na != nb {
			return na < nb
		}
		if c := tags.CompareVersions(a.Version, b.Version); c != 0 {
			return c > 0
		}
		if c := tags.CompareBuild(a.Build, b.Build); c != 0 {
			return c > 0
		}
		return a.String() < b.String()
	})
	return candidates, nil
}

// FilterProject returns the candidates whose distribution name
// canonically matches project, preserving order.
func FilterProject(candidates []Candidate, project string) []Candidate {
	want := tags.CanonicalName(project)
	var out []Candidate
	for _, c := range candidates {
		if tags.CanonicalName(c.Filename.Distribution) == want {
			out = append(out, c)
		}
	}
	return out
}
