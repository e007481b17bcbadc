// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/wheelhouse-project/wheelhouse/lib/digest"
)

// File pairs an archive path with its contents, the unit Build and
// Verify work over.
type File struct {
	Path string
	Data []byte
}

// Build computes a manifest entry for every file, preserving input
// order. Digesting runs on all CPUs; the result order is not affected.
func Build(files []File, alg digest.Algorithm) []Entry {
	entries := make([]Entry, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, f := range files {
		g.Go(func() error {
			entries[i] = Entry{
				Path:   f.Path,
				Digest: alg.Sum(f.Data),
				Size:   int64(len(f.Data)),
			}
			return nil
		})
	}
	// The goroutines cannot fail; Wait is only a join point.
	g.Wait()
	return entries
}

// DiscrepancyKind classifies one way the archive contents can deviate
// from the manifest.
type DiscrepancyKind int

const (
	// DigestMismatch: the file's recomputed digest differs from the
	// manifest row.
	DigestMismatch DiscrepancyKind = iota
	// SizeMismatch: the file's byte size differs from the manifest row.
	SizeMismatch
	// MissingFile: the manifest lists a file the archive lacks.
	MissingFile
	// UnlistedFile: the archive carries a file the manifest omits.
	UnlistedFile
)

func (k DiscrepancyKind) String() string {
	switch k {
	case DigestMismatch:
		return "digest mismatch"
	case SizeMismatch:
		return "size mismatch"
	case MissingFile:
		return "missing file"
	case UnlistedFile:
		return "unlisted file"
	}
	return fmt.Sprintf("DiscrepancyKind(%d)", int(k))
}

// Discrepancy is one verification finding. Detail carries the
// expected/actual specifics in human-readable form.
type Discrepancy struct {
	Kind   DiscrepancyKind
	Path   string
	Detail string
}

func (d Discrepancy) String() string {
	if d.Detail == "" {
		return fmt.Sprintf("%s: %s", d.Path, d.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", d.Path, d.Kind, d.Detail)
}

// Verify checks archive contents against manifest entries and returns
// every discrepancy found, sorted by path then kind. An empty result
// means the archive matches the manifest.
//
// Rows with neither digest nor size (the manifest's own row, directory
// markers) are skipped. selfPath names the manifest itself; it and its
// detached signature companions (selfPath + ".jws" / ".p7s") are
// exempt from the unlisted-file check. An entry naming an algorithm
// reg does not carry fails verification outright with
// *digest.UnknownAlgorithmError.
//
// Digest recomputation runs on all CPUs; the report order is
// deterministic regardless.
func Verify(entries []Entry, contents map[string][]byte, selfPath string, reg *digest.Registry) ([]Discrepancy, error) {
	// Resolve algorithms up front so an unknown name fails before any
	// hashing starts.
	algs := make(map[string]digest.Algorithm)
	for _, e := range entries {
		if e.Digest.IsZero() {
			continue
		}
		if _, ok := algs[e.Digest.Algorithm]; ok {
			continue
		}
		alg, err := reg.Lookup(e.Digest.Algorithm)
		if err != nil {
			return nil, fmt.Errorf("manifest entry %q: %w", e.Path, err)
		}
		algs[e.Digest.Algorithm] = alg
	}

	perEntry := make([][]Discrepancy, len(entries))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, e := range entries {
		if !e.verifiable() {
			continue
		}
		g.Go(func() error {
			data, ok := contents[e.Path]
			if !ok {
				perEntry[i] = []Discrepancy{{Kind: MissingFile, Path: e.Path}}
				return nil
			}
			var found []Discrepancy
			if e.Size >= 0 && int64(len(data)) != e.Size {
				found = append(found, Discrepancy{
					Kind:   SizeMismatch,
					Path:   e.Path,
					Detail: fmt.Sprintf("manifest says %d bytes, archive has %d", e.Size, len(data)),
				})
			}
			if !e.Digest.IsZero() {
				got := algs[e.Digest.Algorithm].Sum(data)
				if !got.Equal(e.Digest) {
					found = append(found, Discrepancy{
						Kind:   DigestMismatch,
						Path:   e.Path,
						Detail: fmt.Sprintf("manifest says %s, archive has %s", e.Digest, got),
					})
				}
			}
			perEntry[i] = found
			return nil
		})
	}
	g.Wait()

	var report []Discrepancy
	for _, found := range perEntry {
		report = append(report, found...)
	}

	listed := make(map[string]bool, len(entries))
	for _, e := range entries {
		listed[e.Path] = true
	}
	for path := range contents {
		if listed[path] {
			continue
		}
		if selfPath != "" && (path == selfPath || path == selfPath+".jws" || path == selfPath+".p7s") {
			continue
		}
		report = append(report, Discrepancy{Kind: UnlistedFile, Path: path})
	}

	sort.Slice(report, func(i, j int) bool {
		if report[i].Path != report[j].Path {
			return report[i].Path < report[j].Path
		}
		return report[i].Kind < report[j].Kind
	})
	return report, nil
}
