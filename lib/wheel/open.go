// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package wheel

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/wheelhouse-project/wheelhouse/lib/digest"
	"github.com/wheelhouse-project/wheelhouse/lib/metadoc"
	"github.com/wheelhouse-project/wheelhouse/lib/record"
	"github.com/wheelhouse-project/wheelhouse/lib/tags"
)

// Wheel is a parsed archive. All member contents are resident in
// memory; accessors never fail after Open returns.
type Wheel struct {
	distInfo string
	name     string
	version  string
	metadata *metadoc.Document
	info     *Info
	entries  []record.Entry
	files    map[string][]byte
}

type openConfig struct {
	verify   bool
	registry *digest.Registry
}

// OpenOption configures Open.
type OpenOption func(*openConfig)

// WithoutVerify skips manifest verification. The archive's structure
// and metadata are still fully parsed.
func WithoutVerify() OpenOption {
	return func(c *openConfig) { c.verify = false }
}

// WithRegistry verifies against a caller-supplied digest algorithm
// registry instead of the default set.
func WithRegistry(reg *digest.Registry) OpenOption {
	return func(c *openConfig) { c.registry = reg }
}

// Open parses and verifies a wheel archive.
//
// Structural failures (zip framing, missing or unparsable metadata)
// return a nil *Wheel. Verification findings return BOTH a usable
// *Wheel and an *IntegrityError, so callers decide whether damaged
// contents are fatal:
//
//	w, err := wheel.Open(data)
//	var ierr *wheel.IntegrityError
//	if errors.As(err, &ierr) {
//	    // w is usable; ierr.Discrepancies says what is wrong.
//	} else if err != nil {
//	    // structurally unusable
//	}
func Open(data []byte, opts ...OpenOption) (*Wheel, error) {
	return OpenReaderAt(bytes.NewReader(data), int64(len(data)), opts...)
}

// OpenReaderAt is Open over an io.ReaderAt, for callers that already
// have one (an mmap, an os.File).
func OpenReaderAt(r io.ReaderAt, size int64, opts ...OpenOption) (*Wheel, error) {
	cfg := openConfig{verify: true, registry: digest.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, &CorruptError{Reason: "not a zip archive", Err: err}
	}

	files := make(map[string][]byte, len(zr.File))
	for _, member := range zr.File {
		if strings.HasSuffix(member.Name, "/") {
			continue
		}
		if _, ok := files[member.Name]; ok {
			return nil, &CorruptError{Reason: fmt.Sprintf("duplicate member %q", member.Name)}
		}
		rc, err := member.Open()
		if err != nil {
			return nil, &CorruptError{Reason: fmt.Sprintf("opening member %q", member.Name), Err: err}
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, &CorruptError{Reason: fmt.Sprintf("reading member %q", member.Name), Err: err}
		}
		files[member.Name] = data
	}

	w := &Wheel{files: files}
	if err := w.locateDistInfo(); err != nil {
		return nil, err
	}
	if err := w.parseMetadata(); err != nil {
		return nil, err
	}

	if !cfg.verify {
		return w, nil
	}
	discrepancies, err := record.Verify(w.entries, w.files, w.distInfo+"/"+RecordName, cfg.registry)
	if err != nil {
		return nil, fmt.Errorf("verifying wheel: %w", err)
	}
	if len(discrepancies) > 0 {
		return w, &IntegrityError{Discrepancies: discrepancies}
	}
	return w, nil
}

// locateDistInfo finds the single dist-info directory and derives the
// escaped name and version from it.
func (w *Wheel) locateDistInfo() error {
	seen := make(map[string]bool)
	for p := range w.files {
		dir, _, ok := strings.Cut(p, "/")
		if ok && strings.HasSuffix(dir, distInfoSuffix) {
			seen[dir] = true
		}
	}
	switch len(seen) {
	case 0:
		return &CorruptError{Reason: "no .dist-info directory"}
	case 1:
	default:
		dirs := make([]string, 0, len(seen))
		for d := range seen {
			dirs = append(dirs, d)
		}
		sort.Strings(dirs)
		return &CorruptError{Reason: fmt.Sprintf("multiple .dist-info directories: %s", strings.Join(dirs, ", "))}
	}
	for dir := range seen {
		w.distInfo = dir
	}

	base := strings.TrimSuffix(w.distInfo, distInfoSuffix)
	name, version, ok := strings.Cut(base, "-")
	if !ok || name == "" || version == "" {
		return &CorruptError{Reason: fmt.Sprintf("dist-info directory %q is not name-version", w.distInfo)}
	}
	w.name = name
	w.version = version
	return nil
}

// parseMetadata reads the three required dist-info members and checks
// they agree with the directory name.
func (w *Wheel) parseMetadata() error {
	metadataPath := w.distInfo + "/" + MetadataName
	data, ok := w.files[metadataPath]
	if !ok {
		return &CorruptError{Reason: fmt.Sprintf("missing %s", metadataPath)}
	}
	doc, err := metadoc.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", metadataPath, err)
	}
	w.metadata = doc

	infoPath := w.distInfo + "/" + InfoName
	data, ok = w.files[infoPath]
	if !ok {
		return &CorruptError{Reason: fmt.Sprintf("missing %s", infoPath)}
	}
	infoDoc, err := metadoc.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", infoPath, err)
	}
	info, err := parseInfo(infoDoc)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", infoPath, err)
	}
	w.info = info

	recordPath := w.distInfo + "/" + RecordName
	data, ok = w.files[recordPath]
	if !ok {
		return &CorruptError{Reason: fmt.Sprintf("missing %s", recordPath)}
	}
	entries, err := record.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", recordPath, err)
	}
	if err := record.ValidateEntries(entries); err != nil {
		return fmt.Errorf("validating %s: %w", recordPath, err)
	}
	w.entries = entries

	if name, ok := w.metadata.Get("Name"); ok {
		if tags.CanonicalName(name) != tags.CanonicalName(w.name) {
			return &CorruptError{Reason: fmt.Sprintf(
				"METADATA Name %q does not match dist-info directory %q", name, w.distInfo)}
		}
	}
	if version, ok := w.metadata.Get("Version"); ok {
		if tags.EscapeVersion(version) != w.version {
			return &CorruptError{Reason: fmt.Sprintf(
				"METADATA Version %q does not match dist-info directory %q", version, w.distInfo)}
		}
	}
	return nil
}

// Name returns the distribution name as written in METADATA, falling
// back to the dist-info directory's escaped form.
func (w *Wheel) Name() string {
	if name, ok := w.metadata.Get("Name"); ok {
		return name
	}
	return w.name
}

// Version returns the distribution version as written in METADATA,
// falling back to the dist-info directory's escaped form.
func (w *Wheel) Version() string {
	if version, ok := w.metadata.Get("Version"); ok {
		return version
	}
	return w.version
}

// DistInfo returns the dist-info directory name.
func (w *Wheel) DistInfo() string {
	return w.distInfo
}

// Metadata returns the parsed METADATA document.
func (w *Wheel) Metadata() *metadoc.Document {
	return w.metadata
}

// Info returns the parsed WHEEL document.
func (w *Wheel) Info() *Info {
	return w.info
}

// Record returns the manifest entries in document order.
func (w *Wheel) Record() []record.Entry {
	return w.entries
}

// Paths returns every member path in ascending order.
func (w *Wheel) Paths() []string {
	paths := make([]string, 0, len(w.files))
	for p := range w.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// File returns a member's contents.
func (w *Wheel) File(p string) ([]byte, bool) {
	data, ok := w.files[p]
	return data, ok
}

// Filename reconstructs the conventional filename from the archive's
// metadata and declared tags.
func (w *Wheel) Filename() string {
	return buildFilename(w.Name(), w.Version(), w.info.Build, w.info.Tags)
}
