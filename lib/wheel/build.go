// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package wheel

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"github.com/wheelhouse-project/wheelhouse/lib/digest"
	"github.com/wheelhouse-project/wheelhouse/lib/metadoc"
	"github.com/wheelhouse-project/wheelhouse/lib/record"
	"github.com/wheelhouse-project/wheelhouse/lib/tags"
)

// archiveEpoch is the fixed modification time of every member: the
// zip format's earliest representable instant. A constant timestamp
// keeps builds byte-identical across runs.
var archiveEpoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// memberMode is the fixed permission mode of every member.
const memberMode = 0o644

// defaultGenerator names this library in WHEEL documents when the
// caller does not override it.
const defaultGenerator = "wheelhouse"

// Compression selects the members' storage method.
type Compression int

const (
	// Deflate compresses members at a fixed level.
	Deflate Compression = iota
	// Store writes members uncompressed.
	Store
)

func (c Compression) String() string {
	switch c {
	case Deflate:
		return "deflate"
	case Store:
		return "store"
	}
	return fmt.Sprintf("Compression(%d)", int(c))
}

// ParseCompression parses "deflate" or "store".
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "deflate":
		return Deflate, nil
	case "store":
		return Store, nil
	}
	return 0, fmt.Errorf("unknown compression %q (want deflate or store)", s)
}

// Builder assembles a wheel archive. Configure it with NewBuilder
// options, add payload files, then finalize once with Bytes or
// WriteTo. The builder takes ownership of added data slices; callers
// must not modify them afterwards.
type Builder struct {
	distribution    string
	version         string
	metadataVersion string
	generator       string
	rootIsPurelib   bool
	declaredTags    []tags.Tag
	build           *tags.BuildTag
	alg             digest.Algorithm
	compression     Compression
	metadata        []metadoc.Field
	description     string

	distInfo  string
	files     map[string][]byte
	finalized bool
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithTags sets the compatibility tags the archive declares. The
// default is the universal py3-none-any.
func WithTags(ts ...tags.Tag) BuilderOption {
	return func(b *Builder) { b.declaredTags = ts }
}

// WithBuild sets the optional build tag.
func WithBuild(build tags.BuildTag) BuilderOption {
	return func(b *Builder) { b.build = &build }
}

// WithGenerator sets the Generator string written to WHEEL.
func WithGenerator(generator string) BuilderOption {
	return func(b *Builder) { b.generator = generator }
}

// WithRootIsPurelib sets the Root-Is-Purelib flag. The default is
// true.
func WithRootIsPurelib(v bool) BuilderOption {
	return func(b *Builder) { b.rootIsPurelib = v }
}

// WithDigestAlgorithm sets the manifest digest algorithm. The default
// is sha256.
func WithDigestAlgorithm(alg digest.Algorithm) BuilderOption {
	return func(b *Builder) { b.alg = alg }
}

// WithCompression sets the member storage method. The default is
// Deflate.
func WithCompression(c Compression) BuilderOption {
	return func(b *Builder) { b.compression = c }
}

// WithMetadataVersion sets the Metadata-Version written to METADATA.
// The default is "2.1".
func WithMetadataVersion(v string) BuilderOption {
	return func(b *Builder) { b.metadataVersion = v }
}

// WithMetadata appends distribution metadata fields after the three
// the builder writes itself (Metadata-Version, Name, Version). Fields
// keep their order; repeated names are allowed.
func WithMetadata(fields ...metadoc.Field) BuilderOption {
	return func(b *Builder) { b.metadata = append(b.metadata, fields...) }
}

// WithDescription sets the METADATA body.
func WithDescription(body string) BuilderOption {
	return func(b *Builder) { b.description = body }
}

// NewBuilder returns a builder for the named distribution and
// version. The name and version are written to METADATA verbatim and
// escaped for the filename and dist-info directory.
func NewBuilder(distribution, version string, opts ...BuilderOption) (*Builder, error) {
	if distribution == "" {
		return nil, fmt.Errorf("empty distribution name")
	}
	if version == "" {
		return nil, fmt.Errorf("empty version")
	}
	if strings.ContainsAny(distribution, "/\\") || strings.ContainsAny(version, "/\\") {
		return nil, fmt.Errorf("distribution and version must not contain path separators")
	}

	b := &Builder{
		distribution:    distribution,
		version:         version,
		metadataVersion: "2.1",
		generator:       defaultGenerator,
		rootIsPurelib:   true,
		alg:             digest.SHA256(),
		compression:     Deflate,
		files:           make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(b)
	}
	if len(b.declaredTags) == 0 {
		b.declaredTags = []tags.Tag{{Interpreter: "py3", ABI: "none", Platform: "any"}}
	}
	for _, f := range b.metadata {
		switch strings.ToLower(f.Name) {
		case "metadata-version", "name", "version":
			return nil, fmt.Errorf("metadata field %s is written by the builder", f.Name)
		}
	}
	b.distInfo = DistInfoDir(distribution, version)
	return b, nil
}

// Add stages one payload file at a slash-separated relative path.
// Paths must be unique and stay inside the archive; the three
// dist-info members the builder writes are reserved.
func (b *Builder) Add(p string, data []byte) error {
	if b.finalized {
		return fmt.Errorf("builder is finalized")
	}
	if err := validateArchivePath(p); err != nil {
		return err
	}
	if _, ok := b.files[p]; ok {
		return fmt.Errorf("duplicate archive path %q", p)
	}
	switch p {
	case b.distInfo + "/" + MetadataName,
		b.distInfo + "/" + InfoName,
		b.distInfo + "/" + RecordName:
		return fmt.Errorf("archive path %q is written by the builder", p)
	}
	b.files[p] = data
	return nil
}

// AddFS stages every regular file in fsys under prefix (which may be
// empty). Traversal order does not matter; members are sorted at
// finalization.
func (b *Builder) AddFS(prefix string, fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		return b.Add(path.Join(prefix, p), data)
	})
}

// Filename returns the conventional filename for the archive,
// compressing the declared tags back into dotted fields.
func (b *Builder) Filename() string {
	return buildFilename(b.distribution, b.version, b.build, b.declaredTags)
}

// Bytes finalizes the archive and returns its bytes. The builder can
// finalize only once; further Add, Bytes, or WriteTo calls fail.
func (b *Builder) Bytes() ([]byte, error) {
	if b.finalized {
		return nil, fmt.Errorf("builder is finalized")
	}
	b.finalized = true

	paths := make([]string, 0, len(b.files))
	for p := range b.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	files := make([]record.File, 0, len(paths)+2)
	for _, p := range paths {
		files = append(files, record.File{Path: p, Data: b.files[p]})
	}
	files = append(files,
		record.File{Path: b.distInfo + "/" + MetadataName, Data: b.metadataDocument().Encode()},
		record.File{Path: b.distInfo + "/" + InfoName, Data: b.infoDocument().Encode()},
	)

	entries := record.Build(files, b.alg)
	entries = append(entries, record.SelfEntry(b.distInfo+"/"+RecordName))
	files = append(files, record.File{Path: b.distInfo + "/" + RecordName, Data: record.Encode(entries)})

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})
	method := uint16(zip.Deflate)
	if b.compression == Store {
		method = zip.Store
	}
	for _, f := range files {
		hdr := &zip.FileHeader{
			Name:     f.Path,
			Method:   method,
			Modified: archiveEpoch,
		}
		hdr.SetMode(memberMode)
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return nil, fmt.Errorf("creating member %s: %w", f.Path, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			return nil, fmt.Errorf("writing member %s: %w", f.Path, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteTo finalizes the archive and writes it to w. Like Bytes, it
// works only once.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	data, err := b.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

func (b *Builder) metadataDocument() *metadoc.Document {
	doc := &metadoc.Document{}
	doc.Add("Metadata-Version", b.metadataVersion)
	doc.Add("Name", b.distribution)
	doc.Add("Version", b.version)
	doc.Fields = append(doc.Fields, b.metadata...)
	doc.Body = b.description
	return doc
}

func (b *Builder) infoDocument() *metadoc.Document {
	info := &Info{
		WheelVersion:  FormatVersion,
		Generator:     b.generator,
		RootIsPurelib: b.rootIsPurelib,
		Tags:          b.declaredTags,
		Build:         b.build,
	}
	return info.document()
}

// validateArchivePath enforces the path rules shared by Add and the
// manifest: relative, slash-separated, no traversal.
func validateArchivePath(p string) error {
	if p == "" {
		return fmt.Errorf("empty archive path")
	}
	if strings.Contains(p, `\`) {
		return fmt.Errorf("archive path %q contains a backslash", p)
	}
	if strings.HasPrefix(p, "/") {
		return fmt.Errorf("archive path %q is absolute", p)
	}
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "":
			return fmt.Errorf("archive path %q contains an empty segment", p)
		case ".", "..":
			return fmt.Errorf("archive path %q contains a %q segment", p, seg)
		}
	}
	return nil
}

func appendUnique(list []string, s string) []string {
	for _, have := range list {
		if have == s {
			return list
		}
	}
	return append(list, s)
}
