// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package wheel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wheelhouse-project/wheelhouse/lib/metadoc"
	"github.com/wheelhouse-project/wheelhouse/lib/tags"
)

const (
	// MetadataName, InfoName, and RecordName are the required members
	// of the dist-info directory.
	MetadataName = "METADATA"
	InfoName     = "WHEEL"
	RecordName   = "RECORD"

	// FormatVersion is the Wheel-Version the builder writes. Readers
	// accept any 1.x.
	FormatVersion = "1.0"

	distInfoSuffix = ".dist-info"
)

// DistInfoDir returns the dist-info directory name for a distribution
// and version, with both escaped for filename use.
func DistInfoDir(distribution, version string) string {
	return tags.NormalizeDistribution(distribution) + "-" + tags.EscapeVersion(version) + distInfoSuffix
}

// Info is the parsed WHEEL document: metadata about the archive
// itself, as opposed to the distribution it contains.
type Info struct {
	// WheelVersion is the container format version, e.g. "1.0".
	WheelVersion string
	// Generator identifies the tool that built the archive.
	Generator string
	// RootIsPurelib reports whether the payload installs into purelib
	// (as opposed to platlib).
	RootIsPurelib bool
	// Tags are the compatibility tags the archive declares, one per
	// Tag line.
	Tags []tags.Tag
	// Build is the optional build tag.
	Build *tags.BuildTag
}

// parseInfo decodes a WHEEL document. The format version must be
// present and 1.x; Tag lines may use the compressed dotted form.
func parseInfo(doc *metadoc.Document) (*Info, error) {
	info := &Info{}

	version, ok := doc.Get("Wheel-Version")
	if !ok {
		return nil, fmt.Errorf("WHEEL lacks Wheel-Version")
	}
	if err := checkFormatVersion(version); err != nil {
		return nil, err
	}
	info.WheelVersion = version
	info.Generator, _ = doc.Get("Generator")

	purelib, ok := doc.Get("Root-Is-Purelib")
	if !ok {
		return nil, fmt.Errorf("WHEEL lacks Root-Is-Purelib")
	}
	switch strings.ToLower(purelib) {
	case "true":
		info.RootIsPurelib = true
	case "false":
		info.RootIsPurelib = false
	default:
		return nil, fmt.Errorf("Root-Is-Purelib %q is not true or false", purelib)
	}

	for _, v := range doc.GetAll("Tag") {
		set, err := tags.ParseTagSet(v)
		if err != nil {
			return nil, fmt.Errorf("WHEEL Tag: %w", err)
		}
		info.Tags = append(info.Tags, set...)
	}

	if v, ok := doc.Get("Build"); ok {
		build, err := tags.ParseBuildTag(v)
		if err != nil {
			return nil, fmt.Errorf("WHEEL Build: %w", err)
		}
		info.Build = build
	}
	return info, nil
}

// document renders the Info back into WHEEL form, fields in the
// conventional order.
func (i *Info) document() *metadoc.Document {
	doc := &metadoc.Document{}
	doc.Add("Wheel-Version", i.WheelVersion)
	doc.Add("Generator", i.Generator)
	doc.Add("Root-Is-Purelib", strconv.FormatBool(i.RootIsPurelib))
	for _, t := range i.Tags {
		doc.Add("Tag", t.String())
	}
	if i.Build != nil {
		doc.Add("Build", i.Build.String())
	}
	return doc
}

// checkFormatVersion accepts any 1.x wheel format version.
func checkFormatVersion(v string) error {
	major, _, _ := strings.Cut(v, ".")
	if major != "1" {
		return fmt.Errorf("unsupported wheel format version %q", v)
	}
	return nil
}

// buildFilename assembles a conventional wheel filename, compressing
// the tag list back into dotted fields. Tag sets that are not a full
// cross product compress to a superset declaration; the sets real
// build tools produce round-trip exactly.
func buildFilename(distribution, version string, build *tags.BuildTag, ts []tags.Tag) string {
	var interps, abis, platforms []string
	for _, t := range ts {
		interps = appendUnique(interps, t.Interpreter)
		abis = appendUnique(abis, t.ABI)
		platforms = appendUnique(platforms, t.Platform)
	}
	parts := []string{
		tags.NormalizeDistribution(distribution),
		tags.EscapeVersion(version),
	}
	if build != nil {
		parts = append(parts, build.String())
	}
	parts = append(parts,
		strings.Join(interps, "."),
		strings.Join(abis, "."),
		strings.Join(platforms, "."),
	)
	return strings.Join(parts, "-") + ".whl"
}
