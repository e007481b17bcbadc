// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

// Package wheel builds, reads, and verifies wheel archives: the zip
// container format for built Python distributions.
//
// # Container layout
//
// A wheel is a zip archive. Payload files live at their installed
// relative paths. A single {name}-{version}.dist-info/ directory
// carries the archive's metadata:
//
//	METADATA          distribution metadata (lib/metadoc document)
//	WHEEL             archive metadata: format version, tags (lib/metadoc document)
//	RECORD            digest manifest over every other member (lib/record)
//
// plus optional extras such as entry_points.txt. RECORD lists every
// member with a digest and size, and itself with neither, so the
// archive is self-verifying.
//
// # Determinism
//
// Building is deterministic: members are written with a fixed
// timestamp and mode, payload paths in ascending order, and the three
// metadata members last, so the same inputs always produce
// byte-identical archives. Compression uses a fixed deflate level (or
// store, when configured) for the same reason.
//
// # Reading and verification
//
// Open parses the container and its metadata, then checks every
// member against RECORD. Integrity findings are reported as an
// *IntegrityError alongside a usable *Wheel, so callers choose whether
// a damaged archive is fatal. Structural damage (bad zip framing,
// missing metadata) is fatal and reported as *CorruptError.
package wheel
