// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

// Package filehash provides BLAKE3 content hashing for files on disk.
//
// Wheelhouse keys cached wheel metadata by the hash of the wheel
// file's bytes rather than by path and modification time. A rebuilt
// wheel that is byte-identical keeps hitting the same cache entry; a
// rebuild that changed anything produces a new key and the stale entry
// is simply never read again. No invalidation bookkeeping is needed.
//
// [HashFile] streams the file through the hash with constant memory
// usage regardless of file size and returns the lowercase hex digest
// alongside the byte count.
//
// This package has no dependencies on other wheelhouse packages.
package filehash
