// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the standard CBOR encoding configuration for
// wheelhouse's on-disk state.
//
// Two serialization formats are used with a clear boundary:
//
//   - Text formats for wheel contents: metadata documents and digest
//     manifests follow the wheel specification byte for byte and are
//     handled by lib/metadoc and lib/record, never by this package.
//   - CBOR for wheelhouse-internal state: the scan metadata cache and
//     any future on-disk bookkeeping.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// Same logical data always produces identical bytes, which keeps
// content-addressed cache files reproducible.
//
// For buffer-oriented operations (cache files):
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations:
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
//
// Types stored as CBOR carry `cbor` struct tags to document that they
// never participate in JSON serialization.
package codec
