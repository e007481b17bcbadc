// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest represents the file digests carried by wheel
// manifests: an algorithm name paired with a raw digest, rendered as
// "name=value" with the value in unpadded URL-safe base64.
//
// Algorithms are looked up through a Registry so that callers can
// extend or restrict the accepted set. The default registry carries
// the SHA-2 family and BLAKE2b-256, the algorithms Python's hashlib
// guarantees on every platform.
package digest

import (
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// encoding is the digest value encoding: URL-safe base64 without
// padding, per the wheel RECORD convention.
var encoding = base64.RawURLEncoding

// Value is a computed digest. The zero Value means "no digest" and is
// what manifest rows without a digest column carry.
type Value struct {
	// Algorithm is the lowercase registry name, e.g. "sha256".
	Algorithm string
	// Sum is the raw digest output.
	Sum []byte
}

// IsZero reports whether v carries no digest.
func (v Value) IsZero() bool {
	return v.Algorithm == "" && len(v.Sum) == 0
}

// Equal reports whether two values name the same algorithm and carry
// the same digest bytes.
func (v Value) Equal(other Value) bool {
	return v.Algorithm == other.Algorithm && bytes.Equal(v.Sum, other.Sum)
}

// String renders the value as "algorithm=base64". The zero Value
// renders as the empty string.
func (v Value) String() string {
	if v.IsZero() {
		return ""
	}
	return v.Algorithm + "=" + encoding.EncodeToString(v.Sum)
}

// ParseValue decodes "algorithm=base64". The algorithm name is
// lowercased; the registry decides later whether it is known. An empty
// string decodes to the zero Value.
func ParseValue(s string) (Value, error) {
	if s == "" {
		return Value{}, nil
	}
	name, b64, ok := strings.Cut(s, "=")
	if !ok {
		return Value{}, fmt.Errorf("digest %q: missing '=' separator", s)
	}
	if name == "" {
		return Value{}, fmt.Errorf("digest %q: empty algorithm name", s)
	}
	sum, err := encoding.DecodeString(b64)
	if err != nil {
		return Value{}, fmt.Errorf("digest %q: decoding base64: %w", s, err)
	}
	return Value{Algorithm: strings.ToLower(name), Sum: sum}, nil
}

// Algorithm is a named digest algorithm. New constructs a fresh hash
// state; implementations must be safe to construct concurrently.
type Algorithm struct {
	Name string
	New  func() hash.Hash
}

// Sum digests data in one call.
func (a Algorithm) Sum(data []byte) Value {
	h := a.New()
	h.Write(data)
	return Value{Algorithm: a.Name, Sum: h.Sum(nil)}
}

// UnknownAlgorithmError reports a digest naming an algorithm the
// registry does not carry.
type UnknownAlgorithmError struct {
	Name string
}

func (e *UnknownAlgorithmError) Error() string {
	return fmt.Sprintf("unknown digest algorithm %q", e.Name)
}

// Registry maps algorithm names to implementations. The zero Registry
// knows no algorithms; use NewRegistry or Default.
type Registry struct {
	byName map[string]Algorithm
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Algorithm)}
}

// Register adds or replaces an algorithm. The name is lowercased.
func (r *Registry) Register(a Algorithm) {
	if r.byName == nil {
		r.byName = make(map[string]Algorithm)
	}
	a.Name = strings.ToLower(a.Name)
	r.byName[a.Name] = a
}

// Lookup resolves a name, case-insensitively. A miss returns
// *UnknownAlgorithmError.
func (r *Registry) Lookup(name string) (Algorithm, error) {
	a, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return Algorithm{}, &UnknownAlgorithmError{Name: name}
	}
	return a, nil
}

// Names returns the registered algorithm names, unsorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	return names
}

// Default returns a fresh registry with sha256, sha384, sha512, and
// blake2b_256 registered. Each call returns a new registry, so callers
// may extend it without affecting others.
func Default() *Registry {
	r := NewRegistry()
	r.Register(Algorithm{Name: "sha256", New: sha256.New})
	r.Register(Algorithm{Name: "sha384", New: sha512.New384})
	r.Register(Algorithm{Name: "sha512", New: sha512.New})
	r.Register(Algorithm{Name: "blake2b_256", New: func() hash.Hash {
		h, err := blake2b.New256(nil)
		if err != nil {
			// Unkeyed construction cannot fail.
			panic(err)
		}
		return h
	}})
	return r
}

// SHA256 is the wheel ecosystem's conventional algorithm and the
// default for newly built archives.
func SHA256() Algorithm {
	return Algorithm{Name: "sha256", New: sha256.New}
}
