// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

// Package metadoc reads and writes the RFC 822 derived header document
// used by Python distribution metadata: a block of "Name: value" fields,
// then an optional blank-line-separated free-form body.
//
// The grammar is deliberately small. A field line is a name, a colon,
// and a value. A line beginning with whitespace continues the previous
// field; continuation text is joined to the value with a single space.
// The first empty line ends the field block and everything after it is
// the body, kept verbatim. Field names compare case-insensitively and
// may repeat; order and the spelling of names are preserved so that a
// parsed document re-encodes without reordering.
//
// Values never contain newlines after parsing: multi-line input is
// folded at parse time, and Encode re-folds any value a caller sets
// with embedded newlines. Encoding a parsed document and parsing it
// again therefore yields an equal document.
package metadoc

import (
	"bytes"
	"fmt"
	"strings"
)

// continuationIndent prefixes every folded continuation line. Eight
// spaces is the convention used by the Python packaging tools this
// format interoperates with.
const continuationIndent = "        "

// Field is a single name/value pair. Name keeps the spelling found in
// the input; lookups through Document compare names case-insensitively.
type Field struct {
	Name  string
	Value string
}

// Document is a parsed metadata document: ordered fields and an
// optional body. An empty Body means the document has no body section;
// Encode then omits the separating blank line.
type Document struct {
	Fields []Field
	Body   string
}

// ParseError reports a line of input that does not conform to the
// field grammar. Line is 1-based.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("metadata line %d: %s", e.Line, e.Reason)
}

// Parse decodes a metadata document. Lines may end in LF or CRLF.
// Parse fails if a field line lacks a colon, has an empty name, or if
// a continuation line appears before any field.
func Parse(data []byte) (*Document, error) {
	doc := &Document{}
	rest := string(data)
	lineno := 0
	for rest != "" {
		line, tail, _ := strings.Cut(rest, "\n")
		lineno++
		line = strings.TrimSuffix(line, "\r")

		if line == "" {
			// Blank separator: everything after it is the body,
			// byte for byte.
			doc.Body = tail
			return doc, nil
		}
		if line[0] == ' ' || line[0] == '\t' {
			if len(doc.Fields) == 0 {
				return nil, &ParseError{Line: lineno, Reason: "continuation line before any field"}
			}
			if text := strings.TrimSpace(line); text != "" {
				f := &doc.Fields[len(doc.Fields)-1]
				f.Value += " " + text
			}
			rest = tail
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, &ParseError{Line: lineno, Reason: "field line has no colon"}
		}
		name = strings.TrimRight(name, " \t")
		if name == "" {
			return nil, &ParseError{Line: lineno, Reason: "field line has an empty name"}
		}
		doc.Fields = append(doc.Fields, Field{Name: name, Value: strings.TrimSpace(value)})
		rest = tail
	}
	return doc, nil
}

// Encode serializes the document. Every field line ends in LF. Values
// containing newlines are folded: each post-newline segment becomes an
// indented continuation line, so the output always re-parses. A
// non-empty body is appended after a single blank line, verbatim.
func (d *Document) Encode() []byte {
	var buf bytes.Buffer
	for _, f := range d.Fields {
		buf.WriteString(f.Name)
		buf.WriteString(": ")
		writeFolded(&buf, f.Value)
		buf.WriteByte('\n')
	}
	if d.Body != "" {
		buf.WriteByte('\n')
		buf.WriteString(d.Body)
	}
	return buf.Bytes()
}

func (d *Document) String() string {
	return string(d.Encode())
}

func writeFolded(buf *bytes.Buffer, value string) {
	first, rest, ok := strings.Cut(value, "\n")
	buf.WriteString(strings.TrimSuffix(first, "\r"))
	for ok {
		var line string
		line, rest, ok = strings.Cut(rest, "\n")
		buf.WriteByte('\n')
		buf.WriteString(continuationIndent)
		buf.WriteString(strings.TrimSuffix(line, "\r"))
	}
}

// Get returns the value of the first field named name, comparing
// case-insensitively. The second result reports whether the field
// exists.
func (d *Document) Get(name string) (string, bool) {
	for _, f := range d.Fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// GetAll returns the values of every field named name, in document
// order. It returns nil if the field does not occur.
func (d *Document) GetAll(name string) []string {
	var values []string
	for _, f := range d.Fields {
		if strings.EqualFold(f.Name, name) {
			values = append(values, f.Value)
		}
	}
	return values
}

// Has reports whether at least one field named name exists.
func (d *Document) Has(name string) bool {
	_, ok := d.Get(name)
	return ok
}

// Add appends a field, preserving any existing fields of the same
// name.
func (d *Document) Add(name, value string) {
	d.Fields = append(d.Fields, Field{Name: name, Value: value})
}

// Set replaces the value of the first field named name, keeping its
// position and spelling. If the field does not exist it is appended.
// Any further occurrences of the name are left alone.
func (d *Document) Set(name, value string) {
	for i := range d.Fields {
		if strings.EqualFold(d.Fields[i].Name, name) {
			d.Fields[i].Value = value
			return
		}
	}
	d.Add(name, value)
}

// Del removes every field named name and reports how many were
// removed.
func (d *Document) Del(name string) int {
	kept := d.Fields[:0]
	removed := 0
	for _, f := range d.Fields {
		if strings.EqualFold(f.Name, name) {
			removed++
			continue
		}
		kept = append(kept, f)
	}
	d.Fields = kept
	return removed
}

// Names returns the distinct field names in first-occurrence order,
// using the spelling of each name's first occurrence.
func (d *Document) Names() []string {
	var names []string
	seen := make(map[string]bool)
	for _, f := range d.Fields {
		key := strings.ToLower(f.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, f.Name)
	}
	return names
}
