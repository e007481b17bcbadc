// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package wheel

import (
	"bytes"
	"fmt"
	"strings"
)

// EntryPointsName is the optional dist-info member declaring entry
// points.
const EntryPointsName = "entry_points.txt"

// EntryPoint is one named object reference, e.g. "cli" pointing at
// "pkg.main:run".
type EntryPoint struct {
	Name   string
	Object string
}

// EntryPointGroup is a named group of entry points. The conventional
// groups are console_scripts and gui_scripts, but any group name is
// allowed.
type EntryPointGroup struct {
	Name    string
	Entries []EntryPoint
}

// EntryPoints is the parsed entry_points.txt: an INI-style document of
// [group] sections with name = object lines. Group and entry order are
// preserved.
type EntryPoints struct {
	Groups []EntryPointGroup
}

// ParseEntryPoints decodes entry_points.txt. Blank lines and lines
// starting with # or ; are ignored. Every assignment must appear
// inside a group; group names must be unique.
func ParseEntryPoints(data []byte) (*EntryPoints, error) {
	eps := &EntryPoints{}
	var current *EntryPointGroup
	seen := make(map[string]bool)

	for lineno, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}
		if line[0] == '[' {
			if !strings.HasSuffix(line, "]") {
				return nil, fmt.Errorf("entry points line %d: unterminated group header %q", lineno+1, line)
			}
			name := strings.TrimSpace(line[1 : len(line)-1])
			if name == "" {
				return nil, fmt.Errorf("entry points line %d: empty group name", lineno+1)
			}
			if seen[name] {
				return nil, fmt.Errorf("entry points line %d: duplicate group %q", lineno+1, name)
			}
			seen[name] = true
			eps.Groups = append(eps.Groups, EntryPointGroup{Name: name})
			current = &eps.Groups[len(eps.Groups)-1]
			continue
		}
		name, object, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("entry points line %d: %q is not name = object", lineno+1, line)
		}
		if current == nil {
			return nil, fmt.Errorf("entry points line %d: assignment before any group", lineno+1)
		}
		name = strings.TrimSpace(name)
		object = strings.TrimSpace(object)
		if name == "" {
			return nil, fmt.Errorf("entry points line %d: empty entry point name", lineno+1)
		}
		current.Entries = append(current.Entries, EntryPoint{Name: name, Object: object})
	}
	return eps, nil
}

// Encode serializes the document: one [group] header per group, one
// "name = object" line per entry, a blank line between groups.
func (e *EntryPoints) Encode() []byte {
	var buf bytes.Buffer
	for i, g := range e.Groups {
		if i > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "[%s]\n", g.Name)
		for _, ep := range g.Entries {
			fmt.Fprintf(&buf, "%s = %s\n", ep.Name, ep.Object)
		}
	}
	return buf.Bytes()
}

// Group returns the named group.
func (e *EntryPoints) Group(name string) (EntryPointGroup, bool) {
	for _, g := range e.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return EntryPointGroup{}, false
}

// ConsoleScripts returns the console_scripts group's entries, the
// common case.
func (e *EntryPoints) ConsoleScripts() []EntryPoint {
	g, _ := e.Group("console_scripts")
	return g.Entries
}

// EntryPoints parses the archive's entry_points.txt. It returns
// (nil, nil) when the archive has none.
func (w *Wheel) EntryPoints() (*EntryPoints, error) {
	data, ok := w.files[w.distInfo+"/"+EntryPointsName]
	if !ok {
		return nil, nil
	}
	eps, err := ParseEntryPoints(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s/%s: %w", w.distInfo, EntryPointsName, err)
	}
	return eps, nil
}
