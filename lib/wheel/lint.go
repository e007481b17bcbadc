// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package wheel

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/github/go-spdx/v2/spdxexp"
	"github.com/yuin/goldmark"

	"github.com/wheelhouse-project/wheelhouse/lib/metadoc"
	"github.com/wheelhouse-project/wheelhouse/lib/tags"
)

// Problem is one lint finding: a field (or "" for document-level
// findings) and what is wrong with it.
type Problem struct {
	Field   string
	Message string
}

func (p Problem) String() string {
	if p.Field == "" {
		return p.Message
	}
	return p.Field + ": " + p.Message
}

// LicenseValidator checks a license expression. The default validates
// SPDX expressions; tests and callers with private license registries
// can substitute their own.
type LicenseValidator func(expression string) error

// LintOptions configures Lint. The zero value is ready to use.
type LintOptions struct {
	// LicenseValidator overrides the SPDX expression check.
	LicenseValidator LicenseValidator
	// Filename, when set, is checked for consistency with the
	// document's Name and Version.
	Filename *tags.Filename
}

// knownMetadataVersions are the published core-metadata revisions.
var knownMetadataVersions = map[string]bool{
	"1.0": true, "1.1": true, "1.2": true,
	"2.1": true, "2.2": true, "2.3": true, "2.4": true,
}

// namePattern is the accepted distribution name form: alphanumeric
// with interior dots, hyphens, and underscores.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?$`)

// versionPattern is a loose version check; ordering is CompareVersions'
// concern, this only rejects characters that cannot appear at all.
var versionPattern = regexp.MustCompile(`^[A-Za-z0-9_.!+-]+$`)

// contentTypes are the accepted Description-Content-Type media types.
var contentTypes = map[string]bool{
	"text/plain":    true,
	"text/x-rst":    true,
	"text/markdown": true,
}

// Lint checks a distribution metadata document for the problems that
// make package indexes reject an upload: missing or repeated core
// fields, malformed names, invalid license expressions, undeclared or
// unrenderable descriptions. The result is empty for a clean document.
func Lint(doc *metadoc.Document, opts LintOptions) []Problem {
	var problems []Problem
	report := func(field, format string, args ...any) {
		problems = append(problems, Problem{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	for _, field := range []string{"Metadata-Version", "Name", "Version"} {
		if n := len(doc.GetAll(field)); n > 1 {
			report(field, "appears %d times, want exactly one", n)
		}
	}

	if v, ok := doc.Get("Metadata-Version"); !ok {
		report("Metadata-Version", "missing")
	} else if !knownMetadataVersions[v] {
		report("Metadata-Version", "unknown version %q", v)
	}

	name, hasName := doc.Get("Name")
	if !hasName {
		report("Name", "missing")
	} else if !namePattern.MatchString(name) {
		report("Name", "%q is not a valid distribution name", name)
	}

	version, hasVersion := doc.Get("Version")
	if !hasVersion {
		report("Version", "missing")
	} else if !versionPattern.MatchString(version) {
		report("Version", "%q contains invalid characters", version)
	}

	if expr, ok := doc.Get("License-Expression"); ok {
		validate := opts.LicenseValidator
		if validate == nil {
			validate = validateSPDX
		}
		if err := validate(expr); err != nil {
			report("License-Expression", "%v", err)
		}
	}

	contentType := ""
	if v, ok := doc.Get("Description-Content-Type"); ok {
		contentType, _, _ = strings.Cut(v, ";")
		contentType = strings.TrimSpace(contentType)
		if !contentTypes[contentType] {
			report("Description-Content-Type", "unknown content type %q", contentType)
		}
	}
	if doc.Body != "" {
		if contentType == "" {
			report("Description-Content-Type", "missing but a description body is present")
		}
		if contentType == "text/markdown" {
			if err := goldmark.New().Convert([]byte(doc.Body), io.Discard); err != nil {
				report("Description", "markdown does not render: %v", err)
			}
		}
	}

	if f := opts.Filename; f != nil {
		if hasName && tags.CanonicalName(name) != tags.CanonicalName(f.Distribution) {
			report("Name", "%q does not match filename distribution %q", name, f.Distribution)
		}
		if hasVersion && tags.EscapeVersion(version) != f.Version {
			report("Version", "%q does not match filename version %q", version, f.Version)
		}
	}
	return problems
}

// validateSPDX is the default license check: the expression must be a
// valid SPDX license expression built from known identifiers.
func validateSPDX(expression string) error {
	valid, invalid := spdxexp.ValidateLicenses([]string{expression})
	if !valid {
		return fmt.Errorf("invalid SPDX license expression (bad: %s)", strings.Join(invalid, ", "))
	}
	return nil
}
