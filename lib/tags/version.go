// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package tags

import "strings"

// CompareVersions orders two version strings: -1 if a < b, 0 if equal,
// +1 if a > b.
//
// Versions compare case-insensitively, segment by segment on dots,
// with the shorter version padded with zero segments ("1.0" equals
// "1.0.0"). Within a segment, alternating numeric and alphabetic runs
// compare pairwise: numeric runs compare as integers of any width,
// alphabetic runs lexically, and a numeric run outranks an alphabetic
// one. A segment that ends while the other still has an alphabetic run
// outranks it ("1.0" > "1.0a1", so pre-release suffixes sort below the
// release), while a trailing numeric run ranks higher ("1.0b" <
// "1.0b1").
func CompareVersions(a, b string) int {
	as := strings.Split(strings.ToLower(a), ".")
	bs := strings.Split(strings.ToLower(b), ".")
	n := max(len(as), len(bs))
	for i := range n {
		sa, sb := "0", "0"
		if i < len(as) {
			sa = as[i]
		}
		if i < len(bs) {
			sb = bs[i]
		}
		if c := compareSegment(sa, sb); c != 0 {
			return c
		}
	}
	return 0
}

func compareSegment(a, b string) int {
	ra := splitRuns(a)
	rb := splitRuns(b)
	for i := 0; i < len(ra) || i < len(rb); i++ {
		switch {
		case i >= len(ra):
			// a ended first. A following letter run marks b as a
			// pre-release of a; a following number run extends b past
			// a.
			if isNumeric(rb[i]) {
				return -1
			}
			return 1
		case i >= len(rb):
			if isNumeric(ra[i]) {
				return 1
			}
			return -1
		}
		na, nb := isNumeric(ra[i]), isNumeric(rb[i])
		switch {
		case na && nb:
			if c := compareNumeric(ra[i], rb[i]); c != 0 {
				return c
			}
		case na:
			return 1
		case nb:
			return -1
		default:
			if c := strings.Compare(ra[i], rb[i]); c != 0 {
				return c
			}
		}
	}
	return 0
}

// splitRuns splits a segment into maximal runs of digits and
// non-digits: "12post3" becomes ["12", "post", "3"].
func splitRuns(s string) []string {
	var runs []string
	start := 0
	for i := 1; i <= len(s); i++ {
		if i == len(s) || isDigit(s[i]) != isDigit(s[i-1]) {
			runs = append(runs, s[start:i])
			start = i
		}
	}
	return runs
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNumeric(run string) bool {
	return run != "" && isDigit(run[0])
}

// compareNumeric compares two digit runs as integers of any width:
// strip leading zeros, then longer wins, then lexical.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
