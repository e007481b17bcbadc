// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"

	"github.com/spf13/pflag"
)

// maxSuggestDistance is the largest edit distance still offered as a
// "did you mean" suggestion. Three edits covers the common typo
// classes (transposition, dropped character, extra character) without
// suggesting unrelated names.
const maxSuggestDistance = 3

// suggestCommand returns the closest subcommand name to the unknown
// input, or "" if none is close enough.
func suggestCommand(unknown string, commands []*Command) string {
	names := make([]string, len(commands))
	for i, command := range commands {
		names[i] = command.Name
	}
	return closest(unknown, names)
}

// suggestFlag finds the first unrecognized flag in args and returns
// the closest defined flag name with its dash prefix restored, or ""
// if no good suggestion exists.
func suggestFlag(args []string, flagSet *pflag.FlagSet) string {
	var defined []string
	flagSet.VisitAll(func(f *pflag.Flag) {
		defined = append(defined, f.Name)
	})

	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name := strings.TrimLeft(arg, "-")
		if i := strings.IndexByte(name, '='); i >= 0 {
			name = name[:i]
		}
		if flagSet.Lookup(name) != nil {
			continue
		}
		// Only the first unrecognized flag gets a suggestion; it is
		// the one the parse error reported.
		hint := closest(name, defined)
		if hint == "" {
			return ""
		}
		if len(hint) == 1 {
			return "-" + hint
		}
		return "--" + hint
	}
	return ""
}

// closest returns the candidate with the smallest edit distance to
// input, or "" when every candidate is further than maxSuggestDistance.
// The earliest candidate wins distance ties.
func closest(input string, candidates []string) string {
	best := ""
	bestDistance := maxSuggestDistance + 1
	for _, candidate := range candidates {
		if d := levenshtein(input, candidate); d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	return best
}

// levenshtein computes the edit distance between two strings: the
// minimum number of single-character insertions, deletions, and
// substitutions turning one into the other. Two O(len(a)) rows are
// kept instead of the full matrix.
func levenshtein(a, b string) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(a) == 0 {
		return len(b)
	}

	previous := make([]int, len(a)+1)
	current := make([]int, len(a)+1)
	for i := range previous {
		previous[i] = i
	}

	for j := 1; j <= len(b); j++ {
		current[0] = j
		for i := 1; i <= len(a); i++ {
			substitution := previous[i-1]
			if a[i-1] != b[j-1] {
				substitution++
			}
			current[i] = min(substitution, min(previous[i], current[i-1])+1)
		}
		previous, current = current, previous
	}
	return previous[len(a)]
}
