// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package tags

// Priority returns the position in supported of the best tag a wheel
// declares: lower is better, position 0 is the installer's most
// preferred tag. The second result is false if the wheel supports none
// of the tags.
func Priority(f *Filename, supported []Tag) (int, bool) {
	index := make(map[Tag]int, len(supported))
	for i, t := range supported {
		if _, ok := index[t]; !ok {
			index[t] = i
		}
	}
	return priority(f, index)
}

func priority(f *Filename, index map[Tag]int) (int, bool) {
	best := -1
	for _, t := range f.Tags {
		if p, ok := index[t]; ok && (best < 0 || p < best) {
			best = p
		}
	}
	return best, best >= 0
}

// TieBreak names one rule for choosing between wheels whose best
// supported tags rank equally.
type TieBreak int

const (
	// TieBreakBuild prefers the higher build tag.
	TieBreakBuild TieBreak = iota
	// TieBreakSpecificity prefers the wheel whose declared tag set is
	// a strict subset of the other's, on the theory that the narrower
	// wheel was built more specifically for this platform.
	TieBreakSpecificity
)

// RankPolicy is the ordered list of tie-break rules Rank applies after
// comparing tag priority. Rules run in order; the first that
// distinguishes the pair decides. If none does, the earlier candidate
// wins.
type RankPolicy struct {
	TieBreaks []TieBreak
}

// DefaultRankPolicy breaks ties by build tag, then by specificity.
func DefaultRankPolicy() RankPolicy {
	return RankPolicy{TieBreaks: []TieBreak{TieBreakBuild, TieBreakSpecificity}}
}

// Rank picks the best installable wheel from candidates given an
// installer's supported tags in preference order, using the default
// policy. It returns the index of the winner, or false if no candidate
// is installable.
func Rank(candidates []*Filename, supported []Tag) (int, bool) {
	return RankWithPolicy(candidates, supported, DefaultRankPolicy())
}

// RankWithPolicy is Rank with an explicit tie-break policy.
func RankWithPolicy(candidates []*Filename, supported []Tag, policy RankPolicy) (int, bool) {
	index := make(map[Tag]int, len(supported))
	for i, t := range supported {
		if _, ok := index[t]; !ok {
			index[t] = i
		}
	}

	best := -1
	bestPriority := 0
	for i, c := range candidates {
		p, ok := priority(c, index)
		if !ok {
			continue
		}
		switch {
		case best < 0 || p < bestPriority:
			best, bestPriority = i, p
		case p == bestPriority:
			if preferSecond(candidates[best], c, policy) {
				best = i
			}
		}
	}
	return best, best >= 0
}

// preferSecond reports whether b should replace the incumbent a under
// the policy's tie-break rules. On a full tie the incumbent stays.
func preferSecond(a, b *Filename, policy RankPolicy) bool {
	for _, rule := range policy.TieBreaks {
		switch rule {
		case TieBreakBuild:
			if c := CompareBuild(a.Build, b.Build); c != 0 {
				return c < 0
			}
		case TieBreakSpecificity:
			setA, setB := tagSet(a), tagSet(b)
			if isStrictSubset(setB, setA) {
				return true
			}
			if isStrictSubset(setA, setB) {
				return false
			}
		}
	}
	return false
}

func tagSet(f *Filename) map[Tag]bool {
	set := make(map[Tag]bool, len(f.Tags))
	for _, t := range f.Tags {
		set[t] = true
	}
	return set
}

func isStrictSubset(a, b map[Tag]bool) bool {
	if len(a) >= len(b) {
		return false
	}
	for t := range a {
		if !b[t] {
			return false
		}
	}
	return true
}
