// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package wheelhouse

import (
	"sort"

	"github.com/wheelhouse-project/wheelhouse/lib/tags"
)

// Select picks the best installable candidate against the supported
// tags, across whatever candidates it is given. It returns false if
// none is installable.
func Select(candidates []Candidate, supported []tags.Tag) (Candidate, bool) {
	return SelectWithPolicy(candidates, supported, tags.DefaultRankPolicy())
}

// SelectWithPolicy is Select with an explicit tie-break policy.
func SelectWithPolicy(candidates []Candidate, supported []tags.Tag, policy tags.RankPolicy) (Candidate, bool) {
	filenames := make([]*tags.Filename, len(candidates))
	for i, c := range candidates {
		filenames[i] = c.Filename
	}
	best, ok := tags.RankWithPolicy(filenames, supported, policy)
	if !ok {
		return Candidate{}, false
	}
	return candidates[best], true
}

// SelectProject resolves a project the way an installer would: filter
// candidates to the project, walk its versions from newest to oldest,
// and within the first version that has any installable wheel pick
// the best-ranked one. A newer version with no compatible wheel does
// not shadow an older compatible one.
func SelectProject(candidates []Candidate, project string, supported []tags.Tag) (Candidate, bool) {
	matching := FilterProject(candidates, project)
	if len(matching) == 0 {
		return Candidate{}, false
	}

	byVersion := make(map[string][]Candidate)
	var versions []string
	for _, c := range matching {
		v := c.Filename.Version
		if _, ok := byVersion[v]; !ok {
			versions = append(versions, v)
		}
		byVersion[v] = append(byVersion[v], c)
	}
	sort.Slice(versions, func(i, j int) bool {
		return tags.CompareVersions(versions[i], versions[j]) > 0
	})

	for _, v := range versions {
		if winner, ok := Select(byVersion[v], supported); ok {
			return winner, true
		}
	}
	return Candidate{}, false
}
