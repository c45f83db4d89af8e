package storage

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// SearchCandidates returns the candidates whose name contains the query, or
// whose name (or one of its words) is within maxDistance edits of it. Closest
// matches come first; ties keep the input order.
func SearchCandidates(candidates []*Candidate, query string, maxDistance int) []*Candidate {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return candidates
	}

	type match struct {
		candidate *Candidate
		distance  int
	}
	matches := make([]match, 0)
	for _, c := range candidates {
		if d, ok := nameDistance(strings.ToLower(c.Name), q, maxDistance); ok {
			matches = append(matches, match{candidate: c, distance: d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	result := make([]*Candidate, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.candidate)
	}
	return result
}

func nameDistance(name, query string, maxDistance int) (int, bool) {
	if strings.Contains(name, query) {
		return 0, true
	}
	best := levenshtein.ComputeDistance(name, query)
	for _, word := range strings.Fields(name) {
		if d := levenshtein.ComputeDistance(word, query); d < best {
			best = d
		}
	}
	return best, best <= maxDistance
}
