package kg

import (
	"sort"

	"healthmate-be/internal/entity"
)

// RankSubjects orders the distinct subjects of a matched-triple set by
// descending match frequency, ties broken by first-encountered order, and
// truncates to topN. This is the system's only ordering signal for "which
// recipes best match the inferred keywords".
func RankSubjects(triples []entity.Triple, topN int) []string {
	if len(triples) == 0 || topN <= 0 {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, t := range triples {
		if _, seen := counts[t.Subject]; !seen {
			order = append(order, t.Subject)
		}
		counts[t.Subject]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > topN {
		order = order[:topN]
	}
	return order
}
