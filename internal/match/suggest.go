package match

import (
	"sort"
)

// DefaultThreshold is the minimum similarity for a name to be suggested.
const DefaultThreshold = 0.5

// Suggest returns up to limit names from known most similar to name,
// best first. Names scoring below DefaultThreshold are dropped; ties are
// broken alphabetically so output is deterministic.
func Suggest(name string, known []string, limit int) []string {
	type scored struct {
		name  string
		score float64
	}

	var ranked []scored

	for _, k := range known {
		if k == name {
			continue
		}

		if s := Similarity(name, k); s >= DefaultThreshold {
			ranked = append(ranked, scored{name: k, score: s})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}

		return ranked[i].name < ranked[j].name
	})

	out := make([]string, 0, max(0, min(limit, len(ranked))))
	for i := 0; i < len(ranked) && i < limit; i++ {
		out = append(out, ranked[i].name)
	}

	return out
}
