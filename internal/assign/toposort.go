package assign

import (
	"sort"
)

// topoSort returns step indices in execution order, plus the indices that
// could never run because they wait on each other.
//
// depsFn(i) yields indices that must run before i. When several steps are
// ready the smallest index goes first, so the order is deterministic.
func topoSort(n int, depsFn func(i int) []int) (order, pending []int) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range depsFn(i) {
			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	for i := range out {
		sort.Ints(out[i])
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order = make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)
		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	for i := range n {
		if indeg[i] > 0 {
			pending = append(pending, i)
		}
	}

	return order, pending
}
