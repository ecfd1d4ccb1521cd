package match

// Levenshtein computes the edit distance between two strings: the minimum
// number of single-byte insertions, deletions or substitutions turning one
// into the other.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	// a is the shorter string so only two rows of len(a)+1 are kept
	if len(a) > len(b) {
		a, b = b, a
	}

	if len(a) == 0 {
		return len(b)
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// Similarity scores two identifiers between 0 (unrelated) and 1 (equal
// after normalization). Scores with and without common suffixes such as
// "ID" or "At" are compared and the higher one wins.
func Similarity(a, b string) float64 {
	plain := ratio(NormalizeIdent(a), NormalizeIdent(b))
	stripped := ratio(NormalizeIdentWithSuffixStrip(a), NormalizeIdentWithSuffixStrip(b))

	return max(plain, stripped)
}

func ratio(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Levenshtein(a, b))/float64(longest)
}
