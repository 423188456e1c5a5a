// Package suggest finds close spellings of unknown names for
// "did you mean" hints.
package suggest

// MaxDistance is the largest edit distance that still counts as a likely typo.
const MaxDistance = 3

// Candidates returns every option within MaxDistance edits of name, in the
// order options were given. The result is empty when nothing qualifies.
func Candidates(name string, options []string) []string {
	var out []string
	for _, option := range options {
		if option == name {
			continue
		}
		if Levenshtein(name, option) <= MaxDistance {
			out = append(out, option)
		}
	}
	return out
}

// Levenshtein returns the minimum number of single-rune insertions,
// deletions, or substitutions that turn a into b.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	previous := make([]int, len(ra)+1)
	for i := range previous {
		previous[i] = i
	}
	current := make([]int, len(ra)+1)

	for j := 1; j <= len(rb); j++ {
		current[0] = j
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			current[i] = min(previous[i]+1, current[i-1]+1, previous[i-1]+cost)
		}
		previous, current = current, previous
	}
	return previous[len(ra)]
}
