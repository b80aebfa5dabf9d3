package cli

import (
	"strings"

	"github.com/agext/levenshtein"
)

// maxSuggestDistance is the largest edit distance still offered as a
// "did you mean" candidate.
const maxSuggestDistance = 3

// Suggest returns the candidate closest to input by edit distance, or ""
// when none is within maxSuggestDistance. Ties keep the earliest candidate.
func Suggest(input string, candidates []string) string {
	input = strings.TrimLeft(input, "-")
	if i := strings.IndexByte(input, '='); i >= 0 {
		input = input[:i]
	}
	if input == "" {
		return ""
	}

	best := ""
	bestDistance := maxSuggestDistance + 1
	for _, c := range candidates {
		d := levenshtein.Distance(input, c, nil)
		if d == 0 {
			return ""
		}
		if d < bestDistance {
			best, bestDistance = c, d
		}
	}
	return best
}
