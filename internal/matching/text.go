package matching

import (
	"regexp"

	"github.com/samber/lo"
)

var nonWord = regexp.MustCompile(`\W+`)

// splitWords splits on runs of non-word characters. Leading or trailing
// separators produce empty tokens.
func splitWords(s string) []string {
	return nonWord.Split(s, -1)
}

// significantWords returns the distinct tokens longer than three characters.
func significantWords(s string) []string {
	return lo.Uniq(lo.Filter(splitWords(s), func(w string, _ int) bool {
		return len(w) > 3
	}))
}

func commonWords(a, b []string) []string {
	return lo.Filter(a, func(w string, _ int) bool {
		return lo.Contains(b, w)
	})
}

// textSimilarity is the share of significant words in common relative to the
// smaller vocabulary, in [0, 1]. Inputs are expected lower case.
func textSimilarity(a, b string) float64 {
	wa, wb := significantWords(a), significantWords(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	return float64(len(commonWords(wa, wb))) / float64(min(len(wa), len(wb)))
}

// interestSimilarity is the share of significant words in common relative to
// the larger vocabulary, in [0, 100]. Inputs are lower cased here.
func interestSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	wa, wb := significantWords(lower(a)), significantWords(lower(b))
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	return float64(len(commonWords(wa, wb))) * 100 / float64(max(len(wa), len(wb)))
}
