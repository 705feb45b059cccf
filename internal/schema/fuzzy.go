package schema

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// similarity scores two header strings on a 0..1 scale using the same
// SequenceMatcher the teacher's internal/diff package uses for unified
// diffs — here applied to individual characters rather than lines, since a
// header name has no line structure. Case and surrounding whitespace are
// normalized before comparison so "Entity_BMW_Prominense" and
// "Entity_BMW_Prominence" score on their real edit distance, not on case
// noise.
func similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1.0
	}
	matcher := difflib.NewMatcher(splitChars(a), splitChars(b))
	return matcher.Ratio()
}

func splitChars(s string) []string {
	runes := []rune(s)
	out := make([]string, len(runes))
	for i, r := range runes {
		out[i] = string(r)
	}
	return out
}

// fuzzyMatchThreshold is the fixed 0.8 similarity floor from spec.md §4.1
// rule 3 and §6's "Configuration (enumerated)".
const fuzzyMatchThreshold = 0.8

// bestFuzzyMatch returns the index into candidates whose value is most
// similar to target, provided it clears fuzzyMatchThreshold; ok is false
// otherwise (including when candidates is empty).
func bestFuzzyMatch(target string, candidates []string) (idx int, ok bool) {
	bestIdx := -1
	bestScore := 0.0
	for i, c := range candidates {
		score := similarity(target, c)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx == -1 || bestScore < fuzzyMatchThreshold {
		return -1, false
	}
	return bestIdx, true
}
