package query

import (
	"strings"

	"github.com/agext/levenshtein"
)

// DefaultFuzzyThreshold is the minimum similarity for a fuzzy hit.
const DefaultFuzzyThreshold = 0.8

var fuzzyParams = levenshtein.NewParams()

// FuzzyMatch matches a query word against candidate labels. An exact
// case-insensitive match wins immediately; otherwise the most similar
// candidate at or above the threshold is returned. Empty string means no
// match.
func FuzzyMatch(word string, targets []string, threshold float64) string {
	bestMatch := ""
	bestScore := 0.0

	for _, target := range targets {
		if strings.EqualFold(word, target) {
			return target
		}
		score := levenshtein.Similarity(strings.ToLower(word), strings.ToLower(target), fuzzyParams)
		if score > bestScore && score >= threshold {
			bestScore = score
			bestMatch = target
		}
	}
	return bestMatch
}
