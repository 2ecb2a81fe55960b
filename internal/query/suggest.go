package query

import "strings"

const maxSuggestions = 8

// Suggestions proposes alternative queries when one failed or matched
// nothing, keyed on the recognizable word families in the failed query.
func Suggestions(failedQuery string) []string {
	q := Normalize(failedQuery)
	var out []string

	if containsAny(q, "tech", "technology", "software", "it") {
		out = append(out,
			"Technology industry contracts",
			"Software development agreements",
			"IT service contracts",
			"Tech company NDAs")
	}
	if containsAny(q, "contract", "agreement", "document") {
		out = append(out,
			"Show me all contracts",
			"Find agreements by type",
			"Search documents by jurisdiction")
	}
	if containsAny(q, "uae", "dubai", "emirates") {
		out = append(out,
			"UAE jurisdiction contracts",
			"Contracts governed by UAE law",
			"Documents in Dubai")
	}
	if containsAny(q, "nda", "confidentiality") {
		out = append(out,
			"Non-disclosure agreements",
			"Confidentiality contracts",
			"NDA documents by jurisdiction")
	}
	if containsAny(q, "employment", "work", "job") {
		out = append(out,
			"Employment contracts",
			"Work agreements",
			"Employment documents")
	}

	out = append(out,
		"Try: 'Show me all contracts'",
		"Try: 'Find NDA documents'",
		"Try: 'Technology industry agreements'",
		"Try: 'UAE jurisdiction contracts'",
		"Try: 'High confidence documents'")

	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

func containsAny(q string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}
