// Package llm holds the model-facing pieces of AI metadata extraction:
// the response schema, prompt construction, validation, and the
// enhancement pass that coerces a validated response into typed fields.
package llm

// RequiredFields is the closed set of keys every model response must carry.
var RequiredFields = []string{
	"agreement_type", "jurisdiction", "governing_law", "geography",
	"industry_sector", "parties", "effective_date", "expiration_date",
	"contract_value", "currency", "keywords", "tags",
	"extraction_confidence", "summary",
}

// BuildMetadataJSONSchema describes one document's metadata response.
// Every key must be present; unknown fields are allowed to pass through.
func BuildMetadataJSONSchema() map[string]any {
	nullableString := map[string]any{"type": []string{"string", "null"}}
	stringArray := map[string]any{
		"type":  []string{"array", "null"},
		"items": map[string]any{"type": "string"},
	}
	return map[string]any{
		"type":     "object",
		"required": RequiredFields,
		"properties": map[string]any{
			"agreement_type":  nullableString,
			"jurisdiction":    nullableString,
			"governing_law":   nullableString,
			"geography":       nullableString,
			"industry_sector": nullableString,
			"parties":         stringArray,
			"effective_date":  nullableString,
			"expiration_date": nullableString,
			"contract_value":  map[string]any{"type": []string{"number", "string", "null"}},
			"currency":        nullableString,
			"keywords":        stringArray,
			"tags":            stringArray,
			"extraction_confidence": map[string]any{
				"type":    "number",
				"minimum": 0,
				"maximum": 1,
			},
			"summary": map[string]any{"type": "string"},
		},
	}
}

// BuildBatchJSONSchema describes the multi-document response envelope.
func BuildBatchJSONSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"documents"},
		"properties": map[string]any{
			"documents": map[string]any{
				"type":  "array",
				"items": BuildMetadataJSONSchema(),
			},
		},
	}
}
