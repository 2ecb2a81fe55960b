package llm

import (
	"strconv"
	"strings"
)

// MaxContentChars caps the document text sent to the model.
const MaxContentChars = 8000

const truncationMarker = "\n\n[Content truncated due to length]"

// TruncateContent cuts text to the model budget and appends the marker so
// the model knows the tail is missing.
func TruncateContent(text string) string {
	if len(text) <= MaxContentChars {
		return text
	}
	return text[:MaxContentChars] + truncationMarker
}

// BuildSystemPrompt instructs the model to behave as a legal metadata parser.
func BuildSystemPrompt() string {
	parts := []string{
		"You are a legal document analyst. Return ONLY JSON that matches the JSON Schema provided.",
		"Classify the agreement type, jurisdiction, governing law, geography and industry sector.",
		"List the contracting parties exactly as named in the document.",
		"Use ISO-8601 dates (YYYY-MM-DD) for effective_date and expiration_date; use null when a date is absent.",
		"Currency must be a 3-letter ISO 4217 code.",
		"keywords are notable legal concepts from the text, lowercase.",
		"extraction_confidence is your overall confidence in [0, 1].",
		"summary is 2-3 sentences describing the document.",
		"Every schema key must be present; use null for unknown scalar fields and [] for unknown lists.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt frames one document for extraction.
func BuildUserPrompt(filename, text string) string {
	var b strings.Builder
	b.WriteString("Filename: ")
	b.WriteString(filename)
	b.WriteString("\n\nDocument text:\n")
	b.WriteString(TruncateContent(text))
	return b.String()
}

// BatchDocument is one (filename, text) pair in a batch extraction.
type BatchDocument struct {
	Filename string
	Text     string
}

// BuildBatchUserPrompt frames several documents for one round trip. The
// response must list results in the same order under "documents".
func BuildBatchUserPrompt(docs []BatchDocument) string {
	var b strings.Builder
	b.WriteString("Analyze each of the following documents. Respond with a JSON object ")
	b.WriteString(`{"documents": [...]} holding one result per document, in order.`)
	for i, d := range docs {
		b.WriteString("\n\n--- Document ")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(" ---\nFilename: ")
		b.WriteString(d.Filename)
		b.WriteString("\n")
		b.WriteString(TruncateContent(d.Text))
	}
	return b.String()
}
