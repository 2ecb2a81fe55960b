package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/legalintel/legal-intel/internal/metadata"
)

// rawResponse mirrors the schema-validated model output before coercion.
type rawResponse struct {
	AgreementType        *string  `json:"agreement_type"`
	Jurisdiction         *string  `json:"jurisdiction"`
	GoverningLaw         *string  `json:"governing_law"`
	Geography            *string  `json:"geography"`
	IndustrySector       *string  `json:"industry_sector"`
	Parties              []string `json:"parties"`
	EffectiveDate        *string  `json:"effective_date"`
	ExpirationDate       *string  `json:"expiration_date"`
	ContractValue        any      `json:"contract_value"`
	Currency             *string  `json:"currency"`
	Keywords             []string `json:"keywords"`
	Tags                 []string `json:"tags"`
	ExtractionConfidence float64  `json:"extraction_confidence"`
	Summary              string   `json:"summary"`
}

// EnhanceResponse coerces a schema-validated response body into typed
// fields. Cleanups are lossy on purpose: unparsable dates and values become
// nil rather than failing the extraction.
func EnhanceResponse(data []byte) (*metadata.Fields, error) {
	var raw rawResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	f := &metadata.Fields{
		AgreementType:  cleanPtr(raw.AgreementType),
		Jurisdiction:   cleanPtr(raw.Jurisdiction),
		GoverningLaw:   cleanPtr(raw.GoverningLaw),
		Geography:      cleanPtr(raw.Geography),
		IndustrySector: cleanPtr(raw.IndustrySector),
		Parties:        cleanList(raw.Parties, false),
		EffectiveDate:  parseISODate(raw.EffectiveDate),
		ExpirationDate: parseISODate(raw.ExpirationDate),
		ContractValue:  coerceValue(raw.ContractValue),
		Currency:       cleanPtr(raw.Currency),
		Keywords:       cleanList(raw.Keywords, true),
		Tags:           cleanList(raw.Tags, false),
		Confidence:     raw.ExtractionConfidence,
	}
	if s := strings.TrimSpace(raw.Summary); s != "" {
		f.Summary = &s
	}
	return f, nil
}

func cleanPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// cleanList trims entries and drops anything of 2 chars or fewer.
func cleanList(items []string, lower bool) []string {
	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if lower {
			item = strings.ToLower(item)
		}
		if len(item) > 2 {
			out = append(out, item)
		}
	}
	return out
}

var isoLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

func parseISODate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}

func coerceValue(v any) *float64 {
	switch val := v.(type) {
	case float64:
		return &val
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' {
				return r
			}
			return -1
		}, val)
		if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return &f
		}
	}
	return nil
}
