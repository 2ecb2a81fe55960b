package entity

import (
	"time"

	"github.com/google/uuid"
)

// Extraction provenance values. A metadata row carries exactly one.
const (
	MethodAIPowered = "ai_powered"
	MethodRuleBased = "rule_based"
)

// DocumentMetadata holds the structured fields extracted from a document.
type DocumentMetadata struct {
	ID                   uuid.UUID  `json:"id"`
	DocumentID           uuid.UUID  `json:"document_id"`
	AgreementType        *string    `json:"agreement_type,omitempty"`
	Jurisdiction         *string    `json:"jurisdiction,omitempty"`
	GoverningLaw         *string    `json:"governing_law,omitempty"`
	Geography            *string    `json:"geography,omitempty"`
	IndustrySector       *string    `json:"industry_sector,omitempty"`
	Parties              []string   `json:"parties,omitempty"`
	EffectiveDate        *time.Time `json:"effective_date,omitempty"`
	ExpirationDate       *time.Time `json:"expiration_date,omitempty"`
	ContractValue        *float64   `json:"contract_value,omitempty"`
	Currency             *string    `json:"currency,omitempty"`
	Keywords             []string   `json:"keywords,omitempty"`
	Tags                 []string   `json:"tags,omitempty"`
	Summary              *string    `json:"summary,omitempty"`
	ExtractionConfidence float64    `json:"extraction_confidence"`
	ExtractionMethod     string     `json:"extraction_method"`
	ExtractedAt          time.Time  `json:"extracted_at"`
}
