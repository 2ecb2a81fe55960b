package metadata

import "time"

// Fields is the structured metadata produced by one extraction pass.
// Pointer fields are nil when the extractor found nothing for them.
type Fields struct {
	AgreementType  *string
	Jurisdiction   *string
	GoverningLaw   *string
	Geography      *string
	IndustrySector *string
	Parties        []string
	EffectiveDate  *time.Time
	ExpirationDate *time.Time
	ContractValue  *float64
	Currency       *string
	Keywords       []string
	Tags           []string
	Summary        *string
	Confidence     float64
}

func strPtr(s string) *string { return &s }
