// Package query turns natural-language questions into structured document
// searches: normalization, fuzzy matching, parsing, and SQL execution.
package query

// Query type classification values.
const (
	TypeJurisdictionSearch = "jurisdiction_search"
	TypeDocumentSearch     = "document_search"
	TypeQualitySearch      = "quality_search"
	TypeGeneralSearch      = "general_search"
)

// AgreementTypeAll is the wildcard family: asking for "contracts" means
// every agreement type, so the executor applies no type filter for it.
const AgreementTypeAll = "CONTRACTS"

// Criteria is the structured form of a parsed natural-language query.
// Zero values mean the dimension was not recognized.
type Criteria struct {
	AgreementType  string
	Jurisdiction   string
	IndustrySector string
	DateFilter     string
	MinConfidence  *float64
	MaxConfidence  *float64
	Keywords       []string
	QueryType      string
}
