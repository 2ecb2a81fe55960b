package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "nda agreements in tech industry", Normalize("NDA agreements in teck industry"))
	assert.Equal(t, "nda contracts", Normalize("non-disclosure contrats"))
	assert.Equal(t, "oil & gas agreement", Normalize("oilandgas agrement"))
	assert.Equal(t, "tenancy agreement", Normalize("lease agreemnt"))
}

func TestFuzzyMatchExactWins(t *testing.T) {
	got := FuzzyMatch("NDA", []string{"msa", "nda", "franchise"}, DefaultFuzzyThreshold)
	assert.Equal(t, "nda", got)
}

func TestFuzzyMatchNearMiss(t *testing.T) {
	got := FuzzyMatch("franchis", []string{"nda", "msa", "franchise"}, DefaultFuzzyThreshold)
	assert.Equal(t, "franchise", got)
}

func TestFuzzyMatchBelowThreshold(t *testing.T) {
	got := FuzzyMatch("xylophone", []string{"nda", "msa", "franchise"}, DefaultFuzzyThreshold)
	assert.Equal(t, "", got)
}

func TestParseAgreementAndIndustry(t *testing.T) {
	c := Parse("nda agreements in teck industry")
	require.NotNil(t, c)
	assert.Equal(t, "NDA", c.AgreementType)
	assert.Equal(t, "Technology", c.IndustrySector)
	assert.Equal(t, TypeGeneralSearch, c.QueryType)
}

func TestParseContractsWildcard(t *testing.T) {
	c := Parse("show me all contracts")
	require.NotNil(t, c)
	assert.Equal(t, AgreementTypeAll, c.AgreementType)
	assert.Empty(t, c.Jurisdiction)
	assert.Equal(t, TypeDocumentSearch, c.QueryType)
}

func TestParseJurisdiction(t *testing.T) {
	c := Parse("which agreements are governed by uae law")
	require.NotNil(t, c)
	assert.Equal(t, "UAE", c.Jurisdiction)
	assert.Equal(t, TypeJurisdictionSearch, c.QueryType)
}

func TestParseConfidenceBounds(t *testing.T) {
	c := Parse("high confidence extractions")
	require.NotNil(t, c)
	require.NotNil(t, c.MinConfidence)
	assert.Equal(t, 0.8, *c.MinConfidence)
	assert.Nil(t, c.MaxConfidence)
	assert.Equal(t, TypeQualitySearch, c.QueryType)

	c = Parse("low confidence extractions")
	require.NotNil(t, c)
	require.NotNil(t, c.MaxConfidence)
	assert.Equal(t, 0.5, *c.MaxConfidence)
	assert.Nil(t, c.MinConfidence)
}

func TestParseKeywordTrigger(t *testing.T) {
	c := Parse("agreements that mention indemnification")
	require.NotNil(t, c)
	assert.Equal(t, []string{"indemnification"}, c.Keywords)
}

func TestParseDateFilter(t *testing.T) {
	c := Parse("old agreements")
	require.NotNil(t, c)
	assert.Equal(t, "old", c.DateFilter)
}

func TestParseUnrecognizedReturnsNil(t *testing.T) {
	assert.Nil(t, Parse("hello"))
	assert.Nil(t, Parse(""))
}

func TestParseFuzzyFallback(t *testing.T) {
	// "franchse" hits no regex but fuzzy-matches the label.
	c := Parse("franchse paperwork")
	require.NotNil(t, c)
	assert.Equal(t, "FRANCHISE", c.AgreementType)
}

func TestParserFuzzyThresholdIsConfigurable(t *testing.T) {
	// A stricter threshold rejects the typo that the default accepts.
	assert.Nil(t, NewParser(0.99).Parse("franchse paperwork"))

	c := NewParser(0.8).Parse("franchse paperwork")
	require.NotNil(t, c)
	assert.Equal(t, "FRANCHISE", c.AgreementType)
}

func TestNewParserClampsBadThreshold(t *testing.T) {
	c := NewParser(-1).Parse("franchse paperwork")
	require.NotNil(t, c)
	assert.Equal(t, "FRANCHISE", c.AgreementType)
}

func TestSuggestionsCap(t *testing.T) {
	s := Suggestions("tech contracts in uae")
	assert.NotEmpty(t, s)
	assert.LessOrEqual(t, len(s), maxSuggestions)
}

func TestSuggestionsForUnknownQuery(t *testing.T) {
	s := Suggestions("qqqq")
	assert.NotEmpty(t, s)
	assert.Contains(t, s[0], "Try:")
}
