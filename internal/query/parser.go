package query

import (
	"regexp"
	"strings"
)

// patternEntry pairs a canonical label with the regexes that select it.
// Order within a table is the tiebreak: first hit wins.
type patternEntry struct {
	label    string
	patterns []*regexp.Regexp
}

func entry(label string, patterns ...string) patternEntry {
	e := patternEntry{label: label}
	for _, p := range patterns {
		e.patterns = append(e.patterns, regexp.MustCompile(p))
	}
	return e
}

// Agreement-type families. Keys are the fuzzy-match vocabulary; the
// "contracts" family is the wildcard that matches any agreement wording.
var agreementTable = []patternEntry{
	entry("nda", `nda`, `non.?disclosure`, `confidentiality`, `non disclosure`, `nondisclosure`),
	entry("msa", `msa`, `master.?services`, `master.?agreement`, `master services`, `master agreement`),
	entry("franchise", `franchise`, `franchising`, `franchisee`),
	entry("employment", `employment`, `employment.?contract`, `employement`, `employ`),
	entry("service", `service`, `consulting`, `professional.?services`, `servce`, `serv`),
	entry("license", `license`, `licensing`, `software.?license`, `licence`),
	entry("partnership", `partnership`, `joint.?venture`, `collaboration`, `partnershp`),
	entry("purchase", `purchase`, `sales`, `acquisition`, `purchse`, `buy`),
	entry("tenancy", `tenancy`, `lease`, `rental`, `tennancy`, `tenent`),
	entry("shareholders", `shareholders`, `shareholder`, `stockholders`, `stockholder`),
	entry("litigation", `litigation`, `legal memo`, `memo`, `litigaton`, `dispute`),
	entry("consultancy", `consultancy`, `consulting`, `consultant`, `advisory`),
	entry("contracts", `\bcontracts?\b`, `\bagreements?\b`, `\bdocuments?\b`, `contract`, `agreement`),
}

var jurisdictionTable = []patternEntry{
	entry("UAE", `uae`, `united.?arab.?emirates`, `dubai`, `abudhabi`, `abu.?dhabi`, `emirates`),
	entry("UK", `uk`, `united.?kingdom`, `england`, `wales`, `british`, `britain`),
	entry("USA", `\busa\b`, `\bunited.?states\b`, `\bus\b`, `\bamerican\b`, `america`),
	entry("Delaware", `\bdelaware\b`, `de`),
	entry("California", `\bcalifornia\b`, `\bcal\b`, `cali`),
	entry("New York", `\bnew.?york\b`, `\bny\b`, `nyc`),
	entry("Singapore", `\bsingapore\b`, `\bsg\b`, `sing`),
	entry("Hong Kong", `\bhong.?kong\b`, `\bhk\b`, `hongkong`),
	entry("Germany", `\bgermany\b`, `\bgerman\b`, `deutschland`),
	entry("France", `\bfrance\b`, `\bfrench\b`),
}

var industryTable = []patternEntry{
	entry("Technology", `technology`, `tech`, `software`, `it`, `digital`, `teck`, `technolgy`),
	entry("Healthcare", `healthcare`, `medical`, `pharmaceutical`, `biotech`, `health care`, `medicine`),
	entry("Oil & Gas", `oil`, `gas`, `petroleum`, `energy`, `hydrocarbon`, `oilandgas`, `oil&gas`),
	entry("Finance", `finance`, `banking`, `investment`, `financial`, `finacial`, `bank`),
	entry("Real Estate", `real.?estate`, `property`, `construction`, `realestate`),
	entry("Manufacturing", `manufacturing`, `industrial`, `production`, `manufacture`, `factory`),
	entry("Retail", `retail`, `e.?commerce`, `consumer`, `shopping`),
	entry("Energy", `energy`, `renewable`, `solar`, `wind`, `nuclear`, `power`),
	entry("Consulting", `consulting`, `consultancy`, `advisory`, `professional services`),
	entry("Transportation", `transportation`, `transport`, `logistics`, `shipping`, `delivery`),
	entry("Telecommunications", `telecommunications`, `telecom`, `communications`, `phone`, `internet`),
}

var dateTable = []patternEntry{
	entry("recent", `recent`, `latest`, `new`, `this.?year`, `2025`, `current`),
	entry("old", `old`, `previous`, `last.?year`, `2024`, `2023`, `past`),
	entry("expiring", `expiring`, `expiration`, `ending`, `due`, `expire`, `expiry`),
	entry("effective", `effective`, `start`, `commencement`, `begin`, `started`),
}

var (
	highConfidenceRe = regexp.MustCompile(`high.?confidence|accurate|reliable|good`)
	lowConfidenceRe  = regexp.MustCompile(`low.?confidence|uncertain|poor|bad`)
)

var keywordRes = []*regexp.Regexp{
	regexp.MustCompile(`mentions?\s+(\w+)`),
	regexp.MustCompile(`contains?\s+(\w+)`),
	regexp.MustCompile(`with\s+(\w+)`),
	regexp.MustCompile(`about\s+(\w+)`),
	regexp.MustCompile(`related\s+to\s+(\w+)`),
	regexp.MustCompile(`involving\s+(\w+)`),
}

// Parser turns natural-language queries into structured criteria. The fuzzy
// threshold is a tunable; NewParser clamps nonsense values to the default.
type Parser struct {
	fuzzyThreshold float64
}

func NewParser(fuzzyThreshold float64) *Parser {
	if fuzzyThreshold <= 0 || fuzzyThreshold > 1 {
		fuzzyThreshold = DefaultFuzzyThreshold
	}
	return &Parser{fuzzyThreshold: fuzzyThreshold}
}

// Parse parses with the default fuzzy threshold.
func Parse(raw string) *Criteria {
	return NewParser(DefaultFuzzyThreshold).Parse(raw)
}

// Parse normalizes the query, tries each dimension's regex table, and falls
// back to per-token fuzzy matching for agreement type and industry. Returns
// nil when no criterion at all was recognized.
func (p *Parser) Parse(raw string) *Criteria {
	q := Normalize(raw)
	c := &Criteria{}
	matched := false

	if label := matchTable(agreementTable, q); label != "" {
		c.AgreementType = strings.ToUpper(label)
		matched = true
	} else if label := fuzzyTableMatch(agreementTable, q, p.fuzzyThreshold); label != "" {
		c.AgreementType = strings.ToUpper(label)
		matched = true
	}

	if label := matchTable(jurisdictionTable, q); label != "" {
		c.Jurisdiction = label
		matched = true
	}

	if label := matchTable(industryTable, q); label != "" {
		c.IndustrySector = label
		matched = true
	} else if label := fuzzyTableMatch(industryTable, q, p.fuzzyThreshold); label != "" {
		c.IndustrySector = label
		matched = true
	}

	if label := matchTable(dateTable, q); label != "" {
		c.DateFilter = label
		matched = true
	}

	if highConfidenceRe.MatchString(q) {
		min := 0.8
		c.MinConfidence = &min
		matched = true
	} else if lowConfidenceRe.MatchString(q) {
		max := 0.5
		c.MaxConfidence = &max
		matched = true
	}

	for _, re := range keywordRes {
		if m := re.FindStringSubmatch(q); m != nil {
			c.Keywords = []string{Normalize(m[1])}
			matched = true
			break
		}
	}

	if !matched {
		return nil
	}

	c.QueryType = classify(q)
	return c
}

func matchTable(table []patternEntry, q string) string {
	for _, e := range table {
		for _, re := range e.patterns {
			if re.MatchString(q) {
				return e.label
			}
		}
	}
	return ""
}

// fuzzyTableMatch tries each query token longer than 3 chars against the
// table's labels.
func fuzzyTableMatch(table []patternEntry, q string, threshold float64) string {
	labels := make([]string, 0, len(table))
	for _, e := range table {
		labels = append(labels, e.label)
	}
	for _, word := range strings.Fields(q) {
		if len(word) <= 3 {
			continue
		}
		if match := FuzzyMatch(word, labels, threshold); match != "" {
			return match
		}
	}
	return ""
}

func classify(q string) string {
	switch {
	case strings.Contains(q, "governed by") || strings.Contains(q, "jurisdiction"):
		return TypeJurisdictionSearch
	case strings.Contains(q, "show") || strings.Contains(q, "find") || strings.Contains(q, "which"):
		return TypeDocumentSearch
	case strings.Contains(q, "confidence") || strings.Contains(q, "accurate"):
		return TypeQualitySearch
	default:
		return TypeGeneralSearch
	}
}
