package metadata

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/legalintel/legal-intel/constants"
)

// RuleEngine is the deterministic pattern-table extractor. It is always
// available and serves as the fallback when the AI adapter cannot deliver.
type RuleEngine struct {
	log *slog.Logger
}

func NewRuleEngine(log *slog.Logger) *RuleEngine {
	if log == nil {
		log = slog.Default()
	}
	return &RuleEngine{log: log}
}

func (e *RuleEngine) Available() bool { return true }

// Extract runs every pattern table over the text and scores the result.
// It never fails: an unrecognizable document simply yields sparse fields
// with a low confidence.
func (e *RuleEngine) Extract(_ context.Context, text, filename string) (*Fields, error) {
	lower := strings.ToLower(text)
	f := &Fields{}

	f.AgreementType = matchAgreementType(lower, strings.ToLower(filename))
	f.Jurisdiction, f.GoverningLaw = extractJurisdiction(lower)
	f.Geography = extractGeography(lower)
	f.IndustrySector = matchFirstLabel(industryRes, lower)
	f.Parties = extractParties(text)
	f.EffectiveDate, f.ExpirationDate = extractDates(lower)
	f.ContractValue, f.Currency = extractValue(text)
	f.Keywords = extractKeywords(lower)
	f.Tags = buildTags(f)
	f.Confidence = scoreConfidence(f)

	e.log.Info("rule extraction done", "filename", filename,
		"confidence", f.Confidence, "agreement_type", deref(f.AgreementType))
	return f, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Compiled pattern tables, built once at startup from the taxonomy.
type labelRes struct {
	label   string
	needles []string // patterns flattened to plain substrings, for filename checks
	res     []*regexp.Regexp
}

func compileTable(table []constants.PatternEntry) []labelRes {
	out := make([]labelRes, 0, len(table))
	for _, entry := range table {
		lr := labelRes{label: entry.Label}
		for _, p := range entry.Patterns {
			lr.needles = append(lr.needles, filenameNeedle(p))
			lr.res = append(lr.res, regexp.MustCompile(p))
		}
		out = append(out, lr)
	}
	return out
}

// filenameNeedle flattens a content pattern into the plain substring used
// for the filename check.
func filenameNeedle(pattern string) string {
	s := strings.ReplaceAll(pattern, `\s+`, " ")
	s = strings.ReplaceAll(s, `\w+`, "")
	return strings.ToLower(s)
}

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

var (
	agreementRes    = compileTable(constants.AgreementTypes)
	industryRes     = compileTable(constants.IndustrySectors)
	jurisdictionRes = compileAll(constants.JurisdictionPatterns)
	geographyRes    = compileAll(constants.GeographyPatterns)
)

// matchAgreementType checks each label against the filename first, then the
// document text. Table order is the tiebreak either way, so a filename hit
// on an earlier label beats a content hit on a later one.
func matchAgreementType(lower, filenameLower string) *string {
	for _, entry := range agreementRes {
		for _, needle := range entry.needles {
			if strings.Contains(filenameLower, needle) {
				return strPtr(entry.label)
			}
		}
		for _, re := range entry.res {
			if re.MatchString(lower) {
				return strPtr(entry.label)
			}
		}
	}
	return nil
}

// matchFirstLabel returns the first label whose patterns hit; table order
// is the tiebreak.
func matchFirstLabel(table []labelRes, lower string) *string {
	for _, entry := range table {
		for _, re := range entry.res {
			if re.MatchString(lower) {
				return strPtr(entry.label)
			}
		}
	}
	return nil
}

// extractJurisdiction captures the governing-law phrase and canonicalizes
// it through the synonym table; an unmapped capture is kept title-cased.
// Jurisdiction and governing law carry the same value on the rule path.
func extractJurisdiction(lower string) (*string, *string) {
	for _, re := range jurisdictionRes {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		captured := strings.TrimSpace(m[1])
		canonical := canonicalize(captured, constants.JurisdictionSynonyms)
		if canonical == "" {
			canonical = titleCase(captured)
		}
		return strPtr(canonical), strPtr(canonical)
	}
	return nil, nil
}

func extractGeography(lower string) *string {
	for _, re := range geographyRes {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		captured := strings.TrimSpace(m[1])
		if len(captured) <= 3 {
			continue
		}
		if _, stop := constants.GeographyStopWords[captured]; stop {
			continue
		}
		canonical := canonicalize(captured, constants.GeographySynonyms)
		if canonical == "" {
			canonical = titleCase(captured)
		}
		return strPtr(canonical)
	}
	return nil
}

func canonicalize(captured string, table []constants.Synonym) string {
	for _, syn := range table {
		if strings.Contains(captured, syn.Match) {
			return syn.Canonical
		}
	}
	return ""
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Party delimiter patterns. Two-capture patterns name both sides at once;
// role-prefixed patterns name one party each.
var partyRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)between\s+([^:]+?)\s+and\s+([^:]+?)(?:\s|,|\.|$)`),
	regexp.MustCompile(`(?i)parties\s+are\s+([^:]+?)\s+and\s+([^:]+?)(?:\s|,|\.|$)`),
	regexp.MustCompile(`(?i)([^:]+?)\s+\(hereinafter\s+referred\s+to\s+as\s+[^)]+\)`),
	regexp.MustCompile(`(?i)([^:]+?)\s+\(the\s+[^)]+\)`),
	regexp.MustCompile(`(?i)landlord[:\s]+([^,\n]+)`),
	regexp.MustCompile(`(?i)tenant[:\s]+([^,\n]+)`),
	regexp.MustCompile(`(?i)buyer[:\s]+([^,\n]+)`),
	regexp.MustCompile(`(?i)seller[:\s]+([^,\n]+)`),
	regexp.MustCompile(`(?i)licensor[:\s]+([^,\n]+)`),
	regexp.MustCompile(`(?i)licensee[:\s]+([^,\n]+)`),
}

var (
	parensRe      = regexp.MustCompile(`\([^)]*\)`)
	hereinafterRe = regexp.MustCompile(`(?i)hereinafter\s+referred\s+to\s+as\s+\w+`)
	theRe         = regexp.MustCompile(`(?i)\bthe\s+`)
)

func extractParties(text string) []string {
	var raw []string
	for _, re := range partyRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			for _, g := range m[1:] {
				if g = strings.TrimSpace(g); g != "" {
					raw = append(raw, g)
				}
			}
		}
	}

	seen := map[string]struct{}{}
	var parties []string
	for _, p := range raw {
		p = parensRe.ReplaceAllString(p, "")
		p = hereinafterRe.ReplaceAllString(p, "")
		p = theRe.ReplaceAllString(p, "")
		p = strings.TrimSpace(p)
		if len(p) <= 2 {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		parties = append(parties, p)
	}
	return parties
}

// Date patterns, in priority order: labeled effective dates, labeled
// expiration dates, explicit ranges, then bare date shapes. Scalar hits
// fill effective first, then expiration.
var dateRes = []*regexp.Regexp{
	regexp.MustCompile(`effective\s+date[:\s]+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	regexp.MustCompile(`commencement\s+date[:\s]+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	regexp.MustCompile(`start\s+date[:\s]+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	regexp.MustCompile(`execution\s+date[:\s]+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	regexp.MustCompile(`signing\s+date[:\s]+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	regexp.MustCompile(`expiration\s+date[:\s]+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	regexp.MustCompile(`end\s+date[:\s]+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	regexp.MustCompile(`termination\s+date[:\s]+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	regexp.MustCompile(`from\s+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\s+to\s+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	regexp.MustCompile(`(\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{4})`),
	regexp.MustCompile(`(\d{4}[-/]\d{1,2}[-/]\d{1,2})`),
}

func extractDates(lower string) (*time.Time, *time.Time) {
	var effective, expiration *time.Time
	for _, re := range dateRes {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			if len(m) == 3 {
				if d1 := ParseDate(m[1]); d1 != nil {
					effective = d1
				}
				if d2 := ParseDate(m[2]); d2 != nil {
					expiration = d2
				}
				break
			}
			d := ParseDate(m[1])
			if d == nil {
				continue
			}
			if effective == nil {
				effective = d
			} else if expiration == nil {
				expiration = d
			}
			break
		}
		if effective != nil && expiration != nil {
			break
		}
	}
	return effective, expiration
}

// dateLayouts is the ordered list of accepted shapes; the first layout that
// parses wins, so ambiguous numeric dates resolve US-style.
var dateLayouts = []string{
	"1/2/2006", "2/1/2006", "2006/1/2",
	"1-2-2006", "2-1-2006", "2006-1-2",
	"2 Jan 2006", "2 January 2006", "Jan 2 2006", "January 2 2006",
}

var shortYearRe = regexp.MustCompile(`^\d{1,2}[/-]\d{1,2}[/-]\d{2}$`)

// ParseDate parses the date shapes the pattern tables capture. Two-digit
// years are assumed to be MM/DD/YY in the 2000s. Returns nil when nothing
// parses.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	normalized := capitalizeMonths(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return &t
		}
	}

	if shortYearRe.MatchString(s) {
		sep := "/"
		if strings.Contains(s, "-") {
			sep = "-"
		}
		parts := strings.Split(s, sep)
		if t, err := time.Parse("1/2/2006", parts[0]+"/"+parts[1]+"/20"+parts[2]); err == nil {
			return &t
		}
	}
	return nil
}

func capitalizeMonths(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w != "" && w[0] >= 'a' && w[0] <= 'z' {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Currency patterns in priority order; the first hit decides both the
// amount and the currency.
var currencyRes = []*regexp.Regexp{
	regexp.MustCompile(`(\$[\d,]+(?:\.\d{2})?)`),
	regexp.MustCompile(`(?i)(\d+(?:,\d{3})*(?:\.\d{2})?\s*(?:USD|US\s*Dollars?))`),
	regexp.MustCompile(`(?i)(\d+(?:,\d{3})*(?:\.\d{2})?\s*(?:EUR|Euros?))`),
	regexp.MustCompile(`(?i)(\d+(?:,\d{3})*(?:\.\d{2})?\s*(?:GBP|Pounds?|Sterling))`),
	regexp.MustCompile(`(?i)(\d+(?:,\d{3})*(?:\.\d{2})?\s*(?:AED|Dirhams?))`),
	regexp.MustCompile(`(?i)(\d+(?:,\d{3})*(?:\.\d{2})?\s*(?:dollars?|euros?|pounds?|dirhams?))`),
	regexp.MustCompile(`(?i)(?:amount|value|consideration)[:\s]+([^,\n]+)`),
}

var nonNumericRe = regexp.MustCompile(`[^\d.]`)

func extractValue(text string) (*float64, *string) {
	for _, re := range currencyRes {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		amount := m[1]
		currency := detectCurrency(amount)

		var value *float64
		cleaned := nonNumericRe.ReplaceAllString(amount, "")
		if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
			value = &v
		}
		return value, strPtr(currency)
	}
	return nil, nil
}

func detectCurrency(amount string) string {
	upper := strings.ToUpper(amount)
	lower := strings.ToLower(amount)
	switch {
	case strings.Contains(amount, "$"), strings.Contains(upper, "USD"), strings.Contains(lower, "dollar"):
		return "USD"
	case strings.Contains(upper, "EUR"), strings.Contains(lower, "euro"):
		return "EUR"
	case strings.Contains(upper, "GBP"), strings.Contains(lower, "pound"), strings.Contains(lower, "sterling"):
		return "GBP"
	case strings.Contains(upper, "AED"), strings.Contains(lower, "dirham"):
		return "AED"
	}
	return constants.DefaultCurrency
}

func extractKeywords(lower string) []string {
	var found []string
	for _, kw := range constants.LegalKeywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}
	return found
}

// buildTags synthesizes tags from the classified fields, in a fixed order.
func buildTags(f *Fields) []string {
	var tags []string
	for _, v := range []*string{f.AgreementType, f.IndustrySector, f.Jurisdiction, f.Geography} {
		if v != nil {
			tags = append(tags, *v)
		}
	}
	return tags
}
