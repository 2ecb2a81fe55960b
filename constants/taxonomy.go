package constants

// The extraction taxonomies are closed, ordered tables. Order is a documented
// contract: the first label whose pattern matches wins, so more specific
// labels must stay ahead of generic ones.

// PatternEntry pairs a canonical label with the regex patterns that select it.
type PatternEntry struct {
	Label    string
	Patterns []string
}

// AgreementTypes is the ordered agreement-type classification table.
var AgreementTypes = []PatternEntry{
	{"NDA", []string{
		`non.?disclosure\s+agreement`,
		`nda\s+agreement`,
		`confidentiality\s+agreement`,
		`non.?disclosure\s+and\s+confidentiality`,
	}},
	{"MSA", []string{
		`master\s+services?\s+agreement`,
		`msa\s+agreement`,
		`master\s+agreement`,
	}},
	{"Franchise Agreement", []string{
		`franchise\s+agreement`,
		`franchising\s+agreement`,
		`franchise\s+contract`,
	}},
	{"Employment Agreement", []string{
		`employment\s+agreement`,
		`employment\s+contract`,
		`employment\s+terms`,
	}},
	{"Tenancy Agreement", []string{
		`tenancy\s+agreement`,
		`lease\s+agreement`,
		`rental\s+agreement`,
		`tenancy\s+contract`,
	}},
	{"Service Agreement", []string{
		`service\s+agreement`,
		`consulting\s+agreement`,
		`professional\s+services\s+agreement`,
	}},
	{"License Agreement", []string{
		`license\s+agreement`,
		`licensing\s+agreement`,
		`software\s+license`,
	}},
	{"Partnership Agreement", []string{
		`partnership\s+agreement`,
		`joint\s+venture\s+agreement`,
		`collaboration\s+agreement`,
	}},
	{"Purchase Agreement", []string{
		`purchase\s+agreement`,
		`sales\s+agreement`,
		`acquisition\s+agreement`,
	}},
}

// JurisdictionPatterns capture the governing-law clause; group 1 is the
// jurisdiction phrase. Specific clause shapes come before loose ones.
var JurisdictionPatterns = []string{
	`governed\s+by\s+the\s+laws?\s+of\s+the\s+([a-z]+(?:\s+[a-z]+)*?)(?:\s|,|\.|$)`,
	`governed\s+by\s+the\s+laws?\s+of\s+([a-z]+(?:\s+[a-z]+)*?)(?:\s|,|\.|$)`,
	`jurisdiction\s+of\s+([a-z]+(?:\s+[a-z]+)*?)(?:\s|,|\.|$)`,
	`subject\s+to\s+([a-z]+(?:\s+[a-z]+)*?)\s+law`,
	`([a-z]+(?:\s+[a-z]+)*?)\s+law\s+shall\s+govern`,
	`governed\s+by\s+([a-z]+(?:\s+[a-z]+)*?)\s+law`,
	`([a-z]+(?:\s+[a-z]+)*?)\s+courts?\s+shall\s+have\s+exclusive\s+jurisdiction`,
	`exclusive\s+jurisdiction\s+of\s+([a-z]+(?:\s+[a-z]+)*?)(?:\s|,|\.|$)`,
	`venue\s+shall\s+be\s+([a-z]+(?:\s+[a-z]+)*?)(?:\s|,|\.|$)`,
	`([a-z]+(?:\s+[a-z]+)*?)\s+venue`,
	`([a-z]+(?:\s+[a-z]+)*?)\s+governing\s+law`,
	`laws\s+of\s+the\s+([a-z]+(?:\s+[a-z]+)*?)(?:\s|,|\.|$)`,
	`courts\s+of\s+([a-z]+(?:\s+[a-z]+)*?)(?:\s|,|\.|$)`,
}

// JurisdictionSynonyms maps captured phrases to canonical jurisdictions.
// Matching is substring-based on the lowercased capture.
type Synonym struct {
	Match     string
	Canonical string
}

var JurisdictionSynonyms = []Synonym{
	{"state of delaware", "Delaware, USA"},
	{"delaware state", "Delaware, USA"},
	{"state of california", "California, USA"},
	{"california state", "California, USA"},
	{"state of new york", "New York, USA"},
	{"new york state", "New York, USA"},
	{"united arab emirates", "UAE"},
	{"uae", "UAE"},
	{"dubai", "UAE"},
	{"united kingdom", "UK"},
	{"uk", "UK"},
	{"england", "UK"},
	{"wales", "UK"},
	{"united states", "USA"},
	{"usa", "USA"},
	{"delaware", "Delaware, USA"},
	{"california", "California, USA"},
	{"new york", "New York, USA"},
	{"singapore", "Singapore"},
	{"hong kong", "Hong Kong"},
	{"germany", "Germany"},
	{"france", "France"},
	{"netherlands", "Netherlands"},
	{"australia", "Australia"},
	{"canada", "Canada"},
	{"japan", "Japan"},
}

// GeographyPatterns capture "<name> region"-style phrases; group 1 is the
// candidate geography. These regexes also match legal boilerplate, which the
// stop-word list filters out.
var GeographyPatterns = []string{
	`(\w+(?:\s+\w+)*)\s+region`,
	`(\w+(?:\s+\w+)*)\s+territory`,
	`(\w+(?:\s+\w+)*)\s+state`,
	`(\w+(?:\s+\w+)*)\s+country`,
	`(\w+(?:\s+\w+)*)\s+area`,
	`(\w+(?:\s+\w+)*)\s+zone`,
	`(\w+(?:\s+\w+)*)\s+district`,
	`(\w+(?:\s+\w+)*)\s+province`,
	`(\w+(?:\s+\w+)*)\s+county`,
}

// GeographyStopWords reject boilerplate captured by the generic geography
// regexes. Best-effort heuristic, not a precise extractor.
var GeographyStopWords = map[string]struct{}{
	"governing": {}, "law": {}, "and": {}, "jurisdiction": {}, "this": {},
	"agreement": {}, "shall": {}, "be": {}, "governed": {}, "by": {},
	"construed": {}, "accordance": {}, "with": {}, "laws": {}, "of": {},
	"the": {}, "state": {}, "united": {}, "states": {}, "america": {},
	"disputes": {}, "arising": {}, "out": {}, "relating": {}, "subject": {},
	"exclusive": {}, "courts": {}, "parties": {}, "concerning": {},
	"matter": {}, "hereof": {}, "supersedes": {}, "prior": {},
	"contemporaneous": {}, "agreements": {}, "understandings": {},
	"whether": {}, "written": {}, "oral": {}, "such": {},
}

var GeographySynonyms = []Synonym{
	{"middle east", "Middle East"},
	{"gulf region", "Gulf Region"},
	{"gcc", "Gulf Cooperation Council"},
	{"european union", "European Union"},
	{"europe", "Europe"},
	{"eu", "European Union"},
	{"asia pacific", "Asia Pacific"},
	{"apac", "Asia Pacific"},
	{"asia", "Asia"},
	{"north america", "North America"},
	{"south america", "South America"},
	{"africa", "Africa"},
	{"australia", "Australia"},
	{"oceania", "Oceania"},
}

// IndustrySectors is the ordered industry classification table.
var IndustrySectors = []PatternEntry{
	{"Oil & Gas", []string{
		`oil\s+and\s+gas`, `petroleum`, `hydrocarbon`, `drilling`, `exploration`,
		`upstream`, `downstream`, `midstream`, `refinery`, `petrochemical`,
	}},
	{"Healthcare", []string{
		`healthcare`, `medical`, `pharmaceutical`, `biotech`, `clinical`,
		`hospital`, `diagnostic`, `therapeutic`, `medical device`,
	}},
	{"Technology", []string{
		`technology`, `software`, `hardware`, `it\s+services`, `digital`,
		`cybersecurity`, `artificial intelligence`, `machine learning`, `cloud`,
	}},
	{"Finance", []string{
		`finance`, `banking`, `investment`, `insurance`, `asset management`,
		`private equity`, `venture capital`, `fintech`, `wealth management`,
	}},
	{"Real Estate", []string{
		`real estate`, `property`, `construction`, `development`, `leasing`,
		`commercial property`, `residential`, `infrastructure`,
	}},
	{"Manufacturing", []string{
		`manufacturing`, `industrial`, `production`, `factory`, `supply chain`,
		`logistics`, `automotive`, `aerospace`, `chemical`,
	}},
	{"Retail", []string{
		`retail`, `e-commerce`, `consumer goods`, `fashion`, `apparel`,
		`food and beverage`, `hospitality`, `tourism`,
	}},
	{"Energy", []string{
		`energy`, `renewable`, `solar`, `wind`, `nuclear`, `electricity`,
		`power generation`, `utilities`,
	}},
}

// LegalKeywords is the fixed dictionary for keyword extraction; membership is
// a case-insensitive substring test against the document text.
var LegalKeywords = []string{
	"confidentiality", "termination", "liability", "indemnification",
	"force majeure", "governing law", "dispute resolution", "breach",
	"remedies", "waiver", "severability", "entire agreement",
	"non-compete", "non-solicitation", "intellectual property",
	"data protection", "privacy", "compliance", "regulatory",
	"audit", "inspection", "default", "cure period",
	"assignment", "amendment", "notice", "representation",
	"warranty", "covenant", "condition precedent", "material adverse effect",
}

// Currencies is the closed set the extractors normalize into.
var Currencies = []string{"USD", "EUR", "GBP", "AED"}

// DefaultCurrency is assumed when an amount carries no recognizable token.
const DefaultCurrency = "USD"
