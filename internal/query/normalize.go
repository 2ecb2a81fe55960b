package query

import "strings"

// replacement is one substitution in the normalization table.
type replacement struct {
	from, to string
}

// misspellings is applied in order with plain substring replacement; order
// matters because later entries can see the output of earlier ones (e.g.
// "non-disclosure" must run before a bare "disclosure" could).
var misspellings = []replacement{
	{"teck", "tech"},
	{"technolgy", "technology"},
	{"agrement", "agreement"},
	{"agreemnt", "agreement"},
	{"contrat", "contract"},
	{"contrats", "contracts"},
	{"jurisdicton", "jurisdiction"},
	{"industy", "industry"},
	{"sectr", "sector"},
	{"realestate", "real estate"},
	{"oilandgas", "oil & gas"},
	{"oil&gas", "oil & gas"},
	{"health care", "healthcare"},
	{"ecommerce", "e-commerce"},
	{"jointventure", "joint venture"},
	{"joint-venture", "joint venture"},
	{"masteragreement", "master agreement"},
	{"master-agreement", "master agreement"},
	{"nondisclosure", "nda"},
	{"non-disclosure", "nda"},
	{"confidentiality", "nda"},
	{"employement", "employment"},
	{"partnershp", "partnership"},
	{"franchisee", "franchise"},
	{"licence", "license"},
	{"purchse", "purchase"},
	{"sales", "purchase"},
	{"tennancy", "tenancy"},
	{"lease", "tenancy"},
	{"litigaton", "litigation"},
	{"consultancy", "consulting"},
	{"servce", "service"},
}

// Normalize lowercases the query and applies the misspelling table.
func Normalize(query string) string {
	query = strings.ToLower(query)
	for _, r := range misspellings {
		query = strings.ReplaceAll(query, r.from, r.to)
	}
	return query
}
