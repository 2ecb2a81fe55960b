package metadata

// Confidence weights per extracted field. The weights sum to 1.00; a fully
// populated record scores 1.0 and the score is clamped there regardless.
var confidenceWeights = []struct {
	weight    float64
	populated func(*Fields) bool
}{
	{0.20, func(f *Fields) bool { return f.AgreementType != nil }},
	{0.15, func(f *Fields) bool { return f.Jurisdiction != nil }},
	{0.10, func(f *Fields) bool { return f.Geography != nil }},
	{0.15, func(f *Fields) bool { return f.IndustrySector != nil }},
	{0.10, func(f *Fields) bool { return len(f.Parties) > 0 }},
	{0.10, func(f *Fields) bool { return f.EffectiveDate != nil }},
	{0.05, func(f *Fields) bool { return f.ExpirationDate != nil }},
	{0.05, func(f *Fields) bool { return f.ContractValue != nil }},
	{0.05, func(f *Fields) bool { return f.Currency != nil }},
	{0.05, func(f *Fields) bool { return len(f.Keywords) > 0 }},
}

// scoreConfidence sums the weights of the populated fields.
func scoreConfidence(f *Fields) float64 {
	score := 0.0
	for _, w := range confidenceWeights {
		if w.populated(f) {
			score += w.weight
		}
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
