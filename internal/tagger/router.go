package tagger

import "strings"

// ExtractionBuckets collects decoded span texts by semantic category. Created
// empty per request, appended to as spans close, read once by the scorer and
// assembler.
type ExtractionBuckets struct {
	Parties    []string
	Dates      []string
	Locations  []string
	Costs      []string
	PolicyRefs []string
	TypeHints  []string
}

// bucketRule routes spans whose lowercased entity type name contains any of
// the keywords. A span may match several rules; multi-bucket routing is
// intentional.
type bucketRule struct {
	keywords []string
	route    func(b *ExtractionBuckets, text string)
}

var bucketRules = []bucketRule{
	{
		keywords: []string{"person", "organization", "holder", "hospital", "airline", "garage", "insurer"},
		route:    func(b *ExtractionBuckets, t string) { b.Parties = append(b.Parties, t) },
	},
	{
		keywords: []string{"date"},
		route:    func(b *ExtractionBuckets, t string) { b.Dates = append(b.Dates, t) },
	},
	{
		keywords: []string{"location", "destination"},
		route:    func(b *ExtractionBuckets, t string) { b.Locations = append(b.Locations, t) },
	},
	{
		keywords: []string{"amount", "cost", "value", "estimate"},
		route:    func(b *ExtractionBuckets, t string) { b.Costs = append(b.Costs, t) },
	},
	{
		keywords: []string{"policy"},
		route:    func(b *ExtractionBuckets, t string) { b.PolicyRefs = append(b.PolicyRefs, t) },
	},
	{
		keywords: []string{"type", "cause"},
		route:    func(b *ExtractionBuckets, t string) { b.TypeHints = append(b.TypeHints, t) },
	},
}

// RouteSpan appends a closed span's text to every bucket whose keyword family
// matches the span's entity type name (case-insensitive substring).
func RouteSpan(b *ExtractionBuckets, span EntitySpan) {
	typeName := strings.ToLower(span.Type)
	for _, rule := range bucketRules {
		for _, kw := range rule.keywords {
			if strings.Contains(typeName, kw) {
				rule.route(b, span.Text)
				break
			}
		}
	}
}
