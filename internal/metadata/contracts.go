// Package metadata turns extracted document text into structured legal fields.
package metadata

import "context"

// Extractor is the capability interface both the AI adapter and the
// rule-based engine satisfy. Available reports whether the extractor can be
// used at all (e.g. an API key is configured); Extract never mixes sources.
type Extractor interface {
	Available() bool
	Extract(ctx context.Context, text, filename string) (*Fields, error)
}
