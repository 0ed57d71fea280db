package ingest

import (
	"slices"

	"github.com/microcosm-cc/bluemonday"
)

// SanitizerConfig is the allow-list a Sanitizer enforces.
type SanitizerConfig struct {
	Tags       []string
	Attributes []string
	Schemes    []string
}

// DefaultSanitizerConfig returns the allow-list applied to stored article markup.
func DefaultSanitizerConfig() SanitizerConfig {
	return SanitizerConfig{
		Tags: []string{
			"p", "br", "b", "strong", "i", "em", "ul", "ol", "li",
			"blockquote", "a", "img", "pre", "code",
		},
		Attributes: []string{"href", "src", "alt", "title"},
		Schemes:    []string{"http", "https"},
	}
}

// Sanitizer reduces HTML fragments to an allow-listed subset.
// It is safe for concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds a Sanitizer from cfg. The config is copied.
func NewSanitizer(cfg SanitizerConfig) *Sanitizer {
	tags := slices.Clone(cfg.Tags)

	policy := bluemonday.NewPolicy()
	policy.AllowElements(tags...)
	if len(cfg.Attributes) > 0 && len(tags) > 0 {
		policy.AllowAttrs(slices.Clone(cfg.Attributes)...).OnElements(tags...)
	}
	policy.AllowURLSchemes(slices.Clone(cfg.Schemes)...)
	policy.RequireParseableURLs(true)

	return &Sanitizer{policy: policy}
}

// Sanitize returns nil for nil input and the filtered fragment otherwise.
func (s *Sanitizer) Sanitize(html *string) *string {
	if html == nil {
		return nil
	}
	clean := s.policy.Sanitize(*html)
	return &clean
}
