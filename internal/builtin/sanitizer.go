package builtin

import (
	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer removes dangerous HTML elements and attributes from rendered output.
//
// Thread-safe for concurrent use.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewHTMLSanitizer creates a sanitizer using the UGC (User Generated Content)
// policy: common formatting survives, scripts, event handlers and
// javascript: URLs are stripped.
func NewHTMLSanitizer() *HTMLSanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowDataURIImages()

	return &HTMLSanitizer{policy: policy}
}

// Sanitize returns html with unsafe content removed
func (s *HTMLSanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
