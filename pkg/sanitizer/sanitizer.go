// Package sanitizer strips HTML markup from free-text fields that
// ultimately originate from an untrusted third party (a language-model
// response) before they are persisted or rendered by a host UI.
package sanitizer

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// policy is a strict, allow-nothing policy: every tag is removed, only the
// text content survives. Descriptor fields are narrative text, never markup,
// so there is no legitimate tag to preserve.
var policy = bluemonday.StrictPolicy()

// Text strips all HTML/XML markup from the input and collapses surrounding
// whitespace, returning plain text safe to store and to render verbatim in
// a host UI table cell.
//
// Example:
//   - "<script>alert(1)</script>Tracks ad conversions" -> "Tracks ad conversions"
//   - "Plain text" -> "Plain text"
func Text(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	return strings.TrimSpace(policy.Sanitize(input))
}

// Descriptor runs Text over every free-text field of a descriptor-shaped
// value without importing the model package (callers pass the individual
// strings to avoid a dependency cycle between pkg/sanitizer and
// internal/model).
func Descriptor(vendor, purpose, notes string) (sanitizedVendor, sanitizedPurpose, sanitizedNotes string) {
	return Text(vendor), Text(purpose), Text(notes)
}
