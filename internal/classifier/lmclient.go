package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cookieprobe/cookieprobe/internal/model"
)

// lmCallTimeout bounds every LM Client call per spec.md §4.3.
const lmCallTimeout = 30 * time.Second

// Provider is the small two-case interface DESIGN NOTES §9 asks for:
// "AI provider varies by wire shape ... and by authentication ... Model as
// a small interface with two implementations selected by configuration,
// not by subclassing a concrete class."
type Provider interface {
	// Classify asks the LM to describe the named cookie and returns the
	// parsed Descriptor plus the raw response text (for ai_query_cache
	// auditing).
	Classify(ctx context.Context, name, domain string) (model.Descriptor, string, error)

	// ListModels returns the provider's available model ids, or a static
	// fallback list when the provider doesn't support model listing.
	ListModels(ctx context.Context) ([]string, error)
}

// ErrLMUnavailable wraps any LM Client HTTP error, timeout, or malformed
// JSON response per spec.md §7.
type ErrLMUnavailable struct {
	Cause error
}

func (e *ErrLMUnavailable) Error() string { return fmt.Sprintf("classifier: LM unavailable: %v", e.Cause) }
func (e *ErrLMUnavailable) Unwrap() error { return e.Cause }

// newHTTPClient returns an http.Client whose Transport never reads the
// process's proxy environment, so LM calls cannot recursively loop back
// through the host's own interactive-proxy interception (spec.md §4.3:
// "The HTTP client MUST NOT route through the host proxy").
func newHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	return &http.Client{Transport: transport, Timeout: lmCallTimeout}
}

// classificationSystemPrompt is the fixed prompt instructing the LM to return a
// JSON object matching the Descriptor fields. Its shape is part of the
// interface contract (spec.md §9: "changes require a migration of the
// ai_query_cache raw-response blobs").
const classificationSystemPrompt = `You are a browser-cookie classification assistant. Given a cookie name and the domain that set it, respond with ONLY a JSON object with these fields: vendor (string), category (one of Essential, Analytics, Advertising, Functional, Performance, SocialMedia, Security, Personalization, Unknown), purpose (string, one sentence), privacy (one of Low, Medium, High, Critical), thirdParty (boolean), typicalExpiration (string), commonDomains (array of strings), notes (string), confidence (number 0-1). Do not include any text outside the JSON object.`

func classificationUserPrompt(name, domain string) string {
	return fmt.Sprintf("Cookie name: %s\nObserved domain: %s", name, domain)
}

// descriptorJSON is the wire shape the classification prompt asks the LM to
// emit; field names match the JSON keys named in classificationSystemPrompt,
// not Go's internal model.Descriptor naming.
type descriptorJSON struct {
	Vendor            string   `json:"vendor"`
	Category          string   `json:"category"`
	Purpose           string   `json:"purpose"`
	Privacy           string   `json:"privacy"`
	ThirdParty        bool     `json:"thirdParty"`
	TypicalExpiration string   `json:"typicalExpiration"`
	CommonDomains     []string `json:"commonDomains"`
	Notes             string   `json:"notes"`
	Confidence        *float64 `json:"confidence"`
}

// stripFencedCodeBlock removes a surrounding ```json ... ``` or ``` ... ```
// fence, tolerating the common case where an LM wraps its JSON reply in
// markdown even when asked not to (spec.md §4.3: "it tolerates (a) the
// response being wrapped in fenced code blocks").
func stripFencedCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx != -1 && !strings.ContainsAny(s[:idx], "{}") {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// parseDescriptorJSON parses the LM's raw text response into a Descriptor,
// tolerating missing optional fields and a missing confidence (defaulted
// per spec.md §4.3).
func parseDescriptorJSON(name, raw string) (model.Descriptor, error) {
	cleaned := stripFencedCodeBlock(raw)

	var dj descriptorJSON
	if err := json.Unmarshal([]byte(cleaned), &dj); err != nil {
		return model.Descriptor{}, fmt.Errorf("classifier: parse LM response: %w", err)
	}

	confidence := model.DefaultConfidence
	if dj.Confidence != nil {
		confidence = *dj.Confidence
	}

	category := model.Category(dj.Category)
	if category == "" {
		category = model.CategoryUnknown
	}
	privacy := model.PrivacyLevel(dj.Privacy)
	if privacy == "" {
		privacy = model.PrivacyLow
	}

	return model.Descriptor{
		Name:              name,
		Vendor:            dj.Vendor,
		Category:          category,
		Purpose:           dj.Purpose,
		Privacy:           privacy,
		ThirdParty:        dj.ThirdParty,
		TypicalExpiration: dj.TypicalExpiration,
		CommonDomains:     dj.CommonDomains,
		Notes:             dj.Notes,
		Confidence:        confidence,
		Source:            model.SourceAI,
	}, nil
}
