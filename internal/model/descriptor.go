package model

import "time"

// Category is the closed set of cookie classification buckets.
type Category string

const (
	CategoryEssential       Category = "Essential"
	CategoryAnalytics       Category = "Analytics"
	CategoryAdvertising     Category = "Advertising"
	CategoryFunctional      Category = "Functional"
	CategoryPerformance     Category = "Performance"
	CategorySocialMedia     Category = "SocialMedia"
	CategorySecurity        Category = "Security"
	CategoryPersonalization Category = "Personalization"
	CategoryUnknown         Category = "Unknown"
)

// PrivacyLevel is the closed set of privacy-sensitivity buckets.
type PrivacyLevel string

const (
	PrivacyLow      PrivacyLevel = "Low"
	PrivacyMedium   PrivacyLevel = "Medium"
	PrivacyHigh     PrivacyLevel = "High"
	PrivacyCritical PrivacyLevel = "Critical"
)

// DescriptorSource records where a Descriptor's data came from.
type DescriptorSource string

const (
	SourceAI       DescriptorSource = "ai"
	SourceManual   DescriptorSource = "manual"
	SourceImported DescriptorSource = "imported"
	SourcePattern  DescriptorSource = "pattern"
)

// Descriptor is a classification record about a cookie name, independent of
// the solver's notion of "required".
type Descriptor struct {
	ID                int64
	Name              string
	Vendor            string
	Category          Category
	Purpose           string
	Privacy           PrivacyLevel
	ThirdParty        bool
	TypicalExpiration string
	CommonDomains     []string
	Notes             string
	Confidence        float64
	Source            DescriptorSource
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DefaultConfidence is used when an LM response omits "confidence".
const DefaultConfidence = 0.7

// Pattern maps a glob (with '*' as the only wildcard) to the descriptor it
// should resolve to when no exact name match exists.
type Pattern struct {
	ID         int64
	Glob       string
	Descriptor string // the resolved cookie name whose Descriptor applies
	CreatedAt  time.Time
}

// TaskPriority labels where classification work came from. The Queue is a
// plain FIFO and does not reorder tasks by priority.
type TaskPriority int

const (
	PriorityAuto TaskPriority = iota
	PriorityManual
)

// Task is one unit of classification work. Its identity is name|domain:
// at most one Task with a given identity may be queued or in-flight.
type Task struct {
	CookieName   string
	Domain       string
	Priority     TaskPriority
	ForceRefresh bool
	SubmittedAt  time.Time
}

// Identity returns the deduplication key for this task.
func (t Task) Identity() string {
	return t.CookieName + "|" + t.Domain
}
