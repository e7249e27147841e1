package fhirquality

// Severity is the weight of a quality finding.
// Severities are informational levels, not failure levels: only errors
// affect the overall pass verdict.
type Severity string

const (
	// SeverityError marks findings that fail the bundle's pass verdict.
	SeverityError Severity = "error"
	// SeverityWarning marks findings that should be reviewed but do not
	// block a pass verdict.
	SeverityWarning Severity = "warning"
	// SeverityInfo marks purely informational findings.
	SeverityInfo Severity = "info"
)

// IsValid returns true if this is a known severity.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// Category classifies what kind of quality rule produced a finding.
type Category string

const (
	// CategoryMissingData indicates an absent or empty required element,
	// including a missing profile declaration.
	CategoryMissingData Category = "missing_data"
	// CategoryInvalidFormat indicates a value that fails a syntactic gate
	// (date, postal code).
	CategoryInvalidFormat Category = "invalid_format"
	// CategoryReference indicates a broken cross-record reference.
	CategoryReference Category = "reference"
	// CategoryTerminology indicates a coding-level finding (code format,
	// missing code system version).
	CategoryTerminology Category = "terminology"
)

// IsValid returns true if this is a known category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryMissingData, CategoryInvalidFormat, CategoryReference, CategoryTerminology:
		return true
	default:
		return false
	}
}

// Issue is a single quality finding. Issues are immutable values once
// created; their order in a Result is the order of discovery.
type Issue struct {
	// Severity of the finding
	Severity Severity `json:"severity"`

	// Category of the rule that produced the finding
	Category Category `json:"category"`

	// Description is the human-readable detail
	Description string `json:"description"`

	// ResourceType is the declared type of the record the finding
	// originates from
	ResourceType string `json:"resource_type"`

	// ResourceID is the record id, or "unknown" when the record has none
	ResourceID string `json:"resource_id"`
}

// IsError returns true for error-severity issues.
func (i Issue) IsError() bool {
	return i.Severity == SeverityError
}

// IsWarning returns true for warning-severity issues.
func (i Issue) IsWarning() bool {
	return i.Severity == SeverityWarning
}

// IsInfo returns true for info-severity issues.
func (i Issue) IsInfo() bool {
	return i.Severity == SeverityInfo
}

// String returns a human-readable representation of the issue.
func (i Issue) String() string {
	s := string(i.Severity) + ": " + i.Description
	if i.ResourceType != "" {
		s += " (" + i.ResourceType + "/" + i.ResourceID + ")"
	}
	return s
}

// IssueBuilder provides a fluent API for building issues.
type IssueBuilder struct {
	issue Issue
}

// NewIssue creates a new IssueBuilder.
func NewIssue(severity Severity, category Category) *IssueBuilder {
	return &IssueBuilder{
		issue: Issue{
			Severity: severity,
			Category: category,
		},
	}
}

// Error creates an error issue builder.
func Error(category Category) *IssueBuilder {
	return NewIssue(SeverityError, category)
}

// Warning creates a warning issue builder.
func Warning(category Category) *IssueBuilder {
	return NewIssue(SeverityWarning, category)
}

// Info creates an info issue builder.
func Info(category Category) *IssueBuilder {
	return NewIssue(SeverityInfo, category)
}

// Describe sets the description.
func (b *IssueBuilder) Describe(msg string) *IssueBuilder {
	b.issue.Description = msg
	return b
}

// For sets the originating record type and id. An empty id is normalized
// to "unknown".
func (b *IssueBuilder) For(resourceType, resourceID string) *IssueBuilder {
	if resourceID == "" {
		resourceID = "unknown"
	}
	b.issue.ResourceType = resourceType
	b.issue.ResourceID = resourceID
	return b
}

// Build returns the constructed issue.
func (b *IssueBuilder) Build() Issue {
	return b.issue
}
