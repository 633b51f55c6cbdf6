package types

import "github.com/m-mizutani/goerr/v2"

// Severity is the urgency of a complaint.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// DefaultSeverity is assigned when no urgency word is found.
const DefaultSeverity = SeverityMedium

// AllSeverities returns all valid severities from lowest to highest
func AllSeverities() []Severity {
	return []Severity{SeverityLow, SeverityMedium, SeverityHigh}
}

// IsValid checks if the severity is valid
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	default:
		return false
	}
}

// IsDefault reports whether s carries no information.
func (s Severity) IsDefault() bool {
	return s == "" || s == DefaultSeverity
}

// Normalize returns DefaultSeverity for an empty severity.
func (s Severity) Normalize() Severity {
	if s == "" {
		return DefaultSeverity
	}
	return s
}

func (s Severity) String() string {
	return string(s)
}

// ParseSeverity parses a string into a Severity
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(s)
	if !sev.IsValid() {
		return "", goerr.New("invalid severity", goerr.V("severity", s))
	}
	return sev, nil
}

// Emoji returns the Slack emoji shortcode shown next to the severity
func (s Severity) Emoji() string {
	switch s {
	case SeverityHigh:
		return ":rotating_light:"
	case SeverityLow:
		return ":information_source:"
	default:
		return ":warning:"
	}
}
