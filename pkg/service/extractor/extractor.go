// Package extractor turns free-text visitor messages into complaint attributes
// with ordered keyword rules.
package extractor

import (
	"strings"

	"github.com/junglesafari/safaridesk/pkg/domain/model"
	"github.com/junglesafari/safaridesk/pkg/domain/types"
)

// Extractor applies a fixed rule set. It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	rules *Rules
}

// New returns an Extractor using rules, or DefaultRules when rules is nil.
func New(rules *Rules) *Extractor {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Extractor{rules: rules}
}

var defaultExtractor = New(nil)

// Extract runs the default rule set over message.
func Extract(message string) model.Attributes {
	return defaultExtractor.Extract(message)
}

// Extract derives attributes from message. It never fails: anything not found is left at its default.
func (x *Extractor) Extract(message string) model.Attributes {
	lowered := lowerASCII(message)

	return model.Attributes{
		Category:     x.category(lowered),
		Location:     x.location(lowered),
		VisitDate:    firstContained(lowered, x.rules.DateHints),
		Severity:     x.severity(lowered),
		CustomerName: extractName(message, lowered, x.rules.NameIndicators),
		ContactInfo:  extractContact(message),
	}
}

// category scans category names first and falls back to the alias keywords only
// when no name appears, so an alias of an earlier category never hides a later
// category named in the message.
func (x *Extractor) category(lowered string) types.Category {
	category, ok := x.categoryByName(lowered)
	if !ok {
		for _, rule := range x.rules.Categories {
			if containsAny(lowered, rule.Keywords) {
				category = rule.Category
				break
			}
		}
	}
	for _, rule := range x.rules.CategoryOverrides {
		if containsAny(lowered, rule.Keywords) {
			category = rule.Category
		}
	}
	return category
}

func (x *Extractor) categoryByName(lowered string) (types.Category, bool) {
	for _, rule := range x.rules.Categories {
		// "other" is the default and also a substring of "another"
		if rule.Category.IsDefault() {
			continue
		}
		if strings.Contains(lowered, rule.Category.String()) {
			return rule.Category, true
		}
	}
	return types.DefaultCategory, false
}

func (x *Extractor) location(lowered string) types.Location {
	location := types.DefaultLocation
	for _, rule := range x.rules.Locations {
		if containsAny(lowered, rule.Keywords) {
			location = rule.Location
			break
		}
	}
	for _, rule := range x.rules.LocationOverrides {
		if containsAny(lowered, rule.Keywords) {
			location = rule.Location
		}
	}
	return location
}

func (x *Extractor) severity(lowered string) types.Severity {
	switch {
	case containsAny(lowered, x.rules.HighUrgency):
		return types.SeverityHigh
	case containsAny(lowered, x.rules.LowUrgency):
		return types.SeverityLow
	default:
		return types.DefaultSeverity
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func firstContained(s string, candidates []string) string {
	for _, c := range candidates {
		if strings.Contains(s, c) {
			return c
		}
	}
	return ""
}

// lowerASCII folds only A-Z so that byte offsets in the result match the input.
func lowerASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}
