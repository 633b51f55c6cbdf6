package model

import "github.com/junglesafari/safaridesk/pkg/domain/types"

// Attributes is the structured information extracted from visitor messages.
// Every field has a default meaning "not found": other, unknown, medium or empty.
type Attributes struct {
	Category     types.Category
	Location     types.Location
	VisitDate    string
	Severity     types.Severity
	CustomerName string `masq:"secret"`
	ContactInfo  string `masq:"secret"`
}

// DefaultAttributes returns attributes with every slot at its default.
func DefaultAttributes() Attributes {
	return Attributes{
		Category: types.DefaultCategory,
		Location: types.DefaultLocation,
		Severity: types.DefaultSeverity,
	}
}

// Merge returns a copy of a where every slot populated in next replaces the current value.
// Slots that next leaves at their default never erase what a already holds.
func (a Attributes) Merge(next Attributes) Attributes {
	merged := a.Normalize()
	if !next.Category.IsDefault() {
		merged.Category = next.Category
	}
	if !next.Location.IsDefault() {
		merged.Location = next.Location
	}
	if next.VisitDate != "" {
		merged.VisitDate = next.VisitDate
	}
	if !next.Severity.IsDefault() {
		merged.Severity = next.Severity
	}
	if next.CustomerName != "" {
		merged.CustomerName = next.CustomerName
	}
	if next.ContactInfo != "" {
		merged.ContactInfo = next.ContactInfo
	}
	return merged
}

// Normalize fills empty enum fields with their defaults.
func (a Attributes) Normalize() Attributes {
	a.Category = a.Category.Normalize()
	a.Location = a.Location.Normalize()
	a.Severity = a.Severity.Normalize()
	return a
}

// MissingSlots lists the slots still required before a complaint can be recorded,
// in the order the assistant asks for them. Product quality complaints need no visit date.
func (a Attributes) MissingSlots() []types.Slot {
	var missing []types.Slot
	if a.CustomerName == "" {
		missing = append(missing, types.SlotName)
	}
	if a.ContactInfo == "" {
		missing = append(missing, types.SlotContact)
	}
	if a.VisitDate == "" && a.Category != types.CategoryProductQuality {
		missing = append(missing, types.SlotDate)
	}
	return missing
}

// IsComplete reports whether no slot is missing.
func (a Attributes) IsComplete() bool {
	return len(a.MissingSlots()) == 0
}
