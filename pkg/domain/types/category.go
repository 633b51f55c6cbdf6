package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// Category is the issue category of a complaint.
type Category string

const (
	CategoryAnimalWelfare       Category = "animal welfare"
	CategoryStaffBehavior       Category = "staff behavior"
	CategoryFacilities          Category = "facilities"
	CategoryTicketIssues        Category = "ticket issues"
	CategoryFoodServices        Category = "food services"
	CategorySafetyConcerns      Category = "safety concerns"
	CategoryCleanliness         Category = "cleanliness"
	CategoryWaitTimes           Category = "wait times"
	CategoryPhotographyIssues   Category = "photography issues"
	CategoryTourGuideExperience Category = "tour guide experience"
	CategoryProductQuality      Category = "product quality"
	CategoryOther               Category = "other"
)

// DefaultCategory is assigned when nothing in a message matches.
const DefaultCategory = CategoryOther

// AllCategories returns every category in enumeration order. Extraction scans in this order.
func AllCategories() []Category {
	return []Category{
		CategoryAnimalWelfare,
		CategoryStaffBehavior,
		CategoryFacilities,
		CategoryTicketIssues,
		CategoryFoodServices,
		CategorySafetyConcerns,
		CategoryCleanliness,
		CategoryWaitTimes,
		CategoryPhotographyIssues,
		CategoryTourGuideExperience,
		CategoryProductQuality,
		CategoryOther,
	}
}

// IsValid checks if the category is a member of the enumeration
func (c Category) IsValid() bool {
	for _, v := range AllCategories() {
		if c == v {
			return true
		}
	}
	return false
}

// IsDefault reports whether c carries no information.
func (c Category) IsDefault() bool {
	return c == "" || c == DefaultCategory
}

// Normalize returns DefaultCategory for an empty category.
func (c Category) Normalize() Category {
	if c == "" {
		return DefaultCategory
	}
	return c
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory parses a string into a Category
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", goerr.New("invalid category", goerr.V("category", s))
	}
	return c, nil
}
