package extractor

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/junglesafari/safaridesk/pkg/domain/types"
)

// CategoryRule maps keywords to a category. A rule matches when any keyword is a
// substring of the lowercased message.
type CategoryRule struct {
	Category types.Category
	Keywords []string
}

// LocationRule maps keywords to a location.
type LocationRule struct {
	Location types.Location
	Keywords []string
}

// Rules is the ordered keyword configuration used by the extractor. Order is significant:
// the first matching rule of a primary scan wins, overrides always run afterwards.
// Category names are scanned before any category keyword.
type Rules struct {
	Categories        []CategoryRule
	CategoryOverrides []CategoryRule
	Locations         []LocationRule
	LocationOverrides []LocationRule
	DateHints         []string
	HighUrgency       []string
	LowUrgency        []string
	NameIndicators    []string
}

// DefaultRules returns the built-in rule set.
func DefaultRules() *Rules {
	return &Rules{
		Categories: []CategoryRule{
			{Category: types.CategoryAnimalWelfare, Keywords: []string{"animal welfare", "mistreat", "neglected animal", "starving", "abuse"}},
			{Category: types.CategoryStaffBehavior, Keywords: []string{"staff behavior", "rude", "unprofessional", "impolite", "disrespectful"}},
			{Category: types.CategoryFacilities, Keywords: []string{"facilities", "facility", "out of order", "no water", "air conditioning"}},
			{Category: types.CategoryTicketIssues, Keywords: []string{"ticket issues", "ticket", "refund", "booking", "overcharged"}},
			{Category: types.CategoryFoodServices, Keywords: []string{"food services", "food", "meal", "snack", "drink", "restaurant"}},
			{Category: types.CategorySafetyConcerns, Keywords: []string{"safety concerns", "safety", "fence", "hazard"}},
			{Category: types.CategoryCleanliness, Keywords: []string{"cleanliness", "dirty", "filthy", "unclean", "smelly", "garbage", "trash"}},
			{Category: types.CategoryWaitTimes, Keywords: []string{"wait times", "waiting", "queue", "long line", "delay"}},
			{Category: types.CategoryPhotographyIssues, Keywords: []string{"photography issues", "photo", "camera", "picture"}},
			{Category: types.CategoryTourGuideExperience, Keywords: []string{"tour guide experience", "tour guide", "guide"}},
			{Category: types.CategoryProductQuality, Keywords: []string{"product quality", "defective", "poor quality", "faulty"}},
			{Category: types.CategoryOther, Keywords: []string{"other"}},
		},
		CategoryOverrides: []CategoryRule{
			{Category: types.CategoryProductQuality, Keywords: []string{"broken", "damaged", "replace"}},
		},
		Locations: locationRules(types.KnownLocations()),
		LocationOverrides: []LocationRule{
			{Location: types.LocationStore, Keywords: []string{"store", "order", "purchase"}},
		},
		DateHints:      []string{"yesterday", "last week", "today"},
		HighUrgency:    []string{"dangerous", "unsafe", "emergency", "hurt", "injured", "terrible", "urgent", "immediately"},
		LowUrgency:     []string{"minor", "small", "slight", "just wondering"},
		NameIndicators: []string{"my name is", "i am", "this is"},
	}
}

func locationRules(locations []types.Location) []LocationRule {
	rules := make([]LocationRule, 0, len(locations))
	for _, loc := range locations {
		rules = append(rules, LocationRule{Location: loc, Keywords: []string{loc.String()}})
	}
	return rules
}

// Validate checks that every rule targets a known value and carries keywords.
func (r *Rules) Validate() error {
	seen := make(map[types.Category]bool)
	for _, rule := range r.Categories {
		if !rule.Category.IsValid() {
			return goerr.Wrap(ErrUnknownCategory, "invalid category rule", goerr.V(RuleCategoryKey, rule.Category))
		}
		if seen[rule.Category] {
			return goerr.Wrap(ErrDuplicateRule, "category listed twice", goerr.V(RuleCategoryKey, rule.Category))
		}
		seen[rule.Category] = true
		if err := validateKeywords(rule.Keywords); err != nil {
			return goerr.Wrap(err, "invalid category rule", goerr.V(RuleCategoryKey, rule.Category))
		}
	}
	for _, rule := range r.CategoryOverrides {
		if !rule.Category.IsValid() {
			return goerr.Wrap(ErrUnknownCategory, "invalid category override", goerr.V(RuleCategoryKey, rule.Category))
		}
		if err := validateKeywords(rule.Keywords); err != nil {
			return goerr.Wrap(err, "invalid category override", goerr.V(RuleCategoryKey, rule.Category))
		}
	}

	seenLoc := make(map[types.Location]bool)
	for _, rule := range r.Locations {
		if rule.Location == "" {
			return goerr.Wrap(ErrEmptyLocation, "invalid location rule")
		}
		if seenLoc[rule.Location] {
			return goerr.Wrap(ErrDuplicateRule, "location listed twice", goerr.V(RuleLocationKey, rule.Location))
		}
		seenLoc[rule.Location] = true
		if err := validateKeywords(rule.Keywords); err != nil {
			return goerr.Wrap(err, "invalid location rule", goerr.V(RuleLocationKey, rule.Location))
		}
	}
	for _, rule := range r.LocationOverrides {
		if rule.Location == "" {
			return goerr.Wrap(ErrEmptyLocation, "invalid location override")
		}
		if err := validateKeywords(rule.Keywords); err != nil {
			return goerr.Wrap(err, "invalid location override", goerr.V(RuleLocationKey, rule.Location))
		}
	}

	for name, words := range map[string][]string{
		"date_hints":      r.DateHints,
		"high_urgency":    r.HighUrgency,
		"low_urgency":     r.LowUrgency,
		"name_indicators": r.NameIndicators,
	} {
		if err := validateKeywords(words); err != nil {
			return goerr.Wrap(err, "invalid word list", goerr.V(RuleListKey, name))
		}
	}
	return nil
}

func validateKeywords(keywords []string) error {
	if len(keywords) == 0 {
		return goerr.Wrap(ErrEmptyKeywords, "keyword list is empty")
	}
	for i, kw := range keywords {
		if kw == "" {
			return goerr.Wrap(ErrEmptyKeywords, "keyword is empty", goerr.V("index", i))
		}
		if kw != lowerASCII(kw) {
			return goerr.Wrap(ErrUpperCaseKeyword, "keyword must be lower case", goerr.V("keyword", kw))
		}
	}
	return nil
}

// rulesFile is the TOML layout accepted by LoadRules. Omitted sections keep the defaults.
type rulesFile struct {
	Categories []struct {
		Name     string   `toml:"name"`
		Keywords []string `toml:"keywords"`
	} `toml:"categories"`
	Locations []struct {
		Name     string   `toml:"name"`
		Keywords []string `toml:"keywords"`
	} `toml:"locations"`
	Severity struct {
		High []string `toml:"high"`
		Low  []string `toml:"low"`
	} `toml:"severity"`
	DateHints []string `toml:"date_hints"`
}

// LoadRules reads a TOML rules file and layers it over DefaultRules.
// A category or location section replaces the whole ordered list.
func LoadRules(path string) (*Rules, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read rules file", goerr.V("path", path))
	}
	return ParseRules(raw)
}

// ParseRules decodes TOML rules layered over DefaultRules.
func ParseRules(raw []byte) (*Rules, error) {
	var file rulesFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse rules file")
	}

	rules := DefaultRules()
	if len(file.Categories) > 0 {
		rules.Categories = make([]CategoryRule, 0, len(file.Categories))
		for _, c := range file.Categories {
			rules.Categories = append(rules.Categories, CategoryRule{
				Category: types.Category(c.Name),
				Keywords: c.Keywords,
			})
		}
	}
	if len(file.Locations) > 0 {
		rules.Locations = make([]LocationRule, 0, len(file.Locations))
		for _, l := range file.Locations {
			rules.Locations = append(rules.Locations, LocationRule{
				Location: types.Location(l.Name),
				Keywords: l.Keywords,
			})
		}
	}
	if len(file.Severity.High) > 0 {
		rules.HighUrgency = file.Severity.High
	}
	if len(file.Severity.Low) > 0 {
		rules.LowUrgency = file.Severity.Low
	}
	if len(file.DateHints) > 0 {
		rules.DateHints = file.DateHints
	}

	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return rules, nil
}
