package extractor

import "github.com/m-mizutani/goerr/v2"

var (
	ErrUnknownCategory  = goerr.New("unknown category")
	ErrEmptyLocation    = goerr.New("location is empty")
	ErrDuplicateRule    = goerr.New("duplicate rule")
	ErrEmptyKeywords    = goerr.New("empty keywords")
	ErrUpperCaseKeyword = goerr.New("keyword contains upper case letters")
)

const (
	RuleCategoryKey = "category"
	RuleLocationKey = "location"
	RuleListKey     = "list"
)
