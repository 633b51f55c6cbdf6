package extractor

import (
	"strings"
	"unicode/utf8"
)

const (
	// nameLookahead is how far past the indicator the name may run before the next space ends it.
	nameLookahead = 10
	maxNameLength = 30
)

// extractName finds the first indicator present in lowered and takes the text after it
// up to the next space at least nameLookahead characters on, or the end of the message.
// Only the first indicator found is tried. Offsets count characters, not bytes.
func extractName(message, lowered string, indicators []string) string {
	for _, indicator := range indicators {
		byteIdx := strings.Index(lowered, indicator)
		if byteIdx < 0 {
			continue
		}

		runes := []rune(message)
		start := utf8.RuneCountInString(message[:byteIdx]) + utf8.RuneCountInString(indicator)
		end := indexRune(runes, ' ', start+nameLookahead)
		if end < 0 {
			end = len(runes)
		}

		candidate := strings.TrimSpace(string(runes[start:end]))
		if n := utf8.RuneCountInString(candidate); n > 0 && n < maxNameLength {
			return candidate
		}
		return ""
	}
	return ""
}

// indexRune returns the index of the first r in runes at or after from, or -1.
func indexRune(runes []rune, r rune, from int) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
