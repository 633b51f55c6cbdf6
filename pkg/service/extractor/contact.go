package extractor

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`\d{3}[-.\s]??\d{3}[-.\s]??\d{4}|\(\d{3}\)\s*\d{3}[-.\s]??\d{4}|\d{10}`)

// extractContact returns the last whitespace separated token containing "@",
// unless the message also holds a phone number, which takes precedence.
func extractContact(message string) string {
	var contact string
	if strings.Contains(message, "@") {
		for _, word := range strings.Fields(message) {
			if strings.Contains(word, "@") {
				contact = word
			}
		}
	}

	if phone := phonePattern.FindString(message); phone != "" {
		contact = phone
	}
	return contact
}
