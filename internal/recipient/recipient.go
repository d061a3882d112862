// Package recipient loads and validates the mailing list from manual
// entry, CSV files, or plain text files.
package recipient

import (
	"regexp"
	"strings"
)

// Recipient is one validated mailing list entry. The name is optional.
type Recipient struct {
	Name  string
	Email string
}

// addressPattern requires local-part@domain.tld with a TLD of at least
// two alphabetic characters.
var addressPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsValidAddress reports whether s is an acceptable email address.
func IsValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// ParseEntry parses a manual entry in either "Name <addr>" or bare
// address form. The returned recipient is not validated.
func ParseEntry(entry string) Recipient {
	entry = strings.TrimSpace(entry)

	start := strings.Index(entry, "<")
	end := strings.Index(entry, ">")
	if start >= 0 && end > start {
		return Recipient{
			Name:  strings.TrimSpace(entry[:start]),
			Email: strings.TrimSpace(entry[start+1 : end]),
		}
	}
	return Recipient{Email: entry}
}

// Display returns the name when present, the address otherwise.
func (r Recipient) Display() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Email
}
