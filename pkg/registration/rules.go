package registration

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	gmailSuffix     = "@gmail.com"
	registeredEmail = "test@gmail.com"

	passwordMinLength = 8
	passwordMaxLength = 30
)

// emailPattern excludes every Unicode space separator, \v and the BOM from each
// part, not just the ASCII spaces RE2's \s covers.
var emailPattern = regexp.MustCompile(`^[^@\s\v\p{Z}\x{FEFF}]+@[^@\s\v\p{Z}\x{FEFF}]+\.[^@\s\v\p{Z}\x{FEFF}]+$`)

// IsRequired passes when value has content once surrounding whitespace is
// removed.
func IsRequired(value string) bool {
	return strings.TrimSpace(value) != ""
}

// IsGmail passes when email looks like an address and ends with @gmail.com
// (case-insensitive). The raw value is checked, so padding fails the pattern.
func IsGmail(email string) bool {
	return emailPattern.MatchString(email) && strings.HasSuffix(strings.ToLower(email), gmailSuffix)
}

// IsUniqueEmail passes for every address except the one reserved as already
// registered. There is no backing store; the comparison is the whole check.
func IsUniqueEmail(email string) bool {
	return strings.ToLower(strings.TrimSpace(email)) != registeredEmail
}

// IsValidPassword passes when pwd is 8 to 30 characters long and mixes ASCII
// lowercase, uppercase, digits and at least one character outside [A-Za-z0-9].
// Length is counted in runes, so a character outside the BMP counts once.
func IsValidPassword(pwd string) bool {
	length := utf8.RuneCountInString(pwd)
	if length < passwordMinLength || length > passwordMaxLength {
		return false
	}

	var lower, upper, digit, special bool
	for _, r := range pwd {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}
	return lower && upper && digit && special
}
