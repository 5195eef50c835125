// Package sanitize provides pure validation and normalization for
// user-supplied strings before they reach an email body or the datastore.
// All functions are side-effect free: same input, same output, no I/O.
//
// These are syntactic checks only. Email does no DNS or mailbox verification,
// and String is a minimal defense against tag injection, not an HTML
// sanitizer. Semantic validation belongs to the callers.
package sanitize

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultMaxLength is the String length cap applied when maxLength is not
// positive.
const DefaultMaxLength = 1000

// maxEmailLength is the RFC 5321 practical limit for an address.
const maxEmailLength = 254

// emailPattern accepts local@domain.tld with no whitespace or extra @ signs.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email trims and lowercases the address, returning false if the result does
// not look like local@domain.tld or exceeds 254 characters.
func Email(email string) (string, bool) {
	sanitized := strings.ToLower(strings.TrimSpace(email))
	if len(sanitized) > maxEmailLength || !emailPattern.MatchString(sanitized) {
		return "", false
	}
	return sanitized, true
}

// String trims the input and strips literal '<' and '>' characters, returning
// false if the trimmed input is empty or longer than maxLength. A maxLength
// of zero or less means DefaultMaxLength.
func String(s string, maxLength int) (string, bool) {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	sanitized := strings.TrimSpace(s)
	if sanitized == "" || len(sanitized) > maxLength {
		return "", false
	}
	sanitized = strings.NewReplacer("<", "", ">", "").Replace(sanitized)
	return sanitized, true
}

// URL parses the input and returns the re-serialized URL, rejecting anything
// that fails to parse or whose scheme is not http or https.
func URL(raw string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", false
	}
	if parsed.Host == "" {
		return "", false
	}
	return parsed.String(), true
}
