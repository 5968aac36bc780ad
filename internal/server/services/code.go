package services

import (
	"net/url"
	"regexp"
	"strings"
)

// CodeAlphabet is the 32-symbol card code alphabet: digits and uppercase
// letters minus I, O, 0 and 1, which are too easy to misread on a printed
// card.
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	MinCodeLength = 6
	MaxCodeLength = 16
)

var codeRegex = regexp.MustCompile(`^[A-HJ-NP-Z2-9]{6,16}$`)

// NormalizeCode canonicalizes a raw path segment: percent-decode (best
// effort), trim surrounding whitespace, uppercase. Codes are
// case-insensitive on input.
func NormalizeCode(raw string) string {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		decoded = raw
	}
	return strings.ToUpper(strings.TrimSpace(decoded))
}

// IsValidCode reports whether a normalized code matches the alphabet and
// length bounds. Invalid codes are routed like unknown cards without ever
// touching the store.
func IsValidCode(code string) bool {
	return codeRegex.MatchString(code)
}
