package utils

import (
	"net/url"
	"regexp"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Handles are lowercase URL slugs, 3-30 characters.
var handleRegex = regexp.MustCompile(`^[a-z0-9-]{3,30}$`)

func IsValidHandle(handle string) bool {
	return handleRegex.MatchString(handle)
}

// IsValidWebsiteURL reports whether s parses as an absolute http or https
// URL with a host. Anything else (javascript:, data:, relative paths) is
// rejected so it never reaches a vCard or public page.
func IsValidWebsiteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
