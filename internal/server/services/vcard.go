package services

import (
	"regexp"
	"strings"

	"github.com/rodr499/kardo/pkg/models"
	"github.com/rodr499/kardo/pkg/utils"
)

// vCard 3.0 is line-oriented; an embedded newline in any field would
// truncate or corrupt the record, so every value is flattened first.
var lineBreakRegex = regexp.MustCompile(`\r\n|\r|\n`)

func cleanVCardValue(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(lineBreakRegex.ReplaceAllString(*v, " "))
}

// BuildVCard renders a profile as a vCard 3.0 document. fallbackName (the
// lookup handle) backs the FN line when the profile has no display name,
// since an empty FN is invalid vCard. Lines use CRLF endings and a fixed
// order; optional lines are omitted entirely when their field is empty.
func BuildVCard(profile *models.Profile, fallbackName string) string {
	fullName := cleanVCardValue(profile.DisplayName)
	if fullName == "" {
		fullName = fallbackName
	}

	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:" + fullName,
	}

	if title := cleanVCardValue(profile.Title); title != "" {
		lines = append(lines, "TITLE:"+title)
	}

	if phone := cleanVCardValue(profile.Phone); phone != "" {
		// Country code is stored separately and prepended with no separator.
		lines = append(lines, "TEL;TYPE=CELL:"+cleanVCardValue(profile.CountryCode)+phone)
	}

	if email := cleanVCardValue(profile.Email); email != "" {
		lines = append(lines, "EMAIL;TYPE=INTERNET:"+email)
	}

	if website := cleanVCardValue(profile.Website); website != "" && utils.IsValidWebsiteURL(website) {
		lines = append(lines, "URL:"+website)
	}

	lines = append(lines, "END:VCARD")

	return strings.Join(lines, "\r\n") + "\r\n"
}
