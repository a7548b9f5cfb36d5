package validate

import "strings"

const maxNameLength = 35

// RecipientName validates the name a postal access code is addressed to.
// Both parts are required and each is limited to 35 characters, the most the
// print file format accepts.
func RecipientName(first, last, locale string) (string, string, error) {
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	if first == "" {
		return "", "", newError(KindFirstNameMissing, locale)
	}
	if last == "" {
		return "", "", newError(KindLastNameMissing, locale)
	}
	if len(first) > maxNameLength || len(last) > maxNameLength {
		return "", "", newError(KindNameTooLong, locale)
	}
	return first, last, nil
}
