// Package format holds small presentation helpers shared by view builders.
package format

import (
	"strings"
	"time"
)

// Address joins non-empty address parts with commas for single-line display.
func Address(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, ", ")
}

// Date formats a date in the locale's short form.
func Date(t time.Time, lang string) string {
	if lang == "cy" {
		return t.Format("02/01/2006")
	}
	return t.Format("2 January 2006")
}

// MaskMobile hides all but the last three digits of a normalized mobile
// number on confirmation pages.
func MaskMobile(number string) string {
	if len(number) <= 3 {
		return number
	}
	return strings.Repeat("*", len(number)-3) + number[len(number)-3:]
}
