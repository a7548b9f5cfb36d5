package validate

import (
	"regexp"
	"strings"
	"unicode"
)

// postcodePattern accepts a stripped, uppercased candidate: a known outward
// area code followed by the district/inward grammar, or a BFPO number.
var postcodePattern = regexp.MustCompile(
	`^(?:(?:AB|AL|B|BA|BB|BD|BH|BL|BN|BR|BS|BT|BX|CA|CB|CF|CH|CM|CO|CR|CT|CV|CW|DA|DD|DE|DG|DH|DL|DN|DT|DY|E|EC|EH|EN|EX|FK|FY|G|GL|GY|GU|HA|HD|HG|HP|HR|HS|HU|HX|IG|IM|IP|IV|JE|KA|KT|KW|KY|L|LA|LD|LE|LL|LN|LS|LU|M|ME|MK|ML|N|NE|NG|NN|NP|NR|NW|OL|OX|PA|PE|PH|PL|PO|PR|RG|RH|RM|S|SA|SE|SG|SK|SL|SM|SN|SO|SP|SR|SS|ST|SW|SY|TA|TD|TF|TN|TQ|TR|TS|TW|UB|W|WA|WC|WD|WF|WN|WR|WS|WV|YO|ZE)\d[\dA-Z]?\d[ABD-HJLN-UW-Z]{2}|BFPO\d{1,4})$`)

// Postcode strips whitespace (including invisible Unicode characters),
// uppercases and validates a UK postcode. The checks run in a fixed order so
// the first failure decides the message: empty, symbols, too short, too long,
// not a valid UK postcode. On success the normalized form "OUTWARD INWARD"
// is returned, with the inward code being the final three characters.
func Postcode(raw, locale string) (string, error) {
	postcode := stripWhitespace(raw)
	postcode = strings.ToUpper(postcode)

	if postcode == "" {
		return "", newError(KindPostcodeEmpty, locale)
	}
	if !isAlphanumeric(postcode) {
		return "", newError(KindPostcodeSymbols, locale)
	}
	if len(postcode) < 5 {
		return "", newError(KindPostcodeTooShort, locale)
	}
	if len(postcode) > 7 {
		return "", newError(KindPostcodeTooLong, locale)
	}
	if !postcodePattern.MatchString(postcode) {
		return "", newError(KindPostcodeInvalid, locale)
	}

	return postcode[:len(postcode)-3] + " " + postcode[len(postcode)-3:], nil
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || strings.ContainsRune(obscureWhitespace, r) {
			return -1
		}
		return r
	}, s)
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
