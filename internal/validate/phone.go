package validate

import "strings"

const ukPrefix = "44"

// normalisePhoneNumber strips whitespace, invisible characters and the
// punctuation people type into phone numbers, rejects anything that is not a
// digit, and drops leading zeros.
func normalisePhoneNumber(raw, locale string) (string, error) {
	number := stripWhitespace(raw)
	number = strings.Map(func(r rune) rune {
		if strings.ContainsRune("()-+", r) {
			return -1
		}
		return r
	}, number)

	for _, r := range number {
		if r < '0' || r > '9' {
			return "", newError(KindMobileNonNumeric, locale)
		}
	}

	return strings.TrimLeft(number, "0"), nil
}

// UKMobileNumber validates a UK mobile number and returns it in the
// normalized "44" prefixed form. The country-code prefix and any further
// leading zeros are stripped before checking for the mobile "7" lead digit;
// exactly ten digits must remain. Failure order: non-numeric, not a UK
// mobile, too many digits, too few digits.
//
// The stripping order (zeros, then the 44 prefix, then zeros again) is kept
// from the long-standing behavior so inputs like "00447911223344" normalize
// identically to "07911223344".
func UKMobileNumber(raw, locale string) (string, error) {
	number, err := normalisePhoneNumber(raw, locale)
	if err != nil {
		return "", err
	}
	number = strings.TrimLeft(number, "4")
	number = strings.TrimLeft(number, "0")

	if !strings.HasPrefix(number, "7") {
		return "", newError(KindMobileNotUK, locale)
	}
	if len(number) > 10 {
		return "", newError(KindMobileTooManyDigits, locale)
	}
	if len(number) < 10 {
		return "", newError(KindMobileTooFewDigits, locale)
	}

	return ukPrefix + number, nil
}
