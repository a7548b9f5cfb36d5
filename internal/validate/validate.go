// Package validate holds the pure input validators used by the access-code
// journey: UK postcode, UK mobile number and the 16 character access code.
// Nothing in here touches the network or the request context.
package validate

// Kind identifies a specific validation failure. The user-facing message is
// looked up per locale so one error type covers every supported language.
type Kind int

const (
	KindPostcodeEmpty Kind = iota
	KindPostcodeSymbols
	KindPostcodeTooShort
	KindPostcodeTooLong
	KindPostcodeInvalid
	KindMobileNonNumeric
	KindMobileNotUK
	KindMobileTooManyDigits
	KindMobileTooFewDigits
	KindUACIncomplete
	KindFirstNameMissing
	KindLastNameMissing
	KindNameTooLong
)

// Error is a validation failure carrying the failing kind and the locale the
// message should be rendered in. Locale "cy" selects the Welsh message; any
// other value falls back to English.
type Error struct {
	Kind   Kind
	Locale string
}

func (e *Error) Error() string {
	if e.Locale == "cy" {
		if msg, ok := messagesCY[e.Kind]; ok {
			return msg
		}
	}
	if msg, ok := messagesEN[e.Kind]; ok {
		return msg
	}
	return "The supplied value is invalid"
}

func newError(kind Kind, locale string) *Error {
	return &Error{Kind: kind, Locale: locale}
}

var messagesEN = map[Kind]string{
	KindPostcodeEmpty:       "You have not entered a postcode",
	KindPostcodeSymbols:     "The postcode must not contain symbols",
	KindPostcodeTooShort:    "The postcode does not contain enough characters",
	KindPostcodeTooLong:     "The postcode contains too many characters",
	KindPostcodeInvalid:     "The postcode is not a valid UK postcode",
	KindMobileNonNumeric:    "The mobile phone number must not contain letters or symbols",
	KindMobileNotUK:         "The mobile phone number is not a UK mobile number",
	KindMobileTooManyDigits: "The mobile phone number contains too many digits",
	KindMobileTooFewDigits:  "The mobile phone number does not contain enough digits",
	KindUACIncomplete:       "Enter all 16 characters of your access code",
	KindFirstNameMissing:    "Enter your first name",
	KindLastNameMissing:     "Enter your last name",
	KindNameTooLong:         "You have entered too many characters",
}

var messagesCY = map[Kind]string{
	KindPostcodeEmpty:       "Nid ydych wedi nodi cod post",
	KindPostcodeSymbols:     "Ni ddylai'r cod post gynnwys symbolau",
	KindPostcodeTooShort:    "Nid yw'r cod post yn cynnwys digon o nodau",
	KindPostcodeTooLong:     "Mae'r cod post yn cynnwys gormod o nodau",
	KindPostcodeInvalid:     "Nid yw'r cod post yn god post dilys yn y DU",
	KindMobileNonNumeric:    "Ni ddylai rhif y ffon symudol gynnwys llythrennau na symbolau",
	KindMobileNotUK:         "Nid yw'r rhif yn rhif ffon symudol yn y DU",
	KindMobileTooManyDigits: "Mae rhif y ffon symudol yn cynnwys gormod o ddigidau",
	KindMobileTooFewDigits:  "Nid yw rhif y ffon symudol yn cynnwys digon o ddigidau",
	KindUACIncomplete:       "Nodwch bob un o 16 nod eich cod mynediad",
	KindFirstNameMissing:    "Nodwch eich enw cyntaf",
	KindLastNameMissing:     "Nodwch eich cyfenw",
	KindNameTooLong:         "Rydych wedi nodi gormod o nodau",
}

// obscureWhitespace lists invisible characters stripped alongside ordinary
// whitespace: Mongolian vowel separator, zero width space/non-joiner/joiner,
// word joiner and zero width non-breaking space.
const obscureWhitespace = "\u180E\u200B\u200C\u200D\u2060\uFEFF"
