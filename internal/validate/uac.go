package validate

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
)

// uacFields are the four form fields holding the access code segments, in
// the order they are joined.
var uacFields = [4]string{"uac1", "uac2", "uac3", "uac4"}

// JoinUAC assembles the 16 character access code from the four posted
// segments. A missing or empty segment is an error; a partial code is never
// submitted downstream.
func JoinUAC(form url.Values, locale string) (string, error) {
	var uac string
	for _, field := range uacFields {
		segment := form.Get(field)
		if segment == "" {
			return "", newError(KindUACIncomplete, locale)
		}
		uac += segment
	}
	return uac, nil
}

// HashUAC returns the hex encoded SHA-256 of an access code. Only the hash
// ever appears in logs or upstream request paths.
func HashUAC(uac string) string {
	sum := sha256.Sum256([]byte(uac))
	return hex.EncodeToString(sum[:])
}
