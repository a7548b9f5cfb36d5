package eq

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-jose/go-jose/v4"
)

// keyFile is the on-disk shape of the JSON secret-keys file: a list so keys
// can be rotated by adding a new entry and re-deploying.
type keyFile struct {
	Keys []struct {
		KID     string `json:"kid"`
		Purpose string `json:"purpose"`
		Value   string `json:"value"` // base64 raw URL encoded secret
	} `json:"keys"`
}

const signingPurpose = "authentication"

// Signer produces compact JWS launch tokens.
type Signer struct {
	signer jose.Signer
	kid    string
}

// NewSignerFromFile loads the secret-keys file and builds a Signer from the
// first key with the authentication purpose.
func NewSignerFromFile(path string) (*Signer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("eq: read secret keys: %w", err)
	}
	var kf keyFile
	if err := json.Unmarshal(raw, &kf); err != nil {
		return nil, fmt.Errorf("eq: parse secret keys: %w", err)
	}
	for _, k := range kf.Keys {
		if k.Purpose != signingPurpose {
			continue
		}
		secret, err := base64.RawURLEncoding.DecodeString(k.Value)
		if err != nil {
			return nil, fmt.Errorf("eq: decode key %s: %w", k.KID, err)
		}
		return NewSigner(k.KID, secret)
	}
	return nil, fmt.Errorf("eq: no %s key in %s", signingPurpose, path)
}

// NewSigner builds a Signer over a raw HMAC secret.
func NewSigner(kid string, secret []byte) (*Signer, error) {
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: secret},
		(&jose.SignerOptions{}).WithHeader("kid", kid).WithType("JWT"),
	)
	if err != nil {
		return nil, fmt.Errorf("eq: build signer: %w", err)
	}
	return &Signer{signer: signer, kid: kid}, nil
}

// Sign serializes the claims into a compact JWS token.
func (s *Signer) Sign(claims Claims) (string, error) {
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("eq: encode claims: %w", err)
	}
	jws, err := s.signer.Sign(payload)
	if err != nil {
		return "", fmt.Errorf("eq: sign claims: %w", err)
	}
	token, err := jws.CompactSerialize()
	if err != nil {
		return "", fmt.Errorf("eq: serialize token: %w", err)
	}
	return token, nil
}
