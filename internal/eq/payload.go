// Package eq builds and signs the launch token handed to the downstream
// survey application. Building is pure; signing wraps the claims in a JWS
// whose key comes from the configured secret-keys file.
package eq

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"surveyhome.org/respondent-web/internal/rhsvc"
)

// BuildError means the case data cannot produce a valid launch payload. It
// is logged at error level and surfaces as the generic failure page.
type BuildError struct {
	Reason string
}

func (e *BuildError) Error() string {
	return "eq: cannot build payload: " + e.Reason
}

// Claims is the launch token payload expected by the survey application.
type Claims struct {
	JTI                   string `json:"jti"`
	TxID                  string `json:"tx_id"`
	IAT                   int64  `json:"iat"`
	Exp                   int64  `json:"exp"`
	CaseID                string `json:"case_id"`
	CaseType              string `json:"case_type"`
	CollectionExerciseSID string `json:"collection_exercise_sid"`
	QuestionnaireID       string `json:"questionnaire_id"`
	RuRef                 string `json:"ru_ref"`
	RegionCode            string `json:"region_code"`
	LanguageCode          string `json:"language_code"`
	DisplayAddress        string `json:"display_address"`
	ResponseID            string `json:"response_id"`
	AccountServiceURL     string `json:"account_service_url"`
	Channel               string `json:"channel"`
}

const tokenLifetime = time.Hour

// regionCodes maps the case region letter to the ISO 3166-2 code the survey
// application expects.
var regionCodes = map[string]string{
	"E": "GB-ENG",
	"W": "GB-WLS",
	"N": "GB-NIR",
}

// Build assembles launch claims from validated case claims and the display
// region. Every required case field is checked; a contradiction or gap is a
// BuildError rather than a bad token.
func Build(claims rhsvc.UACClaims, displayRegion, accountServiceURL string, now time.Time) (Claims, error) {
	if claims.CaseID == "" {
		return Claims{}, &BuildError{Reason: "no case id in case claims"}
	}
	if claims.CollectionExerciseSID == "" {
		return Claims{}, &BuildError{Reason: "no collection exercise id for case " + claims.CaseID}
	}
	if claims.QuestionnaireID == "" {
		return Claims{}, &BuildError{Reason: "no questionnaire id for case " + claims.CaseID}
	}
	regionCode, ok := regionCodes[claims.Region]
	if !ok {
		return Claims{}, &BuildError{Reason: fmt.Sprintf("unknown region %q for case %s", claims.Region, claims.CaseID)}
	}

	language := "en"
	if displayRegion == "cy" && claims.Region == "W" {
		language = "cy"
	}

	iat := now.Unix()
	return Claims{
		JTI:                   uuid.NewString(),
		TxID:                  uuid.NewString(),
		IAT:                   iat,
		Exp:                   now.Add(tokenLifetime).Unix(),
		CaseID:                claims.CaseID,
		CaseType:              claims.CaseType,
		CollectionExerciseSID: claims.CollectionExerciseSID,
		QuestionnaireID:       claims.QuestionnaireID,
		RuRef:                 claims.RuRef,
		RegionCode:            regionCode,
		LanguageCode:          language,
		DisplayAddress:        displayAddress(claims.Address),
		ResponseID:            claims.QuestionnaireID,
		AccountServiceURL:     accountServiceURL,
		Channel:               "rh",
	}, nil
}

func displayAddress(addr rhsvc.CaseAddress) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{addr.AddressLine1, addr.AddressLine2, addr.TownName} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, ", ")
}
