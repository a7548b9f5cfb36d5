// Package rhsvc wraps the case (respondent home) service: access-code
// claims, case lookup and creation, UAC linking and the survey-launched
// notification.
package rhsvc

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"surveyhome.org/respondent-web/internal/upstream"
)

// ErrInactiveCase marks an access code whose case is no longer active, or a
// claims document with no active flag at all. The journey shows the survey
// complete page rather than an error.
var ErrInactiveCase = errors.New("rhsvc: inactive case")

// ErrCaseNotFound marks claims with caseStatus NOT_FOUND; no launch payload
// can be built from them.
var ErrCaseNotFound = errors.New("rhsvc: case status NOT_FOUND")

// UACClaims is the case document returned for a hashed access code.
type UACClaims struct {
	Active                bool   `json:"active"`
	CaseStatus            string `json:"caseStatus"`
	CaseID                string `json:"caseId"`
	CaseType              string `json:"caseType"`
	CollectionExerciseSID string `json:"collectionExerciseId"`
	QuestionnaireID       string `json:"questionnaireId"`
	UACHash               string `json:"uacHash"`
	Region                string `json:"region"`
	RuRef                 string `json:"ruRef"`
	Address               CaseAddress `json:"address"`
}

// CaseAddress is the address block carried on a case.
type CaseAddress struct {
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	AddressLine3 string `json:"addressLine3"`
	TownName     string `json:"townName"`
	Postcode     string `json:"postcode"`
	UPRN         string `json:"uprn"`
}

// Case is a case record looked up or created by UPRN during the
// request-a-new-code journey.
type Case struct {
	CaseID                string      `json:"caseId"`
	CaseType              string      `json:"caseType"`
	Region                string      `json:"region"`
	CollectionExerciseSID string      `json:"collectionExerciseId"`
	Address               CaseAddress `json:"address"`
	Active                bool        `json:"active"`
	CaseStatus            string      `json:"caseStatus"`
}

// NewCaseRequest carries the address attributes needed to create a case for
// an address with none.
type NewCaseRequest struct {
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	AddressLine3 string `json:"addressLine3"`
	TownName     string `json:"townName"`
	Region       string `json:"region"`
	Postcode     string `json:"postcode"`
	UPRN         string `json:"uprn"`
	EstabType    string `json:"estabType"`
	AddressType  string `json:"addressType"`
}

type Client struct {
	baseURL string
	caller  *upstream.Caller
}

func NewClient(baseURL string, auth upstream.BasicAuth, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		caller:  upstream.NewCaller(auth, timeout, log),
	}
}

// GetUACClaims resolves a hashed access code. A 404 surfaces as
// upstream.ErrNotFound, which callers treat as "code not recognized".
func (c *Client) GetUACClaims(ctx context.Context, uacHash string) (UACClaims, error) {
	var claims UACClaims
	endpoint := c.baseURL + "/uacs/" + url.PathEscape(uacHash)
	if err := c.caller.Do(ctx, http.MethodGet, endpoint, nil, &claims); err != nil {
		return UACClaims{}, err
	}
	return claims, nil
}

// CasesByUPRN lists the cases already registered against an address.
func (c *Client) CasesByUPRN(ctx context.Context, uprn string) ([]Case, error) {
	var cases []Case
	endpoint := c.baseURL + "/cases/uprn/" + url.PathEscape(uprn)
	if err := c.caller.Do(ctx, http.MethodGet, endpoint, nil, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// CreateCase registers a case for an address with none. A failure here is
// fatal to the request journey.
func (c *Client) CreateCase(ctx context.Context, req NewCaseRequest) (Case, error) {
	var created Case
	endpoint := c.baseURL + "/cases/create"
	if err := c.caller.Do(ctx, http.MethodPost, endpoint, req, &created); err != nil {
		return Case{}, err
	}
	return created, nil
}

// LinkUAC attaches an unlinked access code (by hash) to an address.
func (c *Client) LinkUAC(ctx context.Context, uacHash string, req NewCaseRequest) (UACClaims, error) {
	var claims UACClaims
	endpoint := c.baseURL + "/uacs/" + url.PathEscape(uacHash) + "/link"
	if err := c.caller.Do(ctx, http.MethodPost, endpoint, req, &claims); err != nil {
		return UACClaims{}, err
	}
	return claims, nil
}

// CaseByID fetches a single case record, used to re-check a case is still
// active just before dispatching a fulfilment.
func (c *Client) CaseByID(ctx context.Context, caseID string) (Case, error) {
	var cs Case
	endpoint := c.baseURL + "/cases/" + url.PathEscape(caseID)
	if err := c.caller.Do(ctx, http.MethodGet, endpoint, nil, &cs); err != nil {
		return Case{}, err
	}
	return cs, nil
}

// SurveyLaunched tells the case service a respondent is being handed to the
// survey application.
func (c *Client) SurveyLaunched(ctx context.Context, questionnaireID, caseID string) error {
	body := map[string]string{
		"questionnaireId": questionnaireID,
		"caseId":          caseID,
	}
	return c.caller.Do(ctx, http.MethodPost, c.baseURL+"/surveyLaunched", body, nil)
}

// ValidateCase checks the claims are usable: the active flag is evaluated
// before the case status, so an inactive NOT_FOUND case reports inactive.
func ValidateCase(claims UACClaims) error {
	return validateCase(claims.Active, claims.CaseStatus)
}

// Validate applies the same active-before-status check to a case record.
func (cs Case) Validate() error {
	return validateCase(cs.Active, cs.CaseStatus)
}

func validateCase(active bool, status string) error {
	if !active {
		return ErrInactiveCase
	}
	if status == "NOT_FOUND" {
		return ErrCaseNotFound
	}
	return nil
}
