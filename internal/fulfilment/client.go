// Package fulfilment dispatches access-code fulfilment requests: SMS codes
// through the collection instrument service, postal codes through the IAC
// service. Both share the product-code table below.
package fulfilment

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"surveyhome.org/respondent-web/internal/upstream"
)

// Spec selects the fulfilment product: case type HH/CE/SPG, region E/W/N and
// whether the code is for an individual rather than the household.
type Spec struct {
	CaseType   string
	Region     string
	Individual bool
}

// ErrNoProduct means no product code exists for the spec combination; it is
// a programming or data error, not a user one.
var ErrNoProduct = errors.New("fulfilment: no product code for spec")

// productCode returns the fulfilment product identifier for a delivery
// channel ("SMS" or "POST"). Individual codes use the I variant, household
// and communal ones the UAC variant, suffixed by region.
func productCode(channel string, spec Spec) (string, error) {
	switch spec.CaseType {
	case "HH", "CE", "SPG":
	default:
		return "", ErrNoProduct
	}
	switch spec.Region {
	case "E", "W", "N":
	default:
		return "", ErrNoProduct
	}
	variant := "UAC"
	if spec.Individual {
		variant = "UACIT"
	}
	return variant + "_" + channel + "_" + spec.CaseType + "_" + spec.Region, nil
}

type Client struct {
	ciBaseURL  string
	iacBaseURL string
	ci         *upstream.Caller
	iac        *upstream.Caller
}

// NewClient wires both fulfilment backends. SMS requests go to the
// collection instrument service, postal requests to the IAC service.
func NewClient(ciBaseURL string, ciAuth upstream.BasicAuth, iacBaseURL string, iacAuth upstream.BasicAuth, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		ciBaseURL:  ciBaseURL,
		iacBaseURL: iacBaseURL,
		ci:         upstream.NewCaller(ciAuth, timeout, log),
		iac:        upstream.NewCaller(iacAuth, timeout, log),
	}
}

// RequestSMS asks for a new access code to be texted to telNo. A 429 from
// the service surfaces as upstream.ErrRateLimited.
func (c *Client) RequestSMS(ctx context.Context, caseID, telNo string, spec Spec) error {
	code, err := productCode("SMS", spec)
	if err != nil {
		return err
	}
	body := map[string]string{
		"caseId":         caseID,
		"telNo":          telNo,
		"fulfilmentCode": code,
	}
	endpoint := c.ciBaseURL + "/cases/" + url.PathEscape(caseID) + "/fulfilments/sms"
	return c.ci.Do(ctx, http.MethodPost, endpoint, body, nil)
}

// RequestPost asks for a new access code to be sent by post, addressed to
// the named recipient.
func (c *Client) RequestPost(ctx context.Context, caseID, firstName, lastName string, spec Spec) error {
	code, err := productCode("POST", spec)
	if err != nil {
		return err
	}
	body := map[string]string{
		"caseId":         caseID,
		"forename":       firstName,
		"surname":        lastName,
		"fulfilmentCode": code,
	}
	endpoint := c.iacBaseURL + "/cases/" + url.PathEscape(caseID) + "/fulfilments/post"
	return c.iac.Do(ctx, http.MethodPost, endpoint, body, nil)
}
