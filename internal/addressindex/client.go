// Package addressindex wraps the Address Index service used to turn a
// postcode into candidate addresses and a UPRN into a full address record.
package addressindex

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"surveyhome.org/respondent-web/internal/upstream"
)

// SentinelUPRN is the synthetic "I cannot find my address" option appended
// to every candidate list. Selecting it routes the user back to the
// postcode entry step.
const SentinelUPRN = "xxxx"

// Candidate is one selectable address for a postcode search.
type Candidate struct {
	UPRN             string `json:"uprn"`
	FormattedAddress string `json:"formattedAddress"`
}

// Address is the full record behind a UPRN, used to confirm the address and
// to create a case when none exists yet.
type Address struct {
	UPRN              string `json:"uprn"`
	AddressLine1      string `json:"addressLine1"`
	AddressLine2      string `json:"addressLine2"`
	AddressLine3      string `json:"addressLine3"`
	TownName          string `json:"townName"`
	Postcode          string `json:"postcode"`
	CountryCode       string `json:"countryCode"`
	CensusAddressType string `json:"censusAddressType"`
	CensusEstabType   string `json:"censusEstabType"`
	FormattedAddress  string `json:"formattedAddress"`
}

// Results holds the candidates for one postcode lookup, ephemeral per
// request. The sentinel option is always the final entry.
type Results struct {
	Postcode   string
	Candidates []Candidate
	Total      int
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

type postcodeResponse struct {
	Response struct {
		Addresses []Candidate `json:"addresses"`
		Total     int         `json:"total"`
	} `json:"response"`
}

// ByPostcode looks up candidate addresses and appends the sentinel option.
func (c *Client) ByPostcode(ctx context.Context, postcode, cannotFindText string) (Results, error) {
	endpoint := c.baseURL + "/addresses/postcode/" + url.PathEscape(postcode)
	var body postcodeResponse
	if err := c.caller.Do(ctx, http.MethodGet, endpoint, nil, &body); err != nil {
		return Results{}, err
	}
	candidates := append([]Candidate{}, body.Response.Addresses...)
	candidates = append(candidates, Candidate{UPRN: SentinelUPRN, FormattedAddress: cannotFindText})
	return Results{
		Postcode:   postcode,
		Candidates: candidates,
		Total:      body.Response.Total,
	}, nil
}

type uprnResponse struct {
	Response struct {
		Address Address `json:"address"`
	} `json:"response"`
}

// ByUPRN fetches the full address record for a chosen UPRN.
func (c *Client) ByUPRN(ctx context.Context, uprn string) (Address, error) {
	endpoint := c.baseURL + "/addresses/rh/uprn/" + url.PathEscape(uprn) + "?addresstype=paf"
	var body uprnResponse
	if err := c.caller.Do(ctx, http.MethodGet, endpoint, nil, &body); err != nil {
		return Address{}, err
	}
	return body.Response.Address, nil
}
