package main

import (
	"encoding/json"

	"surveyhome.org/respondent-web/internal/addressindex"
	"surveyhome.org/respondent-web/internal/format"
	"surveyhome.org/respondent-web/internal/journey"
)

// addressSelection is the value carried by each radio option on the
// select-address page, round-tripped through the form as JSON.
type addressSelection struct {
	UPRN    string `json:"uprn"`
	Address string `json:"address"`
}

type addressOption struct {
	Value string
	Label string
}

type selectAddressView struct {
	Postcode string
	Options  []addressOption
	Total    int
}

type confirmAddressView struct {
	Address string
}

type selectMethodView struct {
	Address string
}

type confirmMobileView struct {
	Mobile string
}

type enterNameView struct {
	FirstName string
	LastName  string
}

type confirmNameAddressView struct {
	FirstName string
	LastName  string
	Address   string
}

type codeSentView struct {
	Method      string // "sms" or "post"
	Destination string
}

func buildSelectAddressView(results addressindex.Results) selectAddressView {
	view := selectAddressView{Postcode: results.Postcode, Total: results.Total}
	for _, c := range results.Candidates {
		raw, err := json.Marshal(addressSelection{UPRN: c.UPRN, Address: c.FormattedAddress})
		if err != nil {
			continue
		}
		view.Options = append(view.Options, addressOption{Value: string(raw), Label: c.FormattedAddress})
	}
	return view
}

// journeyAddress is the single-line display form of the selected address.
func journeyAddress(j *journey.State) string {
	if j.AddressText != "" {
		return j.AddressText
	}
	return format.Address(j.AddressLine1, j.AddressLine2, j.AddressLine3, j.TownName, j.Postcode)
}
