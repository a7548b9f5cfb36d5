// Package journey models the per-session accumulator for the request-a-new
// access-code flow. Only the step handlers mutate it; it lives inside the
// browser session and nowhere else.
package journey

// Method is the chosen fulfilment channel.
const (
	MethodSMS  = "sms"
	MethodPost = "post"
)

// State accumulates what the respondent has told us so far. Steps check the
// fields they depend on and bounce back to enter-address when a prerequisite
// is missing (deep links, expired sessions).
type State struct {
	Postcode      string `json:"postcode,omitempty"`
	UPRN          string `json:"uprn,omitempty"`
	AddressText   string `json:"address,omitempty"`
	AddressLine1  string `json:"line1,omitempty"`
	AddressLine2  string `json:"line2,omitempty"`
	AddressLine3  string `json:"line3,omitempty"`
	TownName      string `json:"town,omitempty"`
	CountryCode   string `json:"country,omitempty"`
	AddressType   string `json:"addressType,omitempty"`
	EstabType     string `json:"estabType,omitempty"`
	CaseID        string `json:"caseId,omitempty"`
	CaseType      string `json:"caseType,omitempty"`
	Region        string `json:"region,omitempty"`
	DisplayRegion string `json:"displayRegion,omitempty"`
	Individual    bool   `json:"individual,omitempty"`
	Method        string `json:"method,omitempty"`
	MobileNumber  string `json:"mobile,omitempty"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
}

// HasAddress reports whether an address has been selected and confirmed far
// enough to proceed past confirm-address.
func (s *State) HasAddress() bool {
	return s != nil && s.UPRN != "" && s.UPRN != "xxxx"
}

// HasCase reports whether a case has been matched or created.
func (s *State) HasCase() bool {
	return s != nil && s.CaseID != ""
}

// Reset clears the accumulated state; called when a new journey starts and
// after successful completion.
func (s *State) Reset() {
	*s = State{}
}
