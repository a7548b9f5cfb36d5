package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"surveyhome.org/respondent-web/internal/addressindex"
	"surveyhome.org/respondent-web/internal/format"
	"surveyhome.org/respondent-web/internal/fulfilment"
	"surveyhome.org/respondent-web/internal/journey"
	mw "surveyhome.org/respondent-web/internal/middleware"
	"surveyhome.org/respondent-web/internal/rhsvc"
	"surveyhome.org/respondent-web/internal/upstream"
	"surveyhome.org/respondent-web/internal/validate"
)

const requestsBase = "/requests/access-code"

// RequestCodeStartHandler begins a fresh journey, wiping anything a previous
// one left in the session. ?individual=true requests an individual code
// rather than a household one.
func RequestCodeStartHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	sess.Journey.Reset()
	sess.Journey.DisplayRegion = mw.Region(r)
	sess.Journey.Individual = r.URL.Query().Get("individual") == "true"
	sess.MarkDirty()
	http.Redirect(w, r, requestsBase+"/enter-address", http.StatusFound)
}

func EnterAddressHandler(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusOK, "request-enter-address", basePage(r, "requests.enteraddress.title"))
}

func EnterAddressPostHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	postcode, err := validate.Postcode(r.Form.Get("postcode"), mw.Lang(r))
	if err != nil {
		sess.AddFlash(flashText(err.Error(), "ERROR", "BAD_POSTCODE", "postcode"))
		renderPage(w, r, http.StatusOK, "request-enter-address", basePage(r, "requests.enteraddress.title"))
		return
	}
	sess.Journey.Postcode = postcode
	sess.MarkDirty()
	http.Redirect(w, r, requestsBase+"/select-address", http.StatusFound)
}

func SelectAddressHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	j := &sess.Journey
	if j.Postcode == "" {
		redirectToStart(w, r, "select-address")
		return
	}
	results, err := aiClient.ByPostcode(r.Context(), j.Postcode, i18nBundle.T(mw.Lang(r), "requests.address.cannotfind"))
	if err != nil {
		serverError(w, r, err)
		return
	}
	if results.Total == 0 {
		vm := basePage(r, "requests.noresults.title")
		vm.Content = selectAddressView{Postcode: j.Postcode}
		renderPage(w, r, http.StatusOK, "request-no-results", vm)
		return
	}
	vm := basePage(r, "requests.selectaddress.title")
	vm.Content = buildSelectAddressView(results)
	renderPage(w, r, http.StatusOK, "request-select-address", vm)
}

func SelectAddressPostHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	j := &sess.Journey
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	raw := r.Form.Get("address")
	if raw == "" {
		sess.AddFlash(flash(r, "ERROR", "NO_SELECTION", "address", "requests.error.selectoption"))
		SelectAddressHandler(w, r)
		return
	}
	var selection addressSelection
	if err := json.Unmarshal([]byte(raw), &selection); err != nil {
		sess.AddFlash(flash(r, "ERROR", "NO_SELECTION", "address", "requests.error.selectoption"))
		http.Redirect(w, r, requestsBase+"/select-address", http.StatusFound)
		return
	}
	if selection.UPRN == addressindex.SentinelUPRN {
		sess.AddFlash(flash(r, "INFO", "ADDRESS_NOT_FOUND", "postcode", "requests.address.tryagain"))
		http.Redirect(w, r, requestsBase+"/enter-address", http.StatusFound)
		return
	}

	addr, err := aiClient.ByUPRN(r.Context(), selection.UPRN)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			sess.AddFlash(flash(r, "ERROR", "NO_SELECTION", "address", "requests.error.selectoption"))
			http.Redirect(w, r, requestsBase+"/select-address", http.StatusFound)
			return
		}
		serverError(w, r, err)
		return
	}
	if addr.CountryCode == "S" {
		renderPage(w, r, http.StatusOK, "address-in-scotland", basePage(r, "requests.scotland.title"))
		return
	}
	if addr.CensusAddressType == "NA" {
		logger.Info("unexpected address type, directing to contact centre",
			zap.String("uprn", addr.UPRN))
		renderPage(w, r, http.StatusOK, "call-contact-centre", basePage(r, "requests.contactcentre.title"))
		return
	}

	j.UPRN = addr.UPRN
	j.AddressText = selection.Address
	if j.AddressText == "" {
		j.AddressText = addr.FormattedAddress
	}
	j.AddressLine1 = addr.AddressLine1
	j.AddressLine2 = addr.AddressLine2
	j.AddressLine3 = addr.AddressLine3
	j.TownName = addr.TownName
	j.Postcode = addr.Postcode
	j.CountryCode = addr.CountryCode
	j.AddressType = addr.CensusAddressType
	j.EstabType = addr.CensusEstabType
	sess.MarkDirty()
	http.Redirect(w, r, requestsBase+"/confirm-address", http.StatusFound)
}

func ConfirmAddressHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	j := &sess.Journey
	if !j.HasAddress() {
		redirectToStart(w, r, "confirm-address")
		return
	}
	vm := basePage(r, "requests.confirmaddress.title")
	vm.Content = confirmAddressView{Address: journeyAddress(j)}
	renderPage(w, r, http.StatusOK, "request-confirm-address", vm)
}

func ConfirmAddressPostHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	j := &sess.Journey
	if !j.HasAddress() {
		redirectToStart(w, r, "confirm-address")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	switch r.Form.Get("address-check-answer") {
	case "yes":
	case "no":
		http.Redirect(w, r, requestsBase+"/enter-address", http.StatusFound)
		return
	default:
		sess.AddFlash(flash(r, "ERROR", "NO_SELECTION", "address-check-answer", "requests.error.selectoption"))
		ConfirmAddressHandler(w, r)
		return
	}

	if err := matchOrCreateCase(r, j); err != nil {
		serverError(w, r, err)
		return
	}
	sess.MarkDirty()
	http.Redirect(w, r, requestsBase+"/select-method", http.StatusFound)
}

// matchOrCreateCase resolves the case for the confirmed address, creating one
// when the address has none yet. A creation failure is fatal to the journey.
func matchOrCreateCase(r *http.Request, j *journey.State) error {
	cases, err := caseClient.CasesByUPRN(r.Context(), j.UPRN)
	if err != nil && !errors.Is(err, upstream.ErrNotFound) {
		return err
	}
	if len(cases) > 0 {
		j.CaseID = cases[0].CaseID
		j.CaseType = cases[0].CaseType
		j.Region = cases[0].Region
		return nil
	}

	logger.Info("no case matching uprn, requesting new case", zap.String("uprn", j.UPRN))
	created, err := caseClient.CreateCase(r.Context(), rhsvc.NewCaseRequest{
		AddressLine1: j.AddressLine1,
		AddressLine2: j.AddressLine2,
		AddressLine3: j.AddressLine3,
		TownName:     j.TownName,
		Region:       j.CountryCode,
		Postcode:     j.Postcode,
		UPRN:         j.UPRN,
		EstabType:    j.EstabType,
		AddressType:  j.AddressType,
	})
	if err != nil {
		return err
	}
	j.CaseID = created.CaseID
	j.CaseType = created.CaseType
	j.Region = created.Region
	if j.Region == "" {
		j.Region = j.CountryCode
	}
	return nil
}

func SelectMethodHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	j := &sess.Journey
	if !j.HasCase() {
		redirectToStart(w, r, "select-method")
		return
	}
	vm := basePage(r, "requests.selectmethod.title")
	vm.Content = selectMethodView{Address: journeyAddress(j)}
	renderPage(w, r, http.StatusOK, "request-select-method", vm)
}

func SelectMethodPostHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	j := &sess.Journey
	if !j.HasCase() {
		redirectToStart(w, r, "select-method")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	switch r.Form.Get("method") {
	case journey.MethodSMS:
		j.Method = journey.MethodSMS
		sess.MarkDirty()
		http.Redirect(w, r, requestsBase+"/enter-mobile", http.StatusFound)
	case journey.MethodPost:
		j.Method = journey.MethodPost
		sess.MarkDirty()
		http.Redirect(w, r, requestsBase+"/enter-name", http.StatusFound)
	default:
		sess.AddFlash(flash(r, "ERROR", "NO_SELECTION", "method", "requests.error.selectoption"))
		SelectMethodHandler(w, r)
	}
}

func EnterMobileHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	if !sess.Journey.HasCase() {
		redirectToStart(w, r, "enter-mobile")
		return
	}
	renderPage(w, r, http.StatusOK, "request-enter-mobile", basePage(r, "requests.entermobile.title"))
}

func EnterMobilePostHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	j := &sess.Journey
	if !j.HasCase() {
		redirectToStart(w, r, "enter-mobile")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	number, err := validate.UKMobileNumber(r.Form.Get("mobile"), mw.Lang(r))
	if err != nil {
		sess.AddFlash(flashText(err.Error(), "ERROR", "BAD_MOBILE", "mobile"))
		renderPage(w, r, http.StatusOK, "request-enter-mobile", basePage(r, "requests.entermobile.title"))
		return
	}
	j.MobileNumber = number
	sess.MarkDirty()
	http.Redirect(w, r, requestsBase+"/confirm-mobile", http.StatusFound)
}

func ConfirmMobileHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	j := &sess.Journey
	if j.MobileNumber == "" {
		redirectToStart(w, r, "confirm-mobile")
		return
	}
	vm := basePage(r, "requests.confirmmobile.title")
	vm.Content = confirmMobileView{Mobile: j.MobileNumber}
	renderPage(w, r, http.StatusOK, "request-confirm-mobile", vm)
}

func ConfirmMobilePostHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	j := &sess.Journey
	if j.MobileNumber == "" {
		redirectToStart(w, r, "confirm-mobile")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	switch r.Form.Get("mobile-confirmation") {
	case "yes":
	case "no":
		http.Redirect(w, r, requestsBase+"/enter-mobile", http.StatusFound)
		return
	default:
		sess.AddFlash(flash(r, "ERROR", "NO_SELECTION", "mobile-confirmation", "requests.error.selectoption"))
		ConfirmMobileHandler(w, r)
		return
	}

	if err := revalidateCase(r, j.CaseID); err != nil {
		serverError(w, r, err)
		return
	}
	err := fulfilClient.RequestSMS(r.Context(), j.CaseID, j.MobileNumber, fulfilmentSpec(j))
	if errors.Is(err, upstream.ErrRateLimited) {
		sess.AddFlash(flash(r, "ERROR", "RETRY", "", "requests.error.retry"))
		ConfirmMobileHandler(w, r)
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	vm := basePage(r, "requests.codesent.title")
	vm.Content = codeSentView{Method: journey.MethodSMS, Destination: format.MaskMobile(j.MobileNumber)}
	j.Reset()
	sess.MarkDirty()
	renderPage(w, r, http.StatusOK, "request-code-sent", vm)
}

func EnterNameHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	j := &sess.Journey
	if !j.HasCase() {
		redirectToStart(w, r, "enter-name")
		return
	}
	vm := basePage(r, "requests.entername.title")
	vm.Content = enterNameView{FirstName: j.FirstName, LastName: j.LastName}
	renderPage(w, r, http.StatusOK, "request-enter-name", vm)
}

func EnterNamePostHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	j := &sess.Journey
	if !j.HasCase() {
		redirectToStart(w, r, "enter-name")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	first, last, err := validate.RecipientName(r.Form.Get("first_name"), r.Form.Get("last_name"), mw.Lang(r))
	if err != nil {
		sess.AddFlash(flashText(err.Error(), "ERROR", "BAD_NAME", "name"))
		vm := basePage(r, "requests.entername.title")
		vm.Content = enterNameView{FirstName: r.Form.Get("first_name"), LastName: r.Form.Get("last_name")}
		renderPage(w, r, http.StatusOK, "request-enter-name", vm)
		return
	}
	j.FirstName = first
	j.LastName = last
	sess.MarkDirty()
	http.Redirect(w, r, requestsBase+"/confirm-name-address", http.StatusFound)
}

func ConfirmNameAddressHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	j := &sess.Journey
	if j.FirstName == "" || j.LastName == "" {
		redirectToStart(w, r, "confirm-name-address")
		return
	}
	vm := basePage(r, "requests.confirmname.title")
	vm.Content = confirmNameAddressView{FirstName: j.FirstName, LastName: j.LastName, Address: journeyAddress(j)}
	renderPage(w, r, http.StatusOK, "request-confirm-name-address", vm)
}

func ConfirmNameAddressPostHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	j := &sess.Journey
	if j.FirstName == "" || j.LastName == "" {
		redirectToStart(w, r, "confirm-name-address")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	switch r.Form.Get("name-address-confirmation") {
	case "yes":
	case "no":
		http.Redirect(w, r, requestsBase+"/enter-name", http.StatusFound)
		return
	default:
		sess.AddFlash(flash(r, "ERROR", "NO_SELECTION", "name-address-confirmation", "requests.error.selectoption"))
		ConfirmNameAddressHandler(w, r)
		return
	}

	if err := revalidateCase(r, j.CaseID); err != nil {
		serverError(w, r, err)
		return
	}
	err := fulfilClient.RequestPost(r.Context(), j.CaseID, j.FirstName, j.LastName, fulfilmentSpec(j))
	if errors.Is(err, upstream.ErrRateLimited) {
		sess.AddFlash(flash(r, "ERROR", "RETRY", "", "requests.error.retry"))
		ConfirmNameAddressHandler(w, r)
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	vm := basePage(r, "requests.codesent.title")
	vm.Content = codeSentView{Method: journey.MethodPost, Destination: journeyAddress(j)}
	j.Reset()
	sess.MarkDirty()
	renderPage(w, r, http.StatusOK, "request-code-sent", vm)
}

// revalidateCase re-checks a case is still live just before dispatching a
// fulfilment; the journey can sit in a browser tab for a long time.
func revalidateCase(r *http.Request, caseID string) error {
	cs, err := caseClient.CaseByID(r.Context(), caseID)
	if err != nil {
		return err
	}
	return cs.Validate()
}

func fulfilmentSpec(j *journey.State) fulfilment.Spec {
	region := j.Region
	if region == "" {
		region = j.CountryCode
	}
	return fulfilment.Spec{CaseType: j.CaseType, Region: region, Individual: j.Individual}
}

// redirectToStart bounces a step whose prerequisites are missing (deep link
// or expired session) back to the start of the journey.
func redirectToStart(w http.ResponseWriter, r *http.Request, step string) {
	logger.Info("journey step missing prerequisites, directing to enter address",
		zap.String("step", step))
	http.Redirect(w, r, requestsBase+"/enter-address", http.StatusFound)
}
