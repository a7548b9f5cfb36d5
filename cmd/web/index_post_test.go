package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-jose/go-jose/v4"
)

func uacForm() url.Values {
	return url.Values{
		"uac1": {"w4nw"},
		"uac2": {"wpph"},
		"uac3": {"jjpt"},
		"uac4": {"p7fn"},
	}
}

func activeClaimsJSON() string {
	return `{
		"active": true,
		"caseStatus": "OK",
		"caseId": "case-123",
		"caseType": "HH",
		"collectionExerciseId": "ce-456",
		"questionnaireId": "q-789",
		"region": "E",
		"ruRef": "ru-1",
		"address": {
			"addressLine1": "1 High Street",
			"townName": "Newport",
			"postcode": "AB1 2CD"
		}
	}`
}

func postIndex(t *testing.T, srv http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestIndexPostLaunchesSurvey(t *testing.T) {
	var launched bool
	caseSvc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/uacs/"):
			_, _ = w.Write([]byte(activeClaimsJSON()))
		case r.Method == http.MethodPost && r.URL.Path == "/surveyLaunched":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["questionnaireId"] != "q-789" || body["caseId"] != "case-123" {
				t.Errorf("unexpected surveyLaunched body: %v", body)
			}
			launched = true
		default:
			t.Errorf("unexpected case service call: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer caseSvc.Close()

	srv := newTestEnv(t, caseSvc, nil, nil)
	rec := postIndex(t, srv, uacForm())
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d; body=%s", rec.Code, rec.Body.String())
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "http://eq.example/session?token=") {
		t.Fatalf("expected redirect to eq, got %q", loc)
	}
	if !launched {
		t.Fatal("expected surveyLaunched to be called")
	}

	token := strings.TrimPrefix(loc, "http://eq.example/session?token=")
	jws, err := jose.ParseSigned(token, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	payload, err := jws.Verify(testSecret)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	var claims map[string]any
	if err := json.Unmarshal(payload, &claims); err != nil {
		t.Fatalf("decode claims: %v", err)
	}
	for key, want := range map[string]string{
		"case_id":                 "case-123",
		"collection_exercise_sid": "ce-456",
		"questionnaire_id":        "q-789",
		"response_id":             "q-789",
		"region_code":             "GB-ENG",
		"language_code":           "en",
		"channel":                 "rh",
		"account_service_url":     "http://rh.example",
	} {
		if got, _ := claims[key].(string); got != want {
			t.Errorf("claim %s: got %q want %q", key, got, want)
		}
	}
	if claims["jti"] == "" || claims["tx_id"] == "" {
		t.Error("expected jti and tx_id to be set")
	}
}

func TestIndexPostMalformedCode(t *testing.T) {
	srv := newTestEnv(t, nil, nil, nil)
	form := uacForm()
	form.Set("uac4", "") // only 12 characters
	rec := postIndex(t, srv, form)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Enter all 16 characters") {
		t.Fatalf("expected validation message, got: %s", rec.Body.String())
	}
}

func TestIndexPostUnrecognizedCode(t *testing.T) {
	caseSvc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer caseSvc.Close()

	srv := newTestEnv(t, caseSvc, nil, nil)
	rec := postIndex(t, srv, uacForm())
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202 for unrecognized code, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Enter a valid code") {
		t.Fatalf("expected invalid code message, got: %s", rec.Body.String())
	}
}

func TestIndexPostInactiveCase(t *testing.T) {
	caseSvc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"active": false, "caseStatus": "OK", "caseId": "case-123"}`))
	}))
	defer caseSvc.Close()

	srv := newTestEnv(t, caseSvc, nil, nil)
	rec := postIndex(t, srv, uacForm())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Survey complete") {
		t.Fatalf("expected survey complete page, got: %s", rec.Body.String())
	}
}

func TestIndexPostCaseStatusNotFound(t *testing.T) {
	caseSvc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"active": true, "caseStatus": "NOT_FOUND", "caseId": "case-123"}`))
	}))
	defer caseSvc.Close()

	srv := newTestEnv(t, caseSvc, nil, nil)
	rec := postIndex(t, srv, uacForm())
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Sorry, something went wrong") {
		t.Fatalf("expected generic failure page, got: %s", rec.Body.String())
	}
}

func TestIndexPostCaseServiceUnreachable(t *testing.T) {
	srv := newTestEnv(t, nil, nil, nil)
	rec := postIndex(t, srv, uacForm())
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Sorry, something went wrong") {
		t.Fatalf("expected generic failure page, got: %s", rec.Body.String())
	}
}

func TestIndexPostIncompletePayload(t *testing.T) {
	// active case but no questionnaire id: the launch payload cannot be built
	caseSvc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"active": true, "caseStatus": "OK", "caseId": "case-123", "collectionExerciseId": "ce-456", "region": "E"}`))
	}))
	defer caseSvc.Close()

	srv := newTestEnv(t, caseSvc, nil, nil)
	rec := postIndex(t, srv, uacForm())
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestIndexPostWelshLanguageCode(t *testing.T) {
	caseSvc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/uacs/") {
			_, _ = w.Write([]byte(strings.Replace(activeClaimsJSON(), `"region": "E"`, `"region": "W"`, 1)))
			return
		}
	}))
	defer caseSvc.Close()

	srv := newTestEnv(t, caseSvc, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/?lang=cy", strings.NewReader(uacForm().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d; body=%s", rec.Code, rec.Body.String())
	}
	token := strings.TrimPrefix(rec.Header().Get("Location"), "http://eq.example/session?token=")
	jws, err := jose.ParseSigned(token, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	payload, err := jws.Verify(testSecret)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	var claims map[string]any
	_ = json.Unmarshal(payload, &claims)
	if got, _ := claims["language_code"].(string); got != "cy" {
		t.Fatalf("expected language_code cy, got %q", got)
	}
	if got, _ := claims["region_code"].(string); got != "GB-WLS" {
		t.Fatalf("expected region_code GB-WLS, got %q", got)
	}
}
