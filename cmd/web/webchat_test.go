package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func pinClock(t *testing.T, at time.Time) {
	t.Helper()
	nowFn = func() time.Time { return at }
	t.Cleanup(func() { nowFn = time.Now })
}

func TestWebchatOpenWeekday(t *testing.T) {
	srv := newTestEnv(t, nil, nil, nil)
	pinClock(t, time.Date(2019, time.June, 17, 9, 30, 0, 0, time.UTC)) // Monday
	req := httptest.NewRequest(http.MethodGet, "/webchat", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Start chat") {
		t.Fatalf("expected the chat form: %s", rec.Body.String())
	}
}

func TestWebchatClosedSunday(t *testing.T) {
	srv := newTestEnv(t, nil, nil, nil)
	pinClock(t, time.Date(2019, time.June, 16, 12, 0, 0, 0, time.UTC)) // Sunday
	req := httptest.NewRequest(http.MethodGet, "/webchat", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Web Chat is closed") {
		t.Fatalf("expected the closed page: %s", body)
	}
	if !strings.Contains(body, "Bank Holidays") {
		t.Fatalf("expected opening hours to mention Bank Holidays: %s", body)
	}
}

func TestWebchatClosedBankHoliday(t *testing.T) {
	srv := newTestEnv(t, nil, nil, nil)
	pinClock(t, time.Date(2019, time.April, 22, 10, 0, 0, 0, time.UTC)) // Easter Monday
	req := httptest.NewRequest(http.MethodGet, "/webchat", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), "Web Chat is closed") {
		t.Fatalf("expected the closed page on a bank holiday")
	}
}

func postWebchat(t *testing.T, srv http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webchat", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestWebchatPostMissingQuery(t *testing.T) {
	srv := newTestEnv(t, nil, nil, nil)
	pinClock(t, time.Date(2019, time.June, 17, 9, 30, 0, 0, time.UTC))
	rec := postWebchat(t, srv, url.Values{"screen_name": {"Bob"}, "language": {"english"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Enter your query") {
		t.Fatalf("expected the missing query message: %s", rec.Body.String())
	}
}

func TestWebchatPostMissingLanguage(t *testing.T) {
	srv := newTestEnv(t, nil, nil, nil)
	pinClock(t, time.Date(2019, time.June, 17, 9, 30, 0, 0, time.UTC))
	rec := postWebchat(t, srv, url.Values{"screen_name": {"Bob"}, "query": {"help"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Select a language") {
		t.Fatalf("expected the missing language message: %s", rec.Body.String())
	}
}

func TestWebchatPostSanitizesEcho(t *testing.T) {
	srv := newTestEnv(t, nil, nil, nil)
	pinClock(t, time.Date(2019, time.June, 17, 9, 30, 0, 0, time.UTC))
	rec := postWebchat(t, srv, url.Values{
		"screen_name": {"<script>alert(1)</script>Bob"},
		"language":    {"english"},
		"query":       {"where is my <b>letter</b>"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "<script>") {
		t.Fatalf("markup must not survive sanitization: %s", body)
	}
	if !strings.Contains(body, "Connecting you to an adviser") {
		t.Fatalf("expected the chat page: %s", body)
	}
}

func TestWebchatPostWhileClosed(t *testing.T) {
	srv := newTestEnv(t, nil, nil, nil)
	pinClock(t, time.Date(2019, time.June, 16, 12, 0, 0, 0, time.UTC)) // Sunday
	rec := postWebchat(t, srv, url.Values{"language": {"english"}, "query": {"help"}})
	if !strings.Contains(rec.Body.String(), "Web Chat is closed") {
		t.Fatalf("expected the closed page: %s", rec.Body.String())
	}
}
