package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieStoreRoundTrip(t *testing.T) {
	store := NewCookieStore("test-signing-key", false)
	mw := Session(store)

	var captured *SessionData
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sd := GetSession(r)
		sd.Journey.Postcode = "EX2 6GA"
		sd.MarkDirty()
		captured = sd
		w.WriteHeader(http.StatusOK)
	}))

	// first request creates a session and sets the cookie
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotNil(t, captured)
	require.NotEmpty(t, captured.ID)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// second request with the cookie sees the same state
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	var second *SessionData
	h2 := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		second = GetSession(r)
		w.WriteHeader(http.StatusOK)
	}))
	h2.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, second)
	assert.Equal(t, captured.ID, second.ID)
	assert.Equal(t, "EX2 6GA", second.Journey.Postcode)
}

func TestCookieStoreRejectsTamperedCookie(t *testing.T) {
	store := NewCookieStore("test-signing-key", false)
	rec := httptest.NewRecorder()
	store.Save(rec, httptest.NewRequest(http.MethodGet, "/", nil), &SessionData{ID: "sess-1"})
	cookie := rec.Result().Cookies()[0]
	cookie.Value = "x" + cookie.Value

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	_, ok := store.Load(req)
	assert.False(t, ok)
}

func TestFlashIsOneShot(t *testing.T) {
	sd := &SessionData{}
	sd.AddFlash(FlashMessage{Text: "Enter a postcode", Level: "ERROR", Type: "TEXT", Field: "postcode"})
	msgs := sd.TakeFlash()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Enter a postcode", msgs[0].Text)
	assert.Empty(t, sd.TakeFlash())
}
