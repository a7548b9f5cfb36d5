package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"surveyhome.org/respondent-web/internal/journey"
)

const sessionCookieName = "RH_SESSION"

// FlashMessage is a one-shot inline panel shown on the next rendered page.
type FlashMessage struct {
	Text  string `json:"text"`
	Level string `json:"level"`
	Type  string `json:"type"`
	Field string `json:"field,omitempty"`
}

// SessionData is the per-browser state: locale, the in-progress access-code
// journey and pending flash messages.
type SessionData struct {
	ID        string         `json:"id"`
	Locale    string         `json:"locale,omitempty"`
	Journey   journey.State  `json:"journey,omitempty"`
	Flash     []FlashMessage `json:"flash,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	// internal dirty flag; not serialized
	dirty bool
}

// MarkDirty flags the session for persisting at end of request.
func (s *SessionData) MarkDirty() { s.dirty = true; s.UpdatedAt = time.Now().UTC() }

// AddFlash queues a message for the next page render.
func (s *SessionData) AddFlash(msg FlashMessage) {
	s.Flash = append(s.Flash, msg)
	s.MarkDirty()
}

// TakeFlash drains queued messages.
func (s *SessionData) TakeFlash() []FlashMessage {
	if len(s.Flash) == 0 {
		return nil
	}
	out := s.Flash
	s.Flash = nil
	s.MarkDirty()
	return out
}

// Store persists sessions between requests. The cookie store keeps the whole
// session in a signed cookie; the Redis store keeps only an id there.
type Store interface {
	Load(r *http.Request) (*SessionData, bool)
	Save(w http.ResponseWriter, r *http.Request, sd *SessionData)
}

// Session loads or initializes a session and stores it in request context.
// The session is persisted just before the first response byte when dirty.
func Session(store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sd, fromStore := store.Load(r)
			if sd.ID == "" {
				sd.ID = randID()
				sd.CreatedAt = time.Now().UTC()
				sd.UpdatedAt = sd.CreatedAt
				sd.dirty = true
			}
			ctx := context.WithValue(r.Context(), ctxKeySession, sd)
			rw := NewResponseRecorder(w)
			rw.SetBeforeWrite(func(w http.ResponseWriter) {
				if sd.dirty || !fromStore {
					store.Save(w, r, sd)
				}
			})
			next.ServeHTTP(rw, r.WithContext(ctx))
			// nothing written (e.g. HEAD): persist now
			if !rw.wrote && (sd.dirty || !fromStore) {
				store.Save(w, r, sd)
			}
		})
	}
}

// GetSession returns session data from context.
func GetSession(r *http.Request) *SessionData {
	if v := r.Context().Value(ctxKeySession); v != nil {
		if sd, ok := v.(*SessionData); ok {
			return sd
		}
	}
	return &SessionData{}
}

// CookieStore keeps the session JSON in an HMAC-SHA256 signed cookie,
// "payload.signature" with both parts base64url encoded.
type CookieStore struct {
	signKey []byte
	secure  bool
}

// NewCookieStore builds the default store. An empty key gets a process
// ephemeral one, fine for dev, useless for more than one replica.
func NewCookieStore(signKey string, secure bool) *CookieStore {
	key := []byte(signKey)
	if len(key) == 0 {
		key = make([]byte, 32)
		_, _ = rand.Read(key)
	}
	return &CookieStore{signKey: key, secure: secure}
}

func (cs *CookieStore) Load(r *http.Request) (*SessionData, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return &SessionData{}, false
	}
	parts := strings.Split(c.Value, ".")
	if len(parts) != 2 {
		return &SessionData{}, false
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return &SessionData{}, false
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return &SessionData{}, false
	}
	mac := hmac.New(sha256.New, cs.signKey)
	mac.Write(payload)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return &SessionData{}, false
	}
	var sd SessionData
	if err := json.Unmarshal(payload, &sd); err != nil {
		return &SessionData{}, false
	}
	return &sd, true
}

func (cs *CookieStore) Save(w http.ResponseWriter, r *http.Request, sd *SessionData) {
	b, _ := json.Marshal(sd)
	payload := base64.RawURLEncoding.EncodeToString(b)
	mac := hmac.New(sha256.New, cs.signKey)
	mac.Write(b)
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    payload + "." + sig,
		Path:     "/",
		HttpOnly: true,
		Secure:   cs.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(24 * time.Hour),
	})
}

func randID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
