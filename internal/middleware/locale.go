package middleware

import (
	"context"
	"net/http"
	"strings"

	"surveyhome.org/respondent-web/internal/i18n"
)

// Locale resolves the display region (en/cy/ni) for the request and stores
// it in the session. A ?lang= query switches region explicitly; otherwise
// the session value, then the Accept-Language header, decides.
func Locale(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ctxKeyLocaleFB, bundle.Fallback())
			r = r.WithContext(ctx)
			s := GetSession(r)
			if q := strings.ToLower(r.URL.Query().Get("lang")); i18n.ValidDisplayRegion(q) {
				s.Locale = q
				s.MarkDirty()
			} else if s.Locale == "" {
				s.Locale = bundle.Resolve(r.Header.Get("Accept-Language"))
				s.MarkDirty()
			}
			w.Header().Set("Content-Language", i18n.Language(s.Locale))
			next.ServeHTTP(w, r)
		})
	}
}

// Region returns the display region for the request (en/cy/ni).
func Region(r *http.Request) string {
	if s := GetSession(r); s != nil && s.Locale != "" {
		return s.Locale
	}
	if v := r.Context().Value(ctxKeyLocaleFB); v != nil {
		if fb, ok := v.(string); ok && fb != "" {
			return fb
		}
	}
	return "en"
}

// Lang returns the dictionary language for the request (en or cy).
func Lang(r *http.Request) string {
	return i18n.Language(Region(r))
}
