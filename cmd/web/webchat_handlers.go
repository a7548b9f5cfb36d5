package main

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"surveyhome.org/respondent-web/internal/content"
	mw "surveyhome.org/respondent-web/internal/middleware"
	"surveyhome.org/respondent-web/internal/webchat"
)

type webchatView struct {
	ScreenName string
	Language   string
	Query      string
}

// WebchatHandler renders the webchat form when advisers are available and
// the opening-hours page otherwise.
func WebchatHandler(w http.ResponseWriter, r *http.Request) {
	if err := webchat.CheckOpen(nowFn()); err != nil {
		if errors.Is(err, webchat.ErrClosed) {
			renderPage(w, r, http.StatusOK, "webchat-closed", basePage(r, "webchat.closed.title"))
			return
		}
		serverError(w, r, err)
		return
	}
	renderPage(w, r, http.StatusOK, "webchat", basePage(r, "webchat.title"))
}

// WebchatPostHandler validates the pre-chat form and opens the chat page.
// The respondent's free text is sanitized before it is echoed anywhere.
func WebchatPostHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	if err := webchat.CheckOpen(nowFn()); err != nil {
		renderPage(w, r, http.StatusOK, "webchat-closed", basePage(r, "webchat.closed.title"))
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	query := r.Form.Get("query")
	language := r.Form.Get("language")
	if query == "" {
		logger.Warn("form submission error", zap.String("field", "query"))
		sess.AddFlash(flash(r, "ERROR", "MISSING_QUERY", "query", "webchat.error.query"))
		renderPage(w, r, http.StatusOK, "webchat", basePage(r, "webchat.title"))
		return
	}
	if language == "" {
		logger.Warn("form submission error", zap.String("field", "language"))
		sess.AddFlash(flash(r, "ERROR", "MISSING_LANGUAGE", "language", "webchat.error.language"))
		renderPage(w, r, http.StatusOK, "webchat", basePage(r, "webchat.title"))
		return
	}

	vm := basePage(r, "webchat.title")
	vm.Content = webchatView{
		ScreenName: content.SanitizeText(r.Form.Get("screen_name")),
		Language:   content.SanitizeText(language),
		Query:      content.SanitizeText(query),
	}
	renderPage(w, r, http.StatusOK, "webchat-chat", vm)
}
