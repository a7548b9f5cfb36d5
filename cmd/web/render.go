package main

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	handlersPkg "surveyhome.org/respondent-web/internal/handlers"
	mw "surveyhome.org/respondent-web/internal/middleware"
	"surveyhome.org/respondent-web/internal/nav"
)

var tmplCache *template.Template

func envSet(name string) bool { return os.Getenv(name) != "" }

func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"t": func(lang, key string) string {
			if i18nBundle == nil {
				return key
			}
			return i18nBundle.T(lang, key)
		},
	}
	// Recursively discover and parse all .tmpl files. ParseGlob doesn't support **.
	var files []string
	if err := filepath.WalkDir(templatesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", templatesDir)
	}
	return template.New("_root").Funcs(funcMap).ParseFiles(files...)
}

func templates() (*template.Template, error) {
	if devMode {
		return parseTemplates()
	}
	if tmplCache == nil {
		return nil, fmt.Errorf("templates not initialized")
	}
	return tmplCache, nil
}

// basePage fills the layout view model, draining any queued flash messages.
func basePage(r *http.Request, titleKey string) handlersPkg.PageData {
	lang := mw.Lang(r)
	sess := mw.GetSession(r)
	return handlersPkg.PageData{
		Title:     i18nOrDefault(lang, titleKey, "Start survey"),
		Lang:      lang,
		Region:    mw.Region(r),
		Path:      r.URL.Path,
		Flash:     sess.TakeFlash(),
		Nav:       nav.Build(r.URL.Path),
		Analytics: handlersPkg.LoadAnalyticsFromEnv(),
	}
}

// renderPage executes the named page template with an explicit status code.
func renderPage(w http.ResponseWriter, r *http.Request, status int, name string, vm handlersPkg.PageData) {
	t, err := templates()
	if err != nil {
		http.Error(w, fmt.Sprintf("template parse error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, name, vm); err != nil {
		logger.Error("template exec", zap.String("template", name), zap.Error(err))
	}
}

func i18nOrDefault(lang, key, fallback string) string {
	if i18nBundle == nil {
		return fallback
	}
	if v := i18nBundle.T(lang, key); v != key {
		return v
	}
	return fallback
}

// flash builds a one-shot message panel from a dictionary key.
func flash(r *http.Request, level, msgType, field, key string) mw.FlashMessage {
	return mw.FlashMessage{
		Text:  i18nBundle.T(mw.Lang(r), key),
		Level: level,
		Type:  msgType,
		Field: field,
	}
}

// serverError renders the generic something-went-wrong page.
func serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	renderPage(w, r, http.StatusInternalServerError, "error-500", basePage(r, "error.title"))
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusNotFound, "error-404", basePage(r, "notfound.title"))
}
