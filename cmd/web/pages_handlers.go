package main

import (
	"net/http"

	"surveyhome.org/respondent-web/internal/content"
)

// ContentPageHandler serves a markdown-sourced information page.
func ContentPageHandler(slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := content.Load(contentDir, slug)
		if err != nil {
			serverError(w, r, err)
			return
		}
		vm := basePage(r, "")
		if page.Title != "" {
			vm.Title = page.Title
		}
		vm.Content = page
		renderPage(w, r, http.StatusOK, "content-page", vm)
	}
}
