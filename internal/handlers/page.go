// Package handlers holds the shared page view model filled in by every
// request handler before rendering.
package handlers

import (
	"surveyhome.org/respondent-web/internal/middleware"
	"surveyhome.org/respondent-web/internal/nav"
)

// PageData is the layout view model common to all pages. Content carries the
// page-specific model.
type PageData struct {
	Title     string
	Lang      string // dictionary language: en or cy
	Region    string // display region: en, cy or ni
	Path      string
	Flash     []middleware.FlashMessage
	Nav       []nav.RenderedItem
	Analytics Analytics
	Content   any
}
