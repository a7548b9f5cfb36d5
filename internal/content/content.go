// Package content serves the markdown-sourced information pages (cookies
// and privacy, contact us). Files are rendered once, sanitized and cached.
package content

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Page is a rendered information page.
type Page struct {
	Slug  string
	Title string
	HTML  template.HTML
}

var (
	md = goldmark.New(goldmark.WithExtensions(extension.GFM))
	// UGC policy: markdown output only, no scripts or event handlers
	policy = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()

	mu    sync.RWMutex
	cache = map[string]Page{}
)

// Load renders content/<slug>.md. Results are cached for the process
// lifetime; content changes ship with a deploy.
func Load(dir, slug string) (Page, error) {
	mu.RLock()
	if p, ok := cache[slug]; ok {
		mu.RUnlock()
		return p, nil
	}
	mu.RUnlock()

	raw, err := os.ReadFile(filepath.Join(dir, slug+".md"))
	if err != nil {
		return Page{}, fmt.Errorf("content: read %s: %w", slug, err)
	}
	var buf bytes.Buffer
	if err := md.Convert(raw, &buf); err != nil {
		return Page{}, fmt.Errorf("content: render %s: %w", slug, err)
	}
	p := Page{
		Slug:  slug,
		Title: firstHeading(string(raw)),
		HTML:  template.HTML(policy.SanitizeBytes(buf.Bytes())),
	}
	mu.Lock()
	cache[slug] = p
	mu.Unlock()
	return p, nil
}

// SanitizeText strips all markup from free text a respondent typed, used
// before echoing webchat queries back into a page.
func SanitizeText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

func firstHeading(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
	}
	return ""
}
