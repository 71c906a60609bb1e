package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page template names
const (
	pageHome   = "home"
	pageShop   = "shop"
	pageSearch = "search"
)

// Renderer renders storefront pages inside the shared layout
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the layout and every page template from fsys
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, page := range []string{pageHome, pageShop, pageSearch} {
		tmpl, err := template.ParseFS(fsys, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// DefaultRenderer uses the templates embedded in the binary
func DefaultRenderer() (*Renderer, error) {
	return NewRenderer(templateFS)
}

// Render writes page or a 500 when the template fails. Output is buffered so
// a failing template never sends a partial page.
func (r *Renderer) Render(w http.ResponseWriter, page string, data PageData) {
	tmpl, ok := r.pages[page]
	if !ok {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
