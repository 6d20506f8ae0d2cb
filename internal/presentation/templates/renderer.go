// Package templates renders the server-side HTML pages and fragments
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
	"github.com/Faseeh100/orphancare-web/internal/presentation/site"
)

//go:embed views
var views embed.FS

//go:embed static
var static embed.FS

// Static returns the stylesheets served under /static
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Page is the data every full page is executed with
type Page struct {
	Title string
	Path  string
	Site  *site.Site
	Flash string
	// Admin is set on console pages
	Admin *content.AdminUser
	Data  any
}

// Renderer holds one parsed template set per page. Each set carries the
// shared layouts and partials, so fragments render from any of them.
type Renderer struct {
	pages map[string]*template.Template
	base  *template.Template
}

// New parses every view. assetOrigin prefixes relative upload paths.
func New(assetOrigin string) (*Renderer, error) {
	base, err := template.New("base").Funcs(funcMap(assetOrigin)).ParseFS(views, "views/layouts/*.html", "views/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layouts: %w", err)
	}

	files, err := fs.Glob(views, "views/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files)), base: base}
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layouts for %s: %w", name, err)
		}
		if _, err := t.ParseFS(views, file); err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Page renders a full page. Pages define "content" and pick their layout
// through the "layout" template they define.
func (r *Renderer) Page(w io.Writer, name string, page Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return execute(w, t, "page", page)
}

// Fragment renders one partial, such as a list body for an htmx swap
func (r *Renderer) Fragment(w io.Writer, name string, data any) error {
	if r.base.Lookup(name) == nil {
		return fmt.Errorf("unknown fragment %q", name)
	}
	return execute(w, r.base, name, data)
}

// Has reports whether a page exists
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// execute buffers so a failing template never sends half a page
func execute(w io.Writer, t *template.Template, name string, data any) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
