// Package view renders the site's HTML pages from embedded templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/eximroyals/storefront/internal/domain"
	"github.com/eximroyals/storefront/pkg/logger"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const adminPrefix = "admin_"

// Page is what every template receives. Data carries the page's own view
// model.
type Page struct {
	Title string
	// Path is the request path, used to mark the active menu entry.
	Path string
	// Categories feeds the guest menus. The footer shows the first five.
	Categories []domain.Category
	// Admin is the signed-in admin's email on admin pages.
	Admin string
	// Notice is a blocking message shown above the content.
	Notice string
	Data   any
}

// FooterCategories returns the categories listed in the footer.
func (p Page) FooterCategories() []domain.Category {
	return domain.FirstCategories(p.Categories, 5)
}

// Renderer holds the parsed page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page under templates/pages against its layout. Pages
// named admin_* use the admin layout. mediaBase is the root that uploaded
// file names are resolved against.
func New(mediaBase string) (*Renderer, error) {
	funcs := template.FuncMap{
		"media": func(filename string) string {
			return domain.MediaURL(mediaBase, filename)
		},
		"isActive": func(current, prefix string) bool {
			if prefix == "/" {
				return current == "/"
			}
			return current == prefix || strings.HasPrefix(current, prefix+"/")
		},
		"excerpt": excerpt,
		"paragraphs": func(s string) []string {
			var out []string
			for _, p := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n") {
				if p = strings.TrimSpace(p); p != "" {
					out = append(out, p)
				}
			}
			return out
		},
	}

	pageFiles, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("list page templates: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pageFiles))}
	for _, file := range pageFiles {
		name := strings.TrimSuffix(path.Base(file), ".html")
		layout := "templates/layouts/guest.html"
		if strings.HasPrefix(name, adminPrefix) {
			layout = "templates/layouts/admin.html"
		}
		t, err := template.New(path.Base(layout)).Funcs(funcs).ParseFS(templateFS, layout, "templates/partials/*.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Render executes page name into a buffer and writes it with status. Nothing
// is written when execution fails.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, p Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page template %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// ErrorPage returns a handler that renders a bare error page with status. It
// is the last resort after a panic, so it never touches the API.
func (r *Renderer) ErrorPage(status int, message string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		p := Page{Title: http.StatusText(status), Path: req.URL.Path, Data: message}
		if err := r.Render(w, status, "error", p); err != nil {
			logger.FromContext(req.Context()).ErrorContext(req.Context(), "render error page", slog.String("error", err.Error()))
			http.Error(w, message, status)
		}
	})
}

// Static serves the embedded stylesheet and scripts.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

func excerpt(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}
