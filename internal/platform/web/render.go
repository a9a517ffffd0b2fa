// Package web renders the server-side dashboard pages.
package web

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
	"time"

	"github.com/gorilla/csrf"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "layout.html"

// Viewer is the signed-in user shown in the navigation bar.
type Viewer struct {
	UserID    string
	Name      string
	Email     string
	Role      string
	SeksiName string
}

func (v *Viewer) IsFacilityHead() bool {
	return v != nil && strings.EqualFold(v.Role, "kepala_rutan")
}

func (v *Viewer) IsSectionHead() bool {
	return v != nil && strings.EqualFold(v.Role, "kepala_seksi")
}

// Page is the data every template receives.
type Page struct {
	Title     string
	Active    string
	Viewer    *Viewer
	CSRFField template.HTML
	Flash     string
	Error     string
	Data      any
}

type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

func NewRenderer(location *time.Location, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	funcs := FuncMap(location)
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		base := path.Base(name)
		if base == layoutFile {
			continue
		}
		tpl, err := template.New(layoutFile).Funcs(funcs).ParseFS(templateFS, "templates/"+layoutFile, name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", base, err)
		}
		pages[base] = tpl
	}
	return &Renderer{pages: pages, logger: logger}, nil
}

// Render writes the named page. The CSRF field is filled from the request
// when the csrf middleware ran.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, name string, page Page) {
	tpl, ok := r.pages[name]
	if !ok {
		r.logger.Error("unknown template",
			"event", "web_template_missing",
			"module", "internal/platform/web",
			"layer", "platform",
			"template", name,
		)
		http.Error(w, "Terjadi kesalahan sistem.", http.StatusInternalServerError)
		return
	}
	page.CSRFField = csrf.TemplateField(req)

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, page); err != nil {
		r.logger.Error("template render failed",
			"event", "web_template_render_failed",
			"module", "internal/platform/web",
			"layer", "platform",
			"template", name,
			"error", err.Error(),
		)
		http.Error(w, "Terjadi kesalahan sistem.", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
