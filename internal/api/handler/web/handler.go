// Package web renders the HTML dashboard.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/tickerscope/internal/core"
	"github.com/newthinker/tickerscope/internal/dashboard"
)

//go:embed templates/*
var templateFS embed.FS

// pages lists the page templates rendered inside layout.html.
var pages = []string{"dashboard.html"}

var funcs = template.FuncMap{
	"hasWindow": func(windows []int, w int) bool { return slices.Contains(windows, w) },
	"price":     dashboard.Price,
	"volume":    dashboard.Volume,
	"amount":    func(v float64) string { return dashboard.Amount(v, 0) },
	"units":     func(v float64) string { return dashboard.Amount(v, 4) },
	"date":      func(t time.Time) string { return t.Format(core.DateLayout) },
}

// Handler provides web UI handlers with template rendering
type Handler struct {
	// pageTemplates holds separate template instances for each page
	// Each instance contains layout.html + the specific page template
	pageTemplates map[string]*template.Template
	service       *dashboard.Service
	logger        *zap.Logger
}

// NewHandler creates a new web handler over the embedded templates.
func NewHandler(service *dashboard.Service, logger *zap.Logger) (*Handler, error) {
	subFS, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("accessing embedded templates: %w", err)
	}
	return NewHandlerWithFS(subFS, service, logger)
}

// NewHandlerWithFS creates a new web handler using a custom filesystem.
func NewHandlerWithFS(fsys fs.FS, service *dashboard.Service, logger *zap.Logger) (*Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pageTemplates := make(map[string]*template.Template)

	for _, page := range pages {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(fsys, "layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		pageTemplates[page] = tmpl
	}

	return &Handler{pageTemplates: pageTemplates, service: service, logger: logger}, nil
}

// render executes the specified page template with the given data
func (h *Handler) render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := h.pageTemplates[page]
	if !ok {
		http.Error(w, "template not found: "+page, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		h.logger.Error("rendering template", zap.String("page", page), zap.Error(err))
	}
}

// TemplateFS returns the embedded template filesystem for external use.
func TemplateFS() fs.FS {
	subFS, err := fs.Sub(templateFS, "templates")
	if err != nil {
		// This should never happen with valid embed directive
		return templateFS
	}
	return subFS
}
