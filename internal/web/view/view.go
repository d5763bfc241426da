// Package view renders the HTML pages. Presentation is deliberately thin:
// every page is a form or a list over upstream data, with no state of its
// own.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eventtogether/webapp/internal/core/domain"
	"github.com/eventtogether/webapp/internal/core/rbac"
)

//go:embed templates/*.html
var files embed.FS

// Page is the data envelope every template receives.
type Page struct {
	Title   string
	Session domain.Session
	Flash   string
	// Error is a page-level failure message (upstream detail or generic
	// fallback).
	Error string
	// Fields maps a form field name to its inline validation message.
	Fields map[string]string
	// Form holds submitted values for repopulating a rejected form.
	Form map[string]string
	Data any
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	templates *template.Template
}

func New() (*Renderer, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"can": func(role domain.Role, perm string) bool {
			return rbac.HasPermission(role, rbac.Permission(perm))
		},
		"fmtdate": func(t time.Time) string {
			return t.Format("Mon, 2 Jan 2006 15:04")
		},
		"fmtprice": func(p float64) string {
			if p == 0 {
				return "Free"
			}
			return fmt.Sprintf("%.2f", p)
		},
	}).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("view: parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
