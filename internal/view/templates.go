// Package view renders the users page.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"userdesk/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// PageUsers is the name of the users page template.
const PageUsers = "users"

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// PageData is the value passed to page templates.
type PageData struct {
	Title string
	State model.ViewState
}

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"pathEscape": url.PathEscape,
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template into w.
func (e *Engine) Render(w io.Writer, name string, data PageData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	return e.templates.ExecuteTemplate(w, name, data)
}

// RenderBytes is Render into a fresh buffer, so a failed render never leaves a partial page.
func (e *Engine) RenderBytes(name string, data PageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Render(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
