// Package view renders the intake form as server-side HTML.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"investogun/internal/application/models"
	"investogun/internal/reference"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Page is everything the form template needs for one render.
type Page struct {
	App    models.Application
	Status models.SubmissionStatus
	Ref    *reference.Data
	// Error is a one-line message for a rejected edit, shown above the form.
	Error string
}

type pageData struct {
	Page
	InvestorExisting string
	InvestorNew      string
}

type selectData struct {
	Name     string
	Prompt   string
	Options  []string
	Selected string
}

var funcs = template.FuncMap{
	"add1": func(i int) int { return i + 1 },
	"choice": func(name, prompt string, options []string, selected string) selectData {
		return selectData{Name: name, Prompt: prompt, Options: options, Selected: selected}
	},
	"bytes": formatBytes,
}

// Renderer executes the embedded form template.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.New("view").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Form renders the whole page into w. Output is buffered so a template
// failure never leaves a half-written response.
func (r *Renderer) Form(w io.Writer, page Page) error {
	var buf bytes.Buffer
	data := pageData{
		Page:             page,
		InvestorExisting: models.InvestorStatusExisting,
		InvestorNew:      models.InvestorStatusNew,
	}
	if err := r.tmpl.ExecuteTemplate(&buf, "form", data); err != nil {
		return fmt.Errorf("render form: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
