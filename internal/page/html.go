package page

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"sync"

	"scorecard/internal/config"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var (
	tmplOnce sync.Once
	tmpl     *template.Template
)

func templates() *template.Template {
	tmplOnce.Do(func() {
		tmpl = template.Must(template.ParseFS(templateFS, "templates/*.html.tmpl"))
	})
	return tmpl
}

// WriteHTML renders the self-contained scorecard page.
func WriteHTML(w io.Writer, v View) error {
	if err := templates().ExecuteTemplate(w, "scorecard.html.tmpl", v); err != nil {
		return fmt.Errorf("failed to render scorecard page: %w", err)
	}
	return nil
}

// WriteIndex renders the list of available scorecards.
func WriteIndex(w io.Writer, cards []config.Scorecard) error {
	if err := templates().ExecuteTemplate(w, "index.html.tmpl", cards); err != nil {
		return fmt.Errorf("failed to render index page: %w", err)
	}
	return nil
}
