package web

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/mamadbah2/cacao/internal/service/dashboard"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded HTML pages.
func Templates() (*template.Template, error) {
	funcs := template.FuncMap{
		"tonnes": dashboard.FormatTonnes,
		"pct":    func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
		"num":    func(v float64) string { return fmt.Sprintf("%.3f", v) },
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
