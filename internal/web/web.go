// Package web holds the server-rendered views.
package web

import (
	"embed"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
)

//go:embed templates
var templatesFS embed.FS

// Templates parses all views. imageURL maps a stored image name to its public URL.
func Templates(imageURL func(name string) string) (*template.Template, error) {
	funcs := template.FuncMap{
		"imageURL": func(name *string) string {
			if name == nil || *name == "" {
				return ""
			}
			return imageURL(*name)
		},
		"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
		"date":  func(t time.Time) string { return t.Format("2006-01-02") },
	}

	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.tmpl", "templates/products/*.tmpl")
}
