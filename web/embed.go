// Package web holds the HTML shells served for the public site and the
// admin area. The shells fetch their data from the JSON API.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var TemplatesFS embed.FS

// Templates parses every page shell. Each page is addressed by its file name.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"year": currentYear,
	}).ParseFS(TemplatesFS, "templates/*.html")
}
