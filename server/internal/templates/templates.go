// Package templates embeds the page templates.
package templates

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed html/*.html
var files embed.FS

func Parse(funcs template.FuncMap) (*template.Template, error) {
	tmpl, err := template.New("pages").Funcs(funcs).ParseFS(files, "html/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}
