package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
)

//go:embed static templates
var content embed.FS

// StaticFS returns the embedded stylesheet directory.
func StaticFS() fs.FS {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(fmt.Sprintf("static sub-filesystem: %v", err))
	}
	return sub
}

// parseTemplates parses the layout together with the wishlist page.
func parseTemplates() (*template.Template, error) {
	t, err := template.ParseFS(content, "templates/layout.html", "templates/wishlist.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}
