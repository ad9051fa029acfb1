package web

import (
	"fmt"
	"html/template"

	"github.com/Sternrassler/pokedex-browser/pkg/catalog"
	"github.com/Sternrassler/pokedex-browser/pkg/detail"
	"github.com/Sternrassler/pokedex-browser/pkg/notify"
	"github.com/Sternrassler/pokedex-browser/pkg/pagination"
)

// controlLink pairs a pagination control with the active search query.
type controlLink struct {
	Query   string
	Control pagination.Control
}

// detailPage is the detail template data.
type detailPage struct {
	View   detail.View
	Toasts []notify.Toast
}

// parsePages builds one template set per page, each with the shared layout.
func parsePages(spriteURL string) (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"sprite": func(id string) string {
			return catalog.SpriteURL(spriteURL, id)
		},
		"pageURL": func(query string, page int) string {
			if query == "" {
				return fmt.Sprintf("/?page=%d", page)
			}
			return fmt.Sprintf("/?q=%s&page=%d", template.URLQueryEscaper(query), page)
		},
		"ctl": func(query string, c pagination.Control) controlLink {
			return controlLink{Query: query, Control: c}
		},
		"capitalize": catalog.Capitalize,
		// CSS colours come from fixed tables, never from user input.
		"css": func(s string) template.CSS { return template.CSS(s) },
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{"list", "detail"} {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}
