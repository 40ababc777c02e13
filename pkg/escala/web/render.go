package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"slices"

	"github.com/gorilla/csrf"
)

//go:embed templates/*.html
var templateFS embed.FS

// page carries the fields every template reads from the layout.
type page struct {
	AppTitle  string
	PageTitle string
	Identity  string
	CanEdit   bool
	CSRFField template.HTML
	Error     string
	Notice    string
}

var funcs = template.FuncMap{
	"has":  func(list []string, s string) bool { return slices.Contains(list, s) },
	"cell": cellField,
}

func parsePages() (map[string]*template.Template, error) {
	pages := map[string]*template.Template{}
	for _, name := range []string{"login.html", "dashboard.html", "edit.html"} {
		tpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tpl
	}
	return pages, nil
}

func (s *Server) page(r *http.Request, title string) page {
	p := page{
		AppTitle:  s.cfg.Title,
		PageTitle: title,
		CSRFField: csrf.TemplateField(r),
	}
	if u, ok := currentUser(r); ok {
		p.Identity = u.Identity
		p.CanEdit = u.User.CanEdit()
	}
	return p
}

// render executes a page into a buffer first so a template failure never
// leaves a half-written response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	tpl, ok := s.pages[name]
	if !ok {
		s.internalError(w, fmt.Errorf("unknown template %s", name))
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		s.internalError(w, fmt.Errorf("render %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
