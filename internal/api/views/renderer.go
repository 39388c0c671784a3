// Package views renders the server-side HTML pages and serves their static
// assets. Templates and assets are embedded in the binary.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/todolist/internal/core/domain"
)

// Page names accepted by Renderer.Render.
const (
	PageList     = "list"
	PageLogin    = "login"
	PageRegister = "register"
	PageAbout    = "about"
	PageError    = "error"
)

var pages = []string{PageList, PageLogin, PageRegister, PageAbout, PageError}

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page is the data every template receives.
type Page struct {
	Title    string
	Username string
	Flash    string

	// List is set on the list page only.
	List *ListView

	// Status and Message are set on the error page only.
	Status  int
	Message string
}

// ListView is the list as the list page shows it.
type ListView struct {
	Title string
	Items []domain.Item
}

// Renderer implements echo.Renderer over the embedded templates. Each page is
// parsed together with the shared partials.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page template.
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"listPath": ListPath,
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/partials/*.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// MustNewRenderer is NewRenderer for program start-up.
func MustNewRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// Render satisfies echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, name+".html", data)
}

// StaticFS returns the embedded assets rooted at the static directory.
func StaticFS() fs.FS {
	return echo.MustSubFS(staticFS, "static")
}

// ListPath is the URL of the list owned by username.
func ListPath(username string) string {
	return "/lists/" + url.PathEscape(username)
}
