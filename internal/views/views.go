// Package views renders the HTML pages.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/vaughan-dsouza/quill/internal/models"
)

//go:embed templates
var files embed.FS

// Page names.
const (
	Register = "auth/register.html"
	Login    = "auth/login.html"
	Index    = "blog/index.html"
	Create   = "blog/create.html"
	Update   = "blog/update.html"
)

// Form echoes submitted values back into a re-rendered form.
type Form struct {
	Username string
	Title    string
	Body     string
}

// Page is the data every template receives.
type Page struct {
	User    *models.User
	Flashes []string
	Form    Form
	Post    models.Post
	Posts   []models.Post
}

type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{Register, Login, Index, Create, Update} {
		t, err := template.New(name).ParseFS(files, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("views: parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes a page into a buffer first so that a template error
// never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, p Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("views: unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", p); err != nil {
		return fmt.Errorf("views: render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
