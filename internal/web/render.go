package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/dmitrymomot/blog/internal/blog"
	"github.com/dmitrymomot/blog/internal/handler"
	"github.com/dmitrymomot/blog/internal/response"
	"github.com/dmitrymomot/blog/internal/sanitizer"
	"github.com/dmitrymomot/blog/internal/session"
	"github.com/dmitrymomot/blog/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names, one per file under templates/.
const (
	pageHome       = "homepage"
	pageLogin      = "login"
	pageFeed       = "allposts"
	pageDashboard  = "dashboard"
	pagePost       = "single-post"
	pageCreatePost = "create-post"
	pageEditPost   = "edit-post"
	pageError      = "error"
)

var pages = []string{
	pageHome, pageLogin, pageFeed, pageDashboard,
	pagePost, pageCreatePost, pageEditPost, pageError,
}

// formValues echoes submitted fields back into a re-rendered form.
type formValues struct {
	Username string
	Title    string
	Body     string
}

// pageData is the model every template receives.
type pageData struct {
	Title  string
	User   session.Identity
	Errors []string
	Form   formValues

	Feed  []blog.FeedItem
	Posts []store.Post
	Post  store.Post
	View  blog.PostView

	Status  int
	Message string
}

var funcs = template.FuncMap{
	// text marks sanitized content as HTML. Stored text is already escaped,
	// StripMarkup runs again so nothing unsanitized reaches the page.
	"text": func(s string) template.HTML {
		return template.HTML(sanitizer.StripMarkup(s))
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("Jan 2, 2006")
	},
	"plural": func(n int, one, many string) string {
		if n == 1 {
			return one
		}
		return many
	},
}

// renderer holds one template set per page, each built from the layout
// plus the page's own "content" block.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	base, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		set, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := set.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = set
	}
	return r, nil
}

func (r *renderer) page(name string, data pageData) handler.Response {
	return r.pageWithStatus(name, data, http.StatusOK)
}

func (r *renderer) pageWithStatus(name string, data pageData, status int) handler.Response {
	set, ok := r.pages[name]
	if !ok {
		return response.Error(fmt.Errorf("web: unknown page %q", name))
	}
	return response.TemplateWithStatus(set, "layout", data, status)
}

func staticFiles() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}
