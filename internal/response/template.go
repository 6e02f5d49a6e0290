package response

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/dmitrymomot/blog/internal/handler"
)

// ErrNilTemplate is returned when a template response has nothing to render.
var ErrNilTemplate = errors.New("template is nil")

// Template renders the named template from a template set with 200 OK.
// An empty name executes the set itself.
func Template(tmpl *template.Template, name string, data any) handler.Response {
	return TemplateWithStatus(tmpl, name, data, http.StatusOK)
}

// TemplateWithStatus renders the named template with a custom status code.
// Output is buffered, so a failing template writes nothing and its error
// reaches the error handler with the response still untouched.
func TemplateWithStatus(tmpl *template.Template, name string, data any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if tmpl == nil {
			return ErrNilTemplate
		}

		var buf bytes.Buffer
		var err error
		if name != "" {
			err = tmpl.ExecuteTemplate(&buf, name, data)
		} else {
			err = tmpl.Execute(&buf, data)
		}
		if err != nil {
			return err
		}

		if status == 0 {
			status = http.StatusOK
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, err = w.Write(buf.Bytes())
		return err
	}
}
