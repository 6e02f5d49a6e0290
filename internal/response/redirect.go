package response

import (
	"net/http"

	"github.com/dmitrymomot/blog/internal/handler"
)

// Redirect creates a 302 Found response.
func Redirect(url string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		http.Redirect(w, r, url, http.StatusFound)
		return nil
	}
}

// RedirectSeeOther creates a 303 See Other response.
// Form submissions use it so the browser follows up with a GET.
func RedirectSeeOther(url string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		http.Redirect(w, r, url, http.StatusSeeOther)
		return nil
	}
}
