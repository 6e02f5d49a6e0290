// Package response builds handler.Response values for the blog's HTML
// endpoints: rendered templates, redirects, plain text and errors.
//
// A response is a func(http.ResponseWriter, *http.Request) error. Errors
// returned by a response are passed to the router's error handler, which
// usually turns them into an HTTPError via AsHTTPError.
//
//	r.Get("/login", func(ctx *web.Context) handler.Response {
//		return response.Template(pages, "login", data)
//	})
//
// Decorators such as WithCookie and WithCache wrap another response and
// adjust headers before it renders.
package response
