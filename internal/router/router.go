// Package router provides a generic HTTP router for handler.HandlerFunc
// endpoints. Routing is delegated to net/http.ServeMux method and wildcard
// patterns ("GET /post/{id}"); the router adds typed request contexts,
// middleware groups, panic recovery and a single error handler on top.
package router

import (
	"net/http"

	"github.com/dmitrymomot/blog/internal/handler"
)

// Router registers endpoints and serves them.
type Router[C handler.Context] interface {
	http.Handler

	Get(pattern string, h handler.HandlerFunc[C])
	Post(pattern string, h handler.HandlerFunc[C])
	Method(method, pattern string, h handler.HandlerFunc[C])

	// Mount registers a plain http.Handler (static files, metrics) under
	// a ServeMux pattern. Router middlewares are not applied to it.
	Mount(pattern string, h http.Handler)

	Use(middlewares ...handler.Middleware[C])
	With(middlewares ...handler.Middleware[C]) Router[C]
	Group(fn func(r Router[C])) Router[C]

	Routes() []Route
}

// Route describes a registered endpoint.
type Route struct {
	Method  string
	Pattern string
}

// New creates a router. Without WithContextFactory the router only works
// with *Context.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux(opts...)
}
