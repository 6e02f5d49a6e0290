// Package handler defines the request handling contract shared by the router,
// middlewares and HTTP handlers of the blog.
//
// A handler never writes to the response directly. It returns a Response
// closure that the router executes once the whole middleware chain is done,
// so middlewares can wrap, replace or decorate what a handler produced.
package handler

import (
	"context"
	"net/http"
)

// Context is the per-request context passed to every handler.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	Param(key string) string
	SetValue(key, val any)
}

// Response renders the result of a handler.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc handles a request and returns the response to render.
type HandlerFunc[C Context] func(ctx C) Response

// ErrorHandler renders errors returned by a Response.
type ErrorHandler[C Context] func(ctx C, err error)

// Middleware wraps a HandlerFunc.
type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]
