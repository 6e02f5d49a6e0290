package web

import (
	"net/http"

	"github.com/dmitrymomot/blog/internal/middleware"
	"github.com/dmitrymomot/blog/internal/router"
	"github.com/dmitrymomot/blog/internal/session"
)

// Context is the request context of every blog handler.
type Context struct {
	*router.Context
}

// NewContext is the router context factory.
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{Context: router.NewContext(w, r)}
}

// Identity returns the caller resolved from the session cookie.
func (c *Context) Identity() session.Identity {
	return middleware.GetIdentity(c)
}
