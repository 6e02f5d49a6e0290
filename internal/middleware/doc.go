// Package middleware holds the handler.Middleware implementations of the blog.
//
// Every middleware follows the same shape: a constructor with defaults and a
// WithConfig variant taking a Config struct whose Skip function bypasses the
// middleware for selected requests.
//
//	r := router.New[*web.Context](
//		router.WithMiddleware(
//			middleware.RequestID[*web.Context](),
//			middleware.ClientIP[*web.Context](),
//			middleware.Logging[*web.Context](log),
//			middleware.SecurityHeaders[*web.Context](),
//			middleware.Identity[*web.Context](cookies, codec),
//		),
//	)
//	r.With(middleware.RequireAuth[*web.Context]()).Get("/dashboard", dashboard)
//
// Values stored by a middleware are read back with the matching Get function
// (GetRequestID, GetClientIP, GetIdentity). Those accept any context.Context,
// which lets the logger extract them as record attributes.
package middleware
