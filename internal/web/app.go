// Package web is the HTTP surface of the blog: routes, page rendering and
// the mapping of blog outcomes to renders and redirects.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/blog/internal/blog"
	"github.com/dmitrymomot/blog/internal/cookie"
	"github.com/dmitrymomot/blog/internal/handler"
	"github.com/dmitrymomot/blog/internal/health"
	"github.com/dmitrymomot/blog/internal/logger"
	"github.com/dmitrymomot/blog/internal/metrics"
	"github.com/dmitrymomot/blog/internal/middleware"
	"github.com/dmitrymomot/blog/internal/router"
	"github.com/dmitrymomot/blog/internal/session"
)

// Limiter throttles authentication attempts per client IP. A successful
// login resets the caller's counter.
type Limiter interface {
	middleware.RateLimiter
	Reset(ctx context.Context, key string) error
}

// Options are the dependencies of the web application.
type Options struct {
	Service  *blog.Service
	Cookies  *cookie.Manager
	Sessions *session.Codec
	// Limiter throttles POST /login and POST /register. Nil disables it.
	Limiter Limiter
	// Metrics enables the metrics middleware and GET /metrics when set.
	Metrics *metrics.Metrics
	Logger  *slog.Logger
	// Checks back GET /ready.
	Checks            []health.Check
	TrustProxyHeaders bool
	Development       bool
}

// App serves the blog.
type App struct {
	svc      *blog.Service
	cookies  *cookie.Manager
	sessions *session.Codec
	limiter  Limiter
	log      *slog.Logger
	render   *renderer
	router   router.Router[*Context]
}

// New validates the dependencies, parses the templates and builds the routes.
func New(opts Options) (*App, error) {
	if opts.Service == nil || opts.Cookies == nil || opts.Sessions == nil {
		return nil, errors.New("web: service, cookies and sessions are required")
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	render, err := newRenderer()
	if err != nil {
		return nil, err
	}

	a := &App{
		svc:      opts.Service,
		cookies:  opts.Cookies,
		sessions: opts.Sessions,
		limiter:  opts.Limiter,
		log:      opts.Logger.With(logger.Component("web")),
		render:   render,
	}
	a.router = a.routes(opts)
	return a, nil
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Routes lists the registered endpoints.
func (a *App) Routes() []router.Route {
	return a.router.Routes()
}

func (a *App) routes(opts Options) router.Router[*Context] {
	security := middleware.DefaultSecurity
	if opts.Development {
		security = middleware.DevelopmentSecurity
	}

	global := []handler.Middleware[*Context]{
		middleware.RequestID[*Context](),
		middleware.ClientIPWithConfig[*Context](middleware.ClientIPConfig{TrustProxyHeaders: opts.TrustProxyHeaders}),
		middleware.Logging[*Context](opts.Logger),
	}
	if opts.Metrics != nil {
		global = append(global, middleware.Metrics[*Context](opts.Metrics))
	}
	global = append(global,
		middleware.SecurityHeadersWithConfig[*Context](security),
		middleware.IdentityWithConfig[*Context](middleware.IdentityConfig{
			Cookies:  a.cookies,
			Verifier: a.sessions,
			Logger:   opts.Logger,
		}),
	)

	r := router.New[*Context](
		router.WithContextFactory(NewContext),
		router.WithErrorHandler(a.handleError),
		router.WithLogger[*Context](opts.Logger),
		router.WithMiddleware(global...),
	)

	r.Mount("GET /static/", staticFiles())
	if opts.Metrics != nil {
		r.Mount("GET /metrics", opts.Metrics.Handler())
	}
	r.Get("/live", health.Liveness[*Context])
	r.Get("/ready", health.Readiness[*Context](opts.Logger, opts.Checks...))

	r.Get("/", a.home)
	r.Get("/login", a.loginPage)
	r.Get("/logout", a.logout)

	auth := r.With()
	if opts.Limiter != nil {
		auth = r.With(middleware.RateLimitWithConfig[*Context](middleware.RateLimitConfig{
			Limiter:    opts.Limiter,
			SetHeaders: true,
			OnLimited: func(ctx handler.Context) {
				if opts.Metrics != nil {
					opts.Metrics.RateLimited(ctx.Request().Pattern)
				}
				a.log.WarnContext(ctx, "too many attempts",
					logger.Event("rate_limited"),
					logger.Path(ctx.Request().URL.Path),
				)
			},
		}))
	}
	auth.Post("/login", a.login)
	auth.Post("/register", a.register)

	r.Group(func(r router.Router[*Context]) {
		r.Use(middleware.RequireAuth[*Context](), middleware.NoStore[*Context]())

		r.Get("/dashboard", a.dashboard)
		r.Get("/post/{id}", a.viewPost)
		r.Get("/create-post", a.createPostPage)
		r.Post("/create-post", a.createPost)
		r.Get("/edit-post/{id}", a.editPostPage)
		r.Post("/edit-post/{id}", a.editPost)
		r.Post("/delete-post/{id}", a.deletePost)
		r.Post("/add-comment", a.addComment)
		r.Post("/like-post/{id}", a.likePost)
	})

	return r
}
