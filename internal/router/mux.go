package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"

	"github.com/dmitrymomot/blog/internal/handler"
)

var allowedMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodOptions: {},
}

type mux[C handler.Context] struct {
	root         *mux[C]
	parent       *mux[C] // for inline groups
	inline       bool
	serveMux     *http.ServeMux
	routes       []Route
	hasRoutes    bool
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request) C
	logger       *slog.Logger
}

func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		serveMux:     http.NewServeMux(),
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	m.root = m

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request) C {
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(NewContext(w, r)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	// Anything no pattern claims ends up in the error handler.
	notFound := func(C) handler.Response {
		return func(http.ResponseWriter, *http.Request) error {
			return ErrNotFound
		}
	}
	m.serveMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		m.serve(w, r, notFound)
	})

	return m
}

func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.root.serveMux.ServeHTTP(newResponseWriter(w), r)
}

func (m *mux[C]) serve(w http.ResponseWriter, r *http.Request, fn handler.HandlerFunc[C]) {
	ww, ok := w.(*responseWriter)
	if !ok {
		ww = newResponseWriter(w)
	}

	ctx := m.newContext(ww, r)

	defer func() {
		if p := recover(); p != nil {
			panicErr := &panicError{
				value: p,
				stack: debug.Stack(),
			}

			if ww.Written() {
				m.logger.Error("panic after response written",
					"value", panicErr.value,
					"stack", string(panicErr.stack),
					"path", r.URL.Path,
					"method", r.Method,
					"status", ww.Status(),
				)
				return
			}
			m.errorHandler(ctx, panicErr)
		}
	}()

	if len(m.middlewares) > 0 {
		fn = chain(m.middlewares, fn)
	}

	response := fn(ctx)
	if response == nil {
		m.errorHandler(ctx, ErrNilResponse)
		return
	}

	if err := response(ww, ctx.Request()); err != nil {
		m.errorHandler(ctx, err)
	}
}

func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodGet, pattern, h)
}

func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPost, pattern, h)
}

func (m *mux[C]) Method(method, pattern string, h handler.HandlerFunc[C]) {
	m.handle(method, pattern, h)
}

func (m *mux[C]) Mount(pattern string, h http.Handler) {
	if h == nil {
		panic(fmt.Errorf("%w: nil handler on '%s'", ErrInvalidPattern, pattern))
	}
	m.root.serveMux.Handle(pattern, h)
	m.root.routes = append(m.root.routes, Route{Method: "*", Pattern: pattern})
}

func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if !m.inline && m.hasRoutes {
		panic("router: all middlewares must be defined before routes on a mux")
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	return &mux[C]{
		root:         m.root,
		parent:       m,
		inline:       true,
		serveMux:     m.root.serveMux,
		middlewares:  middlewares,
		errorHandler: m.root.errorHandler,
		newContext:   m.root.newContext,
		logger:       m.root.logger,
	}
}

func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	im := m.With()
	if fn != nil {
		fn(im)
	}
	return im
}

func (m *mux[C]) Routes() []Route {
	return slices.Clone(m.root.routes)
}

func (m *mux[C]) handle(method, pattern string, fn handler.HandlerFunc[C]) {
	if len(pattern) == 0 || pattern[0] != '/' {
		panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern))
	}
	if _, ok := allowedMethods[method]; !ok {
		panic(fmt.Errorf("%w: %s", ErrInvalidMethod, method))
	}

	root := m.root
	root.hasRoutes = true

	// Inline groups bake their middlewares into the endpoint; the root
	// middlewares are applied in serve.
	var groupMiddlewares []handler.Middleware[C]
	for curr := m; curr != nil && curr.inline; curr = curr.parent {
		groupMiddlewares = slices.Concat(curr.middlewares, groupMiddlewares)
	}

	h := fn
	if len(groupMiddlewares) > 0 {
		h = chain(groupMiddlewares, fn)
	}

	// "/" is an exact match, as every other pattern without a trailing slash.
	muxPattern := pattern
	if pattern == "/" {
		muxPattern = "/{$}"
	}

	root.serveMux.HandleFunc(method+" "+muxPattern, func(w http.ResponseWriter, r *http.Request) {
		root.serve(w, r, h)
	})
	root.routes = append(root.routes, Route{Method: method, Pattern: pattern})
}

// chain builds a single handler from a middleware stack and endpoint.
func chain[C handler.Context](middlewares []handler.Middleware[C], endpoint handler.HandlerFunc[C]) handler.HandlerFunc[C] {
	h := endpoint

	// Wrap in reverse order so the first middleware runs first.
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}

	return h
}
