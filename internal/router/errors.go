package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/blog/internal/handler"
)

var (
	ErrNoContextFactory = errors.New("no context factory provided")
	ErrNotFound         = &statusError{msg: "not found", status: http.StatusNotFound}
	ErrNilResponse      = errors.New("nil response")
	ErrInvalidMethod    = errors.New("invalid http method")
	ErrInvalidPattern   = errors.New("invalid route path pattern")
)

// statusError is a sentinel carrying the status it is rendered with.
type statusError struct {
	msg    string
	status int
}

func (e *statusError) Error() string {
	return e.msg
}

func (e *statusError) StatusCode() int {
	return e.status
}

type statusCode interface {
	StatusCode() int
}

func defaultErrorHandler[C handler.Context](ctx C, err error) {
	w := ctx.ResponseWriter()

	if ww, ok := w.(*responseWriter); ok && ww.Written() {
		return
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	http.Error(w, err.Error(), status)
}

// PanicError is passed to the error handler when a handler panics.
type PanicError interface {
	error
	Value() any
	Stack() []byte
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (e *panicError) Value() any {
	return e.value
}

func (e *panicError) Stack() []byte {
	return e.stack
}

func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
