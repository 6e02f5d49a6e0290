package middleware

import (
	"errors"
	"net/http"
)

type statusCoder interface {
	StatusCode() int
}

// statusOf returns the HTTP status an error will be rendered with.
func statusOf(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}
