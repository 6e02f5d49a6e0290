package blog

import "errors"

var (
	ErrUnauthenticated    = errors.New("blog: authentication required")
	ErrForbidden          = errors.New("blog: caller is not the author")
	ErrNotFound           = errors.New("blog: post not found")
	ErrInvalidCredentials = errors.New("blog: invalid username or password")
)

// IsRedirectHome reports whether err is one of the outcomes shown to the
// user as a plain redirect to the home page.
func IsRedirectHome(err error) bool {
	return errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrNotFound)
}
