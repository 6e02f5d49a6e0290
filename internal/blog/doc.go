// Package blog holds the application rules: registration and login,
// post authoring with ownership checks, comments and likes.
//
// Every outcome that the web layer turns into a silent redirect is a typed
// error (ErrUnauthenticated, ErrForbidden, ErrNotFound) so callers and tests
// can tell the reasons apart. Rejected input comes back as
// validator.ValidationErrors carrying every message at once.
package blog
