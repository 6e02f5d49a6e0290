package session

// Identity is the authenticated user behind a request.
// The zero value is Anonymous.
type Identity struct {
	UserID   int64
	Username string
}

// Anonymous is the identity of a request without a valid session.
var Anonymous = Identity{}

// IsAuthenticated reports whether the identity belongs to a logged-in user.
func (i Identity) IsAuthenticated() bool {
	return i.UserID > 0
}
