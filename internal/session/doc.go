// Package session issues and verifies the signed login token stored in the
// session cookie.
//
// A token is an HS256 JWT carrying the user id, the username and an expiry
// one TTL (24 hours by default) after issuance. There is no refresh: once the
// token expires the user logs in again.
//
//	codec, err := session.New(cfg)
//	token, err := codec.Issue(session.Identity{UserID: 1, Username: "alice"})
//	id := codec.Resolve(token) // session.Anonymous on any failure
package session
