package session

import "errors"

var (
	ErrNoSecret       = errors.New("session: signing secret is empty")
	ErrNoToken        = errors.New("session: no token")
	ErrInvalidToken   = errors.New("session: invalid token")
	ErrExpiredToken   = errors.New("session: token expired")
	ErrAnonymousIssue = errors.New("session: cannot issue token for anonymous identity")
)
