package blog

import (
	"slices"

	"github.com/dmitrymomot/blog/internal/sanitizer"
	"github.com/dmitrymomot/blog/internal/validator"
)

// User-facing validation messages.
const (
	MsgTitleRequired      = "You must provide a title."
	MsgContentRequired    = "You must provide content."
	MsgCommentRequired    = "You must provide a comment."
	MsgUsernameRequired   = "You must provide a username."
	MsgUsernameTooShort   = "Your username must have at least 3 characters."
	MsgUsernameTooLong    = "Your username can have max 10 characters."
	MsgUsernameCharset    = "Username can only contain letters and numbers."
	MsgUsernameTaken      = "Username is already taken."
	MsgPasswordRequired   = "You must provide a password."
	MsgPasswordTooShort   = "Your password must have at least 6 characters."
	MsgPasswordTooLong    = "Your password can have max 20 characters."
	MsgInvalidCredentials = "Invalid username/password."
)

const (
	usernameMinLen = 3
	usernameMaxLen = 10
	passwordMinLen = 6
	passwordMaxLen = 20
)

// PostInput is the submitted post form.
type PostInput struct {
	Title string `sanitize:"text"`
	Body  string `sanitize:"text"`
}

// CommentInput is the submitted comment form.
type CommentInput struct {
	PostID int64
	Body   string `sanitize:"text"`
}

// Credentials is the submitted login or registration form.
type Credentials struct {
	Username string `sanitize:"trim"`
	Password string
}

// cleanPost strips markup from the post fields and checks both are present.
func cleanPost(in PostInput) (PostInput, error) {
	if err := sanitizer.SanitizeStruct(&in); err != nil {
		return in, err
	}
	return in, validator.Apply(
		validator.Required("title", in.Title).WithMessage(MsgTitleRequired),
		validator.Required("body", in.Body).WithMessage(MsgContentRequired),
	)
}

func cleanComment(in CommentInput) (CommentInput, error) {
	if err := sanitizer.SanitizeStruct(&in); err != nil {
		return in, err
	}
	return in, validator.Apply(
		validator.Required("body", in.Body).WithMessage(MsgCommentRequired),
	)
}

// registrationRules checks the username format and password bounds.
// Uniqueness needs the store and is checked by the caller.
func registrationRules(c Credentials) []validator.Rule {
	return slices.Concat(
		[]validator.Rule{validator.Required("username", c.Username).WithMessage(MsgUsernameRequired)},
		validator.When(c.Username != "",
			validator.MinLenString("username", c.Username, usernameMinLen).WithMessage(MsgUsernameTooShort),
			validator.MaxLenString("username", c.Username, usernameMaxLen).WithMessage(MsgUsernameTooLong),
			validator.Alphanumeric("username", c.Username).WithMessage(MsgUsernameCharset),
		),
		[]validator.Rule{validator.Required("password", c.Password).WithMessage(MsgPasswordRequired)},
		validator.When(c.Password != "",
			validator.MinLenString("password", c.Password, passwordMinLen).WithMessage(MsgPasswordTooShort),
			validator.MaxLenString("password", c.Password, passwordMaxLen).WithMessage(MsgPasswordTooLong),
		),
	)
}
