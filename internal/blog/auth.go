package blog

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/blog/internal/logger"
	"github.com/dmitrymomot/blog/internal/sanitizer"
	"github.com/dmitrymomot/blog/internal/session"
	"github.com/dmitrymomot/blog/internal/store"
	"github.com/dmitrymomot/blog/internal/validator"
)

// Register validates the credentials, creates the user and returns its identity.
// Rejected input yields validator.ValidationErrors with every message.
func (s *Service) Register(ctx context.Context, c Credentials) (session.Identity, error) {
	if err := sanitizer.SanitizeStruct(&c); err != nil {
		return session.Anonymous, err
	}

	var errs validator.ValidationErrors
	if err := validator.Apply(registrationRules(c)...); err != nil {
		errs = validator.ExtractValidationErrors(err)
	}

	if c.Username != "" {
		taken, err := s.store.UsernameExists(ctx, c.Username)
		if err != nil {
			return session.Anonymous, fmt.Errorf("blog: check username: %w", err)
		}
		if taken {
			errs.Add(validator.ValidationError{Field: "username", Message: MsgUsernameTaken})
		}
	}

	if !errs.IsEmpty() {
		return session.Anonymous, errs
	}

	hash, err := hashPassword(c.Password, s.bcryptCost)
	if err != nil {
		return session.Anonymous, fmt.Errorf("blog: hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, c.Username, string(hash))
	if err != nil {
		if store.IsDuplicateKeyError(err) {
			return session.Anonymous, validator.ValidationErrors{{Field: "username", Message: MsgUsernameTaken}}
		}
		return session.Anonymous, fmt.Errorf("blog: create user: %w", err)
	}

	s.log.InfoContext(ctx, "user registered", logger.Event("register"), logger.UserID(user.ID))
	s.events.Event("register", "success")
	return session.Identity{UserID: user.ID, Username: user.Username}, nil
}

// Login checks the credentials. Unknown usernames and wrong passwords both
// fail with ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, c Credentials) (session.Identity, error) {
	if err := sanitizer.SanitizeStruct(&c); err != nil {
		return session.Anonymous, err
	}
	if c.Username == "" || c.Password == "" {
		return session.Anonymous, ErrInvalidCredentials
	}

	user, err := s.store.UserByUsername(ctx, c.Username)
	if err != nil {
		if store.IsNotFoundError(err) {
			compareDummy(c.Password)
			s.log.InfoContext(ctx, "login rejected", logger.Event("login"), logger.Reason("unknown user"))
			s.events.Event("login", "failure")
			return session.Anonymous, ErrInvalidCredentials
		}
		return session.Anonymous, fmt.Errorf("blog: find user: %w", err)
	}

	if err := comparePassword([]byte(user.PasswordHash), c.Password); err != nil {
		s.log.InfoContext(ctx, "login rejected", logger.Event("login"), logger.Reason("wrong password"), logger.UserID(user.ID))
		s.events.Event("login", "failure")
		return session.Anonymous, ErrInvalidCredentials
	}

	s.events.Event("login", "success")
	return session.Identity{UserID: user.ID, Username: user.Username}, nil
}
