package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateUser inserts a user. A taken username yields ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (User, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		s.rebind(`INSERT INTO users (username, password) VALUES (?, ?) RETURNING id`),
		username, passwordHash,
	).Scan(&id)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return User{}, fmt.Errorf("%w: username %q", ErrDuplicate, username)
		}
		return User{}, fmt.Errorf("store: create user: %w", err)
	}
	return User{ID: id, Username: username, PasswordHash: passwordHash}, nil
}

// UserByUsername looks a user up by exact, case-sensitive username.
func (s *Store) UserByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT id, username, password FROM users WHERE username = ?`),
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("store: user by username: %w", err)
	}
	return u, nil
}

// UsernameExists reports whether the exact username is taken.
func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT EXISTS (SELECT 1 FROM users WHERE username = ?)`),
		username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("store: username exists: %w", err)
	}
	return exists, nil
}
