// Package store is the persistence layer for users, posts, comments and likes.
//
// It runs parameterized SQL over database/sql with either the embedded
// SQLite driver (modernc.org/sqlite, the default) or PostgreSQL through
// pgx's stdlib driver. The schema is owned by goose migrations embedded in
// the binary, one directory per dialect.
//
//	s, err := store.Open(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//	if err := s.Migrate(ctx); err != nil {
//		return err
//	}
//
// Deleting a post removes its comments and likes through ON DELETE CASCADE.
package store
