package store

import (
	"context"
	"database/sql"
	"fmt"
)

// ToggleLike adds the user's like to a post, or removes it if present.
// It reports whether the post is liked afterwards.
func (s *Store) ToggleLike(ctx context.Context, postID, userID int64) (bool, error) {
	var liked bool
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			s.rebind(`DELETE FROM likes WHERE postid = ? AND authorid = ?`),
			postID, userID,
		)
		if err != nil {
			return fmt.Errorf("store: unlike: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("store: rows affected: %w", err)
		} else if n > 0 {
			return nil
		}

		if _, err := tx.ExecContext(ctx,
			s.rebind(`INSERT INTO likes (postid, authorid) VALUES (?, ?)`),
			postID, userID,
		); err != nil {
			if IsForeignKeyViolationError(err) {
				return ErrNotFound
			}
			return fmt.Errorf("store: like: %w", err)
		}
		liked = true
		return nil
	})
	return liked, err
}

// HasLiked reports whether the user likes the post.
func (s *Store) HasLiked(ctx context.Context, postID, userID int64) (bool, error) {
	var liked bool
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT EXISTS (SELECT 1 FROM likes WHERE postid = ? AND authorid = ?)`),
		postID, userID,
	).Scan(&liked)
	if err != nil {
		return false, fmt.Errorf("store: has liked: %w", err)
	}
	return liked, nil
}
