package store

import (
	"context"
	"fmt"
)

const selectComment = `SELECT comments.id, comments.authorid, comments.postid, comments.content, users.username
FROM comments
INNER JOIN users ON comments.authorid = users.id`

// CreateComment attaches a comment to a post. A missing post yields ErrNotFound.
func (s *Store) CreateComment(ctx context.Context, postID, authorID int64, content string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		s.rebind(`INSERT INTO comments (postid, content, authorid) VALUES (?, ?, ?) RETURNING id`),
		postID, content, authorID,
	).Scan(&id)
	if err != nil {
		if IsForeignKeyViolationError(err) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("store: create comment: %w", err)
	}
	return id, nil
}

// CommentsByPost returns the comments of a post, newest first.
func (s *Store) CommentsByPost(ctx context.Context, postID int64) ([]Comment, error) {
	return s.queryComments(ctx, selectComment+` WHERE comments.postid = ? ORDER BY comments.id DESC`, postID)
}

// ListComments returns every comment, newest first.
func (s *Store) ListComments(ctx context.Context) ([]Comment, error) {
	return s.queryComments(ctx, selectComment+` ORDER BY comments.id DESC`)
}

func (s *Store) queryComments(ctx context.Context, query string, args ...any) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("store: list comments: %w", err)
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.AuthorID, &c.PostID, &c.Content, &c.AuthorName); err != nil {
			return nil, fmt.Errorf("store: scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list comments: %w", err)
	}
	return comments, nil
}
