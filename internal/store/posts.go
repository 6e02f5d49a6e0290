package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const selectPost = `SELECT posts.id, posts.createdDate, posts.title, posts.content, posts.authorid, users.username,
	(SELECT COUNT(*) FROM likes WHERE likes.postid = posts.id)
FROM posts
INNER JOIN users ON posts.authorid = users.id`

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (Post, error) {
	var (
		p       Post
		created string
	)
	if err := row.Scan(&p.ID, &created, &p.Title, &p.Content, &p.AuthorID, &p.AuthorName, &p.Likes); err != nil {
		return Post{}, err
	}
	p.CreatedAt = parseCreatedDate(created)
	return p, nil
}

// CreatePost inserts a post stamped with the current time and returns its id.
func (s *Store) CreatePost(ctx context.Context, authorID int64, title, content string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		s.rebind(`INSERT INTO posts (title, content, authorid, createdDate) VALUES (?, ?, ?, ?) RETURNING id`),
		title, content, authorID, formatCreatedDate(s.now()),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("store: create post: %w", err)
	}
	return id, nil
}

// PostByID returns a post with its author name, or ErrNotFound.
func (s *Store) PostByID(ctx context.Context, id int64) (Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, s.rebind(selectPost+` WHERE posts.id = ?`), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Post{}, ErrNotFound
		}
		return Post{}, fmt.Errorf("store: post by id: %w", err)
	}
	return p, nil
}

// ListPosts returns every post, newest first.
func (s *Store) ListPosts(ctx context.Context) ([]Post, error) {
	return s.queryPosts(ctx, selectPost+` ORDER BY posts.createdDate DESC, posts.id DESC`)
}

// ListPostsByAuthor returns the author's posts, newest first.
func (s *Store) ListPostsByAuthor(ctx context.Context, authorID int64) ([]Post, error) {
	return s.queryPosts(ctx,
		selectPost+` WHERE posts.authorid = ? ORDER BY posts.createdDate DESC, posts.id DESC`,
		authorID,
	)
}

func (s *Store) queryPosts(ctx context.Context, query string, args ...any) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("store: list posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list posts: %w", err)
	}
	return posts, nil
}

// UpdatePost replaces the title and content of a post.
func (s *Store) UpdatePost(ctx context.Context, id int64, title, content string) error {
	res, err := s.db.ExecContext(ctx,
		s.rebind(`UPDATE posts SET title = ?, content = ? WHERE id = ?`),
		title, content, id,
	)
	if err != nil {
		return fmt.Errorf("store: update post: %w", err)
	}
	return expectRow(res)
}

// DeletePost removes a post together with its comments and likes.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM posts WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("store: delete post: %w", err)
	}
	return expectRow(res)
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
