package blog

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/blog/internal/session"
	"github.com/dmitrymomot/blog/internal/store"
)

// AddComment attaches the caller's comment to an existing post.
func (s *Service) AddComment(ctx context.Context, id session.Identity, in CommentInput) error {
	if !id.IsAuthenticated() {
		return ErrUnauthenticated
	}
	if _, err := s.findPost(ctx, in.PostID); err != nil {
		return err
	}

	in, err := cleanComment(in)
	if err != nil {
		return err
	}

	if _, err := s.store.CreateComment(ctx, in.PostID, id.UserID, in.Body); err != nil {
		if store.IsNotFoundError(err) {
			return ErrNotFound
		}
		return fmt.Errorf("blog: add comment: %w", err)
	}
	s.events.Event("comment", "created")
	return nil
}
