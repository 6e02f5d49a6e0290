package blog

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/blog/internal/session"
	"github.com/dmitrymomot/blog/internal/store"
)

// ToggleLike likes or unlikes a post for the caller and reports the new state.
func (s *Service) ToggleLike(ctx context.Context, id session.Identity, postID int64) (bool, error) {
	if !id.IsAuthenticated() {
		return false, ErrUnauthenticated
	}
	if _, err := s.findPost(ctx, postID); err != nil {
		return false, err
	}

	liked, err := s.store.ToggleLike(ctx, postID, id.UserID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("blog: toggle like: %w", err)
	}
	if liked {
		s.events.Event("like", "added")
	} else {
		s.events.Event("like", "removed")
	}
	return liked, nil
}
