package blog

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/blog/internal/logger"
	"github.com/dmitrymomot/blog/internal/session"
	"github.com/dmitrymomot/blog/internal/store"
)

// FeedItem is a post with the comments written on it.
type FeedItem struct {
	store.Post
	Comments []store.Comment
}

// PostView is a single post as seen by a given user.
type PostView struct {
	Post     store.Post
	Comments []store.Comment
	IsAuthor bool
	Liked    bool
}

// Feed returns every post, newest first, each with its comments.
func (s *Service) Feed(ctx context.Context, id session.Identity) ([]FeedItem, error) {
	if !id.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}

	posts, err := s.store.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("blog: feed: %w", err)
	}
	comments, err := s.store.ListComments(ctx)
	if err != nil {
		return nil, fmt.Errorf("blog: feed comments: %w", err)
	}

	byPost := make(map[int64][]store.Comment, len(posts))
	for _, c := range comments {
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}

	items := make([]FeedItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, FeedItem{Post: p, Comments: byPost[p.ID]})
	}
	return items, nil
}

// Dashboard returns the caller's own posts, newest first.
func (s *Service) Dashboard(ctx context.Context, id session.Identity) ([]store.Post, error) {
	if !id.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	posts, err := s.store.ListPostsByAuthor(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("blog: dashboard: %w", err)
	}
	return posts, nil
}

// ViewPost returns a post with its comments, newest first.
func (s *Service) ViewPost(ctx context.Context, id session.Identity, postID int64) (PostView, error) {
	if !id.IsAuthenticated() {
		return PostView{}, ErrUnauthenticated
	}

	post, err := s.findPost(ctx, postID)
	if err != nil {
		return PostView{}, err
	}
	comments, err := s.store.CommentsByPost(ctx, postID)
	if err != nil {
		return PostView{}, fmt.Errorf("blog: post comments: %w", err)
	}
	liked, err := s.store.HasLiked(ctx, postID, id.UserID)
	if err != nil {
		return PostView{}, fmt.Errorf("blog: post likes: %w", err)
	}

	return PostView{
		Post:     post,
		Comments: comments,
		IsAuthor: post.AuthorID == id.UserID,
		Liked:    liked,
	}, nil
}

// CreatePost validates the input and stores a new post, returning its id.
func (s *Service) CreatePost(ctx context.Context, id session.Identity, in PostInput) (int64, error) {
	if !id.IsAuthenticated() {
		return 0, ErrUnauthenticated
	}

	in, err := cleanPost(in)
	if err != nil {
		return 0, err
	}

	postID, err := s.store.CreatePost(ctx, id.UserID, in.Title, in.Body)
	if err != nil {
		return 0, fmt.Errorf("blog: create post: %w", err)
	}

	s.log.InfoContext(ctx, "post created", logger.Event("post_created"), logger.PostID(postID))
	s.events.Event("post", "created")
	return postID, nil
}

// EditablePost returns the post if the caller may edit it.
func (s *Service) EditablePost(ctx context.Context, id session.Identity, postID int64) (store.Post, error) {
	if !id.IsAuthenticated() {
		return store.Post{}, ErrUnauthenticated
	}

	post, err := s.findPost(ctx, postID)
	if err != nil {
		return store.Post{}, err
	}
	if post.AuthorID != id.UserID {
		return store.Post{}, ErrForbidden
	}
	return post, nil
}

// UpdatePost replaces the title and body of a post owned by the caller.
// Ownership is checked before the input is validated.
func (s *Service) UpdatePost(ctx context.Context, id session.Identity, postID int64, in PostInput) error {
	if _, err := s.EditablePost(ctx, id, postID); err != nil {
		return err
	}

	in, err := cleanPost(in)
	if err != nil {
		return err
	}

	if err := s.store.UpdatePost(ctx, postID, in.Title, in.Body); err != nil {
		if store.IsNotFoundError(err) {
			return ErrNotFound
		}
		return fmt.Errorf("blog: update post: %w", err)
	}
	s.events.Event("post", "updated")
	return nil
}

// DeletePost removes a post owned by the caller.
func (s *Service) DeletePost(ctx context.Context, id session.Identity, postID int64) error {
	if _, err := s.EditablePost(ctx, id, postID); err != nil {
		return err
	}

	if err := s.store.DeletePost(ctx, postID); err != nil {
		if store.IsNotFoundError(err) {
			return ErrNotFound
		}
		return fmt.Errorf("blog: delete post: %w", err)
	}

	s.log.InfoContext(ctx, "post deleted", logger.Event("post_deleted"), logger.PostID(postID))
	s.events.Event("post", "deleted")
	return nil
}

func (s *Service) findPost(ctx context.Context, postID int64) (store.Post, error) {
	if postID <= 0 {
		return store.Post{}, ErrNotFound
	}
	post, err := s.store.PostByID(ctx, postID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return store.Post{}, ErrNotFound
		}
		return store.Post{}, fmt.Errorf("blog: find post: %w", err)
	}
	return post, nil
}
