package blog_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/blog/internal/blog"
	"github.com/dmitrymomot/blog/internal/session"
	"github.com/dmitrymomot/blog/internal/store"
	"github.com/dmitrymomot/blog/internal/validator"
)

func newService(t *testing.T) (*blog.Service, *store.Store) {
	t.Helper()

	st, err := store.Open(context.Background(), store.MemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	return blog.New(st, blog.WithBcryptCost(bcrypt.MinCost)), st
}

func register(t *testing.T, svc *blog.Service, username, password string) session.Identity {
	t.Helper()
	id, err := svc.Register(context.Background(), blog.Credentials{Username: username, Password: password})
	require.NoError(t, err)
	return id
}

func messages(t *testing.T, err error) []string {
	t.Helper()
	require.True(t, validator.IsValidationError(err), "expected validation error, got %v", err)
	return validator.ExtractValidationErrors(err).Messages()
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates user and returns identity", func(t *testing.T) {
		t.Parallel()

		svc, st := newService(t)
		id := register(t, svc, "  alice ", "secret1")
		assert.True(t, id.IsAuthenticated())
		assert.Equal(t, "alice", id.Username)

		u, err := st.UserByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, id.UserID, u.ID)
		assert.NotEqual(t, "secret1", u.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")))
	})

	t.Run("multibyte password at the length limit", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		password := strings.Repeat("🔑", 20)
		require.Greater(t, len(password), 72)

		id, err := svc.Register(context.Background(), blog.Credentials{Username: "carol", Password: password})
		require.NoError(t, err)
		assert.True(t, id.IsAuthenticated())

		got, err := svc.Login(context.Background(), blog.Credentials{Username: "carol", Password: password})
		require.NoError(t, err)
		assert.Equal(t, id, got)

		_, err = svc.Login(context.Background(), blog.Credentials{Username: "carol", Password: strings.Repeat("🔑", 19) + "🔒"})
		assert.ErrorIs(t, err, blog.ErrInvalidCredentials)
	})

	t.Run("taken username creates no row", func(t *testing.T) {
		t.Parallel()

		svc, st := newService(t)
		register(t, svc, "alice", "secret1")

		_, err := svc.Register(context.Background(), blog.Credentials{Username: "alice", Password: "another1"})
		assert.Equal(t, []string{blog.MsgUsernameTaken}, messages(t, err))

		u, err := st.UserByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")))
	})

	t.Run("usernames differing in case are distinct", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		register(t, svc, "alice", "secret1")
		id := register(t, svc, "Alice", "secret1")
		assert.Equal(t, "Alice", id.Username)
	})

	tests := []struct {
		name     string
		creds    blog.Credentials
		expected []string
	}{
		{
			name:     "empty form",
			creds:    blog.Credentials{},
			expected: []string{blog.MsgUsernameRequired, blog.MsgPasswordRequired},
		},
		{
			name:     "whitespace username",
			creds:    blog.Credentials{Username: "   ", Password: "secret1"},
			expected: []string{blog.MsgUsernameRequired},
		},
		{
			name:     "short username and password",
			creds:    blog.Credentials{Username: "al", Password: "abc"},
			expected: []string{blog.MsgUsernameTooShort, blog.MsgPasswordTooShort},
		},
		{
			name:     "long username and password",
			creds:    blog.Credentials{Username: "abcdefghijk", Password: strings.Repeat("p", 21)},
			expected: []string{blog.MsgUsernameTooLong, blog.MsgPasswordTooLong},
		},
		{
			name:     "bad charset",
			creds:    blog.Credentials{Username: "al ice", Password: "secret1"},
			expected: []string{blog.MsgUsernameCharset},
		},
		{
			name:     "markup in username",
			creds:    blog.Credentials{Username: "<b>x</b>", Password: "secret1"},
			expected: []string{blog.MsgUsernameCharset},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, st := newService(t)
			_, err := svc.Register(context.Background(), tt.creds)
			assert.Equal(t, tt.expected, messages(t, err))

			posts, err := st.ListPosts(context.Background())
			require.NoError(t, err)
			assert.Empty(t, posts)
		})
	}

	t.Run("bounds are inclusive", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		register(t, svc, "abc", "secret")
		register(t, svc, "abcdefghij", strings.Repeat("p", 20))
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	registered := register(t, svc, "alice", "secret1")

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()

		id, err := svc.Login(context.Background(), blog.Credentials{Username: " alice ", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, registered, id)
	})

	failures := []struct {
		name  string
		creds blog.Credentials
	}{
		{"wrong password", blog.Credentials{Username: "alice", Password: "wrong12"}},
		{"unknown user", blog.Credentials{Username: "mallory", Password: "secret1"}},
		{"empty username", blog.Credentials{Password: "secret1"}},
		{"empty password", blog.Credentials{Username: "alice"}},
		{"case mismatch", blog.Credentials{Username: "Alice", Password: "secret1"}},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			id, err := svc.Login(context.Background(), tt.creds)
			assert.ErrorIs(t, err, blog.ErrInvalidCredentials)
			assert.Equal(t, session.Anonymous, id)
		})
	}
}

func TestPosts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("create strips markup", func(t *testing.T) {
		t.Parallel()

		svc, st := newService(t)
		alice := register(t, svc, "alice", "secret1")

		postID, err := svc.CreatePost(ctx, alice, blog.PostInput{Title: "Hi", Body: "<b>world</b>"})
		require.NoError(t, err)

		p, err := st.PostByID(ctx, postID)
		require.NoError(t, err)
		assert.Equal(t, "Hi", p.Title)
		assert.Equal(t, "world", p.Content)
	})

	t.Run("create requires both fields", func(t *testing.T) {
		t.Parallel()

		svc, st := newService(t)
		alice := register(t, svc, "alice", "secret1")

		_, err := svc.CreatePost(ctx, alice, blog.PostInput{Title: " <i></i> ", Body: ""})
		assert.Equal(t, []string{blog.MsgTitleRequired, blog.MsgContentRequired}, messages(t, err))

		posts, err := st.ListPosts(ctx)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("anonymous cannot create", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		_, err := svc.CreatePost(ctx, session.Anonymous, blog.PostInput{Title: "Hi", Body: "x"})
		assert.ErrorIs(t, err, blog.ErrUnauthenticated)
	})

	t.Run("dashboard lists own posts newest first", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		alice := register(t, svc, "alice", "secret1")
		bob := register(t, svc, "bob", "secret1")

		first, err := svc.CreatePost(ctx, alice, blog.PostInput{Title: "1", Body: "a"})
		require.NoError(t, err)
		_, err = svc.CreatePost(ctx, bob, blog.PostInput{Title: "2", Body: "b"})
		require.NoError(t, err)
		third, err := svc.CreatePost(ctx, alice, blog.PostInput{Title: "3", Body: "c"})
		require.NoError(t, err)

		posts, err := svc.Dashboard(ctx, alice)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, third, posts[0].ID)
		assert.Equal(t, first, posts[1].ID)

		_, err = svc.Dashboard(ctx, session.Anonymous)
		assert.ErrorIs(t, err, blog.ErrUnauthenticated)
	})

	t.Run("view marks author and lists comments", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		alice := register(t, svc, "alice", "secret1")
		bob := register(t, svc, "bob", "secret1")
		postID, err := svc.CreatePost(ctx, alice, blog.PostInput{Title: "Hi", Body: "world"})
		require.NoError(t, err)

		require.NoError(t, svc.AddComment(ctx, bob, blog.CommentInput{PostID: postID, Body: "first"}))
		require.NoError(t, svc.AddComment(ctx, alice, blog.CommentInput{PostID: postID, Body: "second"}))

		view, err := svc.ViewPost(ctx, alice, postID)
		require.NoError(t, err)
		assert.True(t, view.IsAuthor)
		require.Len(t, view.Comments, 2)
		assert.Equal(t, "second", view.Comments[0].Content)
		assert.Equal(t, "bob", view.Comments[1].AuthorName)

		view, err = svc.ViewPost(ctx, bob, postID)
		require.NoError(t, err)
		assert.False(t, view.IsAuthor)

		_, err = svc.ViewPost(ctx, bob, postID+100)
		assert.ErrorIs(t, err, blog.ErrNotFound)

		_, err = svc.ViewPost(ctx, session.Anonymous, postID)
		assert.ErrorIs(t, err, blog.ErrUnauthenticated)
	})

	t.Run("feed groups comments under posts", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		alice := register(t, svc, "alice", "secret1")
		p1, err := svc.CreatePost(ctx, alice, blog.PostInput{Title: "1", Body: "a"})
		require.NoError(t, err)
		p2, err := svc.CreatePost(ctx, alice, blog.PostInput{Title: "2", Body: "b"})
		require.NoError(t, err)
		require.NoError(t, svc.AddComment(ctx, alice, blog.CommentInput{PostID: p1, Body: "on one"}))

		feed, err := svc.Feed(ctx, alice)
		require.NoError(t, err)
		require.Len(t, feed, 2)
		assert.Equal(t, p2, feed[0].ID)
		assert.Empty(t, feed[0].Comments)
		assert.Equal(t, p1, feed[1].ID)
		require.Len(t, feed[1].Comments, 1)
		assert.Equal(t, "alice", feed[1].AuthorName)
	})
}

func TestOwnership(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, st := newService(t)
	alice := register(t, svc, "alice", "secret1")
	bob := register(t, svc, "bob", "secret1")

	postID, err := svc.CreatePost(ctx, alice, blog.PostInput{Title: "Hi", Body: "world"})
	require.NoError(t, err)

	unchanged := func(t *testing.T) {
		t.Helper()
		p, err := st.PostByID(ctx, postID)
		require.NoError(t, err)
		assert.Equal(t, "Hi", p.Title)
		assert.Equal(t, "world", p.Content)
	}

	t.Run("non author cannot open edit form", func(t *testing.T) {
		_, err := svc.EditablePost(ctx, bob, postID)
		assert.ErrorIs(t, err, blog.ErrForbidden)
	})

	t.Run("non author cannot update", func(t *testing.T) {
		err := svc.UpdatePost(ctx, bob, postID, blog.PostInput{Title: "Pwned", Body: "x"})
		assert.ErrorIs(t, err, blog.ErrForbidden)
		assert.True(t, blog.IsRedirectHome(err))
		unchanged(t)
	})

	t.Run("ownership is checked before validation", func(t *testing.T) {
		err := svc.UpdatePost(ctx, bob, postID, blog.PostInput{})
		assert.ErrorIs(t, err, blog.ErrForbidden)
	})

	t.Run("non author cannot delete", func(t *testing.T) {
		err := svc.DeletePost(ctx, bob, postID)
		assert.ErrorIs(t, err, blog.ErrForbidden)
		unchanged(t)
	})

	t.Run("anonymous cannot delete", func(t *testing.T) {
		err := svc.DeletePost(ctx, session.Anonymous, postID)
		assert.ErrorIs(t, err, blog.ErrUnauthenticated)
		unchanged(t)
	})

	t.Run("missing post", func(t *testing.T) {
		assert.ErrorIs(t, svc.DeletePost(ctx, alice, postID+100), blog.ErrNotFound)
		assert.ErrorIs(t, svc.UpdatePost(ctx, alice, postID+100, blog.PostInput{Title: "a", Body: "b"}), blog.ErrNotFound)
	})

	t.Run("author update validates", func(t *testing.T) {
		err := svc.UpdatePost(ctx, alice, postID, blog.PostInput{Title: "", Body: "x"})
		assert.Equal(t, []string{blog.MsgTitleRequired}, messages(t, err))
		unchanged(t)
	})

	t.Run("author updates", func(t *testing.T) {
		require.NoError(t, svc.UpdatePost(ctx, alice, postID, blog.PostInput{Title: "Hello", Body: "<em>there</em>"}))
		p, err := st.PostByID(ctx, postID)
		require.NoError(t, err)
		assert.Equal(t, "Hello", p.Title)
		assert.Equal(t, "there", p.Content)
	})

	t.Run("author deletes", func(t *testing.T) {
		require.NoError(t, svc.DeletePost(ctx, alice, postID))
		_, err := st.PostByID(ctx, postID)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestAddComment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, st := newService(t)
	alice := register(t, svc, "alice", "secret1")
	postID, err := svc.CreatePost(ctx, alice, blog.PostInput{Title: "Hi", Body: "world"})
	require.NoError(t, err)

	t.Run("body is sanitized", func(t *testing.T) {
		require.NoError(t, svc.AddComment(ctx, alice, blog.CommentInput{PostID: postID, Body: `<script>x()</script><b>nice</b>`}))
		comments, err := st.CommentsByPost(ctx, postID)
		require.NoError(t, err)
		require.NotEmpty(t, comments)
		assert.Equal(t, "nice", comments[0].Content)
	})

	t.Run("empty body", func(t *testing.T) {
		err := svc.AddComment(ctx, alice, blog.CommentInput{PostID: postID, Body: "<p></p>"})
		assert.Equal(t, []string{blog.MsgCommentRequired}, messages(t, err))
	})

	t.Run("missing post", func(t *testing.T) {
		err := svc.AddComment(ctx, alice, blog.CommentInput{PostID: postID + 100, Body: "x"})
		assert.ErrorIs(t, err, blog.ErrNotFound)
	})

	t.Run("anonymous", func(t *testing.T) {
		err := svc.AddComment(ctx, session.Anonymous, blog.CommentInput{PostID: postID, Body: "x"})
		assert.ErrorIs(t, err, blog.ErrUnauthenticated)
	})
}

func TestToggleLike(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newService(t)
	alice := register(t, svc, "alice", "secret1")
	bob := register(t, svc, "bob", "secret1")
	postID, err := svc.CreatePost(ctx, alice, blog.PostInput{Title: "Hi", Body: "world"})
	require.NoError(t, err)

	liked, err := svc.ToggleLike(ctx, bob, postID)
	require.NoError(t, err)
	assert.True(t, liked)

	view, err := svc.ViewPost(ctx, bob, postID)
	require.NoError(t, err)
	assert.True(t, view.Liked)
	assert.Equal(t, 1, view.Post.Likes)

	liked, err = svc.ToggleLike(ctx, bob, postID)
	require.NoError(t, err)
	assert.False(t, liked)

	_, err = svc.ToggleLike(ctx, bob, postID+100)
	assert.ErrorIs(t, err, blog.ErrNotFound)

	_, err = svc.ToggleLike(ctx, session.Anonymous, postID)
	assert.ErrorIs(t, err, blog.ErrUnauthenticated)
}

type recordedEvents struct {
	counts map[string]int
}

func (r *recordedEvents) Event(name, outcome string) {
	r.counts[name+":"+outcome]++
}

func TestEventsAreRecorded(t *testing.T) {
	t.Parallel()

	st, err := store.Open(context.Background(), store.MemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	rec := &recordedEvents{counts: map[string]int{}}
	svc := blog.New(st, blog.WithBcryptCost(bcrypt.MinCost), blog.WithEvents(rec))
	ctx := context.Background()

	alice := register(t, svc, "alice", "secret1")
	_, err = svc.Login(ctx, blog.Credentials{Username: "alice", Password: "wrong12"})
	require.ErrorIs(t, err, blog.ErrInvalidCredentials)
	_, err = svc.Login(ctx, blog.Credentials{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	postID, err := svc.CreatePost(ctx, alice, blog.PostInput{Title: "Hi", Body: "there"})
	require.NoError(t, err)
	require.NoError(t, svc.AddComment(ctx, alice, blog.CommentInput{PostID: postID, Body: "first"}))
	_, err = svc.ToggleLike(ctx, alice, postID)
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, alice, postID)
	require.NoError(t, err)
	require.NoError(t, svc.DeletePost(ctx, alice, postID))

	assert.Equal(t, map[string]int{
		"register:success": 1,
		"login:failure":    1,
		"login:success":    1,
		"post:created":     1,
		"comment:created":  1,
		"like:added":       1,
		"like:removed":     1,
		"post:deleted":     1,
	}, rec.counts)
}
