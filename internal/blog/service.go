package blog

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/blog/internal/logger"
	"github.com/dmitrymomot/blog/internal/store"
)

// Store is the persistence the service depends on; *store.Store implements it.
type Store interface {
	CreateUser(ctx context.Context, username, passwordHash string) (store.User, error)
	UserByUsername(ctx context.Context, username string) (store.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)

	CreatePost(ctx context.Context, authorID int64, title, content string) (int64, error)
	PostByID(ctx context.Context, id int64) (store.Post, error)
	ListPosts(ctx context.Context) ([]store.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID int64) ([]store.Post, error)
	UpdatePost(ctx context.Context, id int64, title, content string) error
	DeletePost(ctx context.Context, id int64) error

	CreateComment(ctx context.Context, postID, authorID int64, content string) (int64, error)
	CommentsByPost(ctx context.Context, postID int64) ([]store.Comment, error)
	ListComments(ctx context.Context) ([]store.Comment, error)

	ToggleLike(ctx context.Context, postID, userID int64) (bool, error)
	HasLiked(ctx context.Context, postID, userID int64) (bool, error)
}

// EventRecorder counts domain events; *metrics.Metrics implements it.
type EventRecorder interface {
	Event(name, outcome string)
}

type noopEvents struct{}

func (noopEvents) Event(string, string) {}

// Service implements the blog use cases on top of a Store.
type Service struct {
	store      Store
	log        *slog.Logger
	events     EventRecorder
	bcryptCost int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithEvents sets the recorder notified of registrations, logins and content
// changes.
func WithEvents(e EventRecorder) Option {
	return func(s *Service) {
		if e != nil {
			s.events = e
		}
	}
}

// WithBcryptCost overrides the password hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

// New creates a Service.
func New(st Store, opts ...Option) *Service {
	s := &Service{
		store:      st,
		log:        logger.Discard(),
		events:     noopEvents{},
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("blog"))
	return s
}
