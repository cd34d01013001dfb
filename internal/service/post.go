package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/postboard/postboard/internal/domain"
	"github.com/postboard/postboard/internal/event"
	"github.com/postboard/postboard/internal/repository"
	apperrors "github.com/postboard/postboard/pkg/errors"
	"github.com/postboard/postboard/pkg/pagination"
)

// CreatePostInput carries the fields accepted when creating a post.
type CreatePostInput struct {
	Title     string
	Content   *string
	Published bool
}

// PostService implements post creation and listing.
type PostService struct {
	posts  repository.PostRepository
	events EventPublisher
	logger *slog.Logger
}

// NewPostService creates the post service.
func NewPostService(posts repository.PostRepository, events EventPublisher, logger *slog.Logger) *PostService {
	return &PostService{
		posts:  posts,
		events: events,
		logger: logger,
	}
}

// Create stores a new post owned by authorID.
func (s *PostService) Create(ctx context.Context, authorID string, in CreatePostInput) (*domain.Post, error) {
	now := time.Now().UTC()
	post := &domain.Post{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Content:   in.Content,
		Published: in.Published,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, apperrors.Internal(err)
	}

	if s.events != nil {
		if err := s.events.Publish(ctx, event.TopicPostCreated, "post.created", post.ID, event.PostCreated{
			PostID:    post.ID,
			AuthorID:  post.AuthorID,
			Title:     post.Title,
			Published: post.Published,
		}); err != nil {
			s.logger.WarnContext(ctx, "event publish failed",
				slog.String("topic", event.TopicPostCreated),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "post created",
		slog.String("post_id", post.ID),
		slog.String("author_id", post.AuthorID),
	)

	return post, nil
}

// List returns a page of posts with pagination metadata. The page and
// its total count are fetched concurrently.
func (s *PostService) List(ctx context.Context, page, pageSize int) (*pagination.Result[domain.Post], error) {
	bounds := pagination.Paginate(page, pageSize, 0)

	var (
		posts []domain.Post
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = s.posts.FindPage(gctx, bounds.Skip, bounds.Take)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.posts.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Internal(err)
	}

	pages := pagination.Paginate(page, pageSize, total)
	result := pagination.NewResult(posts, pages, total)
	return &result, nil
}
