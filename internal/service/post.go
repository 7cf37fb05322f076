package service

import (
	"context"
	"errors"

	"github.com/deppfellow/posts-api/internal/errs"
	"github.com/deppfellow/posts-api/internal/middleware"
	"github.com/deppfellow/posts-api/internal/model"
	"github.com/deppfellow/posts-api/internal/repository"
	"github.com/rs/zerolog"
)

// PostCreatedPublisher announces new posts to background workers.
type PostCreatedPublisher interface {
	EnqueuePostCreated(ctx context.Context, post model.Post) error
}

// PostService implements the posts use cases on top of a PostRepository.
type PostService struct {
	repo      repository.PostRepository
	publisher PostCreatedPublisher
	logger    *zerolog.Logger
}

// NewPostService builds a PostService. publisher may be nil.
func NewPostService(repo repository.PostRepository, publisher PostCreatedPublisher, logger *zerolog.Logger) *PostService {
	return &PostService{repo: repo, publisher: publisher, logger: logger}
}

// List returns every post, or only those whose title contains
// filter.TitleLike and whose body contains filter.BodyLike when both are set.
func (s *PostService) List(ctx context.Context, filter model.PostFilter) ([]model.Post, error) {
	posts, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id int64) (*model.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	return post, nil
}

// Create stores a post and, when a publisher is configured, queues the
// post-created notification. Queueing failures are logged only.
func (s *PostService) Create(ctx context.Context, title, body string) (*model.Post, error) {
	post, err := s.repo.Create(ctx, title, body)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.EnqueuePostCreated(ctx, *post); err != nil {
			middleware.LoggerFromContext(ctx, s.logger).Error().
				Err(err).
				Int64("post_id", post.ID).
				Msg("failed to enqueue post created notification")
		}
	}

	return post, nil
}

// Update replaces title and body of the post with the given id.
func (s *PostService) Update(ctx context.Context, id int64, title, body string) (*model.Post, error) {
	post, err := s.repo.Update(ctx, id, title, body)
	if err != nil {
		return nil, notFound(err, id)
	}
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, id int64) error {
	return notFound(s.repo.Delete(ctx, id), id)
}

// notFound turns the repository's missing-row sentinel into the API's 404.
func notFound(err error, id int64) error {
	if errors.Is(err, repository.ErrPostNotFound) {
		return errs.NewPostNotFoundError(id)
	}
	return err
}
