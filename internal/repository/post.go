package repository

import (
	"context"
	"errors"

	"github.com/deppfellow/posts-api/internal/model"
)

// ErrPostNotFound is returned when no post has the requested id.
var ErrPostNotFound = errors.New("post not found")

// PostRepository persists posts. Every method commits before returning.
type PostRepository interface {
	// List returns posts in id order, narrowed by filter when it is active.
	List(ctx context.Context, filter model.PostFilter) ([]model.Post, error)
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	// Create stores title and body and returns the post with its new id.
	Create(ctx context.Context, title, body string) (*model.Post, error)
	// Update replaces title and body of an existing post.
	Update(ctx context.Context, id int64, title, body string) (*model.Post, error)
	Delete(ctx context.Context, id int64) error
}
