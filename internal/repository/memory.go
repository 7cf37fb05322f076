package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/deppfellow/posts-api/internal/model"
)

// MemoryPostRepository keeps posts in process memory. Ids start at 1 and
// are never reused, matching an identity column.
type MemoryPostRepository struct {
	mu     sync.RWMutex
	posts  []model.Post
	lastID int64
}

func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{}
}

func (r *MemoryPostRepository) List(ctx context.Context, filter model.PostFilter) ([]model.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]model.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if filter.Active() && !(strings.Contains(p.Title, filter.TitleLike) && strings.Contains(p.Body, filter.BodyLike)) {
			continue
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (r *MemoryPostRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrPostNotFound
	}
	post := r.posts[i]
	return &post, nil
}

func (r *MemoryPostRepository) Create(ctx context.Context, title, body string) (*model.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	post := model.Post{ID: r.lastID, Title: title, Body: body}
	r.posts = append(r.posts, post)
	return &post, nil
}

func (r *MemoryPostRepository) Update(ctx context.Context, id int64, title, body string) (*model.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrPostNotFound
	}
	r.posts[i].Title = title
	r.posts[i].Body = body
	post := r.posts[i]
	return &post, nil
}

func (r *MemoryPostRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrPostNotFound
	}
	r.posts = append(r.posts[:i], r.posts[i+1:]...)
	return nil
}

// indexOf must be called with mu held. posts stays sorted by id.
func (r *MemoryPostRepository) indexOf(id int64) int {
	for i, p := range r.posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}
