package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/posts-api/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPostRepository stores posts in the posts table.
type PostgresPostRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPostRepository(pool *pgxpool.Pool) *PostgresPostRepository {
	return &PostgresPostRepository{pool: pool}
}

const (
	listPostsSQL = `SELECT id, title, body FROM posts ORDER BY id`

	// strpos is case-sensitive and treats % and _ literally, unlike LIKE.
	listFilteredPostsSQL = `
SELECT id, title, body
FROM posts
WHERE strpos(title, @title_like) > 0
  AND strpos(body, @body_like) > 0
ORDER BY id`

	getPostSQL = `SELECT id, title, body FROM posts WHERE id = @id`

	createPostSQL = `
INSERT INTO posts (title, body)
VALUES (@title, @body)
RETURNING id, title, body`

	updatePostSQL = `
UPDATE posts
SET title = @title, body = @body
WHERE id = @id
RETURNING id, title, body`

	deletePostSQL = `DELETE FROM posts WHERE id = @id`
)

func (r *PostgresPostRepository) List(ctx context.Context, filter model.PostFilter) ([]model.Post, error) {
	var (
		rows pgx.Rows
		err  error
	)

	if filter.Active() {
		rows, err = r.pool.Query(ctx, listFilteredPostsSQL, pgx.NamedArgs{
			"title_like": filter.TitleLike,
			"body_like":  filter.BodyLike,
		})
	} else {
		rows, err = r.pool.Query(ctx, listPostsSQL)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to execute list posts query: %w", err)
	}

	posts, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Post])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:posts: %w", err)
	}

	return posts, nil
}

func (r *PostgresPostRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	rows, err := r.pool.Query(ctx, getPostSQL, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get post query for id=%d: %w", id, err)
	}

	return collectPost(rows, id)
}

func (r *PostgresPostRepository) Create(ctx context.Context, title, body string) (*model.Post, error) {
	rows, err := r.pool.Query(ctx, createPostSQL, pgx.NamedArgs{
		"title": title,
		"body":  body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create post query: %w", err)
	}

	post, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Post])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:posts: %w", err)
	}

	return &post, nil
}

func (r *PostgresPostRepository) Update(ctx context.Context, id int64, title, body string) (*model.Post, error) {
	rows, err := r.pool.Query(ctx, updatePostSQL, pgx.NamedArgs{
		"id":    id,
		"title": title,
		"body":  body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute update post query for id=%d: %w", id, err)
	}

	return collectPost(rows, id)
}

func (r *PostgresPostRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deletePostSQL, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("failed to execute delete post query for id=%d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func collectPost(rows pgx.Rows, id int64) (*model.Post, error) {
	post, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Post])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to collect row from table:posts for id=%d: %w", id, err)
	}
	return &post, nil
}
