package repository

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// Runs against TEST_DATABASE, a disposable PostgreSQL database. The posts
// table is recreated for the run.
func TestPostgresPostRepository(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE")
	if dsn == "" {
		t.Skip("TEST_DATABASE not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `
DROP TABLE IF EXISTS posts;
CREATE TABLE posts (
    id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    title TEXT NOT NULL,
    body TEXT NOT NULL
)`)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DROP TABLE IF EXISTS posts`)
	})

	exercisePostRepository(t, NewPostgresPostRepository(pool))
}
