// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
// An in-memory implementation with the same semantics backs the
// "memory" storage driver.
package repository

import (
	"github.com/deppfellow/posts-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Posts PostRepository
}

// NewRepositories picks the post store for the configured driver.
func NewRepositories(s *server.Server) *Repositories {
	if s.Config.Database.IsMemory() {
		return &Repositories{Posts: NewMemoryPostRepository()}
	}
	return &Repositories{Posts: NewPostgresPostRepository(s.DB.Pool)}
}
