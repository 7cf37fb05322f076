// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data.
package service

import (
	"github.com/deppfellow/posts-api/internal/lib/job"
	"github.com/deppfellow/posts-api/internal/repository"
	"github.com/deppfellow/posts-api/internal/server"
)

type Services struct {
	Posts *PostService
	Job   *job.JobService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	var publisher PostCreatedPublisher
	if s.Job != nil {
		publisher = s.Job
	}

	return &Services{
		Posts: NewPostService(repos.Posts, publisher, s.Logger),
		Job:   s.Job,
	}
}
