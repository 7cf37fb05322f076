package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deppfellow/posts-api/internal/model"
	"github.com/hibiken/asynq"
)

const (
	// TaskPostCreated is the task type enqueued after a post is stored.
	TaskPostCreated = "post:created"

	queueDefault = "default"
)

// PostCreatedPayload is the JSON payload of a TaskPostCreated task.
type PostCreatedPayload struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NewPostCreatedTask builds the notification task for post. Tasks are
// retried three times and are given 30 seconds to run.
func NewPostCreatedTask(post model.Post) (*asynq.Task, error) {
	payload, err := json.Marshal(PostCreatedPayload{
		ID:    post.ID,
		Title: post.Title,
		Body:  post.Body,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskPostCreated,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(queueDefault),
		asynq.Timeout(30*time.Second),
	), nil
}

// EnqueuePostCreated schedules the post-created notification.
func (j *JobService) EnqueuePostCreated(ctx context.Context, post model.Post) error {
	task, err := NewPostCreatedTask(post)
	if err != nil {
		return fmt.Errorf("failed to build %s task: %w", TaskPostCreated, err)
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s task: %w", TaskPostCreated, err)
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Int64("post_id", post.ID).
		Msg("enqueued post created task")

	return nil
}
