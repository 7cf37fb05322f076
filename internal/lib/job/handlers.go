package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/posts-api/internal/model"
	"github.com/hibiken/asynq"
)

// PostNotifier delivers post-created notifications.
type PostNotifier interface {
	SendPostCreatedEmail(to string, post model.Post) error
}

// handlePostCreatedTask emails the configured recipient about a new post.
// Without a notifier the task is logged and acknowledged.
func (j *JobService) handlePostCreatedTask(ctx context.Context, t *asynq.Task) error {
	var p PostCreatedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// Retrying cannot fix a broken payload.
		return fmt.Errorf("failed to unmarshal post created payload: %v: %w", err, asynq.SkipRetry)
	}

	logger := j.logger.With().
		Str("type", TaskPostCreated).
		Int64("post_id", p.ID).
		Logger()

	if j.notifier == nil {
		logger.Info().Msg("Post notifications disabled, skipping task")
		return nil
	}

	logger.Info().Str("to", j.notifyEmail).Msg("Processing post created task")

	post := model.Post{ID: p.ID, Title: p.Title, Body: p.Body}
	if err := j.notifier.SendPostCreatedEmail(j.notifyEmail, post); err != nil {
		logger.Error().Err(err).Msg("Failed to send post created email")
		return err
	}

	logger.Info().Msg("Successfully sent post created email")
	return nil
}
