// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - Tasks are enqueued (producer) with asynq.Client.
//   - A server runs workers that process those tasks (consumer) with asynq.Server.
package job

import (
	"github.com/deppfellow/posts-api/internal/config"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// JobService holds the Asynq client (enqueue) and server (worker execution).
type JobService struct {
	Client *asynq.Client

	server *asynq.Server
	logger *zerolog.Logger

	notifier    PostNotifier
	notifyEmail string
}

// NewJobService creates a JobService using the Redis address from cfg.
//
// notifier may be nil, in which case post-created tasks are acknowledged
// without sending anything.
func NewJobService(logger *zerolog.Logger, cfg *config.Config, notifier PostNotifier) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				queueDefault: 1,
			},
			Logger:   newAsynqLogger(logger),
			LogLevel: asynq.WarnLevel,
		},
	)

	return &JobService{
		Client:      asynq.NewClient(redisOpt),
		server:      server,
		logger:      logger,
		notifier:    notifier,
		notifyEmail: cfg.Integration.NotifyEmail,
	}
}

// Handler returns the task router used by the worker server.
func (j *JobService) Handler() asynq.Handler {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskPostCreated, j.handlePostCreatedTask)
	return mux
}

// Start launches the worker server. It returns once the workers are running.
func (j *JobService) Start() error {
	j.logger.Info().Msg("Starting background job server")
	return j.server.Start(j.Handler())
}

// Stop waits for running tasks and closes the enqueue client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("failed to close job client")
	}
}
