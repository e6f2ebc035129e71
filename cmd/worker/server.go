package main

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// asynqServer wraps asynq.Server with logging
type asynqServer struct {
	*asynq.Server
}

func setupAsynqServer(settings workerSettings, handlers *HandlerRegistry) (*asynqServer, error) {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		settings.RedisOpt,
		asynq.Config{
			Queues:          settings.Queues,
			Concurrency:     settings.Concurrency,
			ShutdownTimeout: 30 * time.Second,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				log.Error().
					Err(err).
					Str("task_type", task.Type()).
					Int("retried", retried).
					Int("max_retry", maxRetry).
					Msg("[Asynq] Task failed")
			}),
		},
	)

	log.Info().Int("concurrency", settings.Concurrency).Msg("[Worker] Starting...")
	if err := srv.Start(mux); err != nil {
		return nil, err
	}

	return &asynqServer{Server: srv}, nil
}

// Shutdown chờ tối đa ShutdownTimeout cho các task đang chạy
func (s *asynqServer) Shutdown() {
	log.Info().Msg("[Worker] Shutting down...")
	s.Server.Shutdown()
	log.Info().Msg("[Worker] Stopped")
}
