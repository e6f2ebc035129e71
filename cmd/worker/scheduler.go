package main

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"catalog-backend/internal/infrastructure/queue"
)

// asynqScheduler wraps queue.Scheduler with logging
type asynqScheduler struct {
	*queue.Scheduler
}

func setupScheduler(settings workerSettings) (*asynqScheduler, error) {
	scheduler := queue.NewScheduler(settings.RedisOpt, settings.Worker)

	if err := scheduler.RegisterMaintenanceJobs(); err != nil {
		return nil, fmt.Errorf("register maintenance jobs: %w", err)
	}

	log.Info().Msg("[Scheduler] Starting...")
	if err := scheduler.Start(); err != nil {
		return nil, err
	}

	return &asynqScheduler{Scheduler: scheduler}, nil
}

func (s *asynqScheduler) Shutdown() {
	log.Info().Msg("[Scheduler] Shutting down...")
	s.Scheduler.Shutdown()
	log.Info().Msg("[Scheduler] Stopped")
}
