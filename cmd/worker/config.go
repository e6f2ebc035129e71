package main

import (
	"github.com/hibiken/asynq"

	"catalog-backend/internal/config"
	"catalog-backend/internal/shared"
)

// workerSettings gom những gì worker cần từ application config
type workerSettings struct {
	RedisOpt    asynq.RedisClientOpt
	Concurrency int
	Queues      map[string]int
	HealthAddr  string
	Worker      config.WorkerConfig
}

func loadWorkerSettings(cfg *config.Config, healthAddr string) workerSettings {
	concurrency := cfg.Worker.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}

	return workerSettings{
		RedisOpt: asynq.RedisClientOpt{
			Addr:     cfg.Redis.Host,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		Concurrency: concurrency,
		// media nặng nhất nhưng không gấp bằng high
		Queues: map[string]int{
			shared.QueueHigh:        20,
			shared.QueueMedia:       10,
			shared.QueueDefault:     5,
			shared.QueueMaintenance: 2,
		},
		HealthAddr: healthAddr,
		Worker:     cfg.Worker,
	}
}
