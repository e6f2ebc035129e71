package queue

import (
	"time"

	"catalog-backend/internal/config"
	"catalog-backend/internal/shared"
	"catalog-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

const pruneBatchSize = 500

type Scheduler struct {
	scheduler    *asynq.Scheduler
	workerConfig config.WorkerConfig
}

func NewScheduler(redisOpt asynq.RedisClientOpt, workerConfig config.WorkerConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler:    scheduler,
		workerConfig: workerConfig,
	}
}

func (s *Scheduler) RegisterMaintenanceJobs() error {
	return s.registerPruneOrphansJob()
}

// ================================================
// JOB: Prune orphan playlist memberships (daily)
// ================================================
// Membership rows trỏ tới video đã xóa được bỏ qua khi đọc,
// job này dọn chúng định kỳ.
func (s *Scheduler) registerPruneOrphansJob() error {
	task, err := NewTask(shared.TypePruneOrphans, shared.PruneOrphansPayload{BatchSize: pruneBatchSize})
	if err != nil {
		return err
	}

	_, err = s.scheduler.Register(
		s.workerConfig.OrphanPruneCron,
		task,
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register PruneOrphans job", err)
		return err
	}

	logger.Info("✓ Registered PruneOrphans", map[string]interface{}{"cron": s.workerConfig.OrphanPruneCron})
	return nil
}

// Start không block; signal được xử lý ở cmd/worker
func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
