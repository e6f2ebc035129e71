package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Enqueuer là phần của *asynq.Client mà services dùng
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func NewClient(redisAddr, password string, db int) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr, Password: password, DB: db})
}

// NewTask marshal payload thành JSON task
func NewTask(taskType string, payload interface{}) (*asynq.Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, raw), nil
}
