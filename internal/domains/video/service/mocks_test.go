package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"

	"catalog-backend/internal/domains/video/model"
	"catalog-backend/internal/infrastructure/storage"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context, q model.ListQuery) ([]*model.Video, int64, error) {
	args := m.Called(ctx, q)
	videos, _ := args.Get(0).([]*model.Video)
	return videos, args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*model.Video)
	return v, args.Error(1)
}

func (m *MockRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Video, error) {
	args := m.Called(ctx, ids)
	videos, _ := args.Get(0).([]*model.Video)
	return videos, args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, v *model.Video) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockRepository) Update(ctx context.Context, v *model.Video) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockRepository) TogglePublish(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*model.Video)
	return v, args.Error(1)
}

func (m *MockRepository) SetThumbnailVariants(ctx context.Context, id uuid.UUID, thumbnailKey string, variants map[string]string) error {
	return m.Called(ctx, id, thumbnailKey, variants).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Upload(ctx context.Context, file storage.File, opts storage.UploadOptions) (*storage.UploadResult, error) {
	args := m.Called(ctx, file, opts)
	res, _ := args.Get(0).(*storage.UploadResult)
	return res, args.Error(1)
}

func (m *MockMediaStore) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *MockMediaStore) Download(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockMediaStore) PutBytes(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockMediaStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	return m.Called(ctx, prefix).Error(0)
}

// memoryCache - pkg/cache.Cache trong memory, đủ cho unit test
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

// DeletePattern chỉ hỗ trợ dạng "prefix*", đủ cho service
func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if k == pattern || strings.HasPrefix(k, prefix) && prefix != pattern {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *memoryCache) count(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			n++
		}
	}
	return n
}

func (c *memoryCache) Ping(ctx context.Context) error {
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type recordingEnqueuer struct {
	mu    sync.Mutex
	tasks []*asynq.Task
}

func (e *recordingEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{ID: uuid.NewString(), Type: task.Type()}, nil
}

func (e *recordingEnqueuer) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.tasks))
	for i, t := range e.tasks {
		out[i] = t.Type()
	}
	return out
}
