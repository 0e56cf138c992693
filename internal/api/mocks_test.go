package api

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/store"
)

// mockTaskService mocks the service.TaskService interface
type mockTaskService struct {
	mock.Mock
}

func (m *mockTaskService) ListTasks(
	ctx context.Context,
	skip, limit int,
) ([]*domain.Task, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *mockTaskService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *mockTaskService) CreateTask(
	ctx context.Context,
	title string,
	description *string,
) (*domain.Task, error) {
	args := m.Called(ctx, title, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *mockTaskService) UpdateTask(
	ctx context.Context,
	id int64,
	params store.UpdateTaskParams,
) (*domain.Task, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *mockTaskService) DeleteTask(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTaskService) GetStats(ctx context.Context) (domain.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Stats), args.Error(1)
}

// stubPinger satisfies DBPinger with a fixed probe result.
type stubPinger struct {
	err error
}

func (s stubPinger) PingContext(ctx context.Context) error {
	return s.err
}

// stubCache satisfies cache.Cache for health checks; only Ping matters here.
type stubCache struct {
	pingErr error
}

func (c *stubCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	return false, nil
}

func (c *stubCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return nil
}

func (c *stubCache) Delete(ctx context.Context, key string) error {
	return nil
}

func (c *stubCache) DeletePattern(ctx context.Context, pattern string) error {
	return nil
}

func (c *stubCache) Ping(ctx context.Context) error {
	return c.pingErr
}

func (c *stubCache) Close() error {
	return nil
}
