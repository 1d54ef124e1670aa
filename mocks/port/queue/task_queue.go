package queue

import (
	"context"

	"github.com/stretchr/testify/mock"

	queueport "github.com/ama3it/image-workers-backend/internal/domain/port/queue"
)

// MockTaskQueue is a mock implementation of the TaskQueue port
type MockTaskQueue struct {
	mock.Mock
}

func (m *MockTaskQueue) Enqueue(ctx context.Context, task queueport.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskQueue) Close() error {
	args := m.Called()
	return args.Error(0)
}
