package cache

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
)

// MockCache is a mock implementation of the Cache port
type MockCache struct {
	mock.Mock
}

func (m *MockCache) JobStatus(ctx context.Context, jobID uuid.UUID) (entity.JobStatus, bool) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(entity.JobStatus), args.Bool(1)
}

func (m *MockCache) StoreJobStatus(ctx context.Context, jobID uuid.UUID, status entity.JobStatus) {
	m.Called(ctx, jobID, status)
}

func (m *MockCache) WalletBalance(ctx context.Context, userID uuid.UUID) (string, bool) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Bool(1)
}

func (m *MockCache) StoreWalletBalance(ctx context.Context, userID uuid.UUID, balance string) {
	m.Called(ctx, userID, balance)
}

func (m *MockCache) DropWalletBalance(ctx context.Context, userID uuid.UUID) {
	m.Called(ctx, userID)
}
