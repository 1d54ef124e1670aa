package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
)

// MockJobRepository is a mock implementation of the JobRepository port
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Create(ctx context.Context, job *entity.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Job), args.Error(1)
}

func (m *MockJobRepository) ListByImageID(ctx context.Context, imageID uuid.UUID) ([]*entity.Job, error) {
	args := m.Called(ctx, imageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Job), args.Error(1)
}

func (m *MockJobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.JobStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockJobRepository) RecordAttempt(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockJobRepository) Complete(ctx context.Context, id uuid.UUID, processedPath string) error {
	args := m.Called(ctx, id, processedPath)
	return args.Error(0)
}

func (m *MockJobRepository) DeleteByImageID(ctx context.Context, imageID uuid.UUID) error {
	args := m.Called(ctx, imageID)
	return args.Error(0)
}
