package storage

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockObjectStore is a mock implementation of the ObjectStore port
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	args := m.Called(ctx, path, data, contentType)
	return args.Error(0)
}

func (m *MockObjectStore) Download(ctx context.Context, path string) ([]byte, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockObjectStore) Delete(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}

func (m *MockObjectStore) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, path, ttl)
	return args.String(0), args.Error(1)
}
