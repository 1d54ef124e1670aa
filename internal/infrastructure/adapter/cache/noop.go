package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
)

// NoopCache is a cache that never hits. Used in tests and when Redis is not
// configured.
type NoopCache struct{}

// NewNoopCache creates a new no-op cache
func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

// JobStatus always misses
func (c *NoopCache) JobStatus(ctx context.Context, jobID uuid.UUID) (entity.JobStatus, bool) {
	return "", false
}

// StoreJobStatus does nothing
func (c *NoopCache) StoreJobStatus(ctx context.Context, jobID uuid.UUID, status entity.JobStatus) {
}

// WalletBalance always misses
func (c *NoopCache) WalletBalance(ctx context.Context, userID uuid.UUID) (string, bool) {
	return "", false
}

// StoreWalletBalance does nothing
func (c *NoopCache) StoreWalletBalance(ctx context.Context, userID uuid.UUID, balance string) {
}

// DropWalletBalance does nothing
func (c *NoopCache) DropWalletBalance(ctx context.Context, userID uuid.UUID) {
}
