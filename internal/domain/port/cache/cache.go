package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
)

// Cache holds short-lived read-through copies of hot values: wallet balances
// for the balance endpoint and job statuses for polling clients. It is an
// optimization only; every caller must fall back to the database on a miss,
// and cache failures are logged and ignored rather than surfaced.
type Cache interface {
	// JobStatus returns the cached status for a job, if any
	JobStatus(ctx context.Context, jobID uuid.UUID) (entity.JobStatus, bool)

	// StoreJobStatus caches a job's status
	StoreJobStatus(ctx context.Context, jobID uuid.UUID, status entity.JobStatus)

	// WalletBalance returns the cached formatted balance for a user, if any
	WalletBalance(ctx context.Context, userID uuid.UUID) (string, bool)

	// StoreWalletBalance caches a user's formatted balance
	StoreWalletBalance(ctx context.Context, userID uuid.UUID, balance string)

	// DropWalletBalance invalidates a user's cached balance after a mutation
	DropWalletBalance(ctx context.Context, userID uuid.UUID)
}
