package persistence

import (
	"context"
)

// UnitOfWork coordinates writes that span multiple repositories inside one
// database transaction, such as the hard-delete cascade of an image and its
// jobs.
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// GetImageRepository returns an image repository bound to the current transaction
	GetImageRepository(ctx context.Context) ImageRepository

	// GetJobRepository returns a job repository bound to the current transaction
	GetJobRepository(ctx context.Context) JobRepository
}
