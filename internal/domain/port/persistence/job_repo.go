package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
)

// JobRepository persists image processing jobs
type JobRepository interface {
	// Create persists a new job record
	Create(ctx context.Context, job *entity.Job) error

	// GetByID retrieves a job by ID
	//
	// Possible errors:
	// - ErrJobNotFound: if the job doesn't exist
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, error)

	// ListByImageID returns all jobs belonging to an image
	ListByImageID(ctx context.Context, imageID uuid.UUID) ([]*entity.Job, error)

	// UpdateStatus moves a job to the given status. The write is guarded by the
	// lifecycle: it only succeeds when the current status permits the transition,
	// so concurrent writers and redelivered tasks cannot regress a terminal job.
	//
	// Possible errors:
	// - ErrJobNotFound: if the job doesn't exist
	// - ErrInvalidTransition: if the current status forbids the transition
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.JobStatus) error

	// RecordAttempt increments the job's attempt counter
	RecordAttempt(ctx context.Context, id uuid.UUID) error

	// Complete marks the job COMPLETED and rewrites its storage path to the
	// processed output location in one atomic update, so no observer can see a
	// completed job still pointing at its input.
	//
	// Possible errors:
	// - ErrJobNotFound: if the job doesn't exist
	// - ErrInvalidTransition: if the job is not PROCESSING
	Complete(ctx context.Context, id uuid.UUID, processedPath string) error

	// DeleteByImageID removes all jobs for an image (hard-delete path only)
	DeleteByImageID(ctx context.Context, imageID uuid.UUID) error
}
