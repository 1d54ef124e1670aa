package queue

import (
	"context"

	"github.com/google/uuid"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
)

// Task is the unit of work handed from the admission path to the executor.
// It carries everything the worker needs so the hot path avoids an extra
// image lookup.
type Task struct {
	JobID       uuid.UUID      `json:"job_id"`
	ImageID     uuid.UUID      `json:"image_id"`
	StoragePath string         `json:"storage_path"`
	JobType     entity.JobType `json:"job_type"`
}

// TaskQueue is the producer side of the durable job queue. Delivery is
// at-least-once; consumers must tolerate redelivery.
type TaskQueue interface {
	// Enqueue submits a task for asynchronous processing
	Enqueue(ctx context.Context, task Task) error

	// Close releases the underlying producer
	Close() error
}
