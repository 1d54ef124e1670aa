package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
	errs "github.com/ama3it/image-workers-backend/internal/domain/error"
	cacheport "github.com/ama3it/image-workers-backend/internal/domain/port/cache"
	coreport "github.com/ama3it/image-workers-backend/internal/domain/port/core"
	"github.com/ama3it/image-workers-backend/internal/domain/port/persistence"
	queueport "github.com/ama3it/image-workers-backend/internal/domain/port/queue"
	storageport "github.com/ama3it/image-workers-backend/internal/domain/port/storage"
	transformport "github.com/ama3it/image-workers-backend/internal/domain/port/transform"
)

// Config bounds a single task's execution
type Config struct {
	// MaxAttempts is the total attempt budget per delivered task
	MaxAttempts int
	// RetryDelay is the fixed backoff between attempts
	RetryDelay time.Duration
	// TaskTimeout is the hard wall-clock ceiling per attempt
	TaskTimeout time.Duration
}

// DefaultConfig matches the pipeline's documented behavior: 3 attempts,
// 120s fixed backoff, 10 minute per-attempt ceiling.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		RetryDelay:  120 * time.Second,
		TaskTimeout: 10 * time.Minute,
	}
}

// Service drives one job at a time from PROCESSING to COMPLETED or FAILED,
// calling out to the object store and the pure transform. The queue delivers
// at least once, so Execute must be a safe no-op for jobs already done.
type Service struct {
	jobs         persistence.JobRepository
	store        storageport.ObjectStore
	transformer  transformport.Transformer
	cache        cacheport.Cache
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	config       Config
}

// NewService creates a task executor
func NewService(
	jobs persistence.JobRepository,
	store storageport.ObjectStore,
	transformer transformport.Transformer,
	cache cacheport.Cache,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	config Config,
) *Service {
	if config.MaxAttempts <= 0 {
		config = DefaultConfig()
	}
	return &Service{
		jobs:         jobs,
		store:        store,
		transformer:  transformer,
		cache:        cache,
		timeProvider: timeProvider,
		logger:       logger,
		config:       config,
	}
}

// Execute runs one delivered task through up to MaxAttempts attempts. After
// the budget is exhausted the job stays FAILED permanently and the error is
// returned for operator attention; it is never silently dropped.
func (s *Service) Execute(ctx context.Context, task queueport.Task) error {
	job, err := s.jobs.GetByID(ctx, task.JobID)
	if err != nil {
		return fmt.Errorf("loading job %s: %w", task.JobID, err)
	}

	// Redelivery of an already-completed job is a no-op; jobs that never
	// cleared payment are not the executor's to touch.
	switch job.Status {
	case entity.StatusCompleted:
		s.logger.Info("Skipping redelivered task: job already completed", map[string]any{
			"job_id": job.ID.String(),
		})
		return nil
	case entity.StatusPendingPayment, entity.StatusPaymentFailed:
		s.logger.Warn("Skipping task for unpaid job", map[string]any{
			"job_id": job.ID.String(),
			"status": string(job.Status),
		})
		return nil
	}

	var lastErr error
	for attempt := 1; attempt <= s.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = s.runAttempt(ctx, task)
		if lastErr == nil {
			return nil
		}

		s.markFailed(ctx, task)

		if errors.Is(lastErr, errs.ErrUnsupportedJobType) {
			// Terminal: retrying cannot change the job type.
			s.logger.Error("Job failed with unsupported type", map[string]any{
				"job_id":   task.JobID.String(),
				"job_type": string(task.JobType),
			})
			return lastErr
		}

		s.logger.Warn("Task attempt failed", map[string]any{
			"job_id":  task.JobID.String(),
			"attempt": attempt,
			"of":      s.config.MaxAttempts,
			"error":   lastErr.Error(),
		})

		if attempt < s.config.MaxAttempts {
			s.timeProvider.Sleep(s.config.RetryDelay)
		}
	}

	s.logger.Error("ALERT: job failed permanently after retry exhaustion", map[string]any{
		"job_id":   task.JobID.String(),
		"image_id": task.ImageID.String(),
		"attempts": s.config.MaxAttempts,
		"error":    lastErr.Error(),
	})
	return fmt.Errorf("job %s failed after %d attempts: %w", task.JobID, s.config.MaxAttempts, lastErr)
}

// runAttempt performs one bounded attempt: PROCESSING, download, transform,
// upload, then the single atomic COMPLETED+path update.
func (s *Service) runAttempt(ctx context.Context, task queueport.Task) error {
	attemptCtx, cancel := s.timeProvider.WithTimeout(ctx, s.config.TaskTimeout)
	defer cancel()

	if err := s.jobs.UpdateStatus(attemptCtx, task.JobID, entity.StatusProcessing); err != nil {
		return fmt.Errorf("marking job processing: %w", err)
	}
	s.cache.StoreJobStatus(attemptCtx, task.JobID, entity.StatusProcessing)

	if err := s.jobs.RecordAttempt(attemptCtx, task.JobID); err != nil {
		s.logger.Warn("Failed to record job attempt", map[string]any{
			"job_id": task.JobID.String(),
			"error":  err.Error(),
		})
	}

	data, err := s.store.Download(attemptCtx, task.StoragePath)
	if err != nil {
		return fmt.Errorf("%w: downloading %s: %s", errs.ErrUpstreamStorage, task.StoragePath, err.Error())
	}

	result, err := s.transformer.Apply(task.JobType, task.StoragePath, data)
	if err != nil {
		return err
	}

	processedPath := "processed/" + result.FileName
	if err := s.store.Upload(attemptCtx, processedPath, result.Data, ""); err != nil {
		return fmt.Errorf("%w: uploading %s: %s", errs.ErrUpstreamStorage, processedPath, err.Error())
	}

	if err := s.jobs.Complete(attemptCtx, task.JobID, processedPath); err != nil {
		return fmt.Errorf("completing job: %w", err)
	}
	s.cache.StoreJobStatus(attemptCtx, task.JobID, entity.StatusCompleted)

	s.logger.Info("Job completed", map[string]any{
		"job_id":         task.JobID.String(),
		"image_id":       task.ImageID.String(),
		"job_type":       string(task.JobType),
		"processed_path": processedPath,
	})
	return nil
}

func (s *Service) markFailed(ctx context.Context, task queueport.Task) {
	if err := s.jobs.UpdateStatus(ctx, task.JobID, entity.StatusFailed); err != nil {
		s.logger.Error("Failed to mark job failed", map[string]any{
			"job_id": task.JobID.String(),
			"error":  err.Error(),
		})
		return
	}
	s.cache.StoreJobStatus(ctx, task.JobID, entity.StatusFailed)
}
