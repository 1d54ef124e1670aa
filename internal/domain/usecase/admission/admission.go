package admission

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
	errs "github.com/ama3it/image-workers-backend/internal/domain/error"
	coreport "github.com/ama3it/image-workers-backend/internal/domain/port/core"
	"github.com/ama3it/image-workers-backend/internal/domain/port/persistence"
	queueport "github.com/ama3it/image-workers-backend/internal/domain/port/queue"
	storageport "github.com/ama3it/image-workers-backend/internal/domain/port/storage"
	usecaseport "github.com/ama3it/image-workers-backend/internal/domain/port/usecase"
)

// allowedContentTypes is the upload allow-list
var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// SubmitRequest carries one upload-and-process request
type SubmitRequest struct {
	UserID      uuid.UUID
	FileName    string
	ContentType string
	Data        []byte
	Label       string
	ImageType   string
	Note        string
	JobType     entity.JobType
	Priority    entity.Priority
}

// SubmitResult is the accepted-job view returned to the caller. The request
// returns once the job is QUEUED; processing latency is decoupled from
// request latency.
type SubmitResult struct {
	Image *entity.Image
	Job   *entity.Job
}

// Service is the admission controller: it orchestrates upload, job creation,
// pricing, debit and enqueue, deciding accept or reject. Each step is a
// distinct failure point handled without leaking partial state.
type Service struct {
	images       persistence.ImageRepository
	jobs         persistence.JobRepository
	wallet       usecaseport.WalletUseCase
	store        storageport.ObjectStore
	queue        queueport.TaskQueue
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates an admission controller
func NewService(
	images persistence.ImageRepository,
	jobs persistence.JobRepository,
	wallet usecaseport.WalletUseCase,
	store storageport.ObjectStore,
	queue queueport.TaskQueue,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		images:       images,
		jobs:         jobs,
		wallet:       wallet,
		store:        store,
		queue:        queue,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Submit admits one upload-and-process request. A job is billed exactly once,
// at the debit step, with its own id as the ledger reference.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	ext, ok := allowedContentTypes[req.ContentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s (only JPEG, PNG and WebP are supported)", errs.ErrUnsupportedMediaType, req.ContentType)
	}

	if _, err := entity.ParseJobType(string(req.JobType)); err != nil {
		return nil, err
	}

	// Store the raw bytes first. A failure here aborts with no database writes.
	if e := filepath.Ext(req.FileName); e != "" {
		ext = e
	}
	storagePath := fmt.Sprintf("user_%s/%s%s", req.UserID, uuid.New(), ext)
	if err := s.store.Upload(ctx, storagePath, req.Data, req.ContentType); err != nil {
		s.logger.Error("Upload to object store failed", map[string]any{
			"user_id": req.UserID.String(),
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrUpstreamStorage, err.Error())
	}

	image, err := entity.NewImage(req.UserID, req.Label, req.ImageType, req.Note, storagePath, s.timeProvider)
	if err != nil {
		return nil, err
	}
	if err := s.images.Create(ctx, image); err != nil {
		return nil, fmt.Errorf("creating image record: %w", err)
	}

	job, err := entity.NewJob(image.ID, req.JobType, req.Priority, s.timeProvider)
	if err != nil {
		return nil, err
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("creating job record: %w", err)
	}

	charge, err := s.wallet.ChargeForJob(ctx, req.UserID, job.Type, job.Priority, job.ID)
	if err != nil {
		return nil, err
	}

	if !charge.Charged {
		// The job row is retained in PAYMENT_FAILED as an audit trail of the
		// failed attempt.
		if err := s.jobs.UpdateStatus(ctx, job.ID, entity.StatusPaymentFailed); err != nil {
			s.logger.Error("Failed to mark job payment_failed", map[string]any{
				"job_id": job.ID.String(),
				"error":  err.Error(),
			})
		}
		return nil, errs.NewPaymentRequiredError(req.UserID.String(), job.ID.String(), charge.PriceCents, charge.Price)
	}

	if err := s.jobs.UpdateStatus(ctx, job.ID, entity.StatusQueued); err != nil {
		return nil, fmt.Errorf("queueing job %s: %w", job.ID, err)
	}
	job.Status = entity.StatusQueued

	task := queueport.Task{
		JobID:       job.ID,
		ImageID:     image.ID,
		StoragePath: storagePath,
		JobType:     job.Type,
	}
	if err := s.queue.Enqueue(ctx, task); err != nil {
		return nil, s.compensateEnqueueFailure(ctx, req.UserID, job, charge.PriceCents, err)
	}

	s.logger.Info("Job admitted", map[string]any{
		"user_id":  req.UserID.String(),
		"image_id": image.ID.String(),
		"job_id":   job.ID.String(),
		"job_type": string(job.Type),
		"priority": string(job.Priority),
		"price":    charge.Price,
	})

	return &SubmitResult{Image: image, Job: job}, nil
}

// compensateEnqueueFailure handles the correctness hazard of money taken with
// no work scheduled: the debit is compensated with a REFUND keyed by the job
// id and the condition is surfaced as a distinguished alertable error.
func (s *Service) compensateEnqueueFailure(ctx context.Context, userID uuid.UUID, job *entity.Job, priceCents int64, enqueueErr error) error {
	refunded := true
	if _, err := s.wallet.RefundJob(ctx, userID, priceCents, job.ID); err != nil {
		// Refund failed too: the ledger now disagrees with the work queue and
		// an operator has to reconcile from the DEBIT row.
		refunded = false
		s.logger.Error("Compensating refund failed after enqueue failure", map[string]any{
			"user_id": userID.String(),
			"job_id":  job.ID.String(),
			"error":   err.Error(),
		})
	}

	if err := s.jobs.UpdateStatus(ctx, job.ID, entity.StatusProcessing); err == nil {
		// Walk QUEUED->PROCESSING->FAILED so the failure is recorded without
		// bypassing the lifecycle guard.
		_ = s.jobs.UpdateStatus(ctx, job.ID, entity.StatusFailed)
	}

	alert := &errs.EnqueueAfterDebitError{
		UserID:      userID.String(),
		JobID:       job.ID.String(),
		AmountCents: priceCents,
		Refunded:    refunded,
		Err:         enqueueErr,
	}
	s.logger.Error("ALERT: enqueue failed after wallet debit", alert.LogFields())
	return alert
}
