package image

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
	errs "github.com/ama3it/image-workers-backend/internal/domain/error"
	cacheport "github.com/ama3it/image-workers-backend/internal/domain/port/cache"
	coreport "github.com/ama3it/image-workers-backend/internal/domain/port/core"
	"github.com/ama3it/image-workers-backend/internal/domain/port/persistence"
	storageport "github.com/ama3it/image-workers-backend/internal/domain/port/storage"
)

// signedURLTTL is how long a generated access URL stays valid
const signedURLTTL = time.Hour

// Detail is an image together with its jobs and a fresh signed URL
type Detail struct {
	Image     *entity.Image
	Jobs      []*entity.Job
	SignedURL string
}

// Service implements the image catalog use cases: listing, detail reads and
// soft or permanent deletion.
type Service struct {
	images       persistence.ImageRepository
	jobs         persistence.JobRepository
	uow          persistence.UnitOfWork
	store        storageport.ObjectStore
	cache        cacheport.Cache
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates an image catalog service
func NewService(
	images persistence.ImageRepository,
	jobs persistence.JobRepository,
	uow persistence.UnitOfWork,
	store storageport.ObjectStore,
	cache cacheport.Cache,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		images:       images,
		jobs:         jobs,
		uow:          uow,
		store:        store,
		cache:        cache,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// List returns the user's images, newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Image, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.images.ListByUserID(ctx, userID, limit, offset)
}

// Get returns one owned image with its jobs and a signed URL for the original.
// Job statuses come from the cache when the worker has a fresher value.
func (s *Service) Get(ctx context.Context, userID, imageID uuid.UUID) (*Detail, error) {
	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if !img.OwnedBy(userID) {
		// Not leaking existence of other users' images.
		return nil, errs.ErrImageNotFound
	}

	jobs, err := s.jobs.ListByImageID(ctx, imageID)
	if err != nil {
		return nil, err
	}
	for _, job := range jobs {
		if status, ok := s.cache.JobStatus(ctx, job.ID); ok {
			job.Status = status
		}
	}

	url, err := s.store.SignedURL(ctx, img.StoragePath, signedURLTTL)
	if err != nil {
		// The record is still useful without a URL; storage may be flaky.
		s.logger.Warn("Failed to sign URL for image", map[string]any{
			"image_id": imageID.String(),
			"error":    err.Error(),
		})
		url = ""
	}

	return &Detail{Image: img, Jobs: jobs, SignedURL: url}, nil
}

// Delete removes an image. Soft deletion flags the record; permanent deletion
// removes the object-store blobs and cascades the job rows in one database
// transaction.
func (s *Service) Delete(ctx context.Context, userID, imageID uuid.UUID, permanent bool) error {
	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return err
	}
	if !img.OwnedBy(userID) {
		return errs.ErrImageNotFound
	}

	if !permanent {
		if err := s.images.SoftDelete(ctx, imageID); err != nil {
			return fmt.Errorf("soft-deleting image %s: %w", imageID, err)
		}
		s.logger.Info("Image soft-deleted", map[string]any{"image_id": imageID.String()})
		return nil
	}

	jobs, err := s.jobs.ListByImageID(ctx, imageID)
	if err != nil {
		return err
	}

	// Blobs go first: if storage fails the rows survive and deletion can be
	// retried. Row removal is transactional.
	paths := []string{img.StoragePath}
	for _, job := range jobs {
		if job.StoragePath != "" {
			paths = append(paths, job.StoragePath)
		}
	}
	for _, path := range paths {
		if _, err := s.store.Delete(ctx, path); err != nil {
			return fmt.Errorf("%w: deleting %s: %s", errs.ErrUpstreamStorage, path, err.Error())
		}
	}

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return err
	}
	if err := s.uow.GetJobRepository(txCtx).DeleteByImageID(txCtx, imageID); err != nil {
		_ = s.uow.Rollback(txCtx)
		return fmt.Errorf("deleting jobs for image %s: %w", imageID, err)
	}
	if err := s.uow.GetImageRepository(txCtx).HardDelete(txCtx, imageID); err != nil {
		_ = s.uow.Rollback(txCtx)
		return fmt.Errorf("deleting image %s: %w", imageID, err)
	}
	if err := s.uow.Commit(txCtx); err != nil {
		return err
	}

	s.logger.Info("Image permanently deleted", map[string]any{
		"image_id": imageID.String(),
		"jobs":     len(jobs),
		"blobs":    len(paths),
	})
	return nil
}
