package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
	errs "github.com/ama3it/image-workers-backend/internal/domain/error"
	coreport "github.com/ama3it/image-workers-backend/internal/domain/port/core"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/model"
)

// JobRepository implements JobRepository using GORM. Status writes are guarded
// by the lifecycle in the WHERE clause, so a stale or concurrent writer can
// never regress a job that has already moved on.
type JobRepository struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewJobRepository creates a new JobRepository instance
func NewJobRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *JobRepository {
	return &JobRepository{
		db:           db,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

func jobModelToEntity(jobModel *model.ImageJob) (*entity.Job, error) {
	id, err := uuid.Parse(jobModel.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed job id %q", errs.ErrInternalServer, jobModel.ID)
	}
	imageID, err := uuid.Parse(jobModel.ImageID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed job image id %q", errs.ErrInternalServer, jobModel.ImageID)
	}

	return &entity.Job{
		ID:          id,
		ImageID:     imageID,
		Type:        entity.JobType(jobModel.JobType),
		Priority:    entity.Priority(jobModel.Priority),
		Status:      entity.JobStatus(jobModel.Status),
		StoragePath: jobModel.StoragePath,
		Attempts:    jobModel.Attempts,
		CreatedAt:   jobModel.CreatedAt,
		UpdatedAt:   jobModel.UpdatedAt,
	}, nil
}

// Create persists a new job record
func (r *JobRepository) Create(ctx context.Context, job *entity.Job) error {
	jobModel := model.ImageJob{
		ID:          job.ID.String(),
		ImageID:     job.ImageID.String(),
		JobType:     string(job.Type),
		Priority:    string(job.Priority),
		Status:      string(job.Status),
		StoragePath: job.StoragePath,
		Attempts:    job.Attempts,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Create(&jobModel)
	if result.Error != nil {
		r.logger.Error("Database error when creating job", map[string]any{
			"job_id":   job.ID.String(),
			"image_id": job.ImageID.String(),
			"error":    result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	r.logger.Debug("Job record created", map[string]any{
		"job_id":   job.ID.String(),
		"image_id": job.ImageID.String(),
		"job_type": string(job.Type),
		"status":   string(job.Status),
	})
	return nil
}

// GetByID retrieves a job by ID
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	var jobModel model.ImageJob
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&jobModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrJobNotFound
		}
		r.logger.Error("Database error when getting job", map[string]any{
			"job_id": id.String(),
			"error":  result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return jobModelToEntity(&jobModel)
}

// ListByImageID returns all jobs belonging to an image, oldest first
func (r *JobRepository) ListByImageID(ctx context.Context, imageID uuid.UUID) ([]*entity.Job, error) {
	var jobModels []model.ImageJob
	result := r.db.WithContext(ctx).
		Where("image_id = ?", imageID.String()).
		Order("created_at ASC").
		Find(&jobModels)

	if result.Error != nil {
		r.logger.Error("Database error when listing jobs", map[string]any{
			"image_id": imageID.String(),
			"error":    result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	jobs := make([]*entity.Job, 0, len(jobModels))
	for i := range jobModels {
		job, err := jobModelToEntity(&jobModels[i])
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// UpdateStatus moves a job to the given status. The WHERE clause restricts the
// update to statuses the lifecycle allows as sources, making the transition
// check and the write one atomic statement.
func (r *JobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.JobStatus) error {
	sources := entity.TransitionSources(status)
	if len(sources) == 0 {
		return fmt.Errorf("%w: no lifecycle path to status %q", errs.ErrInvalidTransition, status)
	}

	result := r.db.WithContext(ctx).Model(&model.ImageJob{}).
		Where("id = ? AND status IN ?", id.String(), sources).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": r.timeProvider.Now(),
		})
	if result.Error != nil {
		r.logger.Error("Database error when updating job status", map[string]any{
			"job_id": id.String(),
			"status": string(status),
			"error":  result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return r.explainRejectedWrite(ctx, id, status)
	}

	r.logger.Info("Job status updated", map[string]any{
		"job_id": id.String(),
		"status": string(status),
	})
	return nil
}

// RecordAttempt increments the job's attempt counter
func (r *JobRepository) RecordAttempt(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&model.ImageJob{}).
		Where("id = ?", id.String()).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + ?", 1),
			"updated_at": r.timeProvider.Now(),
		})
	if result.Error != nil {
		r.logger.Error("Database error when recording job attempt", map[string]any{
			"job_id": id.String(),
			"error":  result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errs.ErrJobNotFound
	}
	return nil
}

// Complete marks the job COMPLETED and rewrites its storage path to the
// processed output in one statement, conditional on the job still PROCESSING
func (r *JobRepository) Complete(ctx context.Context, id uuid.UUID, processedPath string) error {
	result := r.db.WithContext(ctx).Model(&model.ImageJob{}).
		Where("id = ? AND status = ?", id.String(), string(entity.StatusProcessing)).
		Updates(map[string]interface{}{
			"status":       string(entity.StatusCompleted),
			"storage_path": processedPath,
			"updated_at":   r.timeProvider.Now(),
		})
	if result.Error != nil {
		r.logger.Error("Database error when completing job", map[string]any{
			"job_id": id.String(),
			"error":  result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return r.explainRejectedWrite(ctx, id, entity.StatusCompleted)
	}

	r.logger.Info("Job completed", map[string]any{
		"job_id":         id.String(),
		"processed_path": processedPath,
	})
	return nil
}

// DeleteByImageID removes all jobs for an image
func (r *JobRepository) DeleteByImageID(ctx context.Context, imageID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("image_id = ?", imageID.String()).
		Delete(&model.ImageJob{})
	if result.Error != nil {
		r.logger.Error("Database error when deleting jobs for image", map[string]any{
			"image_id": imageID.String(),
			"error":    result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	r.logger.Info("Jobs deleted for image", map[string]any{
		"image_id": imageID.String(),
		"count":    result.RowsAffected,
	})
	return nil
}

// explainRejectedWrite distinguishes a missing job from a forbidden transition
// after a guarded update touched zero rows
func (r *JobRepository) explainRejectedWrite(ctx context.Context, id uuid.UUID, target entity.JobStatus) error {
	var jobModel model.ImageJob
	result := r.db.WithContext(ctx).Select("status").Where("id = ?", id.String()).First(&jobModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return errs.ErrJobNotFound
		}
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	r.logger.Warn("Job status write rejected by lifecycle guard", map[string]any{
		"job_id": id.String(),
		"from":   jobModel.Status,
		"to":     string(target),
	})
	return &errs.TransitionError{JobID: id.String(), From: jobModel.Status, To: string(target)}
}
