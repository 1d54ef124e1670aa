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

// ImageRepository implements ImageRepository using GORM. Soft deletion goes
// through gorm.DeletedAt; hard deletion uses Unscoped.
type ImageRepository struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewImageRepository creates a new ImageRepository instance
func NewImageRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *ImageRepository {
	return &ImageRepository{
		db:           db,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

func imageModelToEntity(imageModel *model.Image) (*entity.Image, error) {
	id, err := uuid.Parse(imageModel.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed image id %q", errs.ErrInternalServer, imageModel.ID)
	}
	userID, err := uuid.Parse(imageModel.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed image owner id %q", errs.ErrInternalServer, imageModel.UserID)
	}

	return &entity.Image{
		ID:          id,
		UserID:      userID,
		Label:       imageModel.Label,
		ImageType:   imageModel.ImageType,
		Note:        imageModel.Note,
		StoragePath: imageModel.StoragePath,
		CreatedAt:   imageModel.CreatedAt,
		UpdatedAt:   imageModel.UpdatedAt,
	}, nil
}

// Create persists a new image record
func (r *ImageRepository) Create(ctx context.Context, image *entity.Image) error {
	imageModel := model.Image{
		ID:          image.ID.String(),
		UserID:      image.UserID.String(),
		Label:       image.Label,
		ImageType:   image.ImageType,
		Note:        image.Note,
		StoragePath: image.StoragePath,
		CreatedAt:   image.CreatedAt,
		UpdatedAt:   image.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Create(&imageModel)
	if result.Error != nil {
		r.logger.Error("Database error when creating image", map[string]any{
			"image_id": image.ID.String(),
			"user_id":  image.UserID.String(),
			"error":    result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	r.logger.Debug("Image record created", map[string]any{
		"image_id":     image.ID.String(),
		"user_id":      image.UserID.String(),
		"storage_path": image.StoragePath,
	})
	return nil
}

// GetByID retrieves an image by ID, excluding soft-deleted rows
func (r *ImageRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Image, error) {
	var imageModel model.Image
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&imageModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrImageNotFound
		}
		r.logger.Error("Database error when getting image", map[string]any{
			"image_id": id.String(),
			"error":    result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return imageModelToEntity(&imageModel)
}

// ListByUserID returns the user's images, newest first
func (r *ImageRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Image, error) {
	var imageModels []model.Image
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&imageModels)

	if result.Error != nil {
		r.logger.Error("Database error when listing images", map[string]any{
			"user_id": userID.String(),
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	images := make([]*entity.Image, 0, len(imageModels))
	for i := range imageModels {
		image, err := imageModelToEntity(&imageModels[i])
		if err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, nil
}

// SoftDelete flags an image as deleted without removing the row
func (r *ImageRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&model.Image{})
	if result.Error != nil {
		r.logger.Error("Database error when soft-deleting image", map[string]any{
			"image_id": id.String(),
			"error":    result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errs.ErrImageNotFound
	}

	r.logger.Info("Image soft-deleted", map[string]any{"image_id": id.String()})
	return nil
}

// HardDelete removes the image row permanently
func (r *ImageRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Unscoped().Where("id = ?", id.String()).Delete(&model.Image{})
	if result.Error != nil {
		r.logger.Error("Database error when hard-deleting image", map[string]any{
			"image_id": id.String(),
			"error":    result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errs.ErrImageNotFound
	}

	r.logger.Info("Image permanently deleted", map[string]any{"image_id": id.String()})
	return nil
}
