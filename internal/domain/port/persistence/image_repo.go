package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
)

// ImageRepository persists uploaded image records
type ImageRepository interface {
	// Create persists a new image record
	Create(ctx context.Context, image *entity.Image) error

	// GetByID retrieves an image by ID, excluding soft-deleted rows
	//
	// Possible errors:
	// - ErrImageNotFound: if the image doesn't exist or was soft-deleted
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Image, error)

	// ListByUserID returns the user's images, newest first
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Image, error)

	// SoftDelete flags an image as deleted without removing the row
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// HardDelete removes the image row permanently
	HardDelete(ctx context.Context, id uuid.UUID) error
}
