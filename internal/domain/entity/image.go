package entity

import (
	"time"

	"github.com/google/uuid"

	errs "github.com/ama3it/image-workers-backend/internal/domain/error"
	coreport "github.com/ama3it/image-workers-backend/internal/domain/port/core"
)

// Image is an uploaded original. It owns zero or more Jobs and is immutable
// after creation except for soft deletion.
type Image struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Label       string
	ImageType   string
	Note        string
	StoragePath string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewImage creates an image record for an upload already persisted to object storage
func NewImage(userID uuid.UUID, label, imageType, note, storagePath string, timeProvider coreport.TimeProvider) (*Image, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrInvalidRequest
	}
	if label == "" || storagePath == "" {
		return nil, errs.ErrInvalidRequest
	}

	now := timeProvider.Now()
	return &Image{
		ID:          uuid.New(),
		UserID:      userID,
		Label:       label,
		ImageType:   imageType,
		Note:        note,
		StoragePath: storagePath,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// OwnedBy reports whether the image belongs to the given user
func (i *Image) OwnedBy(userID uuid.UUID) bool {
	return i.UserID == userID
}
