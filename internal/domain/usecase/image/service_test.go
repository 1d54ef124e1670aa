package image

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
	errs "github.com/ama3it/image-workers-backend/internal/domain/error"
	cacheadapter "github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/cache"
	loggeradapter "github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/logger"
	"github.com/ama3it/image-workers-backend/mocks/port/core"
	mockcache "github.com/ama3it/image-workers-backend/mocks/port/cache"
	mockpersistence "github.com/ama3it/image-workers-backend/mocks/port/persistence"
	mockstorage "github.com/ama3it/image-workers-backend/mocks/port/storage"
)

type imageMocks struct {
	images *mockpersistence.MockImageRepository
	jobs   *mockpersistence.MockJobRepository
	uow    *mockpersistence.MockUnitOfWork
	store  *mockstorage.MockObjectStore
}

func newImageService() (*Service, *imageMocks) {
	m := &imageMocks{
		images: new(mockpersistence.MockImageRepository),
		jobs:   new(mockpersistence.MockJobRepository),
		uow:    new(mockpersistence.MockUnitOfWork),
		store:  new(mockstorage.MockObjectStore),
	}

	mockTimeProvider := new(core.MockTimeProvider)
	mockTimeProvider.On("Now").Return(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	service := NewService(m.images, m.jobs, m.uow, m.store, cacheadapter.NewNoopCache(), mockTimeProvider, loggeradapter.NewNoopLogger())
	return service, m
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("should clamp out-of-range limits", func(t *testing.T) {
		service, m := newImageService()
		m.images.On("ListByUserID", ctx, userID, 100, 0).Return([]*entity.Image{}, nil)

		_, err := service.List(ctx, userID, -5, 0)

		assert.NoError(t, err)
		m.images.AssertExpectations(t)
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	imageID := uuid.New()

	t.Run("should return the image with jobs and a signed URL", func(t *testing.T) {
		service, m := newImageService()

		img := &entity.Image{ID: imageID, UserID: userID, StoragePath: "user_abc/photo.jpg"}
		jobs := []*entity.Job{{ID: uuid.New(), ImageID: imageID, Status: entity.StatusQueued}}

		m.images.On("GetByID", ctx, imageID).Return(img, nil)
		m.jobs.On("ListByImageID", ctx, imageID).Return(jobs, nil)
		m.store.On("SignedURL", ctx, "user_abc/photo.jpg", time.Hour).Return("https://signed.example/photo.jpg", nil)

		detail, err := service.Get(ctx, userID, imageID)

		assert.NoError(t, err)
		assert.Equal(t, img, detail.Image)
		assert.Equal(t, jobs, detail.Jobs)
		assert.Equal(t, "https://signed.example/photo.jpg", detail.SignedURL)
	})

	t.Run("should hide other users' images", func(t *testing.T) {
		service, m := newImageService()

		img := &entity.Image{ID: imageID, UserID: uuid.New(), StoragePath: "user_other/photo.jpg"}
		m.images.On("GetByID", ctx, imageID).Return(img, nil)

		_, err := service.Get(ctx, userID, imageID)

		assert.ErrorIs(t, err, errs.ErrImageNotFound)
		m.jobs.AssertNotCalled(t, "ListByImageID", mock.Anything, mock.Anything)
	})

	t.Run("should prefer a fresher cached job status", func(t *testing.T) {
		mocks := &imageMocks{
			images: new(mockpersistence.MockImageRepository),
			jobs:   new(mockpersistence.MockJobRepository),
			uow:    new(mockpersistence.MockUnitOfWork),
			store:  new(mockstorage.MockObjectStore),
		}
		jobID := uuid.New()
		cache := new(mockcache.MockCache)
		cache.On("JobStatus", ctx, jobID).Return(entity.StatusCompleted, true)

		mockTimeProvider := new(core.MockTimeProvider)
		service := NewService(mocks.images, mocks.jobs, mocks.uow, mocks.store, cache, mockTimeProvider, loggeradapter.NewNoopLogger())

		img := &entity.Image{ID: imageID, UserID: userID, StoragePath: "user_abc/photo.jpg"}
		jobs := []*entity.Job{{ID: jobID, ImageID: imageID, Status: entity.StatusProcessing}}
		mocks.images.On("GetByID", ctx, imageID).Return(img, nil)
		mocks.jobs.On("ListByImageID", ctx, imageID).Return(jobs, nil)
		mocks.store.On("SignedURL", ctx, "user_abc/photo.jpg", time.Hour).Return("https://signed.example/photo.jpg", nil)

		detail, err := service.Get(ctx, userID, imageID)

		assert.NoError(t, err)
		assert.Equal(t, entity.StatusCompleted, detail.Jobs[0].Status)
	})

	t.Run("should still return the record when signing fails", func(t *testing.T) {
		service, m := newImageService()

		img := &entity.Image{ID: imageID, UserID: userID, StoragePath: "user_abc/photo.jpg"}
		m.images.On("GetByID", ctx, imageID).Return(img, nil)
		m.jobs.On("ListByImageID", ctx, imageID).Return([]*entity.Job{}, nil)
		m.store.On("SignedURL", ctx, "user_abc/photo.jpg", time.Hour).Return("", errs.ErrUpstreamStorage)

		detail, err := service.Get(ctx, userID, imageID)

		assert.NoError(t, err)
		assert.Empty(t, detail.SignedURL)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	imageID := uuid.New()

	t.Run("should soft delete by default", func(t *testing.T) {
		service, m := newImageService()

		img := &entity.Image{ID: imageID, UserID: userID, StoragePath: "user_abc/photo.jpg"}
		m.images.On("GetByID", ctx, imageID).Return(img, nil)
		m.images.On("SoftDelete", ctx, imageID).Return(nil)

		err := service.Delete(ctx, userID, imageID, false)

		assert.NoError(t, err)
		m.store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		m.uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("should hard delete blobs and rows transactionally", func(t *testing.T) {
		service, m := newImageService()

		img := &entity.Image{ID: imageID, UserID: userID, StoragePath: "user_abc/photo.jpg"}
		jobs := []*entity.Job{
			{ID: uuid.New(), ImageID: imageID, Status: entity.StatusCompleted, StoragePath: "processed/photo_grey.jpg"},
		}
		m.images.On("GetByID", ctx, imageID).Return(img, nil)
		m.jobs.On("ListByImageID", ctx, imageID).Return(jobs, nil)
		m.store.On("Delete", ctx, "user_abc/photo.jpg").Return(true, nil)
		m.store.On("Delete", ctx, "processed/photo_grey.jpg").Return(true, nil)

		txCtx := context.WithValue(ctx, struct{ k string }{"tx"}, "tx")
		txImages := new(mockpersistence.MockImageRepository)
		txJobs := new(mockpersistence.MockJobRepository)
		m.uow.On("Begin", ctx).Return(txCtx, nil)
		m.uow.On("GetJobRepository", txCtx).Return(txJobs)
		m.uow.On("GetImageRepository", txCtx).Return(txImages)
		txJobs.On("DeleteByImageID", txCtx, imageID).Return(nil)
		txImages.On("HardDelete", txCtx, imageID).Return(nil)
		m.uow.On("Commit", txCtx).Return(nil)

		err := service.Delete(ctx, userID, imageID, true)

		assert.NoError(t, err)
		m.store.AssertNumberOfCalls(t, "Delete", 2)
		m.uow.AssertExpectations(t)
		txJobs.AssertExpectations(t)
		txImages.AssertExpectations(t)
	})

	t.Run("should keep rows when a blob delete fails", func(t *testing.T) {
		service, m := newImageService()

		img := &entity.Image{ID: imageID, UserID: userID, StoragePath: "user_abc/photo.jpg"}
		m.images.On("GetByID", ctx, imageID).Return(img, nil)
		m.jobs.On("ListByImageID", ctx, imageID).Return([]*entity.Job{}, nil)
		m.store.On("Delete", ctx, "user_abc/photo.jpg").Return(false, errs.ErrUpstreamStorage)

		err := service.Delete(ctx, userID, imageID, true)

		assert.ErrorIs(t, err, errs.ErrUpstreamStorage)
		m.uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("should roll back when the cascade fails", func(t *testing.T) {
		service, m := newImageService()

		img := &entity.Image{ID: imageID, UserID: userID, StoragePath: "user_abc/photo.jpg"}
		m.images.On("GetByID", ctx, imageID).Return(img, nil)
		m.jobs.On("ListByImageID", ctx, imageID).Return([]*entity.Job{}, nil)
		m.store.On("Delete", ctx, "user_abc/photo.jpg").Return(true, nil)

		txCtx := context.WithValue(ctx, struct{ k string }{"tx"}, "tx")
		txJobs := new(mockpersistence.MockJobRepository)
		m.uow.On("Begin", ctx).Return(txCtx, nil)
		m.uow.On("GetJobRepository", txCtx).Return(txJobs)
		txJobs.On("DeleteByImageID", txCtx, imageID).Return(errs.ErrDatabaseConnection)
		m.uow.On("Rollback", txCtx).Return(nil)

		err := service.Delete(ctx, userID, imageID, true)

		assert.ErrorIs(t, err, errs.ErrDatabaseConnection)
		m.uow.AssertCalled(t, "Rollback", txCtx)
		m.uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("should hide other users' images", func(t *testing.T) {
		service, m := newImageService()

		img := &entity.Image{ID: imageID, UserID: uuid.New(), StoragePath: "user_other/photo.jpg"}
		m.images.On("GetByID", ctx, imageID).Return(img, nil)

		err := service.Delete(ctx, userID, imageID, false)

		assert.ErrorIs(t, err, errs.ErrImageNotFound)
		m.images.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
	})
}
