package admission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
	errs "github.com/ama3it/image-workers-backend/internal/domain/error"
	queueport "github.com/ama3it/image-workers-backend/internal/domain/port/queue"
	usecaseport "github.com/ama3it/image-workers-backend/internal/domain/port/usecase"
	loggeradapter "github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/logger"
	"github.com/ama3it/image-workers-backend/mocks/port/core"
	mockpersistence "github.com/ama3it/image-workers-backend/mocks/port/persistence"
	mockqueue "github.com/ama3it/image-workers-backend/mocks/port/queue"
	mockstorage "github.com/ama3it/image-workers-backend/mocks/port/storage"
	mockusecase "github.com/ama3it/image-workers-backend/mocks/port/usecase"
)

type admissionMocks struct {
	images *mockpersistence.MockImageRepository
	jobs   *mockpersistence.MockJobRepository
	wallet *mockusecase.MockWalletUseCase
	store  *mockstorage.MockObjectStore
	queue  *mockqueue.MockTaskQueue
}

func newAdmissionService() (*Service, *admissionMocks) {
	m := &admissionMocks{
		images: new(mockpersistence.MockImageRepository),
		jobs:   new(mockpersistence.MockJobRepository),
		wallet: new(mockusecase.MockWalletUseCase),
		store:  new(mockstorage.MockObjectStore),
		queue:  new(mockqueue.MockTaskQueue),
	}

	mockTimeProvider := new(core.MockTimeProvider)
	mockTimeProvider.On("Now").Return(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	service := NewService(m.images, m.jobs, m.wallet, m.store, m.queue, mockTimeProvider, loggeradapter.NewNoopLogger())
	return service, m
}

func validRequest(userID uuid.UUID) SubmitRequest {
	return SubmitRequest{
		UserID:      userID,
		FileName:    "vacation.jpg",
		ContentType: "image/jpeg",
		Data:        []byte("fake image bytes"),
		Label:       "vacation",
		ImageType:   "photo",
		JobType:     entity.JobGrayscale,
		Priority:    entity.PriorityMedium,
	}
}

func TestService_Submit(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("should admit, charge and enqueue a valid request", func(t *testing.T) {
		service, m := newAdmissionService()
		req := validRequest(userID)

		m.store.On("Upload", ctx, mock.AnythingOfType("string"), req.Data, "image/jpeg").Return(nil)
		m.images.On("Create", ctx, mock.AnythingOfType("*entity.Image")).Return(nil)
		m.jobs.On("Create", ctx, mock.AnythingOfType("*entity.Job")).Return(nil)
		m.wallet.On("ChargeForJob", ctx, userID, entity.JobGrayscale, entity.PriorityMedium, mock.AnythingOfType("uuid.UUID")).
			Return(&usecaseport.ChargeResult{Charged: true, PriceCents: 3750, Price: "37.50", Balance: "12.50"}, nil)
		m.jobs.On("UpdateStatus", ctx, mock.AnythingOfType("uuid.UUID"), entity.StatusQueued).Return(nil)
		m.queue.On("Enqueue", ctx, mock.AnythingOfType("queue.Task")).Return(nil)

		result, err := service.Submit(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, entity.StatusQueued, result.Job.Status)
		assert.Equal(t, entity.JobGrayscale, result.Job.Type)
		assert.Equal(t, result.Image.ID, result.Job.ImageID)
		assert.Contains(t, result.Image.StoragePath, "user_"+userID.String()+"/")
		assert.Contains(t, result.Image.StoragePath, ".jpg")

		task := m.queue.Calls[0].Arguments.Get(1).(queueport.Task)
		assert.Equal(t, result.Job.ID, task.JobID)
		assert.Equal(t, result.Image.ID, task.ImageID)
		assert.Equal(t, result.Image.StoragePath, task.StoragePath)
		assert.Equal(t, entity.JobGrayscale, task.JobType)

		m.store.AssertExpectations(t)
		m.images.AssertExpectations(t)
		m.jobs.AssertExpectations(t)
		m.wallet.AssertExpectations(t)
		m.queue.AssertExpectations(t)
	})

	t.Run("should reject disallowed content types before any side effects", func(t *testing.T) {
		service, m := newAdmissionService()
		req := validRequest(userID)
		req.ContentType = "image/gif"

		_, err := service.Submit(ctx, req)

		assert.ErrorIs(t, err, errs.ErrUnsupportedMediaType)
		m.store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.images.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("should reject unknown job types before upload", func(t *testing.T) {
		service, m := newAdmissionService()
		req := validRequest(userID)
		req.JobType = entity.JobType("sharpen")

		_, err := service.Submit(ctx, req)

		assert.ErrorIs(t, err, errs.ErrUnsupportedJobType)
		m.store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should abort with no database writes when upload fails", func(t *testing.T) {
		service, m := newAdmissionService()
		req := validRequest(userID)

		m.store.On("Upload", ctx, mock.AnythingOfType("string"), req.Data, "image/jpeg").Return(errors.New("bucket unavailable"))

		_, err := service.Submit(ctx, req)

		assert.ErrorIs(t, err, errs.ErrUpstreamStorage)
		m.images.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		m.jobs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		m.wallet.AssertNotCalled(t, "ChargeForJob", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should keep the job as payment_failed when funds are short", func(t *testing.T) {
		service, m := newAdmissionService()
		req := validRequest(userID)

		m.store.On("Upload", ctx, mock.AnythingOfType("string"), req.Data, "image/jpeg").Return(nil)
		m.images.On("Create", ctx, mock.AnythingOfType("*entity.Image")).Return(nil)
		m.jobs.On("Create", ctx, mock.AnythingOfType("*entity.Job")).Return(nil)
		m.wallet.On("ChargeForJob", ctx, userID, entity.JobGrayscale, entity.PriorityMedium, mock.AnythingOfType("uuid.UUID")).
			Return(&usecaseport.ChargeResult{Charged: false, PriceCents: 3750, Price: "37.50"}, nil)
		m.jobs.On("UpdateStatus", ctx, mock.AnythingOfType("uuid.UUID"), entity.StatusPaymentFailed).Return(nil)

		_, err := service.Submit(ctx, req)

		assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
		var paymentErr *errs.PaymentRequiredError
		assert.ErrorAs(t, err, &paymentErr)
		assert.Equal(t, int64(3750), paymentErr.PriceCents)
		assert.Equal(t, "37.50", paymentErr.Price)

		m.jobs.AssertExpectations(t)
		m.queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
	})

	t.Run("should refund and fail the job when enqueue fails after debit", func(t *testing.T) {
		service, m := newAdmissionService()
		req := validRequest(userID)

		m.store.On("Upload", ctx, mock.AnythingOfType("string"), req.Data, "image/jpeg").Return(nil)
		m.images.On("Create", ctx, mock.AnythingOfType("*entity.Image")).Return(nil)
		m.jobs.On("Create", ctx, mock.AnythingOfType("*entity.Job")).Return(nil)
		m.wallet.On("ChargeForJob", ctx, userID, entity.JobGrayscale, entity.PriorityMedium, mock.AnythingOfType("uuid.UUID")).
			Return(&usecaseport.ChargeResult{Charged: true, PriceCents: 3750, Price: "37.50"}, nil)
		m.jobs.On("UpdateStatus", ctx, mock.AnythingOfType("uuid.UUID"), entity.StatusQueued).Return(nil)
		m.queue.On("Enqueue", ctx, mock.AnythingOfType("queue.Task")).Return(errors.New("broker unreachable"))
		m.wallet.On("RefundJob", ctx, userID, int64(3750), mock.AnythingOfType("uuid.UUID")).
			Return(&entity.Transaction{ID: uuid.New(), Type: entity.TransactionRefund, AmountCents: 3750}, nil)
		m.jobs.On("UpdateStatus", ctx, mock.AnythingOfType("uuid.UUID"), entity.StatusProcessing).Return(nil)
		m.jobs.On("UpdateStatus", ctx, mock.AnythingOfType("uuid.UUID"), entity.StatusFailed).Return(nil)

		_, err := service.Submit(ctx, req)

		assert.ErrorIs(t, err, errs.ErrEnqueueAfterDebit)
		var alert *errs.EnqueueAfterDebitError
		assert.ErrorAs(t, err, &alert)
		assert.True(t, alert.Refunded)
		assert.Equal(t, int64(3750), alert.AmountCents)

		m.wallet.AssertExpectations(t)
		m.jobs.AssertExpectations(t)
	})

	t.Run("should flag an unrefunded debit when the refund also fails", func(t *testing.T) {
		service, m := newAdmissionService()
		req := validRequest(userID)

		m.store.On("Upload", ctx, mock.AnythingOfType("string"), req.Data, "image/jpeg").Return(nil)
		m.images.On("Create", ctx, mock.AnythingOfType("*entity.Image")).Return(nil)
		m.jobs.On("Create", ctx, mock.AnythingOfType("*entity.Job")).Return(nil)
		m.wallet.On("ChargeForJob", ctx, userID, entity.JobGrayscale, entity.PriorityMedium, mock.AnythingOfType("uuid.UUID")).
			Return(&usecaseport.ChargeResult{Charged: true, PriceCents: 3750, Price: "37.50"}, nil)
		m.jobs.On("UpdateStatus", ctx, mock.AnythingOfType("uuid.UUID"), entity.StatusQueued).Return(nil)
		m.queue.On("Enqueue", ctx, mock.AnythingOfType("queue.Task")).Return(errors.New("broker unreachable"))
		m.wallet.On("RefundJob", ctx, userID, int64(3750), mock.AnythingOfType("uuid.UUID")).
			Return(nil, errs.ErrDatabaseConnection)
		m.jobs.On("UpdateStatus", ctx, mock.AnythingOfType("uuid.UUID"), entity.StatusProcessing).Return(nil)
		m.jobs.On("UpdateStatus", ctx, mock.AnythingOfType("uuid.UUID"), entity.StatusFailed).Return(nil)

		_, err := service.Submit(ctx, req)

		var alert *errs.EnqueueAfterDebitError
		assert.ErrorAs(t, err, &alert)
		assert.False(t, alert.Refunded)
	})
}
