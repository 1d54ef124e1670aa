package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
	paymentport "github.com/ama3it/image-workers-backend/internal/domain/port/payment"
	usecaseport "github.com/ama3it/image-workers-backend/internal/domain/port/usecase"
)

// MockWalletUseCase is a mock implementation of the WalletUseCase port
type MockWalletUseCase struct {
	mock.Mock
}

func (m *MockWalletUseCase) GetBalance(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockWalletUseCase) ChargeForJob(ctx context.Context, userID uuid.UUID, jobType entity.JobType, priority entity.Priority, jobID uuid.UUID) (*usecaseport.ChargeResult, error) {
	args := m.Called(ctx, userID, jobType, priority, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecaseport.ChargeResult), args.Error(1)
}

func (m *MockWalletUseCase) RefundJob(ctx context.Context, userID uuid.UUID, amountCents int64, jobID uuid.UUID) (*entity.Transaction, error) {
	args := m.Called(ctx, userID, amountCents, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockWalletUseCase) CreateTopupOrder(ctx context.Context, amountCents int64, currency string) (*paymentport.Order, error) {
	args := m.Called(ctx, amountCents, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentport.Order), args.Error(1)
}

func (m *MockWalletUseCase) VerifyTopup(ctx context.Context, userID uuid.UUID, orderID, paymentID, signature string) (*usecaseport.TopupResult, error) {
	args := m.Called(ctx, userID, orderID, paymentID, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecaseport.TopupResult), args.Error(1)
}

func (m *MockWalletUseCase) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Transaction), args.Error(1)
}
