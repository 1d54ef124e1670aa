package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
)

// MockWalletRepository is a mock implementation of the WalletRepository port
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Debit(ctx context.Context, userID uuid.UUID, amountCents int64, referenceID string) (*entity.Wallet, *entity.Transaction, error) {
	args := m.Called(ctx, userID, amountCents, referenceID)
	var wallet *entity.Wallet
	var txn *entity.Transaction
	if args.Get(0) != nil {
		wallet = args.Get(0).(*entity.Wallet)
	}
	if args.Get(1) != nil {
		txn = args.Get(1).(*entity.Transaction)
	}
	return wallet, txn, args.Error(2)
}

func (m *MockWalletRepository) Credit(ctx context.Context, userID uuid.UUID, amountCents int64, txnType entity.TransactionType, referenceID string) (*entity.Wallet, *entity.Transaction, error) {
	args := m.Called(ctx, userID, amountCents, txnType, referenceID)
	var wallet *entity.Wallet
	var txn *entity.Transaction
	if args.Get(0) != nil {
		wallet = args.Get(0).(*entity.Wallet)
	}
	if args.Get(1) != nil {
		txn = args.Get(1).(*entity.Transaction)
	}
	return wallet, txn, args.Error(2)
}
