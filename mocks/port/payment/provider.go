package payment

import (
	"context"

	"github.com/stretchr/testify/mock"

	paymentport "github.com/ama3it/image-workers-backend/internal/domain/port/payment"
)

// MockProvider is a mock implementation of the payment Provider port
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreateOrder(ctx context.Context, amountCents int64, currency string) (*paymentport.Order, error) {
	args := m.Called(ctx, amountCents, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentport.Order), args.Error(1)
}

func (m *MockProvider) FetchPayment(ctx context.Context, paymentID string) (*paymentport.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentport.Payment), args.Error(1)
}

func (m *MockProvider) VerifySignature(orderID, paymentID, signature string) bool {
	args := m.Called(orderID, paymentID, signature)
	return args.Bool(0)
}
