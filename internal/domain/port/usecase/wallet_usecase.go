package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
	"github.com/ama3it/image-workers-backend/internal/domain/port/payment"
)

// ChargeResult is the explicit outcome of a job charge. Insufficient funds is
// an expected business outcome, not a fault, so it is modeled as
// Charged=false rather than an error.
type ChargeResult struct {
	Charged     bool
	PriceCents  int64
	Price       string
	Balance     string
	Transaction *entity.Transaction
}

// TopupResult describes a verified wallet top-up
type TopupResult struct {
	TransactionID uuid.UUID
	Balance       string
}

// WalletUseCase defines the ledger-facing business operations
type WalletUseCase interface {
	// GetBalance returns the user's formatted balance; an absent wallet reads as "0.00"
	GetBalance(ctx context.Context, userID uuid.UUID) (string, error)

	// ChargeForJob prices the job and debits the wallet exactly once, with the
	// job id as the ledger reference
	ChargeForJob(ctx context.Context, userID uuid.UUID, jobType entity.JobType, priority entity.Priority, jobID uuid.UUID) (*ChargeResult, error)

	// RefundJob credits back a job's price as a REFUND ledger entry. Used as
	// the compensating action when enqueue fails after a successful debit.
	RefundJob(ctx context.Context, userID uuid.UUID, amountCents int64, jobID uuid.UUID) (*entity.Transaction, error)

	// CreateTopupOrder registers a payment order with the capture provider
	CreateTopupOrder(ctx context.Context, amountCents int64, currency string) (*payment.Order, error)

	// VerifyTopup validates a provider callback and credits the wallet.
	//
	// Possible errors:
	// - ErrInvalidSignature: the callback signature does not verify
	// - ErrPaymentNotCaptured: the provider reports a non-authorized status
	VerifyTopup(ctx context.Context, userID uuid.UUID, orderID, paymentID, signature string) (*TopupResult, error)

	// History returns the user's ledger entries, newest first
	History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Transaction, error)
}
