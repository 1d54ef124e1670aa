package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	errs "github.com/ama3it/image-workers-backend/internal/domain/error"
	coreport "github.com/ama3it/image-workers-backend/internal/domain/port/core"
)

// TransactionType represents the ledger direction of a transaction
type TransactionType string

// Transaction types
const (
	TransactionTopup      TransactionType = "topup"
	TransactionDebit      TransactionType = "debit"
	TransactionRefund     TransactionType = "refund"
	TransactionAdjustment TransactionType = "adjustment"
)

// SignedAmount returns the amount with the sign implied by the type, so a
// wallet balance is always reconstructible as the sum of its transactions.
func (t TransactionType) SignedAmount(amountCents int64) int64 {
	if t == TransactionDebit {
		return -amountCents
	}
	return amountCents
}

// Transaction is one immutable row of the append-only wallet ledger. For job
// debits ReferenceID is the job's identifier, which makes double billing
// auditable: one debit transaction per job.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	WalletID    uuid.UUID
	Type        TransactionType
	ReferenceID string
	AmountCents int64
	CreatedAt   time.Time
}

// NewTransaction creates a new ledger entry with basic validation
func NewTransaction(
	userID uuid.UUID,
	walletID uuid.UUID,
	txnType TransactionType,
	referenceID string,
	amountCents int64,
	timeProvider coreport.TimeProvider,
) (*Transaction, error) {
	if userID == uuid.Nil || walletID == uuid.Nil {
		return nil, errs.ErrInvalidRequest
	}
	if referenceID == "" {
		return nil, fmt.Errorf("%w: empty transaction reference", errs.ErrInvalidRequest)
	}
	if !isValidTransactionType(txnType) {
		return nil, fmt.Errorf("%w: unknown transaction type %q", errs.ErrInvalidRequest, txnType)
	}
	if amountCents <= 0 {
		return nil, errs.ErrInvalidAmount
	}

	return &Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		WalletID:    walletID,
		Type:        txnType,
		ReferenceID: referenceID,
		AmountCents: amountCents,
		CreatedAt:   timeProvider.Now(),
	}, nil
}

// FormattedAmount returns the amount as a string with 2 decimal places
func (t *Transaction) FormattedAmount() string {
	return FormatCents(t.AmountCents)
}

func isValidTransactionType(t TransactionType) bool {
	switch t {
	case TransactionTopup, TransactionDebit, TransactionRefund, TransactionAdjustment:
		return true
	}
	return false
}
