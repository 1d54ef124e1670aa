package entity

import (
	"time"

	"github.com/google/uuid"

	errs "github.com/ama3it/image-workers-backend/internal/domain/error"
	coreport "github.com/ama3it/image-workers-backend/internal/domain/port/core"
)

// Wallet holds a user's credit balance. The balance is stored in cents to
// avoid floating point precision issues and is never allowed to go negative;
// every mutation must be paired with exactly one Transaction row in the same
// atomic unit (the repository enforces the pairing).
type Wallet struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	balanceCents int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewWallet creates a wallet for the given owner with an initial balance in cents
func NewWallet(userID uuid.UUID, initialCents int64, timeProvider coreport.TimeProvider) (*Wallet, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrInvalidRequest
	}
	if initialCents < 0 {
		return nil, errs.ErrNegativeAmount
	}

	now := timeProvider.Now()
	return &Wallet{
		ID:           uuid.New(),
		UserID:       userID,
		balanceCents: initialCents,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Balance returns the current balance in cents
func (w *Wallet) Balance() int64 {
	return w.balanceCents
}

// FormattedBalance returns the balance as a string with 2 decimal places
func (w *Wallet) FormattedBalance() string {
	return FormatCents(w.balanceCents)
}

// SetBalance updates the balance directly (for repository hydration)
func (w *Wallet) SetBalance(cents int64) {
	w.balanceCents = cents
}

// CanDebit reports whether the wallet can cover the given amount
func (w *Wallet) CanDebit(amountCents int64) bool {
	return amountCents >= 0 && w.balanceCents >= amountCents
}

// ApplyDebit subtracts the amount from the balance if sufficient funds exist
func (w *Wallet) ApplyDebit(amountCents int64, timeProvider coreport.TimeProvider) error {
	if amountCents < 0 {
		return errs.ErrNegativeAmount
	}
	if w.balanceCents < amountCents {
		return errs.ErrInsufficientBalance
	}

	w.balanceCents -= amountCents
	w.UpdatedAt = timeProvider.Now()
	return nil
}

// ApplyCredit adds the amount to the balance
func (w *Wallet) ApplyCredit(amountCents int64, timeProvider coreport.TimeProvider) error {
	if amountCents < 0 {
		return errs.ErrNegativeAmount
	}

	w.balanceCents += amountCents
	w.UpdatedAt = timeProvider.Now()
	return nil
}
