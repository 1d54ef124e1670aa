package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
)

// WalletRepository defines the atomic ledger operations on wallets. Debit and
// Credit pair the balance mutation with exactly one transaction row inside a
// single database transaction; that pairing is the core ledger invariant.
type WalletRepository interface {
	// GetByUserID retrieves the wallet owned by the given user
	//
	// Possible errors:
	// - ErrWalletNotFound: if no wallet exists for the user
	// - ErrDatabaseConnection: if the database fails
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Wallet, error)

	// Debit atomically subtracts amountCents from the user's wallet and appends
	// a DEBIT transaction keyed by referenceID. The wallet row is locked for
	// the duration of the check-and-decrement so concurrent debits against the
	// same wallet cannot both observe a sufficient balance. A missing wallet is
	// created empty first (create-on-first-touch), which then reports
	// insufficient funds for any positive amount.
	//
	// Possible errors:
	// - ErrInsufficientBalance: if balance < amountCents
	// - ErrDatabaseConnection: if the database fails
	Debit(ctx context.Context, userID uuid.UUID, amountCents int64, referenceID string) (*entity.Wallet, *entity.Transaction, error)

	// Credit atomically adds amountCents to the user's wallet, creating the
	// wallet if absent, and appends a transaction row of the given type
	// (TOPUP for payment captures, REFUND for compensations).
	//
	// Possible errors:
	// - ErrInvalidAmount: if amountCents <= 0
	// - ErrDatabaseConnection: if the database fails
	Credit(ctx context.Context, userID uuid.UUID, amountCents int64, txnType entity.TransactionType, referenceID string) (*entity.Wallet, *entity.Transaction, error)
}
