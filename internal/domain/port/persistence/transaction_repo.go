package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
)

// TransactionRepository reads the append-only ledger. Rows are only ever
// written through WalletRepository so the balance/ledger pairing cannot be
// bypassed.
type TransactionRepository interface {
	// ListByUserID returns the user's ledger entries, newest first
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Transaction, error)

	// CountByReferenceID reports how many ledger rows carry the given
	// reference. Used by reconciliation to audit the one-debit-per-job rule.
	CountByReferenceID(ctx context.Context, referenceID string) (int64, error)
}
