package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
	errs "github.com/ama3it/image-workers-backend/internal/domain/error"
	coreport "github.com/ama3it/image-workers-backend/internal/domain/port/core"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/model"
)

// TransactionRepository reads the append-only ledger using GORM
type TransactionRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// ListByUserID returns the user's ledger entries, newest first
func (r *TransactionRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Transaction, error) {
	var txnModels []model.Transaction
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txnModels)

	if result.Error != nil {
		r.logger.Error("Database error when listing transactions", map[string]any{
			"user_id": userID.String(),
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	transactions := make([]*entity.Transaction, 0, len(txnModels))
	for i := range txnModels {
		txn, err := transactionModelToEntity(&txnModels[i])
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}
	return transactions, nil
}

// CountByReferenceID reports how many ledger rows carry the given reference
func (r *TransactionRepository) CountByReferenceID(ctx context.Context, referenceID string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("reference_id = ?", referenceID).
		Count(&count)

	if result.Error != nil {
		r.logger.Error("Database error when counting transactions", map[string]any{
			"reference_id": referenceID,
			"error":        result.Error.Error(),
		})
		return 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return count, nil
}
