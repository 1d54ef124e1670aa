package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
	errs "github.com/ama3it/image-workers-backend/internal/domain/error"
	coreport "github.com/ama3it/image-workers-backend/internal/domain/port/core"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/model"
)

// WalletRepository implements the wallet ledger operations using GORM. Every
// balance mutation runs inside a database transaction that also appends the
// matching ledger row, with the wallet row locked FOR UPDATE for the duration.
type WalletRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewWalletRepository creates a new WalletRepository instance
func NewWalletRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *WalletRepository {
	return &WalletRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// modelToEntity converts a wallet model to an entity
func (r *WalletRepository) modelToEntity(walletModel *model.Wallet) (*entity.Wallet, error) {
	id, err := uuid.Parse(walletModel.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed wallet id %q", errs.ErrInternalServer, walletModel.ID)
	}
	userID, err := uuid.Parse(walletModel.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed wallet owner id %q", errs.ErrInternalServer, walletModel.UserID)
	}

	wallet := &entity.Wallet{
		ID:        id,
		UserID:    userID,
		CreatedAt: walletModel.CreatedAt,
		UpdatedAt: walletModel.UpdatedAt,
	}
	wallet.SetBalance(walletModel.BalanceCents)
	return wallet, nil
}

func transactionModelToEntity(txnModel *model.Transaction) (*entity.Transaction, error) {
	id, err := uuid.Parse(txnModel.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed transaction id %q", errs.ErrInternalServer, txnModel.ID)
	}
	userID, err := uuid.Parse(txnModel.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed transaction user id %q", errs.ErrInternalServer, txnModel.UserID)
	}
	walletID, err := uuid.Parse(txnModel.WalletID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed transaction wallet id %q", errs.ErrInternalServer, txnModel.WalletID)
	}

	return &entity.Transaction{
		ID:          id,
		UserID:      userID,
		WalletID:    walletID,
		Type:        entity.TransactionType(txnModel.Type),
		ReferenceID: txnModel.ReferenceID,
		AmountCents: txnModel.AmountCents,
		CreatedAt:   txnModel.CreatedAt,
	}, nil
}

// GetByUserID retrieves the wallet owned by the given user
func (r *WalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Wallet, error) {
	var walletModel model.Wallet
	result := r.db.WithContext(ctx).Where("user_id = ?", userID.String()).First(&walletModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrWalletNotFound
		}
		r.logger.Error("Database error when getting wallet", map[string]any{
			"user_id": userID.String(),
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return r.modelToEntity(&walletModel)
}

// lockOrCreateWallet fetches the user's wallet FOR UPDATE inside tx, creating
// an empty wallet first when none exists. The unique index on user_id resolves
// the create race: the loser of a concurrent insert re-fetches and locks the
// winner's row.
func (r *WalletRepository) lockOrCreateWallet(tx *gorm.DB, userID uuid.UUID) (*model.Wallet, error) {
	var walletModel model.Wallet
	result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID.String()).
		First(&walletModel)
	if result.Error == nil {
		return &walletModel, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	now := r.timeProvider.Now()
	walletModel = model.Wallet{
		ID:           uuid.New().String(),
		UserID:       userID.String(),
		BalanceCents: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.Create(&walletModel).Error; err != nil {
		if !r.errorClassifier.IsDuplicateKeyError(err) {
			return nil, err
		}
		r.logger.Debug("Lost wallet creation race, re-fetching", map[string]any{
			"user_id": userID.String(),
		})
		walletModel = model.Wallet{}
		result = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID.String()).
			First(&walletModel)
		if result.Error != nil {
			return nil, result.Error
		}
	}

	r.logger.Info("Wallet created on first touch", map[string]any{
		"user_id":   userID.String(),
		"wallet_id": walletModel.ID,
	})
	return &walletModel, nil
}

// applyLedgerEntry mutates the locked wallet row and appends the paired
// transaction row inside tx.
func (r *WalletRepository) applyLedgerEntry(
	tx *gorm.DB,
	walletModel *model.Wallet,
	newBalance int64,
	txn *entity.Transaction,
) error {
	walletModel.BalanceCents = newBalance
	walletModel.UpdatedAt = r.timeProvider.Now()

	result := tx.Model(&model.Wallet{}).
		Where("id = ?", walletModel.ID).
		Updates(map[string]interface{}{
			"balance_cents": walletModel.BalanceCents,
			"updated_at":    walletModel.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	txnModel := model.Transaction{
		ID:          txn.ID.String(),
		UserID:      txn.UserID.String(),
		WalletID:    txn.WalletID.String(),
		Type:        string(txn.Type),
		ReferenceID: txn.ReferenceID,
		AmountCents: txn.AmountCents,
		CreatedAt:   txn.CreatedAt,
	}
	return tx.Create(&txnModel).Error
}

// Debit atomically subtracts amountCents from the user's wallet and appends a
// DEBIT transaction keyed by referenceID
func (r *WalletRepository) Debit(ctx context.Context, userID uuid.UUID, amountCents int64, referenceID string) (*entity.Wallet, *entity.Transaction, error) {
	if amountCents <= 0 {
		return nil, nil, errs.ErrInvalidAmount
	}

	r.logger.Debug("Debiting wallet", map[string]any{
		"user_id":      userID.String(),
		"amount":       entity.FormatCents(amountCents),
		"reference_id": referenceID,
	})

	var wallet *entity.Wallet
	var txn *entity.Transaction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		walletModel, err := r.lockOrCreateWallet(tx, userID)
		if err != nil {
			return err
		}

		if walletModel.BalanceCents < amountCents {
			r.logger.Warn("Insufficient balance for debit", map[string]any{
				"user_id":      userID.String(),
				"balance":      entity.FormatCents(walletModel.BalanceCents),
				"amount":       entity.FormatCents(amountCents),
				"reference_id": referenceID,
			})
			return errs.ErrInsufficientBalance
		}

		walletID, err := uuid.Parse(walletModel.ID)
		if err != nil {
			return fmt.Errorf("%w: malformed wallet id %q", errs.ErrInternalServer, walletModel.ID)
		}
		txn, err = entity.NewTransaction(userID, walletID, entity.TransactionDebit, referenceID, amountCents, r.timeProvider)
		if err != nil {
			return err
		}

		if err := r.applyLedgerEntry(tx, walletModel, walletModel.BalanceCents-amountCents, txn); err != nil {
			return err
		}

		wallet, err = r.modelToEntity(walletModel)
		return err
	})
	if err != nil {
		return nil, nil, r.classifyLedgerError("debit", err, userID)
	}

	r.logger.Info("Wallet debited", map[string]any{
		"user_id":      userID.String(),
		"amount":       entity.FormatCents(amountCents),
		"new_balance":  wallet.FormattedBalance(),
		"reference_id": referenceID,
	})
	return wallet, txn, nil
}

// Credit atomically adds amountCents to the user's wallet, creating the wallet
// if absent
func (r *WalletRepository) Credit(ctx context.Context, userID uuid.UUID, amountCents int64, txnType entity.TransactionType, referenceID string) (*entity.Wallet, *entity.Transaction, error) {
	if amountCents <= 0 {
		return nil, nil, errs.ErrInvalidAmount
	}

	r.logger.Debug("Crediting wallet", map[string]any{
		"user_id":      userID.String(),
		"amount":       entity.FormatCents(amountCents),
		"type":         string(txnType),
		"reference_id": referenceID,
	})

	var wallet *entity.Wallet
	var txn *entity.Transaction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		walletModel, err := r.lockOrCreateWallet(tx, userID)
		if err != nil {
			return err
		}

		walletID, err := uuid.Parse(walletModel.ID)
		if err != nil {
			return fmt.Errorf("%w: malformed wallet id %q", errs.ErrInternalServer, walletModel.ID)
		}
		txn, err = entity.NewTransaction(userID, walletID, txnType, referenceID, amountCents, r.timeProvider)
		if err != nil {
			return err
		}

		if err := r.applyLedgerEntry(tx, walletModel, walletModel.BalanceCents+amountCents, txn); err != nil {
			return err
		}

		wallet, err = r.modelToEntity(walletModel)
		return err
	})
	if err != nil {
		return nil, nil, r.classifyLedgerError("credit", err, userID)
	}

	r.logger.Info("Wallet credited", map[string]any{
		"user_id":      userID.String(),
		"amount":       entity.FormatCents(amountCents),
		"type":         string(txnType),
		"new_balance":  wallet.FormattedBalance(),
		"reference_id": referenceID,
	})
	return wallet, txn, nil
}

// classifyLedgerError maps transaction-callback failures onto domain errors
func (r *WalletRepository) classifyLedgerError(operation string, err error, userID uuid.UUID) error {
	if errors.Is(err, errs.ErrInsufficientBalance) ||
		errors.Is(err, errs.ErrInvalidAmount) ||
		errors.Is(err, errs.ErrInternalServer) {
		return err
	}

	if r.errorClassifier.IsLockError(err) {
		r.logger.Warn("Wallet is locked by another transaction", map[string]any{
			"user_id":   userID.String(),
			"operation": operation,
			"error":     err.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	r.logger.Error(fmt.Sprintf("Database error during wallet %s", operation), map[string]any{
		"user_id": userID.String(),
		"error":   err.Error(),
	})
	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}
