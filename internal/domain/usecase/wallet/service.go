package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
	errs "github.com/ama3it/image-workers-backend/internal/domain/error"
	cacheport "github.com/ama3it/image-workers-backend/internal/domain/port/cache"
	coreport "github.com/ama3it/image-workers-backend/internal/domain/port/core"
	paymentport "github.com/ama3it/image-workers-backend/internal/domain/port/payment"
	"github.com/ama3it/image-workers-backend/internal/domain/port/persistence"
	usecaseport "github.com/ama3it/image-workers-backend/internal/domain/port/usecase"
	"github.com/ama3it/image-workers-backend/internal/domain/pricing"
)

// Service implements the wallet ledger use cases: balance reads, job charges,
// compensating refunds and payment-provider top-ups.
type Service struct {
	wallets      persistence.WalletRepository
	transactions persistence.TransactionRepository
	provider     paymentport.Provider
	cache        cacheport.Cache
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a wallet service
func NewService(
	wallets persistence.WalletRepository,
	transactions persistence.TransactionRepository,
	provider paymentport.Provider,
	cache cacheport.Cache,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		wallets:      wallets,
		transactions: transactions,
		provider:     provider,
		cache:        cache,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetBalance returns the user's formatted balance through the read cache.
// A user who never touched their wallet reads as "0.00".
func (s *Service) GetBalance(ctx context.Context, userID uuid.UUID) (string, error) {
	if balance, ok := s.cache.WalletBalance(ctx, userID); ok {
		return balance, nil
	}

	wallet, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrWalletNotFound) {
			return "0.00", nil
		}
		return "", err
	}

	balance := wallet.FormattedBalance()
	s.cache.StoreWalletBalance(ctx, userID, balance)
	return balance, nil
}

// ChargeForJob computes the job's price and debits the wallet exactly once,
// keyed by the job id. Insufficient funds comes back as Charged=false with the
// required price; it is not an error.
func (s *Service) ChargeForJob(
	ctx context.Context,
	userID uuid.UUID,
	jobType entity.JobType,
	priority entity.Priority,
	jobID uuid.UUID,
) (*usecaseport.ChargeResult, error) {
	priceCents := pricing.PriceCents(jobType, priority)
	price := entity.FormatCents(priceCents)

	wallet, txn, err := s.wallets.Debit(ctx, userID, priceCents, jobID.String())
	if err != nil {
		if errors.Is(err, errs.ErrInsufficientBalance) {
			s.logger.Info("Job charge rejected for insufficient balance", map[string]any{
				"user_id": userID.String(),
				"job_id":  jobID.String(),
				"price":   price,
			})
			return &usecaseport.ChargeResult{Charged: false, PriceCents: priceCents, Price: price}, nil
		}
		return nil, fmt.Errorf("charging job %s: %w", jobID, err)
	}

	s.cache.DropWalletBalance(ctx, userID)

	s.logger.Info("Wallet debited for job", map[string]any{
		"user_id":        userID.String(),
		"job_id":         jobID.String(),
		"price":          price,
		"result_balance": wallet.FormattedBalance(),
	})

	return &usecaseport.ChargeResult{
		Charged:     true,
		PriceCents:  priceCents,
		Price:       price,
		Balance:     wallet.FormattedBalance(),
		Transaction: txn,
	}, nil
}

// RefundJob credits a job's price back as a REFUND ledger entry
func (s *Service) RefundJob(ctx context.Context, userID uuid.UUID, amountCents int64, jobID uuid.UUID) (*entity.Transaction, error) {
	_, txn, err := s.wallets.Credit(ctx, userID, amountCents, entity.TransactionRefund, jobID.String())
	if err != nil {
		return nil, fmt.Errorf("refunding job %s: %w", jobID, err)
	}

	s.cache.DropWalletBalance(ctx, userID)

	s.logger.Warn("Job refunded", map[string]any{
		"user_id": userID.String(),
		"job_id":  jobID.String(),
		"amount":  entity.FormatCents(amountCents),
	})
	return txn, nil
}

// CreateTopupOrder registers a payment order with the capture provider
func (s *Service) CreateTopupOrder(ctx context.Context, amountCents int64, currency string) (*paymentport.Order, error) {
	if amountCents <= 0 {
		return nil, errs.ErrInvalidAmount
	}

	order, err := s.provider.CreateOrder(ctx, amountCents, currency)
	if err != nil {
		return nil, fmt.Errorf("creating payment order: %w", err)
	}

	s.logger.Info("Top-up order created", map[string]any{
		"order_id": order.ID,
		"amount":   entity.FormatCents(order.AmountCents),
		"currency": order.Currency,
	})
	return order, nil
}

// VerifyTopup validates the provider callback and credits the wallet. The
// signature check runs before any provider call or wallet mutation; a
// non-authorized payment status leaves the wallet untouched.
func (s *Service) VerifyTopup(ctx context.Context, userID uuid.UUID, orderID, paymentID, signature string) (*usecaseport.TopupResult, error) {
	if !s.provider.VerifySignature(orderID, paymentID, signature) {
		s.logger.Warn("Top-up rejected: signature mismatch", map[string]any{
			"user_id":  userID.String(),
			"order_id": orderID,
		})
		return nil, errs.ErrInvalidSignature
	}

	pay, err := s.provider.FetchPayment(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("fetching payment %s: %w", paymentID, err)
	}

	if pay.Status != paymentport.StatusAuthorized {
		s.logger.Warn("Top-up rejected: payment not captured", map[string]any{
			"user_id":    userID.String(),
			"payment_id": paymentID,
			"status":     pay.Status,
		})
		return nil, errs.ErrPaymentNotCaptured
	}

	wallet, txn, err := s.wallets.Credit(ctx, userID, pay.AmountCents, entity.TransactionTopup, paymentID)
	if err != nil {
		return nil, fmt.Errorf("crediting top-up %s: %w", paymentID, err)
	}

	s.cache.DropWalletBalance(ctx, userID)

	s.logger.Info("Wallet topped up", map[string]any{
		"user_id":        userID.String(),
		"payment_id":     paymentID,
		"amount":         entity.FormatCents(pay.AmountCents),
		"result_balance": wallet.FormattedBalance(),
	})

	return &usecaseport.TopupResult{
		TransactionID: txn.ID,
		Balance:       wallet.FormattedBalance(),
	}, nil
}

// History returns the user's ledger entries, newest first
func (s *Service) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.transactions.ListByUserID(ctx, userID, limit, offset)
}
