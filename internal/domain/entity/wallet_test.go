package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	errs "github.com/ama3it/image-workers-backend/internal/domain/error"
	"github.com/ama3it/image-workers-backend/mocks/port/core"
)

func TestNewWallet(t *testing.T) {
	fixedTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	t.Run("should create wallet with initial balance", func(t *testing.T) {
		mockTimeProvider := new(core.MockTimeProvider)
		mockTimeProvider.On("Now").Return(fixedTime)

		wallet, err := NewWallet(userID, 5000, mockTimeProvider)

		assert.NoError(t, err)
		assert.Equal(t, userID, wallet.UserID)
		assert.Equal(t, int64(5000), wallet.Balance())
		assert.Equal(t, "50.00", wallet.FormattedBalance())
		assert.Equal(t, fixedTime, wallet.CreatedAt)
	})

	t.Run("should reject nil owner", func(t *testing.T) {
		mockTimeProvider := new(core.MockTimeProvider)

		_, err := NewWallet(uuid.Nil, 0, mockTimeProvider)

		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})

	t.Run("should reject negative initial balance", func(t *testing.T) {
		mockTimeProvider := new(core.MockTimeProvider)

		_, err := NewWallet(userID, -1, mockTimeProvider)

		assert.ErrorIs(t, err, errs.ErrNegativeAmount)
	})
}

func TestWallet_ApplyDebit(t *testing.T) {
	fixedTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	newWallet := func(balance int64) (*Wallet, *core.MockTimeProvider) {
		mockTimeProvider := new(core.MockTimeProvider)
		mockTimeProvider.On("Now").Return(fixedTime)
		wallet, err := NewWallet(uuid.New(), balance, mockTimeProvider)
		assert.NoError(t, err)
		return wallet, mockTimeProvider
	}

	t.Run("should subtract when funds are sufficient", func(t *testing.T) {
		wallet, tp := newWallet(10000)

		err := wallet.ApplyDebit(2500, tp)

		assert.NoError(t, err)
		assert.Equal(t, int64(7500), wallet.Balance())
	})

	t.Run("should allow balance to reach exactly zero", func(t *testing.T) {
		wallet, tp := newWallet(2500)

		err := wallet.ApplyDebit(2500, tp)

		assert.NoError(t, err)
		assert.Equal(t, int64(0), wallet.Balance())
	})

	t.Run("should reject debit exceeding balance", func(t *testing.T) {
		wallet, tp := newWallet(2499)

		err := wallet.ApplyDebit(2500, tp)

		assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
		assert.Equal(t, int64(2499), wallet.Balance())
	})

	t.Run("should reject negative debit", func(t *testing.T) {
		wallet, tp := newWallet(10000)

		err := wallet.ApplyDebit(-1, tp)

		assert.ErrorIs(t, err, errs.ErrNegativeAmount)
	})
}

func TestWallet_ApplyCredit(t *testing.T) {
	fixedTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("should add to balance", func(t *testing.T) {
		mockTimeProvider := new(core.MockTimeProvider)
		mockTimeProvider.On("Now").Return(fixedTime)
		wallet, err := NewWallet(uuid.New(), 1000, mockTimeProvider)
		assert.NoError(t, err)

		err = wallet.ApplyCredit(500, mockTimeProvider)

		assert.NoError(t, err)
		assert.Equal(t, int64(1500), wallet.Balance())
	})

	t.Run("should reject negative credit", func(t *testing.T) {
		mockTimeProvider := new(core.MockTimeProvider)
		mockTimeProvider.On("Now").Return(fixedTime)
		wallet, err := NewWallet(uuid.New(), 1000, mockTimeProvider)
		assert.NoError(t, err)

		err = wallet.ApplyCredit(-500, mockTimeProvider)

		assert.ErrorIs(t, err, errs.ErrNegativeAmount)
		assert.Equal(t, int64(1000), wallet.Balance())
	})
}

func TestWallet_CanDebit(t *testing.T) {
	fixedTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mockTimeProvider := new(core.MockTimeProvider)
	mockTimeProvider.On("Now").Return(fixedTime)

	wallet, err := NewWallet(uuid.New(), 1000, mockTimeProvider)
	assert.NoError(t, err)

	assert.True(t, wallet.CanDebit(1000))
	assert.True(t, wallet.CanDebit(999))
	assert.False(t, wallet.CanDebit(1001))
	assert.False(t, wallet.CanDebit(-1))
}
