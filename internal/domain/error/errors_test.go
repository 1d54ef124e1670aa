package error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	t.Run("should map known errors to their codes", func(t *testing.T) {
		testCases := []struct {
			err  error
			code int
		}{
			{ErrInsufficientBalance, CodeInsufficientBalance},
			{ErrInvalidAmount, CodeInvalidAmount},
			{ErrNegativeAmount, CodeInvalidAmount},
			{ErrUnsupportedMediaType, CodeUnsupportedMediaType},
			{ErrUnsupportedJobType, CodeUnsupportedJobType},
			{ErrInvalidSignature, CodeInvalidSignature},
			{ErrPaymentNotCaptured, CodePaymentNotCaptured},
			{ErrUnauthenticated, CodeUnauthenticated},
			{ErrImageNotFound, CodeImageNotFound},
			{ErrJobNotFound, CodeJobNotFound},
			{ErrWalletNotFound, CodeWalletNotFound},
			{ErrInvalidRequest, CodeInvalidRequest},
			{ErrUpstreamStorage, CodeUpstreamStorage},
			{ErrEnqueueAfterDebit, CodeEnqueueAfterDebit},
		}

		for _, tc := range testCases {
			assert.Equal(t, tc.code, ErrorCode(tc.err), "code for %v", tc.err)
		}
	})

	t.Run("should map wrapped errors through their chain", func(t *testing.T) {
		wrapped := fmt.Errorf("charging job: %w", ErrInsufficientBalance)
		assert.Equal(t, CodeInsufficientBalance, ErrorCode(wrapped))
	})

	t.Run("should fall back to internal server code", func(t *testing.T) {
		assert.Equal(t, CodeInternalServer, ErrorCode(errors.New("something else")))
	})
}

func TestPaymentRequiredError(t *testing.T) {
	err := NewPaymentRequiredError("user-1", "job-1", 7500, "75.00")

	t.Run("should match ErrInsufficientBalance", func(t *testing.T) {
		assert.ErrorIs(t, err, ErrInsufficientBalance)
		assert.True(t, IsInsufficientBalanceError(err))
	})

	t.Run("should expose price details", func(t *testing.T) {
		var paymentErr *PaymentRequiredError
		assert.ErrorAs(t, err, &paymentErr)
		assert.Equal(t, int64(7500), paymentErr.PriceCents)
		assert.Equal(t, "75.00", paymentErr.Price)
		assert.Contains(t, paymentErr.Error(), "75.00")
	})

	t.Run("should produce structured log fields", func(t *testing.T) {
		var paymentErr *PaymentRequiredError
		assert.ErrorAs(t, err, &paymentErr)

		fields := paymentErr.LogFields()

		assert.Equal(t, "job-1", fields["job_id"])
		assert.Equal(t, CodeInsufficientBalance, fields["error_code"])
	})
}

func TestEnqueueAfterDebitError(t *testing.T) {
	cause := errors.New("broker unreachable")
	err := &EnqueueAfterDebitError{
		UserID:      "user-1",
		JobID:       "job-1",
		AmountCents: 2500,
		Refunded:    true,
		Err:         cause,
	}

	t.Run("should match ErrEnqueueAfterDebit", func(t *testing.T) {
		assert.ErrorIs(t, err, ErrEnqueueAfterDebit)
		assert.True(t, IsEnqueueAfterDebitError(err))
	})

	t.Run("should unwrap to the underlying cause", func(t *testing.T) {
		assert.ErrorIs(t, err, cause)
	})

	t.Run("should report the refund outcome", func(t *testing.T) {
		assert.Contains(t, err.Error(), "refunded=true")
		assert.Equal(t, true, err.LogFields()["refunded"])
	})
}

func TestTransitionError(t *testing.T) {
	err := &TransitionError{JobID: "job-1", From: "queued", To: "completed"}

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "queued")
	assert.Contains(t, err.Error(), "completed")
}

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrImageNotFound))
	assert.True(t, IsNotFoundError(ErrJobNotFound))
	assert.True(t, IsNotFoundError(ErrWalletNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("lookup: %w", ErrImageNotFound)))
	assert.False(t, IsNotFoundError(ErrInvalidRequest))
}
