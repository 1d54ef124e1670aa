package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidRequest       = 4000
	CodeInsufficientBalance  = 4001
	CodeInvalidAmount        = 4002
	CodeUnsupportedMediaType = 4003
	CodeUnsupportedJobType   = 4004
	CodeInvalidSignature     = 4005
	CodePaymentNotCaptured   = 4006
	CodeUnauthenticated      = 4010
	CodeImageNotFound        = 4040
	CodeJobNotFound          = 4041
	CodeWalletNotFound       = 4042

	// 5xxx - Server errors
	CodeInternalServer    = 5000
	CodeUpstreamStorage   = 5001
	CodeEnqueueAfterDebit = 5002
)

// Base error types
var (
	// ErrInsufficientBalance is returned when a wallet cannot cover a job's price
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidAmount is returned when a monetary amount has an invalid format
	ErrInvalidAmount = errors.New("invalid amount format")

	// ErrNegativeAmount is returned when a monetary amount is negative
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnsupportedMediaType is returned when an upload's content type is not allowed
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrUnsupportedJobType is returned when a job carries an unknown transformation type
	ErrUnsupportedJobType = errors.New("unsupported job type")

	// ErrInvalidSignature is returned when a payment callback signature does not verify
	ErrInvalidSignature = errors.New("invalid payment signature")

	// ErrPaymentNotCaptured is returned when the payment provider reports a
	// status other than authorized
	ErrPaymentNotCaptured = errors.New("payment not captured")

	// ErrUnauthenticated is returned when the bearer credential is missing or invalid
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrWalletNotFound is returned when no wallet exists for a user
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrImageNotFound is returned when the requested image doesn't exist
	ErrImageNotFound = errors.New("image not found")

	// ErrJobNotFound is returned when the requested job doesn't exist
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidTransition is returned when a job status transition violates
	// the job lifecycle
	ErrInvalidTransition = errors.New("invalid job status transition")

	// ErrUpstreamStorage is returned when the object store fails
	ErrUpstreamStorage = errors.New("object storage failure")

	// ErrEnqueueAfterDebit is returned when queue submission fails after the
	// wallet has already been debited. Money has left the wallet with no work
	// scheduled, so this must never be silently swallowed.
	ErrEnqueueAfterDebit = errors.New("enqueue failed after wallet debit")

	// ErrDuplicateWallet is returned when a wallet already exists for the user
	ErrDuplicateWallet = errors.New("wallet already exists for user")

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrDatabaseConnection is returned when there's a problem talking to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientBalance):
		return CodeInsufficientBalance
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrNegativeAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrUnsupportedMediaType):
		return CodeUnsupportedMediaType
	case errors.Is(err, ErrUnsupportedJobType):
		return CodeUnsupportedJobType
	case errors.Is(err, ErrInvalidSignature):
		return CodeInvalidSignature
	case errors.Is(err, ErrPaymentNotCaptured):
		return CodePaymentNotCaptured
	case errors.Is(err, ErrUnauthenticated):
		return CodeUnauthenticated
	case errors.Is(err, ErrImageNotFound):
		return CodeImageNotFound
	case errors.Is(err, ErrJobNotFound):
		return CodeJobNotFound
	case errors.Is(err, ErrWalletNotFound):
		return CodeWalletNotFound
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrUpstreamStorage):
		return CodeUpstreamStorage
	case errors.Is(err, ErrEnqueueAfterDebit):
		return CodeEnqueueAfterDebit
	default:
		return CodeInternalServer
	}
}

// PaymentRequiredError carries the computed price of a job whose admission was
// rejected because the wallet balance could not cover it. The job row is kept
// in PAYMENT_FAILED as an audit trail of the attempt.
type PaymentRequiredError struct {
	UserID     string
	JobID      string
	PriceCents int64
	Price      string
}

// Error implements the error interface
func (e *PaymentRequiredError) Error() string {
	return fmt.Sprintf("insufficient funds for job %s: this operation requires %s credits", e.JobID, e.Price)
}

// Is checks if the target error is an ErrInsufficientBalance
func (e *PaymentRequiredError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// LogFields returns a map of fields for structured logging
func (e *PaymentRequiredError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "payment_required",
		"user_id":    e.UserID,
		"job_id":     e.JobID,
		"price":      e.Price,
		"error_code": CodeInsufficientBalance,
	}
}

// NewPaymentRequiredError creates a new detailed payment-required error
func NewPaymentRequiredError(userID, jobID string, priceCents int64, price string) error {
	return &PaymentRequiredError{
		UserID:     userID,
		JobID:      jobID,
		PriceCents: priceCents,
		Price:      price,
	}
}

// EnqueueAfterDebitError is the alertable condition raised when the task queue
// rejects a job that has already been paid for. Callers must surface it for
// reconciliation, not just log and continue.
type EnqueueAfterDebitError struct {
	UserID      string
	JobID       string
	AmountCents int64
	Refunded    bool
	Err         error
}

// Error implements the error interface
func (e *EnqueueAfterDebitError) Error() string {
	return fmt.Sprintf("enqueue failed after debit for job %s (user %s, refunded=%t): %v",
		e.JobID, e.UserID, e.Refunded, e.Err)
}

// Unwrap returns the underlying error
func (e *EnqueueAfterDebitError) Unwrap() error {
	return e.Err
}

// Is checks if the target error is an ErrEnqueueAfterDebit
func (e *EnqueueAfterDebitError) Is(target error) bool {
	return target == ErrEnqueueAfterDebit
}

// LogFields returns a map of fields for structured logging
func (e *EnqueueAfterDebitError) LogFields() map[string]any {
	return map[string]any{
		"error_type":   "enqueue_after_debit",
		"user_id":      e.UserID,
		"job_id":       e.JobID,
		"amount_cents": e.AmountCents,
		"refunded":     e.Refunded,
		"error":        e.Err.Error(),
		"error_code":   CodeEnqueueAfterDebit,
	}
}

// TransitionError describes a rejected job status transition
type TransitionError struct {
	JobID string
	From  string
	To    string
}

// Error implements the error interface
func (e *TransitionError) Error() string {
	return fmt.Sprintf("job %s cannot transition from %s to %s", e.JobID, e.From, e.To)
}

// Is checks if the target error is an ErrInvalidTransition
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// IsInsufficientBalanceError checks if the error is related to insufficient balance
func IsInsufficientBalanceError(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrImageNotFound) ||
		errors.Is(err, ErrJobNotFound) ||
		errors.Is(err, ErrWalletNotFound)
}

// IsUnauthenticatedError checks if the error is an authentication failure
func IsUnauthenticatedError(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

// IsEnqueueAfterDebitError checks for the alertable post-debit enqueue failure
func IsEnqueueAfterDebitError(err error) bool {
	return errors.Is(err, ErrEnqueueAfterDebit)
}

// IsStorageError checks if the error came from the object store
func IsStorageError(err error) bool {
	return errors.Is(err, ErrUpstreamStorage)
}
