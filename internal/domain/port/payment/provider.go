package payment

import (
	"context"
)

// Payment statuses reported by the capture provider
const (
	StatusAuthorized = "authorized"
	StatusCaptured   = "captured"
	StatusFailed     = "failed"
)

// Order is a provider-side payment order created for a wallet top-up
type Order struct {
	ID          string
	AmountCents int64
	Currency    string
}

// Payment describes a captured payment fetched from the provider
type Payment struct {
	ID          string
	OrderID     string
	Status      string
	AmountCents int64
	Currency    string
}

// Provider is the external payment-capture collaborator, used only for wallet
// top-ups. Token-level capture happens on the client; the backend verifies the
// callback signature and fetches the authoritative payment state.
type Provider interface {
	// CreateOrder registers a provider order for the given amount
	CreateOrder(ctx context.Context, amountCents int64, currency string) (*Order, error)

	// FetchPayment retrieves the payment's authoritative status and amount
	FetchPayment(ctx context.Context, paymentID string) (*Payment, error)

	// VerifySignature checks the HMAC-SHA256 callback signature computed over
	// "orderID|paymentID". Implementations must compare in constant time.
	VerifySignature(orderID, paymentID, signature string) bool
}
