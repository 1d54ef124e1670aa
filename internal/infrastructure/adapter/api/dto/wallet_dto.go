package dto

import "time"

// CreateOrderRequest is the payload for starting a wallet top-up
type CreateOrderRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// CreateOrderResponse returns the provider order the client completes payment
// against
type CreateOrderResponse struct {
	OrderID  string `json:"orderId"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// VerifyPaymentRequest is the provider callback payload forwarded by the client
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

// VerifyPaymentResponse confirms a credited top-up
type VerifyPaymentResponse struct {
	TransactionID string `json:"transactionId"`
	Balance       string `json:"balance"`
}

// BalanceResponse represents the API response for a user's wallet balance
type BalanceResponse struct {
	UserID  string `json:"userId"`
	Balance string `json:"balance"`
}

// TransactionResponse is one ledger entry in a payment history listing
type TransactionResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Amount      string    `json:"amount"`
	ReferenceID string    `json:"referenceId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HistoryResponse is a page of the user's ledger, newest first
type HistoryResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}
