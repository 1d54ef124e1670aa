package dto

// ErrorResponse represents a standardized error response for the API
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// PaymentRequiredResponse is returned when a wallet cannot cover a job's
// price. It carries the computed price so the client can prompt a top-up.
type PaymentRequiredResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	JobID   string `json:"jobId"`
	Price   string `json:"price"`
}
