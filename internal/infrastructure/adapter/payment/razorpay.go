package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	errs "github.com/ama3it/image-workers-backend/internal/domain/error"
	coreport "github.com/ama3it/image-workers-backend/internal/domain/port/core"
	paymentport "github.com/ama3it/image-workers-backend/internal/domain/port/payment"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// Config holds the Razorpay API credentials
type Config struct {
	KeyID          string
	KeySecret      string
	BaseURL        string
	RequestTimeout time.Duration
}

// RazorpayProvider implements the payment Provider against the Razorpay REST
// API using basic auth. Amounts are exchanged in the currency's smallest unit,
// which matches the wallet's cent representation directly.
type RazorpayProvider struct {
	config     Config
	httpClient *http.Client
	logger     coreport.Logger
}

// NewRazorpayProvider creates a new Razorpay payment provider
func NewRazorpayProvider(config Config, logger coreport.Logger) *RazorpayProvider {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RazorpayProvider{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (p *RazorpayProvider) doJSON(ctx context.Context, method, url string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.SetBasicAuth(p.config.KeyID, p.config.KeySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		p.logger.Error("Payment provider request rejected", map[string]any{
			"url":    url,
			"status": resp.StatusCode,
			"body":   string(respBody),
		})
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// CreateOrder registers a provider order for the given amount
func (p *RazorpayProvider) CreateOrder(ctx context.Context, amountCents int64, currency string) (*paymentport.Order, error) {
	if amountCents <= 0 {
		return nil, errs.ErrInvalidAmount
	}

	var orderResp struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	err := p.doJSON(ctx, http.MethodPost, p.config.BaseURL+"/orders", map[string]any{
		"amount":   amountCents,
		"currency": currency,
	}, &orderResp)
	if err != nil {
		return nil, fmt.Errorf("%w: creating order: %s", errs.ErrInternalServer, err.Error())
	}

	p.logger.Info("Payment order created", map[string]any{
		"order_id": orderResp.ID,
		"amount":   amountCents,
		"currency": currency,
	})
	return &paymentport.Order{
		ID:          orderResp.ID,
		AmountCents: orderResp.Amount,
		Currency:    orderResp.Currency,
	}, nil
}

// FetchPayment retrieves the payment's authoritative status and amount
func (p *RazorpayProvider) FetchPayment(ctx context.Context, paymentID string) (*paymentport.Payment, error) {
	var paymentResp struct {
		ID       string `json:"id"`
		OrderID  string `json:"order_id"`
		Status   string `json:"status"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	err := p.doJSON(ctx, http.MethodGet, p.config.BaseURL+"/payments/"+paymentID, nil, &paymentResp)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching payment: %s", errs.ErrInternalServer, err.Error())
	}

	return &paymentport.Payment{
		ID:          paymentResp.ID,
		OrderID:     paymentResp.OrderID,
		Status:      paymentResp.Status,
		AmountCents: paymentResp.Amount,
		Currency:    paymentResp.Currency,
	}, nil
}

// VerifySignature checks the HMAC-SHA256 callback signature computed over
// "orderID|paymentID" with the key secret, comparing in constant time
func (p *RazorpayProvider) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(p.config.KeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	expectedBytes, _ := hex.DecodeString(expected)
	return hmac.Equal(expectedBytes, provided)
}
