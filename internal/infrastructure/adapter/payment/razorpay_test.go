package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	errs "github.com/ama3it/image-workers-backend/internal/domain/error"
	loggeradapter "github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/logger"
)

func signPayload(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestRazorpayProvider_VerifySignature(t *testing.T) {
	provider := NewRazorpayProvider(Config{
		KeyID:     "key_id",
		KeySecret: "key_secret",
	}, loggeradapter.NewNoopLogger())

	t.Run("should accept a valid signature", func(t *testing.T) {
		signature := signPayload("key_secret", "order_1", "pay_1")
		assert.True(t, provider.VerifySignature("order_1", "pay_1", signature))
	})

	t.Run("should reject a signature over different identifiers", func(t *testing.T) {
		signature := signPayload("key_secret", "order_1", "pay_1")
		assert.False(t, provider.VerifySignature("order_1", "pay_2", signature))
	})

	t.Run("should reject a signature made with another secret", func(t *testing.T) {
		signature := signPayload("wrong_secret", "order_1", "pay_1")
		assert.False(t, provider.VerifySignature("order_1", "pay_1", signature))
	})

	t.Run("should reject malformed signatures", func(t *testing.T) {
		assert.False(t, provider.VerifySignature("order_1", "pay_1", "not-hex!"))
		assert.False(t, provider.VerifySignature("order_1", "pay_1", ""))
	})
}

func TestRazorpayProvider_CreateOrder(t *testing.T) {
	t.Run("should post the amount and decode the order", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/orders", r.URL.Path)

			username, password, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "key_id", username)
			assert.Equal(t, "key_secret", password)

			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, float64(10000), body["amount"])
			assert.Equal(t, "INR", body["currency"])

			json.NewEncoder(w).Encode(map[string]any{
				"id":       "order_123",
				"amount":   10000,
				"currency": "INR",
			})
		}))
		defer server.Close()

		provider := NewRazorpayProvider(Config{
			KeyID:     "key_id",
			KeySecret: "key_secret",
			BaseURL:   server.URL,
		}, loggeradapter.NewNoopLogger())

		order, err := provider.CreateOrder(context.Background(), 10000, "INR")

		assert.NoError(t, err)
		assert.Equal(t, "order_123", order.ID)
		assert.Equal(t, int64(10000), order.AmountCents)
		assert.Equal(t, "INR", order.Currency)
	})

	t.Run("should reject non-positive amounts without a request", func(t *testing.T) {
		provider := NewRazorpayProvider(Config{KeyID: "k", KeySecret: "s"}, loggeradapter.NewNoopLogger())

		_, err := provider.CreateOrder(context.Background(), 0, "INR")

		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("should surface provider rejections", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		provider := NewRazorpayProvider(Config{
			KeyID:     "key_id",
			KeySecret: "bad_secret",
			BaseURL:   server.URL,
		}, loggeradapter.NewNoopLogger())

		_, err := provider.CreateOrder(context.Background(), 10000, "INR")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})
}

func TestRazorpayProvider_FetchPayment(t *testing.T) {
	t.Run("should decode the payment state", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/payments/pay_42", r.URL.Path)

			json.NewEncoder(w).Encode(map[string]any{
				"id":       "pay_42",
				"order_id": "order_123",
				"status":   "authorized",
				"amount":   50000,
				"currency": "INR",
			})
		}))
		defer server.Close()

		provider := NewRazorpayProvider(Config{
			KeyID:     "key_id",
			KeySecret: "key_secret",
			BaseURL:   server.URL,
		}, loggeradapter.NewNoopLogger())

		pay, err := provider.FetchPayment(context.Background(), "pay_42")

		assert.NoError(t, err)
		assert.Equal(t, "pay_42", pay.ID)
		assert.Equal(t, "order_123", pay.OrderID)
		assert.Equal(t, "authorized", pay.Status)
		assert.Equal(t, int64(50000), pay.AmountCents)
	})
}
