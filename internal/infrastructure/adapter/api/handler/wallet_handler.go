package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ama3it/image-workers-backend/internal/domain/entity"
	domainerr "github.com/ama3it/image-workers-backend/internal/domain/error"
	coreport "github.com/ama3it/image-workers-backend/internal/domain/port/core"
	"github.com/ama3it/image-workers-backend/internal/domain/port/usecase"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/api/dto"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/api/middleware"
)

// WalletHandler handles wallet-related HTTP requests
type WalletHandler struct {
	walletUseCase usecase.WalletUseCase
	currency      string
	logger        coreport.Logger
}

// NewWalletHandler creates a new wallet handler instance
func NewWalletHandler(
	walletUseCase usecase.WalletUseCase,
	currency string,
	logger coreport.Logger,
) *WalletHandler {
	return &WalletHandler{
		walletUseCase: walletUseCase,
		currency:      currency,
		logger:        logger,
	}
}

// GetBalance handles the GET /wallet/balance endpoint
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, domainerr.ErrUnauthenticated)
		return
	}

	balance, err := h.walletUseCase.GetBalance(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Error getting wallet balance", map[string]any{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		UserID:  userID.String(),
		Balance: balance,
	})
}

// CreateOrder handles the POST /wallet/create-order endpoint
func (h *WalletHandler) CreateOrder(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, domainerr.ErrUnauthenticated)
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.CodeInvalidRequest,
			Message: "Invalid request body",
		})
		return
	}

	amountCents, err := entity.ParseAmount(req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	order, err := h.walletUseCase.CreateTopupOrder(c.Request.Context(), amountCents, h.currency)
	if err != nil {
		h.logger.Error("Error creating top-up order", map[string]any{
			"user_id": userID.String(),
			"amount":  req.Amount,
			"error":   err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CreateOrderResponse{
		OrderID:  order.ID,
		Amount:   entity.FormatCents(order.AmountCents),
		Currency: order.Currency,
	})
}

// VerifyPayment handles the POST /wallet/verify-payment endpoint
func (h *WalletHandler) VerifyPayment(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, domainerr.ErrUnauthenticated)
		return
	}

	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.CodeInvalidRequest,
			Message: "Invalid request body",
		})
		return
	}

	result, err := h.walletUseCase.VerifyTopup(c.Request.Context(), userID, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		h.logger.Error("Error verifying top-up payment", map[string]any{
			"user_id":    userID.String(),
			"order_id":   req.OrderID,
			"payment_id": req.PaymentID,
			"error":      err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.VerifyPaymentResponse{
		TransactionID: result.TransactionID.String(),
		Balance:       result.Balance,
	})
}

// History handles the GET /wallet/payment-history endpoint
func (h *WalletHandler) History(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, domainerr.ErrUnauthenticated)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	transactions, err := h.walletUseCase.History(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.logger.Error("Error listing payment history", map[string]any{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
		respondError(c, err)
		return
	}

	response := dto.HistoryResponse{
		Transactions: make([]dto.TransactionResponse, 0, len(transactions)),
	}
	for _, txn := range transactions {
		response.Transactions = append(response.Transactions, dto.TransactionResponse{
			ID:          txn.ID.String(),
			Type:        string(txn.Type),
			Amount:      txn.FormattedAmount(),
			ReferenceID: txn.ReferenceID,
			CreatedAt:   txn.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, response)
}
