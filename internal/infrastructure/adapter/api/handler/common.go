package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/ama3it/image-workers-backend/internal/domain/error"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/api/dto"
)

// respondError maps domain errors to HTTP responses. Insufficient funds gets
// its own 402 shape carrying the computed price.
func respondError(c *gin.Context, err error) {
	var paymentRequired *domainerr.PaymentRequiredError
	if errors.As(err, &paymentRequired) {
		c.JSON(http.StatusPaymentRequired, dto.PaymentRequiredResponse{
			Code:    domainerr.CodeInsufficientBalance,
			Message: paymentRequired.Error(),
			JobID:   paymentRequired.JobID,
			Price:   paymentRequired.Price,
		})
		return
	}

	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case domainerr.IsNotFoundError(err):
		statusCode = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, domainerr.ErrUnsupportedMediaType):
		statusCode = http.StatusUnsupportedMediaType
		message = err.Error()
	case errors.Is(err, domainerr.ErrUnsupportedJobType),
		errors.Is(err, domainerr.ErrInvalidRequest),
		errors.Is(err, domainerr.ErrInvalidAmount),
		errors.Is(err, domainerr.ErrNegativeAmount),
		errors.Is(err, domainerr.ErrInvalidSignature),
		errors.Is(err, domainerr.ErrPaymentNotCaptured):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case domainerr.IsUnauthenticatedError(err):
		statusCode = http.StatusUnauthorized
		message = "Unauthenticated"
	case domainerr.IsStorageError(err):
		statusCode = http.StatusBadGateway
		message = "Upstream storage failure"
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: message,
	})
}
