package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/ama3it/image-workers-backend/internal/domain/port/core"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/api/handler"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/api/middleware"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	walletHandler *handler.WalletHandler,
	imageHandler *handler.ImageHandler,
	jwtSecret string,
	logger coreport.Logger,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authenticated := router.Group("/")
	authenticated.Use(middleware.Auth(jwtSecret, logger))
	{
		// Wallet routes
		wallet := authenticated.Group("/wallet")
		{
			wallet.GET("/balance", walletHandler.GetBalance)
			wallet.POST("/create-order", walletHandler.CreateOrder)
			wallet.POST("/verify-payment", walletHandler.VerifyPayment)
			wallet.GET("/payment-history", walletHandler.History)
		}

		// Upload-and-process route
		authenticated.POST("/process/image", imageHandler.Submit)

		// Image catalog routes
		images := authenticated.Group("/images")
		{
			images.GET("", imageHandler.List)
			images.GET("/:imageId", imageHandler.Get)
			images.DELETE("/:imageId", imageHandler.Delete)
		}
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
}
