package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainerr "github.com/ama3it/image-workers-backend/internal/domain/error"
	coreport "github.com/ama3it/image-workers-backend/internal/domain/port/core"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/api/dto"
)

// userIDKey is the gin context key the authenticated user id is stored under
const userIDKey = "userID"

// Auth validates the bearer token and stores the authenticated user id in the
// request context. Tokens are HS256 JWTs with the user id in the subject claim.
func Auth(jwtSecret string, logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthenticated(c, "Missing bearer token")
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, domainerr.ErrUnauthenticated
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			logger.Warn("Rejected invalid token", map[string]any{
				"path":  c.Request.URL.Path,
				"error": errString(err),
			})
			abortUnauthenticated(c, "Invalid token")
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			abortUnauthenticated(c, "Invalid token")
			return
		}
		userID, err := uuid.Parse(subject)
		if err != nil {
			abortUnauthenticated(c, "Invalid token")
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID retrieves the authenticated user id stored by Auth
func UserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(userIDKey)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(domainerr.ErrUnauthenticated),
		Message: message,
	})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
