package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farra-app/farra-api/internal/helpers"
	"github.com/farra-app/farra-api/internal/models"
)

// TokenVerifier checks a Firebase ID token and returns the identity it
// carries. The Admin SDK verifier is the production implementation; the
// JWKS verifier in helpers is the fallback when the SDK is unavailable.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*helpers.AuthClaims, error)
}

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		requestID, _ := c.Get("request_id")

		logger.Info("HTTP Request",
			"request_id", requestID,
			"method", method,
			"path", path,
			"status", statusCode,
			"latency", latency,
			"client_ip", clientIP,
		)
	}
}

// ErrorHandler provides centralized error handling
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			requestID, _ := c.Get("request_id")

			logger.Error("Request error",
				"request_id", requestID,
				"error", err.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)

			if !c.Writer.Written() {
				c.JSON(http.StatusInternalServerError, models.ErrorResponse("Internal server error"))
			}
		}
	}
}

// AuthMiddleware verifies the Bearer token and stores the resulting claims
// under "user". The optional X-Farra-Role header is carried along as a hint
// only; nothing downstream authorizes on it.
func AuthMiddleware(verifier TokenVerifier, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponseWithMessage("Unauthorized access", "missing Authorization header"))
			c.Abort()
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponseWithMessage("Unauthorized access", "Authorization header must be a Bearer token"))
			c.Abort()
			return
		}

		claims, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			logger.Warn("Token verification failed", "error", err, "client_ip", c.ClientIP())
			c.JSON(http.StatusUnauthorized, models.ErrorResponseWithMessage("Unauthorized access", "invalid or expired token"))
			c.Abort()
			return
		}
		claims.RoleHint = c.GetHeader("X-Farra-Role")

		c.Set("user", claims)
		c.Next()
	}
}

// UserFromContext fetches the claims AuthMiddleware stored, nil when the
// route ran unauthenticated.
func UserFromContext(c *gin.Context) *helpers.AuthClaims {
	v, exists := c.Get("user")
	if !exists {
		return nil
	}
	claims, ok := v.(*helpers.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}
