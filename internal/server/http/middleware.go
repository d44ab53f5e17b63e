package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/carbontrack/internal/common"
	"github.com/dmitrijs2005/carbontrack/internal/server/auth"
	"github.com/gin-gonic/gin"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the user id set by the bearer middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// bearerAuthMiddleware verifies the Authorization bearer token and puts its
// user id on the request context.
func (s *Server) bearerAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if !strings.HasPrefix(header, common.BearerPrefix) {
			abortWithMessage(c, http.StatusUnauthorized, "missing token")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, common.BearerPrefix))
		if token == "" {
			abortWithMessage(c, http.StatusUnauthorized, "missing token")
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			s.logger.Debug(c.Request.Context(), "token rejected", "error", err)
			s.writeError(c, err)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

// accessLogMiddleware writes one line per request through the server logger.
func (s *Server) accessLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			s.logger.Warn(c.Request.Context(), "request", args...)
			return
		}
		s.logger.Info(c.Request.Context(), "request", args...)
	}
}

func (s *Server) recoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		s.logger.Error(c.Request.Context(), "panic recovered", "panic", recovered, "path", c.Request.URL.Path)
		abortWithMessage(c, http.StatusInternalServerError, "internal error")
	})
}

func corsMiddleware(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if origin != "*" {
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
