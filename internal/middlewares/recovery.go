package middlewares

import (
	"codeclash/internal/logger"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandlerMiddleware turns a panic in any handler into a logged 500.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			logger.Log.Error("Recovered from handler panic",
				zap.Any("panic", recovered),
				zap.String("request_id", c.GetString(requestIDContextKey)),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
				zap.ByteString("stack", debug.Stack()),
			)

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}()
		c.Next()
	}
}
