package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/smart-flashcard-backend/logger"
)

// Recovery turns a panic into a generic 500 without leaking internals.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if log != nil {
			log.Error("panic recovered",
				"path", c.Request.URL.Path,
				"request_id", GetRequestID(c),
				"panic", recovered,
				"stack", string(debug.Stack()),
			)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}
