package middleware

import "github.com/gin-gonic/gin"

// Provide puts value into every request context under key; handlers read it
// back with c.MustGet(key).
func Provide(key string, value any) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(key, value)
		c.Next()
	}
}
