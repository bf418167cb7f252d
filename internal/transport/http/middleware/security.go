package middleware

import "github.com/gin-gonic/gin"

// Security sets common HTTP security headers on every response.
// Cache-Control: no-store matters here: responses carry tokens and
// auth failures that must never land in a shared cache.
func Security() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Cache-Control", "no-store")
		c.Header("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		c.Next()
	}
}
