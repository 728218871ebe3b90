package middleware

import (
	"github.com/gin-gonic/gin"
)

var apiSecurityHeaders = map[string]string{
	"X-Frame-Options":                   "DENY",
	"X-Content-Type-Options":            "nosniff",
	"Referrer-Policy":                   "strict-origin-when-cross-origin",
	"Permissions-Policy":                "camera=(), microphone=(), geolocation=()",
	"X-Permitted-Cross-Domain-Policies": "none",
}

// SecurityHeadersMiddleware sets hardening headers on every response.
// Authenticated back-office responses are additionally marked uncacheable.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		for k, v := range apiSecurityHeaders {
			c.Header(k, v)
		}

		if c.GetHeader("Authorization") != "" {
			c.Header("Cache-Control", "no-store, private")
			c.Header("Pragma", "no-cache")
		}

		c.Next()
	}
}
