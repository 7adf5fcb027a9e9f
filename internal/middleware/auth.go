package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"patient-booking-api/internal/auth"
)

const (
	// SubjectKey holds the authenticated patient's email in the gin context.
	SubjectKey = "subject"

	// TokenKey holds the raw bearer token for handlers that re-resolve the
	// patient through the booking service.
	TokenKey = "token"
)

// Auth rejects requests without a valid bearer token and stashes the
// subject email plus the raw token in the context.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token format"})
			return
		}

		email, err := auth.ParseToken(raw, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(SubjectKey, email)
		c.Set(TokenKey, raw)
		c.Next()
	}
}
