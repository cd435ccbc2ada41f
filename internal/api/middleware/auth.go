package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenKey is the gin context key holding the verified bearer token
const TokenKey = "auth.token"

// TokenVerifier checks bearer tokens
type TokenVerifier interface {
	Verify(token string) error
}

// RequireToken rejects requests without a valid bearer token
func RequireToken(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || v.Verify(strings.TrimSpace(token)) != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		c.Set(TokenKey, strings.TrimSpace(token))
		c.Next()
	}
}
