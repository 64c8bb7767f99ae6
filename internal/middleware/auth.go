package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const accountIDKey = "accountID"

// TokenVerifier resolves a bearer token to the account id it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthMiddleware creates a middleware for JWT authentication. A missing or
// malformed Authorization header is rejected with 401, a token that fails
// verification with 403.
func AuthMiddleware(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Unauthorized: No token provided")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abort(c, http.StatusUnauthorized, "Unauthorized: Invalid authorization header format")
			return
		}

		accountID, err := tokens.Verify(parts[1])
		if err != nil {
			abort(c, http.StatusForbidden, "Unauthorized: Invalid token")
			return
		}

		// Set account information in context for downstream handlers
		c.Set(accountIDKey, accountID)

		c.Next()
	}
}

// GetAccountIDFromContext returns the account id set by AuthMiddleware.
func GetAccountIDFromContext(c *gin.Context) (string, bool) {
	accountID, exists := c.Get(accountIDKey)
	if !exists {
		return "", false
	}
	idStr, ok := accountID.(string)
	return idStr, ok && idStr != ""
}
