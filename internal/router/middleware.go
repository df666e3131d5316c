package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/house-help/backend/internal/autosync"
	"github.com/house-help/backend/internal/identity"
)

const ownerKeyContext = "ownerKey"

// AuthMiddleware verifies the session token and resolves the caller to the
// owner key its ledger lives under. Requests without a valid token are
// rejected, there is no anonymous access to the v1 API.
func AuthMiddleware(secret string, resolver *identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "you need to be authenticated to use this endpoint"})
			return
		}

		claims, err := identity.ParseToken(secret, tokenStr)
		if err != nil || claims.Email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "your session token is invalid or expired"})
			return
		}

		c.Set(ownerKeyContext, resolver.OwnerKey(claims.Email))
		c.Next()
	}
}

// BootstrapMiddleware reconciles the caller's ledger with the remote before
// the first request of an owner is served. The reconciler remembers which
// owners it already bootstrapped, so all later requests pass through
// without remote traffic.
func BootstrapMiddleware(reconciler *autosync.Reconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		reconciler.Bootstrap(c.Request.Context(), c.GetString(ownerKeyContext))
		c.Next()
	}
}
