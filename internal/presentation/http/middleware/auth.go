package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/DSR124124/edugen-tracking-go/internal/application/services"
	"github.com/DSR124124/edugen-tracking-go/internal/domain/user"
)

// Context keys set by the auth middleware.
const (
	ContextUserID = "userId"
	ContextRole   = "role"
)

// AuthMiddleware validates the bearer token and stores the caller's identity
// and role on the request context.
func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		userID, role, ok := authService.ValidateToken(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextRole, role)
		c.Next()
	}
}

// RequireAnalyticsRole rejects callers whose role cannot view analytics.
// Must run after AuthMiddleware.
func RequireAnalyticsRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)
		if !ok || !role.CanViewAnalytics() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

// IdentityFromContext returns the authenticated user id and role set by
// AuthMiddleware.
func IdentityFromContext(c *gin.Context) (string, user.Role, bool) {
	userID, ok := c.Get(ContextUserID)
	if !ok {
		return "", "", false
	}
	role, ok := RoleFromContext(c)
	if !ok {
		return "", "", false
	}
	id, ok := userID.(string)
	if !ok {
		return "", "", false
	}
	return id, role, true
}

// RoleFromContext returns the authenticated role set by AuthMiddleware.
func RoleFromContext(c *gin.Context) (user.Role, bool) {
	val, ok := c.Get(ContextRole)
	if !ok {
		return "", false
	}
	role, ok := val.(user.Role)
	return role, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	// Browsers cannot set headers on websocket upgrades; accept a query
	// parameter for the monitor endpoint.
	return c.Query("token")
}
