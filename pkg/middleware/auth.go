package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/impactorbit/impactorbit-backend/internal/admins"
	"github.com/impactorbit/impactorbit-backend/internal/sessions"
	"github.com/impactorbit/impactorbit-backend/pkg/logger"
)

// Token is the minimal interface for a verified token that exposes claims.
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on.
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// AuthMiddleware verifies Bearer tokens with the provided verifier and
// rejects tokens that were revoked at logout. Claims are stored on the
// context under "claims".
func AuthMiddleware(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		// Expect 'Bearer <token>'
		var token string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &token); n != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		if black, err := sessions.IsAccessTokenBlacklisted(c.Request.Context(), token); err != nil {
			logger.Warnf("blacklist check failed: %v", err)
		} else if black {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token revoked"})
			return
		}

		idToken, err := ver.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "details": err.Error()})
			return
		}

		var claims map[string]interface{}
		if err := idToken.Claims(&claims); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "failed to parse claims"})
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}

// ClaimString pulls a string claim out of the context set by AuthMiddleware.
func ClaimString(c *gin.Context, name string) string {
	v, ok := c.Get("claims")
	if !ok {
		return ""
	}
	cm, ok := v.(map[string]interface{})
	if !ok {
		return ""
	}
	s, _ := cm[name].(string)
	return s
}

// RequireRole aborts with 403 unless the verified token carries a role at
// least as privileged as min. Must be installed after AuthMiddleware.
func RequireRole(min string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := ClaimString(c, "role")
		if role == "" || !admins.HasAtLeast(role, min) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

// RequirePanelAccess rejects roles that cannot see the admin panel at all.
func RequirePanelAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := ClaimString(c, "role")
		if !admins.CanAccessPanel(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "panel access denied"})
			return
		}
		c.Next()
	}
}
