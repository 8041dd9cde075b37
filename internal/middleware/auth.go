package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/civitas/api/internal/models"
	"github.com/stwalsh4118/civitas/api/internal/token"
)

const (
	// UserIDKey is the context key for the authenticated user's id.
	UserIDKey = "user_id"
	// UserRoleKey is the context key for the authenticated user's role.
	UserRoleKey = "user_role"
	// TokenClaimsKey is the context key for the parsed session claims.
	TokenClaimsKey = "token_claims"
)

// Auth validates the bearer session token, rejects revoked tokens, and puts
// the caller's identity into the Gin context.
func Auth(tokens *token.Manager, denylist *token.Denylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			unauthorized(c, "Missing or invalid Authorization header")
			return
		}

		claims, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			unauthorized(c, "Invalid or expired session token")
			return
		}

		if denylist.Revoked(c.Request.Context(), claims.ID) {
			unauthorized(c, "Session has been logged out")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserRoleKey, claims.Role)
		c.Set(TokenClaimsKey, claims)
		c.Next()
	}
}

// RequireRole allows only callers whose role is in the given list. It must
// run after Auth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok {
			unauthorized(c, "Authentication required")
			return
		}
		if !allowed[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":       "FORBIDDEN",
					"message":    "Insufficient role for this operation",
					"request_id": GetRequestID(c),
				},
			})
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the authenticated user's id from the Gin context.
func GetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// GetUserRole retrieves the authenticated user's role from the Gin context.
func GetUserRole(c *gin.Context) (models.Role, bool) {
	v, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	role, ok := v.(models.Role)
	return role, ok
}

// GetClaims retrieves the parsed session claims from the Gin context.
func GetClaims(c *gin.Context) *token.Claims {
	if v, exists := c.Get(TokenClaimsKey); exists {
		if claims, ok := v.(*token.Claims); ok {
			return claims
		}
	}
	return nil
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":       "UNAUTHORIZED",
			"message":    message,
			"request_id": GetRequestID(c),
		},
	})
}
