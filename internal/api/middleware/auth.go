// server/internal/api/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"workforce-ops-api-server/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"
	ctxUserRole  = "user_role"
)

func unauthorized(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": msg})
}

// Authenticate là middleware xác thực token JWT.
// Nó kiểm tra tính hợp lệ của token và đưa thông tin user vào context.
func Authenticate(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			unauthorized(c, http.StatusUnauthorized, "Invalid token format")
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			unauthorized(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserEmail, claims.Email)
		c.Set(ctxUserRole, claims.Role)
		c.Next()
	}
}

// Authorize kiểm tra vai trò của người dùng. Phải đứng sau Authenticate.
func Authorize(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ctxUserRole)
		if role == "" {
			unauthorized(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		for _, r := range allowedRoles {
			if r == role {
				c.Next()
				return
			}
		}
		unauthorized(c, http.StatusForbidden, "You do not have permission to access this resource")
	}
}

// Passthrough is installed instead of Authorize when auth is disabled.
func Passthrough() gin.HandlerFunc {
	return func(c *gin.Context) { c.Next() }
}

// UserID returns the authenticated user's id, or "" when the request is anonymous.
func UserID(c *gin.Context) string { return c.GetString(ctxUserID) }

// UserEmail returns the authenticated user's email, or "".
func UserEmail(c *gin.Context) string { return c.GetString(ctxUserEmail) }
