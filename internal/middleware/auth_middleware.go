// internal/middleware/auth_middleware.go
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"kynix-service/internal/pkg/authz"
	"kynix-service/internal/pkg/response"
	"kynix-service/internal/pkg/token"
	"kynix-service/internal/service/auth"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

type AuthMiddleware struct {
	authService *auth.AuthService
}

func NewAuthMiddleware(authService *auth.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Auth validates the bearer token and stores the verified claims in the
// request context.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := extractToken(c)
		if tok == "" {
			response.Error(c, http.StatusUnauthorized, "missing authorization token", nil)
			return
		}

		claims, err := m.authService.ValidateToken(tok)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token", err)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// Authorize evaluates the stored claims against a required-permission set.
// MUST be used after Auth().
func (m *AuthMiddleware) Authorize(required ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := GetClaims(c)

		err := authz.Check(claims, required...)
		if err == nil {
			c.Next()
			return
		}

		var permErr *authz.PermissionError
		switch {
		case errors.Is(err, authz.ErrUnauthenticated):
			response.Error(c, http.StatusUnauthorized, "authentication required", nil)
		case errors.Is(err, authz.ErrAccountInactive):
			response.Error(c, http.StatusForbidden, "account is inactive", nil)
		case errors.As(err, &permErr):
			response.Error(c, http.StatusForbidden, "insufficient permissions", err, map[string]interface{}{
				"required": permErr.Required,
				"current":  permErr.Current,
			})
		default:
			response.Error(c, http.StatusForbidden, "forbidden", err)
		}
	}
}

// AdminOnly is the composed Auth + admin-role chain for admin routes.
func (m *AuthMiddleware) AdminOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.Authorize(), // admin passes any check; non-admins need a permission
		func(c *gin.Context) {
			claims, ok := GetClaims(c)
			if !ok || !claims.IsAdmin() {
				response.Forbidden(c, "admin role required")
				return
			}
			c.Next()
		},
	}
}

// extractToken extracts a Bearer token from the Authorization header.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}

	return ""
}

// GetClaims returns the verified claims stored by Auth().
func GetClaims(c *gin.Context) (*token.Claims, bool) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}

	claims, ok := v.(*token.Claims)
	return claims, ok
}

// MustGetUserID returns the authenticated user id or panics; only valid
// behind Auth().
func MustGetUserID(c *gin.Context) int64 {
	claims, ok := GetClaims(c)
	if !ok {
		panic("claims not found in context")
	}
	return claims.UserID
}
