package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgauth "github.com/jwalitptl/clinic-booking-api/pkg/auth"
	"github.com/jwalitptl/clinic-booking-api/pkg/httputil"
)

// Context keys populated by Authenticate. Caller identity always comes
// from the token, never from request bodies.
const (
	ContextAccountID = "accountID"
	ContextEmail     = "accountEmail"
	ContextRoles     = "accountRoles"
)

type AuthMiddleware struct {
	tokenSvc pkgauth.TokenService
}

func NewAuthMiddleware(tokenSvc pkgauth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate verifies the bearer token and stores its claims in the
// request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization format")
			return
		}

		claims, err := m.tokenSvc.Validate(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(ContextAccountID, claims.Subject)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRoles, claims.Roles)
		c.Next()
	}
}

// RequireRole rejects callers whose token does not carry the role.
func (m *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, ok := c.Get(ContextRoles)
		if !ok {
			abortUnauthorized(c, "missing token claims")
			return
		}

		for _, r := range roles.([]string) {
			if r == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, httputil.Response{
			Status:  "error",
			Message: "insufficient role",
			Kind:    "forbidden",
		})
		c.Abort()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, httputil.Response{
		Status:  "error",
		Message: message,
		Kind:    "unauthenticated",
	})
	c.Abort()
}
