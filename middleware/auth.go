package middleware

import (
	"strings"

	"wheelstrust/services/access"
	"wheelstrust/utils"

	"github.com/gin-gonic/gin"
)

// TokenValidator verifies a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (*utils.Claims, error)
}

// JWTAuthMiddleware requires a valid bearer token and exposes its subject and role to handlers.
func JWTAuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, utils.Unauthorized("Not authorized to access this route"))
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			utils.JSONError(c, utils.Unauthorized("Invalid or expired token"))
			return
		}

		c.Set(utils.CtxUserID, claims.Subject)
		c.Set(utils.CtxUserRole, claims.Role)
		c.Next()
	}
}

// RequireRoles rejects actors whose token role is not listed. Run after JWTAuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		role := c.GetString(utils.CtxUserRole)
		if !allowed[role] {
			utils.JSONError(c, utils.Forbidden("User role "+role+" is not authorized to access this route"))
			return
		}
		c.Next()
	}
}

// ActorFrom returns the identity set by JWTAuthMiddleware.
func ActorFrom(c *gin.Context) access.Actor {
	return access.Actor{
		ID:   c.GetString(utils.CtxUserID),
		Role: c.GetString(utils.CtxUserRole),
	}
}
