package middleware

import (
	"net/http"
	"strings"

	"recicleaqui/apperr"
	"recicleaqui/models"
	"recicleaqui/services/ownership"
	"recicleaqui/utils"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey = "userID"
	roleKey   = "role"
)

// JWTAuthMiddleware requires a valid bearer token and stores the caller's
// user id and role in the context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, apperr.CodeUnauthorized, "Missing or invalid Authorization header", nil)
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, apperr.CodeUnauthorized, "Invalid token", nil)
			return
		}

		c.Set(userIDKey, claims.Subject)
		c.Set(roleKey, claims.Role)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated caller holds one of
// roles. It must run after JWTAuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)
		if actor.UserID == "" {
			utils.JSONError(c, http.StatusUnauthorized, apperr.CodeUnauthorized, "authentication required", nil)
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		utils.JSONError(c, http.StatusForbidden, apperr.CodeForbidden, "insufficient role", nil)
	}
}

// ActorFrom returns the authenticated caller, or a zero Actor for anonymous
// requests.
func ActorFrom(c *gin.Context) ownership.Actor {
	var actor ownership.Actor
	if v, ok := c.Get(userIDKey); ok {
		actor.UserID, _ = v.(string)
	}
	if v, ok := c.Get(roleKey); ok {
		actor.Role, _ = v.(models.Role)
	}
	return actor
}
