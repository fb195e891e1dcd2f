package middleware

import (
	"net/http"
	"strings"

	"counselbook/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware.
const (
	CtxActorID   = "actorID"
	CtxActorRole = "actorRole"
)

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": "Insufficient authorization",
		"code":  0,
	})
}

// JWTAuthMiddleware authenticates the bearer token and requires the given
// role ("client" or "provider"). The actor's identity lands in the context
// under CtxActorID / CtxActorRole. Revoked tokens are rejected.
func JWTAuthMiddleware(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
					"code":  500,
				})
			}
		}()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c)
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			abortUnauthorized(c)
			return
		}

		subject, role, err := utils.ExtractIdentityFromToken(tokenString)
		if err != nil || subject == "" {
			abortUnauthorized(c)
			return
		}
		if requiredRole != "" && role != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
				"code":  0,
			})
			return
		}

		if utils.IsTokenRevoked(c.Request.Context(), utils.HashToken(tokenString)) {
			abortUnauthorized(c)
			return
		}

		c.Set(CtxActorID, subject)
		c.Set(CtxActorRole, role)
		c.Next()
	}
}
