package handlers

import (
	"net/http"
	"strings"
	"time"

	"counselbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// revocationTTL outlives the longest token lifetime we issue, so a revoked
// token stays blocked until it would have expired anyway.
const revocationTTL = 24 * time.Hour

// AuthHandler covers session teardown. Sign-in lives with the identity
// provider; the engine only needs to invalidate tokens it has already seen.
type AuthHandler struct {
	Logger *zap.Logger
}

func NewAuthHandler(logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Logger: logger}
}

// Logout revokes the presented bearer token. The route sits behind the auth
// middleware, so the token is known to be valid when it gets here.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if err := utils.RevokeToken(c.Request.Context(), utils.HashToken(token), revocationTTL); err != nil {
		h.Logger.Error("token revocation failed", zap.Error(err))
		utils.RespondWithError(c, utils.Externalf(err, "could not sign out"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}
