package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nutrino-ai/nutrino/internal/ports/inbound"
	"github.com/nutrino-ai/nutrino/pkg/errors"
)

// TokenRevoker blocks a presented token
type TokenRevoker interface {
	Revoke(ctx context.Context, identity inbound.Identity) error
}

// AuthHandlers handles session endpoints
type AuthHandlers struct {
	revoker TokenRevoker
	logger  *zap.Logger
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(revoker TokenRevoker, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{revoker: revoker, logger: logger.Named("auth-handlers")}
}

// Logout handles POST /api/auth/logout
func (h *AuthHandlers) Logout(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	if err := h.revoker.Revoke(c.Request.Context(), identity); err != nil {
		h.logger.Error("Logout failed", zap.String("user_id", identity.UserID), zap.Error(err))
		fail(c, errors.NewAppError(errors.CodeServiceUnavailable, "Logout is unavailable", "").WithCause(err))
		return
	}

	respond(c, http.StatusOK, nil, "Logged out successfully")
}
