package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nutrino-ai/nutrino/internal/ports/inbound"
	"github.com/nutrino-ai/nutrino/pkg/errors"
	applog "github.com/nutrino-ai/nutrino/pkg/logger"
)

// TokenValidator turns a bearer token into the caller's identity
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (inbound.Identity, error)
}

// Auth requires a valid bearer token. A missing token is 401; a token that
// does not validate is 403 "Invalid token" so clients know to refresh.
// A validator that cannot reach its stores reports 503.
func Auth(validator TokenValidator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			_ = c.Error(errors.NewUnauthorizedError("Authorization header required"))
			c.Abort()
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			_ = c.Error(errors.NewUnauthorizedError("Authorization header must be a bearer token"))
			c.Abort()
			return
		}

		identity, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			logger.Info("Token validation failed",
				zap.String("request_id", c.GetString(RequestIDKey)),
				zap.String("ip", c.ClientIP()),
				zap.Error(err),
			)
			if errors.Is(err, errors.CodeServiceUnavailable) {
				_ = c.Error(err)
			} else {
				_ = c.Error(errors.NewInvalidTokenError(err))
			}
			c.Abort()
			return
		}

		c.Set(UserIDKey, identity.UserID)
		c.Set(IdentityKey, identity)
		c.Request = c.Request.WithContext(applog.WithUserID(c.Request.Context(), identity.UserID))

		c.Next()
	}
}

// IdentityFrom returns the identity set by Auth
func IdentityFrom(c *gin.Context) (inbound.Identity, bool) {
	value, ok := c.Get(IdentityKey)
	if !ok {
		return inbound.Identity{}, false
	}
	identity, ok := value.(inbound.Identity)
	return identity, ok
}
