// Package security validates bearer tokens and keeps the revocation list
package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nutrino-ai/nutrino/internal/infrastructure/config"
	"github.com/nutrino-ai/nutrino/internal/ports/inbound"
	"github.com/nutrino-ai/nutrino/internal/ports/outbound"
	apperrors "github.com/nutrino-ai/nutrino/pkg/errors"
)

var (
	// ErrInvalidToken covers malformed, badly signed and expired tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenRevoked is returned for tokens presented after logout.
	ErrTokenRevoked = errors.New("token has been revoked")
)

const revokedKeyPrefix = "revoked:"

// Claims represents JWT claims structure
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// AuthService issues, validates and revokes bearer tokens
type AuthService struct {
	secret      []byte
	issuer      string
	audience    string
	expiration  time.Duration
	revocations outbound.CacheRepository
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(cfg config.AuthConfig, revocations outbound.CacheRepository, logger *zap.Logger) *AuthService {
	expiration := cfg.JWTExpiration
	if expiration <= 0 {
		expiration = time.Hour
	}
	return &AuthService{
		secret:      []byte(cfg.JWTSecret),
		issuer:      cfg.Issuer,
		audience:    cfg.Audience,
		expiration:  expiration,
		revocations: revocations,
		logger:      logger.Named("auth"),
	}
}

// IssueToken mints a signed token for userID. Used by the developer CLI
// and tests; production tokens come from the identity provider.
func (a *AuthService) IssueToken(userID, email, name string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(a.expiration)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	if a.audience != "" {
		claims.Audience = jwt.ClaimStrings{a.audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses tokenString and returns the caller it identifies
func (a *AuthService) ValidateToken(ctx context.Context, tokenString string) (inbound.Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	if a.audience != "" {
		opts = append(opts, jwt.WithAudience(a.audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return inbound.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return inbound.Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	if claims.ID != "" && a.revocations != nil {
		// Fails closed: a token is never accepted unless the revocation list was read.
		revoked, err := a.revocations.Exists(ctx, revokedKeyPrefix+claims.ID)
		if err != nil {
			a.logger.Warn("Failed to check token revocation", zap.Error(err))
			return inbound.Identity{}, apperrors.NewAppError(apperrors.CodeServiceUnavailable,
				"Authentication temporarily unavailable", "Token revocation list could not be read").WithCause(err)
		}
		if revoked {
			return inbound.Identity{}, ErrTokenRevoked
		}
	}

	identity := inbound.Identity{
		UserID:  claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}

// Revoke blocks the identity's token until it would have expired anyway
func (a *AuthService) Revoke(ctx context.Context, identity inbound.Identity) error {
	if identity.TokenID == "" {
		return fmt.Errorf("%w: token has no id", ErrInvalidToken)
	}
	if a.revocations == nil {
		return errors.New("no revocation store configured")
	}

	ttl := time.Until(identity.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := a.revocations.Set(ctx, revokedKeyPrefix+identity.TokenID, []byte(identity.UserID), ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	a.logger.Info("Token revoked",
		zap.String("user_id", identity.UserID),
		zap.String("token_id", identity.TokenID),
		zap.Duration("ttl", ttl),
	)
	return nil
}
