package generation

import (
	"context"

	"github.com/nutrino-ai/nutrino/internal/domain/user"
	"github.com/nutrino-ai/nutrino/internal/ports/inbound"
	"github.com/nutrino-ai/nutrino/internal/ports/outbound"
	apperrors "github.com/nutrino-ai/nutrino/pkg/errors"
)

// EnsureUser makes sure the caller has a profile row before anything is
// stored under their id.
func EnsureUser(ctx context.Context, users outbound.UserRepository, identity inbound.Identity) (*user.User, error) {
	u, err := user.NewUser(identity.UserID, identity.Email, identity.Name)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("Token does not identify a user").WithCause(err)
	}
	if err := users.Ensure(ctx, u); err != nil {
		return nil, apperrors.NewDatabaseError("ensure user", err)
	}
	return u, nil
}
