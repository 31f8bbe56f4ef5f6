package chat

import (
	"context"

	"alethiq-server/services/chat-api/internal/domain/identity"
	"alethiq-server/services/chat-api/internal/utils/platformerrors"
)

// Authorize ensures a verified identity is present before any store access.
// It has no side effects and is safe to call repeatedly; a nil or empty
// principal yields a Forbidden error.
func Authorize(ctx context.Context, principal *identity.Identity) (identity.Identity, error) {
	if principal == nil || principal.ID == "" {
		return identity.Identity{}, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeForbidden, "a verified identity is required to save conversations", nil, "")
	}
	return *principal, nil
}
