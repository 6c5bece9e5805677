package identity

import (
	"context"

	id "siteflow/pkg/domain"
)

// Store defines the persistence contract for identities.
// Implementations return sentinel errors; the service translates them once.
type Store interface {
	// Create persists a new identity. Login uniqueness is enforced
	// case-insensitively by the store.
	Create(ctx context.Context, ident *Identity) error
	FindByID(ctx context.Context, identityID id.IdentityID) (*Identity, error)
	FindByLogin(ctx context.Context, login string) (*Identity, error)
	Exists(ctx context.Context, identityID id.IdentityID) (bool, error)
	Delete(ctx context.Context, identityID id.IdentityID) error
}
