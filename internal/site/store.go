package site

import (
	"context"

	id "siteflow/pkg/domain"
)

// Store defines the persistence contract for sites.
// Implementations return sentinel errors; the provisioner translates them once.
type Store interface {
	// CreateIfAddressAvailable atomically persists the site if (domain, path)
	// is not already taken. Returns ErrAlreadyUsed (wrapped) on collision.
	CreateIfAddressAvailable(ctx context.Context, site *Site) error
	FindByID(ctx context.Context, siteID id.SiteID) (*Site, error)
	AddressExists(ctx context.Context, domain, path string) (bool, error)
	SetOwner(ctx context.Context, siteID id.SiteID, ownerID id.IdentityID, role string) error
	Count(ctx context.Context) (int, error)
}
