package site

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	id "siteflow/pkg/domain"
	dErrors "siteflow/pkg/domain-errors"
	"siteflow/pkg/platform/sentinel"
	"siteflow/pkg/requestcontext"
)

// Provisioner creates hosted sites and assigns owners. It never retries:
// failures surface to the caller, which decides whether to try again.
type Provisioner struct {
	sites  Store
	logger *slog.Logger
}

// NewProvisioner creates a site provisioner.
func NewProvisioner(sites Store, logger *slog.Logger) *Provisioner {
	return &Provisioner{sites: sites, logger: logger}
}

// DomainExists reports whether (domain, path) is already provisioned.
func (p *Provisioner) DomainExists(ctx context.Context, domain, path string) (bool, error) {
	exists, err := p.sites.AddressExists(ctx, domain, path)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to check site address")
	}
	return exists, nil
}

// CreateSite provisions a new site with the given owner as administrator.
// An address collision surfaces as a conflict, never a crash; the store's
// uniqueness constraint is the source of truth.
func (p *Provisioner) CreateSite(ctx context.Context, domain, path, title string, ownerID id.IdentityID) (*Site, error) {
	site, err := NewSite(id.SiteID(uuid.New()), domain, path, title, ownerID, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := p.sites.CreateIfAddressAvailable(ctx, site); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "site address is already taken")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to provision site")
	}

	p.logger.InfoContext(ctx, "site provisioned",
		"site_id", site.ID,
		"address", site.Address(),
		"owner_id", ownerID,
	)
	return site, nil
}

// GetSite retrieves a provisioned site by ID.
func (p *Provisioner) GetSite(ctx context.Context, siteID id.SiteID) (*Site, error) {
	site, err := p.sites.FindByID(ctx, siteID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "site not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load site")
	}
	return site, nil
}

// AssignOwner reassigns site ownership with the given role.
func (p *Provisioner) AssignOwner(ctx context.Context, siteID id.SiteID, identityID id.IdentityID, role string) error {
	if role == "" {
		role = RoleAdministrator
	}
	if err := p.sites.SetOwner(ctx, siteID, identityID, role); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "site not found")
		}
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to assign site owner")
	}
	return nil
}
