package service

//go:generate mockgen -source=contracts.go -destination=mocks/mocks.go -package=mocks RequestStore,IdentityStore,SiteProvisioner,Notifier

import (
	"context"
	"errors"
	"time"

	"siteflow/internal/identity"
	"siteflow/internal/request/models"
	"siteflow/internal/site"
	id "siteflow/pkg/domain"
	dErrors "siteflow/pkg/domain-errors"
	"siteflow/pkg/platform/sentinel"
)

// Store and collaborator interfaces define what the workflow engine consumes.
// All are invoked, never implemented, here.

type RequestStore interface {
	// Create persists a pending request. Stores enforce that neither the
	// name nor the requester already has an active pending request.
	Create(ctx context.Context, r *models.SiteRequest) error
	FindByID(ctx context.Context, requestID id.RequestID) (*models.SiteRequest, error)
	// UpdateStatusIf is the atomic compare-and-swap for transitions:
	// applied only if the observed status still matches expected at commit.
	UpdateStatusIf(ctx context.Context, requestID id.RequestID, expected, next models.Status, resolvedBy string, now time.Time) (bool, error)
	ListByStatus(ctx context.Context, status models.Status) ([]*models.SiteRequest, error)
	List(ctx context.Context) ([]*models.SiteRequest, error)
}

type IdentityStore interface {
	FindByID(ctx context.Context, identityID id.IdentityID) (*identity.Identity, error)
	Exists(ctx context.Context, identityID id.IdentityID) (bool, error)
}

type SiteProvisioner interface {
	DomainExists(ctx context.Context, domain, path string) (bool, error)
	CreateSite(ctx context.Context, domain, path, title string, ownerID id.IdentityID) (*site.Site, error)
}

type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ID validation helpers reduce repetition in service methods.

func requireRequestID(requestID id.RequestID) error {
	if requestID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "request ID required")
	}
	return nil
}

func requireIdentityID(identityID id.IdentityID) error {
	if identityID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "requester ID required")
	}
	return nil
}

// Error wrapping helpers translate sentinel errors to domain errors.

func wrapRequestErr(err error, action string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "site request not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}

func wrapIdentityErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "requester identity not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load requester identity")
}
