package identity

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

// Service manages account lifecycle. Deliberately small: the site-request
// workflow consumes identities, it does not own them.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates an identity service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Register creates a new identity.
func (s *Service) Register(ctx context.Context, login, email string) (*Identity, error) {
	ident, err := NewIdentity(id.IdentityID(uuid.New()), login, email, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	if err := s.store.Create(ctx, ident); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "login is already taken")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create identity")
	}

	s.logger.InfoContext(ctx, "identity registered",
		"identity_id", ident.ID,
		"login", ident.Login,
	)
	return ident, nil
}

// Get retrieves an identity by ID.
func (s *Service) Get(ctx context.Context, identityID id.IdentityID) (*Identity, error) {
	if identityID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "identity ID required")
	}
	ident, err := s.store.FindByID(ctx, identityID)
	if err != nil {
		return nil, wrapIdentityErr(err)
	}
	return ident, nil
}

// GetByLogin retrieves an identity by login, case-insensitively.
func (s *Service) GetByLogin(ctx context.Context, login string) (*Identity, error) {
	if login == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "login required")
	}
	ident, err := s.store.FindByLogin(ctx, login)
	if err != nil {
		return nil, wrapIdentityErr(err)
	}
	return ident, nil
}

// Delete removes an identity. This is the explicit, standalone account
// deletion operation; rejecting a site request never triggers it.
func (s *Service) Delete(ctx context.Context, identityID id.IdentityID) error {
	if identityID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "identity ID required")
	}
	if err := s.store.Delete(ctx, identityID); err != nil {
		return wrapIdentityErr(err)
	}
	s.logger.InfoContext(ctx, "identity deleted", "identity_id", identityID)
	return nil
}

func wrapIdentityErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "identity not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "identity store failure")
}
