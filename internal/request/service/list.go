package service

import (
	"context"

	"siteflow/internal/request/models"
	id "siteflow/pkg/domain"
	dErrors "siteflow/pkg/domain-errors"
)

// ListPending returns the review queue ordered by submission time.
func (s *Service) ListPending(ctx context.Context) ([]*models.SiteRequest, error) {
	out, err := s.requests.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pending site requests")
	}
	return out, nil
}

// List returns requests ordered by submission time, optionally filtered by
// status.
func (s *Service) List(ctx context.Context, status *models.Status) ([]*models.SiteRequest, error) {
	var (
		out []*models.SiteRequest
		err error
	)
	if status != nil {
		out, err = s.requests.ListByStatus(ctx, *status)
	} else {
		out, err = s.requests.List(ctx)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list site requests")
	}
	return out, nil
}

// Get returns a single request by ID.
func (s *Service) Get(ctx context.Context, requestID id.RequestID) (*models.SiteRequest, error) {
	if err := requireRequestID(requestID); err != nil {
		return nil, err
	}
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, wrapRequestErr(err, "failed to load site request")
	}
	return req, nil
}
