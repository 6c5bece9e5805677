package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"siteflow/internal/audit"
	"siteflow/internal/request/models"
	"siteflow/internal/request/slug"
	"siteflow/internal/request/tracer"
	id "siteflow/pkg/domain"
	dErrors "siteflow/pkg/domain-errors"
	"siteflow/pkg/platform/sentinel"
	"siteflow/pkg/requestcontext"
)

// Submit records a pending site request for the given requester. The name is
// normalized before validation, so "My Cool Site" and "my-cool-site" collide.
// At most one pending request may exist per name and per requester; the
// stores enforce both atomically.
func (s *Service) Submit(ctx context.Context, requesterID id.IdentityID, requestedName string) (*models.SiteRequest, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanSubmit,
		tracer.String(tracer.AttrRequesterID, requesterID.String()),
	)
	var err error
	defer func() { span.End(err) }()

	if err = requireIdentityID(requesterID); err != nil {
		return nil, err
	}

	name := slug.Normalize(requestedName)
	if name == "" {
		err = dErrors.New(dErrors.CodeValidation, "site name is required")
		return nil, err
	}
	if !slug.IsValid(name) {
		err = dErrors.New(dErrors.CodeValidation, "site name may only contain letters, numbers, and hyphens")
		return nil, err
	}
	span.SetAttributes(tracer.String(tracer.AttrRequestedName, name))

	requester, lookupErr := s.identities.FindByID(ctx, requesterID)
	if lookupErr != nil {
		err = wrapIdentityErr(lookupErr)
		return nil, err
	}

	domain, path := s.site.AddressFor(name)

	var req *models.SiteRequest
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		exists, checkErr := s.provisioner.DomainExists(ctx, domain, path)
		if checkErr != nil {
			return checkErr
		}
		if exists {
			return dErrors.New(dErrors.CodeConflict, "site name is already taken")
		}

		r, newErr := models.NewSiteRequest(id.RequestID(uuid.New()), requesterID, name, requestcontext.Now(ctx))
		if newErr != nil {
			return newErr
		}
		if createErr := s.requests.Create(ctx, r); createErr != nil {
			if errors.Is(createErr, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeConflict, "a pending request already exists for this name or requester")
			}
			return dErrors.Wrap(createErr, dErrors.CodeInternal, "failed to create site request")
		}
		req = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementSubmitted()
	}
	span.SetAttributes(tracer.String(tracer.AttrRequestID, req.ID.String()))
	s.emitAudit(ctx, audit.Event{
		RequestID:   req.ID.String(),
		RequesterID: requesterID.String(),
		Action:      audit.ActionRequestSubmitted,
		Detail:      name,
	})
	s.logger.InfoContext(ctx, "site request submitted",
		"request_id", req.ID,
		"requester_id", requesterID,
		"requested_name", name,
	)

	s.notify(ctx, s.adminEmail, "New site request awaiting review",
		fmt.Sprintf("%s (%s) requested the site %q at %s.",
			requester.Login, requester.Email, name, renderAddress(domain, path)))
	span.AddEvent(tracer.EventNotified)

	return req, nil
}
