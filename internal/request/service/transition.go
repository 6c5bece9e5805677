package service

import (
	"context"
	"fmt"
	"time"

	"siteflow/internal/audit"
	"siteflow/internal/request/models"
	"siteflow/internal/request/tracer"
	"siteflow/internal/site"
	id "siteflow/pkg/domain"
	dErrors "siteflow/pkg/domain-errors"
	"siteflow/pkg/requestcontext"
)

// Approve provisions a site for a pending request and marks it approved.
// The transition is a compare-and-swap: if the request was resolved
// concurrently, the loser observes a conflict and no second site appears.
// A provisioner failure leaves the request pending so a later retry can
// succeed.
func (s *Service) Approve(ctx context.Context, requestID id.RequestID, actor string) (*models.SiteRequest, *site.Site, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanApprove,
		tracer.String(tracer.AttrRequestID, requestID.String()),
		tracer.String(tracer.AttrActor, actor),
	)
	var err error
	defer func() { span.End(err) }()

	if err = requireRequestID(requestID); err != nil {
		return nil, nil, err
	}

	var (
		updated        *models.SiteRequest
		created        *site.Site
		requesterEmail string
	)
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		req, findErr := s.requests.FindByID(ctx, requestID)
		if findErr != nil {
			return wrapRequestErr(findErr, "failed to load site request")
		}
		if !req.IsPending() {
			return alreadyResolvedErr(req.Status)
		}

		requester, identErr := s.identities.FindByID(ctx, req.RequesterID)
		if identErr != nil {
			return wrapIdentityErr(identErr)
		}
		requesterEmail = requester.Email

		domain, path := s.site.AddressFor(req.RequestedName)
		exists, checkErr := s.provisioner.DomainExists(ctx, domain, path)
		if checkErr != nil {
			return checkErr
		}
		if exists {
			return dErrors.New(dErrors.CodeConflict, "site address is already taken")
		}

		provisioned, provErr := s.provisioner.CreateSite(ctx, domain, path, req.RequestedName, req.RequesterID)
		if provErr != nil {
			return provErr
		}

		now := requestcontext.Now(ctx)
		ok, casErr := s.requests.UpdateStatusIf(ctx, requestID, models.StatusPending, models.StatusApproved, actor, now)
		if casErr != nil {
			return wrapRequestErr(casErr, "failed to update site request")
		}
		if !ok {
			return dErrors.New(dErrors.CodeConflict, "request is no longer pending")
		}

		updated = resolved(req, models.StatusApproved, actor, now)
		created = provisioned
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementApproved()
		s.metrics.ObserveApprove(start)
	}
	span.SetAttributes(tracer.String(tracer.AttrSiteID, created.ID.String()))
	span.AddEvent(tracer.EventProvisioned)
	s.emitAudit(ctx, audit.Event{
		RequestID:   requestID.String(),
		RequesterID: updated.RequesterID.String(),
		Actor:       actor,
		Action:      audit.ActionRequestApproved,
		Detail:      created.Address(),
	})
	s.logger.InfoContext(ctx, "site request approved",
		"request_id", requestID,
		"site_id", created.ID,
		"address", created.Address(),
		"actor", actor,
	)

	s.notify(ctx, requesterEmail, "Your site request has been approved",
		fmt.Sprintf("Your site %q is ready at %s.", updated.RequestedName, created.Address()))
	span.AddEvent(tracer.EventNotified)

	return updated, created, nil
}

// Reject marks a pending request rejected. Nothing is provisioned and the
// requester identity is left untouched; rejection only records the outcome
// and notifies the requester.
func (s *Service) Reject(ctx context.Context, requestID id.RequestID, actor string) (*models.SiteRequest, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanReject,
		tracer.String(tracer.AttrRequestID, requestID.String()),
		tracer.String(tracer.AttrActor, actor),
	)
	var err error
	defer func() { span.End(err) }()

	if err = requireRequestID(requestID); err != nil {
		return nil, err
	}

	var (
		updated        *models.SiteRequest
		requesterEmail string
	)
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		req, findErr := s.requests.FindByID(ctx, requestID)
		if findErr != nil {
			return wrapRequestErr(findErr, "failed to load site request")
		}
		if !req.IsPending() {
			return alreadyResolvedErr(req.Status)
		}

		requester, identErr := s.identities.FindByID(ctx, req.RequesterID)
		if identErr != nil {
			return wrapIdentityErr(identErr)
		}
		requesterEmail = requester.Email

		now := requestcontext.Now(ctx)
		ok, casErr := s.requests.UpdateStatusIf(ctx, requestID, models.StatusPending, models.StatusRejected, actor, now)
		if casErr != nil {
			return wrapRequestErr(casErr, "failed to update site request")
		}
		if !ok {
			return dErrors.New(dErrors.CodeConflict, "request is no longer pending")
		}

		updated = resolved(req, models.StatusRejected, actor, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementRejected()
	}
	s.emitAudit(ctx, audit.Event{
		RequestID:   requestID.String(),
		RequesterID: updated.RequesterID.String(),
		Actor:       actor,
		Action:      audit.ActionRequestRejected,
		Detail:      updated.RequestedName,
	})
	s.logger.InfoContext(ctx, "site request rejected",
		"request_id", requestID,
		"actor", actor,
	)

	s.notify(ctx, requesterEmail, "Your site request was not approved",
		fmt.Sprintf("Your request for the site %q was reviewed and not approved.", updated.RequestedName))
	span.AddEvent(tracer.EventNotified)

	return updated, nil
}

// resolved returns a copy of req carrying the terminal state, mirroring what
// the conditional update wrote.
func resolved(req *models.SiteRequest, status models.Status, actor string, now time.Time) *models.SiteRequest {
	out := *req
	out.Status = status
	out.ResolvedBy = actor
	out.ResolvedAt = &now
	out.UpdatedAt = now
	return &out
}

func alreadyResolvedErr(status models.Status) error {
	if status == models.StatusApproved {
		return dErrors.New(dErrors.CodeConflict, "request has already been approved")
	}
	return dErrors.New(dErrors.CodeConflict, "request has already been rejected")
}
