package service

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"siteflow/internal/request/models"
	id "siteflow/pkg/domain"
	dErrors "siteflow/pkg/domain-errors"
	"siteflow/pkg/platform/sentinel"
)

func (s *ServiceSuite) TestApproveProvisionsSite() {
	requester := s.newIdentity()
	req := s.pendingRequest(requester.ID, "my-site")
	provisioned := s.provisionedSite("my-site.example.test", "/", "my-site", requester.ID)

	s.mockRequests.EXPECT().FindByID(gomock.Any(), req.ID).Return(req, nil)
	s.mockIdentities.EXPECT().FindByID(gomock.Any(), requester.ID).Return(requester, nil)
	s.mockProvisioner.EXPECT().DomainExists(gomock.Any(), "my-site.example.test", "/").Return(false, nil)
	s.mockProvisioner.EXPECT().CreateSite(gomock.Any(), "my-site.example.test", "/", "my-site", requester.ID).Return(provisioned, nil)
	s.mockRequests.EXPECT().UpdateStatusIf(gomock.Any(), req.ID, models.StatusPending, models.StatusApproved, "admin-1", s.now).Return(true, nil)
	s.mockNotifier.EXPECT().Send(gomock.Any(), requester.Email, "Your site request has been approved", gomock.Any()).Return(nil)

	updated, created, err := s.service.Approve(s.ctx, req.ID, "admin-1")

	s.Require().NoError(err)
	s.Equal(models.StatusApproved, updated.Status)
	s.Equal("admin-1", updated.ResolvedBy)
	s.Require().NotNil(updated.ResolvedAt)
	s.Equal(s.now, *updated.ResolvedAt)
	s.Equal(provisioned.ID, created.ID)
}

func (s *ServiceSuite) TestApproveAlreadyApproved() {
	requester := s.newIdentity()
	req := s.pendingRequest(requester.ID, "my-site")
	req.Status = models.StatusApproved

	s.mockRequests.EXPECT().FindByID(gomock.Any(), req.ID).Return(req, nil)

	_, _, err := s.service.Approve(s.ctx, req.ID, "admin-1")

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.Contains(err.Error(), "already been approved")
}

func (s *ServiceSuite) TestApproveAlreadyRejected() {
	requester := s.newIdentity()
	req := s.pendingRequest(requester.ID, "my-site")
	req.Status = models.StatusRejected

	s.mockRequests.EXPECT().FindByID(gomock.Any(), req.ID).Return(req, nil)

	_, _, err := s.service.Approve(s.ctx, req.ID, "admin-1")

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.Contains(err.Error(), "already been rejected")
}

func (s *ServiceSuite) TestApproveUnknownRequest() {
	s.mockRequests.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrNotFound)

	_, _, err := s.service.Approve(s.ctx, id.RequestID(uuid.New()), "admin-1")

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestApproveDomainTakenSinceSubmission() {
	requester := s.newIdentity()
	req := s.pendingRequest(requester.ID, "my-site")

	s.mockRequests.EXPECT().FindByID(gomock.Any(), req.ID).Return(req, nil)
	s.mockIdentities.EXPECT().FindByID(gomock.Any(), requester.ID).Return(requester, nil)
	s.mockProvisioner.EXPECT().DomainExists(gomock.Any(), "my-site.example.test", "/").Return(true, nil)

	_, _, err := s.service.Approve(s.ctx, req.ID, "admin-1")

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestApproveProvisionerFailureLeavesRequestPending() {
	requester := s.newIdentity()
	req := s.pendingRequest(requester.ID, "my-site")

	s.mockRequests.EXPECT().FindByID(gomock.Any(), req.ID).Return(req, nil)
	s.mockIdentities.EXPECT().FindByID(gomock.Any(), requester.ID).Return(requester, nil)
	s.mockProvisioner.EXPECT().DomainExists(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	s.mockProvisioner.EXPECT().CreateSite(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeUnavailable, "failed to provision site"))
	// UpdateStatusIf must not be called: the request stays pending for retry.

	_, _, err := s.service.Approve(s.ctx, req.ID, "admin-1")

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func (s *ServiceSuite) TestApproveLosesRaceToConcurrentResolution() {
	requester := s.newIdentity()
	req := s.pendingRequest(requester.ID, "my-site")
	provisioned := s.provisionedSite("my-site.example.test", "/", "my-site", requester.ID)

	s.mockRequests.EXPECT().FindByID(gomock.Any(), req.ID).Return(req, nil)
	s.mockIdentities.EXPECT().FindByID(gomock.Any(), requester.ID).Return(requester, nil)
	s.mockProvisioner.EXPECT().DomainExists(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	s.mockProvisioner.EXPECT().CreateSite(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(provisioned, nil)
	s.mockRequests.EXPECT().UpdateStatusIf(gomock.Any(), req.ID, models.StatusPending, models.StatusApproved, "admin-1", s.now).Return(false, nil)

	_, _, err := s.service.Approve(s.ctx, req.ID, "admin-1")

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestRejectMarksRequestRejected() {
	requester := s.newIdentity()
	req := s.pendingRequest(requester.ID, "my-site")

	s.mockRequests.EXPECT().FindByID(gomock.Any(), req.ID).Return(req, nil)
	s.mockIdentities.EXPECT().FindByID(gomock.Any(), requester.ID).Return(requester, nil)
	s.mockRequests.EXPECT().UpdateStatusIf(gomock.Any(), req.ID, models.StatusPending, models.StatusRejected, "admin-1", s.now).Return(true, nil)
	s.mockNotifier.EXPECT().Send(gomock.Any(), requester.Email, "Your site request was not approved", gomock.Any()).Return(nil)

	updated, err := s.service.Reject(s.ctx, req.ID, "admin-1")

	s.Require().NoError(err)
	s.Equal(models.StatusRejected, updated.Status)
	s.Equal("admin-1", updated.ResolvedBy)
}

func (s *ServiceSuite) TestRejectAlreadyResolved() {
	requester := s.newIdentity()
	req := s.pendingRequest(requester.ID, "my-site")
	req.Status = models.StatusRejected

	s.mockRequests.EXPECT().FindByID(gomock.Any(), req.ID).Return(req, nil)

	_, err := s.service.Reject(s.ctx, req.ID, "admin-1")

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestRejectNeverProvisions() {
	requester := s.newIdentity()
	req := s.pendingRequest(requester.ID, "my-site")

	s.mockRequests.EXPECT().FindByID(gomock.Any(), req.ID).Return(req, nil)
	s.mockIdentities.EXPECT().FindByID(gomock.Any(), requester.ID).Return(requester, nil)
	s.mockRequests.EXPECT().UpdateStatusIf(gomock.Any(), req.ID, models.StatusPending, models.StatusRejected, "admin-1", s.now).Return(true, nil)
	s.mockNotifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	// No CreateSite or DomainExists expectations: rejection must not touch
	// the provisioner.

	_, err := s.service.Reject(s.ctx, req.ID, "admin-1")

	s.Require().NoError(err)
}

func (s *ServiceSuite) TestRejectSucceedsWhenNotificationFails() {
	requester := s.newIdentity()
	req := s.pendingRequest(requester.ID, "my-site")

	s.mockRequests.EXPECT().FindByID(gomock.Any(), req.ID).Return(req, nil)
	s.mockIdentities.EXPECT().FindByID(gomock.Any(), requester.ID).Return(requester, nil)
	s.mockRequests.EXPECT().UpdateStatusIf(gomock.Any(), req.ID, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
	s.mockNotifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(fmt.Errorf("smtp connection refused"))

	updated, err := s.service.Reject(s.ctx, req.ID, "admin-1")

	s.Require().NoError(err)
	s.Equal(models.StatusRejected, updated.Status)
}

func (s *ServiceSuite) TestListPending() {
	requester := s.newIdentity()
	pending := []*models.SiteRequest{s.pendingRequest(requester.ID, "a"), s.pendingRequest(requester.ID, "b")}

	s.mockRequests.EXPECT().ListByStatus(gomock.Any(), models.StatusPending).Return(pending, nil)

	out, err := s.service.ListPending(s.ctx)

	s.Require().NoError(err)
	s.Len(out, 2)
}

func (s *ServiceSuite) TestListFiltersByStatus() {
	status := models.StatusApproved

	s.mockRequests.EXPECT().ListByStatus(gomock.Any(), models.StatusApproved).Return(nil, nil)

	out, err := s.service.List(s.ctx, &status)

	s.Require().NoError(err)
	s.Empty(out)
}

func (s *ServiceSuite) TestGetUnknownRequest() {
	s.mockRequests.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrNotFound)

	_, err := s.service.Get(s.ctx, id.RequestID(uuid.New()))

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
