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

func (s *ServiceSuite) TestSubmitCreatesPendingRequest() {
	requester := s.newIdentity()

	s.mockIdentities.EXPECT().FindByID(gomock.Any(), requester.ID).Return(requester, nil)
	s.mockProvisioner.EXPECT().DomainExists(gomock.Any(), "my-cool-site.example.test", "/").Return(false, nil)
	s.mockRequests.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, r *models.SiteRequest) error {
			s.Equal("my-cool-site", r.RequestedName)
			s.Equal(requester.ID, r.RequesterID)
			s.Equal(models.StatusPending, r.Status)
			s.Equal(s.now, r.CreatedAt)
			return nil
		})
	s.mockNotifier.EXPECT().Send(gomock.Any(), "admin@example.test", "New site request awaiting review", gomock.Any()).Return(nil)

	req, err := s.service.Submit(s.ctx, requester.ID, "My Cool Site")

	s.Require().NoError(err)
	s.Equal("my-cool-site", req.RequestedName)
	s.True(req.IsPending())
}

func (s *ServiceSuite) TestSubmitNormalizesDiacritics() {
	requester := s.newIdentity()

	s.mockIdentities.EXPECT().FindByID(gomock.Any(), requester.ID).Return(requester, nil)
	s.mockProvisioner.EXPECT().DomainExists(gomock.Any(), "cafe-bistro.example.test", "/").Return(false, nil)
	s.mockRequests.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.mockNotifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	req, err := s.service.Submit(s.ctx, requester.ID, "Café Bistro")

	s.Require().NoError(err)
	s.Equal("cafe-bistro", req.RequestedName)
}

func (s *ServiceSuite) TestSubmitRejectsEmptyName() {
	_, err := s.service.Submit(s.ctx, id.IdentityID(uuid.New()), "   ")

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestSubmitRejectsInvalidCharacters() {
	_, err := s.service.Submit(s.ctx, id.IdentityID(uuid.New()), "my_site!")

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestSubmitRejectsNilRequester() {
	_, err := s.service.Submit(s.ctx, id.IdentityID{}, "my-site")

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *ServiceSuite) TestSubmitUnknownRequester() {
	requesterID := id.IdentityID(uuid.New())

	s.mockIdentities.EXPECT().FindByID(gomock.Any(), requesterID).Return(nil, sentinel.ErrNotFound)

	_, err := s.service.Submit(s.ctx, requesterID, "my-site")

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestSubmitConflictsWithProvisionedSite() {
	requester := s.newIdentity()

	s.mockIdentities.EXPECT().FindByID(gomock.Any(), requester.ID).Return(requester, nil)
	s.mockProvisioner.EXPECT().DomainExists(gomock.Any(), "taken.example.test", "/").Return(true, nil)

	_, err := s.service.Submit(s.ctx, requester.ID, "taken")

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestSubmitConflictsWithPendingRequest() {
	requester := s.newIdentity()

	s.mockIdentities.EXPECT().FindByID(gomock.Any(), requester.ID).Return(requester, nil)
	s.mockProvisioner.EXPECT().DomainExists(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	s.mockRequests.EXPECT().Create(gomock.Any(), gomock.Any()).Return(fmt.Errorf("pending request already exists: %w", sentinel.ErrAlreadyUsed))

	_, err := s.service.Submit(s.ctx, requester.ID, "my-site")

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestSubmitSucceedsWhenNotificationFails() {
	requester := s.newIdentity()

	s.mockIdentities.EXPECT().FindByID(gomock.Any(), requester.ID).Return(requester, nil)
	s.mockProvisioner.EXPECT().DomainExists(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	s.mockRequests.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.mockNotifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(fmt.Errorf("smtp connection refused"))

	req, err := s.service.Submit(s.ctx, requester.ID, "my-site")

	s.Require().NoError(err)
	s.True(req.IsPending())
}

func (s *ServiceSuite) TestSubmitSubdirectoryMode() {
	svc := New(
		s.mockRequests,
		s.mockIdentities,
		s.mockProvisioner,
		SiteConfig{BaseDomain: "example.test", Subdirectory: true},
	)
	requester := s.newIdentity()

	s.mockIdentities.EXPECT().FindByID(gomock.Any(), requester.ID).Return(requester, nil)
	s.mockProvisioner.EXPECT().DomainExists(gomock.Any(), "example.test", "/my-site/").Return(false, nil)
	s.mockRequests.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	_, err := svc.Submit(s.ctx, requester.ID, "my-site")

	s.Require().NoError(err)
}
