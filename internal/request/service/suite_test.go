package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"siteflow/internal/identity"
	"siteflow/internal/request/models"
	"siteflow/internal/request/service/mocks"
	"siteflow/internal/site"
	id "siteflow/pkg/domain"
	"siteflow/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	mockRequests    *mocks.MockRequestStore
	mockIdentities  *mocks.MockIdentityStore
	mockProvisioner *mocks.MockSiteProvisioner
	mockNotifier    *mocks.MockNotifier
	service         *Service

	now time.Time
	ctx context.Context
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRequests = mocks.NewMockRequestStore(s.ctrl)
	s.mockIdentities = mocks.NewMockIdentityStore(s.ctrl)
	s.mockProvisioner = mocks.NewMockSiteProvisioner(s.ctrl)
	s.mockNotifier = mocks.NewMockNotifier(s.ctrl)

	s.service = New(
		s.mockRequests,
		s.mockIdentities,
		s.mockProvisioner,
		SiteConfig{BaseDomain: "example.test"},
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithNotifier(s.mockNotifier),
		WithAdminEmail("admin@example.test"),
	)

	s.now = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	s.ctx = requestcontext.WithNow(context.Background(), s.now)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) newIdentity() *identity.Identity {
	return &identity.Identity{
		ID:        id.IdentityID(uuid.New()),
		Login:     "alice",
		Email:     "alice@example.test",
		CreatedAt: s.now.Add(-time.Hour),
	}
}

func (s *ServiceSuite) pendingRequest(requesterID id.IdentityID, name string) *models.SiteRequest {
	return &models.SiteRequest{
		ID:            id.RequestID(uuid.New()),
		RequesterID:   requesterID,
		RequestedName: name,
		Status:        models.StatusPending,
		CreatedAt:     s.now.Add(-time.Minute),
		UpdatedAt:     s.now.Add(-time.Minute),
	}
}

func (s *ServiceSuite) provisionedSite(domain, path, title string, ownerID id.IdentityID) *site.Site {
	return &site.Site{
		ID:        id.SiteID(uuid.New()),
		Domain:    domain,
		Path:      path,
		Title:     title,
		OwnerID:   ownerID,
		OwnerRole: site.RoleAdministrator,
		CreatedAt: s.now,
	}
}
