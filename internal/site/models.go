// Package site provisions hosted sites. The request workflow invokes it as a
// collaborator; the store's uniqueness constraint on (domain, path) is the
// ultimate source of truth for "domain taken".
package site

import (
	"strings"
	"time"

	id "siteflow/pkg/domain"
	dErrors "siteflow/pkg/domain-errors"
)

// Role names for site membership, mirroring the usual blog-network roles.
const (
	RoleAdministrator = "administrator"
	RoleEditor        = "editor"
)

// Site is a provisioned tenant site.
type Site struct {
	ID        id.SiteID     `json:"id"`
	Domain    string        `json:"domain"`
	Path      string        `json:"path"`
	Title     string        `json:"title"`
	OwnerID   id.IdentityID `json:"owner_id"`
	OwnerRole string        `json:"owner_role"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewSite validates and constructs a site record.
func NewSite(siteID id.SiteID, domain, path, title string, ownerID id.IdentityID, now time.Time) (*Site, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "site domain cannot be empty")
	}
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "site path must start with /")
	}
	if ownerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "site owner is required")
	}
	return &Site{
		ID:        siteID,
		Domain:    domain,
		Path:      path,
		Title:     title,
		OwnerID:   ownerID,
		OwnerRole: RoleAdministrator,
		CreatedAt: now,
	}, nil
}

// Address renders the public address of the site.
func (s *Site) Address() string {
	if s.Path == "/" || s.Path == "" {
		return s.Domain
	}
	return s.Domain + s.Path
}
