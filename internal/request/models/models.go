package models

import (
	"time"

	"siteflow/internal/request/slug"
	id "siteflow/pkg/domain"
	dErrors "siteflow/pkg/domain-errors"
)

// Status is the lifecycle state of a site request. Pending is the only
// non-terminal state; approved and rejected are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus validates a status string from a trust boundary.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(s), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown request status")
	}
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// SiteRequest links a requester identity to a desired site name.
type SiteRequest struct {
	ID            id.RequestID  `json:"id"`
	RequesterID   id.IdentityID `json:"requester_id"`
	RequestedName string        `json:"requested_name"`
	Status        Status        `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	ResolvedAt    *time.Time    `json:"resolved_at,omitempty"`
	ResolvedBy    string        `json:"resolved_by,omitempty"`
}

// IsPending reports whether the request can still be approved or rejected.
func (r *SiteRequest) IsPending() bool {
	return r.Status == StatusPending
}

// NewSiteRequest validates and constructs a pending site request.
// The name must already be normalized; construction rejects anything
// outside the slug alphabet so an invalid record can never be persisted.
func NewSiteRequest(requestID id.RequestID, requesterID id.IdentityID, name string, now time.Time) (*SiteRequest, error) {
	if requesterID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "requester is required")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "requested name cannot be empty")
	}
	if !slug.IsValid(name) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "requested name is not a valid slug")
	}
	return &SiteRequest{
		ID:            requestID,
		RequesterID:   requesterID,
		RequestedName: name,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
