package models

import (
	"strings"

	dErrors "siteflow/pkg/domain-errors"
)

// SubmitRequest is the HTTP payload for submitting a site request.
type SubmitRequest struct {
	RequesterID   string `json:"requester_id"`
	RequestedName string `json:"requested_name"`
}

func (r *SubmitRequest) Normalize() {
	if r == nil {
		return
	}
	r.RequesterID = strings.TrimSpace(r.RequesterID)
	r.RequestedName = strings.TrimSpace(r.RequestedName)
}

// Validate checks the shape of the payload. Slug normalization and
// format checks live in the service so the same rules apply to every
// caller, not just HTTP.
func (r *SubmitRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.RequesterID == "" {
		return dErrors.New(dErrors.CodeValidation, "requester_id is required")
	}
	if r.RequestedName == "" {
		return dErrors.New(dErrors.CodeValidation, "requested_name is required")
	}
	if len(r.RequestedName) > 128 {
		return dErrors.New(dErrors.CodeValidation, "requested_name must be 128 characters or less")
	}
	return nil
}
