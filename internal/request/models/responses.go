package models

import "time"

// SiteRequestResponse is the HTTP representation of a site request.
type SiteRequestResponse struct {
	ID            string `json:"id"`
	RequesterID   string `json:"requester_id"`
	RequestedName string `json:"requested_name"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
	ResolvedAt    string `json:"resolved_at,omitempty"`
	ResolvedBy    string `json:"resolved_by,omitempty"`
}

// ToResponse converts a site request to its HTTP representation.
func ToResponse(r *SiteRequest) SiteRequestResponse {
	resp := SiteRequestResponse{
		ID:            r.ID.String(),
		RequesterID:   r.RequesterID.String(),
		RequestedName: r.RequestedName,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     r.UpdatedAt.UTC().Format(time.RFC3339),
		ResolvedBy:    r.ResolvedBy,
	}
	if r.ResolvedAt != nil {
		resp.ResolvedAt = r.ResolvedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

// ApprovalResponse is returned when a request is approved.
type ApprovalResponse struct {
	Request SiteRequestResponse `json:"request"`
	SiteID  string              `json:"site_id"`
	Address string              `json:"address"`
}

// ListResponse wraps a list of site requests.
type ListResponse struct {
	Requests []SiteRequestResponse `json:"requests"`
	Total    int                   `json:"total"`
}
