// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "siteflow/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing an IdentityID where a RequestID is expected.
type (
	RequestID  uuid.UUID
	IdentityID uuid.UUID
	SiteID     uuid.UUID
)

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseRequestID(s string) (RequestID, error) {
	id, err := parseUUID(s, "request ID")
	return RequestID(id), err
}

func ParseIdentityID(s string) (IdentityID, error) {
	id, err := parseUUID(s, "identity ID")
	return IdentityID(id), err
}

func ParseSiteID(s string) (SiteID, error) {
	id, err := parseUUID(s, "site ID")
	return SiteID(id), err
}

// String methods - for logging and debugging.

func (id RequestID) String() string  { return uuid.UUID(id).String() }
func (id IdentityID) String() string { return uuid.UUID(id).String() }
func (id SiteID) String() string     { return uuid.UUID(id).String() }

// IsNil checks - used for service-layer validation.

func (id RequestID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id IdentityID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id SiteID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

// parseUUID is the shared validation logic.
// Nil UUIDs are allowed here; IsNil() at the service layer handles business
// validation so store lookups can return proper "not found" errors.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	return id, nil
}
