// Package identity owns user accounts. The request workflow consumes it as a
// collaborator; account lifecycle (registration, deletion) stays outside the
// workflow engine on purpose.
package identity

import (
	"strings"
	"time"

	id "siteflow/pkg/domain"
	dErrors "siteflow/pkg/domain-errors"
)

// Identity is a registered user account.
type Identity struct {
	ID        id.IdentityID `json:"id"`
	Login     string        `json:"login"`
	Email     string        `json:"email"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewIdentity validates and constructs an identity.
func NewIdentity(identityID id.IdentityID, login, email string, now time.Time) (*Identity, error) {
	login = strings.TrimSpace(login)
	email = strings.TrimSpace(email)
	if login == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "login cannot be empty")
	}
	if len(login) > 60 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "login must be 60 characters or less")
	}
	if !IsValidEmail(email) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "email address is not valid")
	}
	return &Identity{
		ID:        identityID,
		Login:     login,
		Email:     email,
		CreatedAt: now,
	}, nil
}

// IsValidEmail performs lightweight validation of an email address format.
func IsValidEmail(email string) bool {
	if email == "" {
		return false
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	if parts[0] == "" || parts[1] == "" {
		return false
	}
	return strings.Contains(parts[1], ".")
}
