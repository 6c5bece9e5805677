package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"

	id "siteflow/pkg/domain"
	"siteflow/pkg/platform/sentinel"
)

// InMemory stores identities in memory for tests and the demo environment.
type InMemory struct {
	mu         sync.RWMutex
	identities map[string]*Identity
	loginIdx   map[string]string
}

// NewInMemory creates an in-memory identity store.
func NewInMemory() *InMemory {
	return &InMemory{
		identities: make(map[string]*Identity),
		loginIdx:   make(map[string]string),
	}
}

// Create atomically persists the identity if the login is not already taken (case-insensitive).
func (s *InMemory) Create(_ context.Context, ident *Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lower := strings.ToLower(ident.Login)
	if _, exists := s.loginIdx[lower]; exists {
		return fmt.Errorf("login must be unique: %w", sentinel.ErrAlreadyUsed)
	}
	key := ident.ID.String()
	cp := *ident
	s.identities[key] = &cp
	s.loginIdx[lower] = key
	return nil
}

// FindByID retrieves an identity by its UUID.
func (s *InMemory) FindByID(_ context.Context, identityID id.IdentityID) (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ident, ok := s.identities[identityID.String()]; ok {
		cp := *ident
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

// FindByLogin retrieves an identity by login (case-insensitive).
func (s *InMemory) FindByLogin(_ context.Context, login string) (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if key, ok := s.loginIdx[strings.ToLower(login)]; ok {
		cp := *s.identities[key]
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

// Exists reports whether the identity exists.
func (s *InMemory) Exists(_ context.Context, identityID id.IdentityID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.identities[identityID.String()]
	return ok, nil
}

// Delete removes the identity. Missing identities return ErrNotFound.
func (s *InMemory) Delete(_ context.Context, identityID id.IdentityID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := identityID.String()
	ident, ok := s.identities[key]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.identities, key)
	delete(s.loginIdx, strings.ToLower(ident.Login))
	return nil
}
