package site

import (
	"context"
	"fmt"
	"strings"
	"sync"

	id "siteflow/pkg/domain"
	"siteflow/pkg/platform/sentinel"
)

// InMemory stores sites in memory for tests and the demo environment.
type InMemory struct {
	mu      sync.RWMutex
	sites   map[string]*Site
	addrIdx map[string]string
}

// NewInMemory creates an in-memory site store.
func NewInMemory() *InMemory {
	return &InMemory{
		sites:   make(map[string]*Site),
		addrIdx: make(map[string]string),
	}
}

func addrKey(domain, path string) string {
	if path == "" {
		path = "/"
	}
	return strings.ToLower(domain) + "|" + path
}

// CreateIfAddressAvailable atomically persists the site if (domain, path) is free.
func (s *InMemory) CreateIfAddressAvailable(_ context.Context, site *Site) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := addrKey(site.Domain, site.Path)
	if _, exists := s.addrIdx[key]; exists {
		return fmt.Errorf("site address must be unique: %w", sentinel.ErrAlreadyUsed)
	}
	cp := *site
	s.sites[site.ID.String()] = &cp
	s.addrIdx[key] = site.ID.String()
	return nil
}

// FindByID retrieves a site by its UUID.
func (s *InMemory) FindByID(_ context.Context, siteID id.SiteID) (*Site, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if site, ok := s.sites[siteID.String()]; ok {
		cp := *site
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

// AddressExists reports whether (domain, path) is already provisioned.
func (s *InMemory) AddressExists(_ context.Context, domain, path string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.addrIdx[addrKey(domain, path)]
	return ok, nil
}

// SetOwner reassigns ownership of the site.
func (s *InMemory) SetOwner(_ context.Context, siteID id.SiteID, ownerID id.IdentityID, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	site, ok := s.sites[siteID.String()]
	if !ok {
		return sentinel.ErrNotFound
	}
	site.OwnerID = ownerID
	site.OwnerRole = role
	return nil
}

// Count returns the total number of sites.
func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sites), nil
}
