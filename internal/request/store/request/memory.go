// Package request persists site requests. Both implementations provide the
// same conditional-update primitive so the pending->approved/rejected
// transition is atomic regardless of backing store.
package request

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"siteflow/internal/request/models"
	id "siteflow/pkg/domain"
	"siteflow/pkg/platform/sentinel"
)

// InMemory stores site requests in memory for tests and the demo environment.
type InMemory struct {
	mu       sync.RWMutex
	requests map[string]*models.SiteRequest
	// pendingName and pendingRequester index active pending requests so
	// Create can enforce "one pending request per name / per requester"
	// atomically under the same lock.
	pendingName      map[string]string
	pendingRequester map[string]string
}

// NewInMemory creates an in-memory site request store.
func NewInMemory() *InMemory {
	return &InMemory{
		requests:         make(map[string]*models.SiteRequest),
		pendingName:      make(map[string]string),
		pendingRequester: make(map[string]string),
	}
}

// Create atomically persists a pending request if neither the name nor the
// requester already has an active pending request.
func (s *InMemory) Create(_ context.Context, r *models.SiteRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.pendingName[r.RequestedName]; exists {
		return fmt.Errorf("name already has a pending request: %w", sentinel.ErrAlreadyUsed)
	}
	if _, exists := s.pendingRequester[r.RequesterID.String()]; exists {
		return fmt.Errorf("requester already has a pending request: %w", sentinel.ErrAlreadyUsed)
	}
	key := r.ID.String()
	cp := *r
	s.requests[key] = &cp
	s.pendingName[r.RequestedName] = key
	s.pendingRequester[r.RequesterID.String()] = key
	return nil
}

// FindByID retrieves a request by its UUID.
func (s *InMemory) FindByID(_ context.Context, requestID id.RequestID) (*models.SiteRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.requests[requestID.String()]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

// UpdateStatusIf applies the transition only if the observed status still
// matches expected at commit time. Returns false when the precondition
// failed, meaning the request already transitioned.
func (s *InMemory) UpdateStatusIf(_ context.Context, requestID id.RequestID, expected, next models.Status, resolvedBy string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[requestID.String()]
	if !ok {
		return false, sentinel.ErrNotFound
	}
	if r.Status != expected {
		return false, nil
	}
	r.Status = next
	r.UpdatedAt = now
	if next.IsTerminal() {
		resolved := now
		r.ResolvedAt = &resolved
		r.ResolvedBy = resolvedBy
		delete(s.pendingName, r.RequestedName)
		delete(s.pendingRequester, r.RequesterID.String())
	}
	return true, nil
}

// ListByStatus returns requests with the given status ordered by creation
// time, then ID for a stable tiebreak.
func (s *InMemory) ListByStatus(_ context.Context, status models.Status) ([]*models.SiteRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.SiteRequest
	for _, r := range s.requests {
		if r.Status == status {
			cp := *r
			out = append(out, &cp)
		}
	}
	sortRequests(out)
	return out, nil
}

// List returns all requests ordered by creation time.
func (s *InMemory) List(_ context.Context) ([]*models.SiteRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.SiteRequest, 0, len(s.requests))
	for _, r := range s.requests {
		cp := *r
		out = append(out, &cp)
	}
	sortRequests(out)
	return out, nil
}

// CountByStatus returns the number of requests with the given status.
func (s *InMemory) CountByStatus(_ context.Context, status models.Status) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, r := range s.requests {
		if r.Status == status {
			count++
		}
	}
	return count, nil
}

func sortRequests(rs []*models.SiteRequest) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].ID.String() < rs[j].ID.String()
		}
		return rs[i].CreatedAt.Before(rs[j].CreatedAt)
	})
}
