package store

import (
	"context"
	"slices"
	"sync"

	"unionhub/internal/eligibility"
	"unionhub/internal/member/models"
	id "unionhub/pkg/domain"
	"unionhub/pkg/platform/sentinel"
)

// InMemory is a process-local member store.
type InMemory struct {
	mu      sync.RWMutex
	members map[id.MemberID]*models.Member
}

func NewInMemory() *InMemory {
	return &InMemory{members: make(map[id.MemberID]*models.Member)}
}

func clone(m *models.Member) *models.Member {
	c := *m
	c.Positions = slices.Clone(m.Positions)
	return &c
}

func (s *InMemory) Create(_ context.Context, m *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.members[m.ID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	s.members[m.ID] = clone(m)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, memberID id.MemberID) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[memberID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(m), nil
}

func (s *InMemory) ListActive(_ context.Context, filter eligibility.Filter) ([]*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Member
	for _, m := range s.members {
		if matches(m, filter) {
			out = append(out, clone(m))
		}
	}
	slices.SortFunc(out, func(a, b *models.Member) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

func matches(m *models.Member, f eligibility.Filter) bool {
	if !m.IsActive() {
		return false
	}
	if !f.TehsilID.IsNil() && m.TehsilID != f.TehsilID {
		return false
	}
	if !f.DistrictID.IsNil() && m.DistrictID != f.DistrictID {
		return false
	}
	if len(f.PositionKinds) == 0 {
		return true
	}
	return slices.ContainsFunc(m.Positions, func(p models.Position) bool {
		return slices.Contains(f.PositionKinds, p.Kind)
	})
}

// Execute validates and mutates a member under the store lock.
func (s *InMemory) Execute(_ context.Context, memberID id.MemberID, validate func(*models.Member) error, mutate func(*models.Member)) (*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[memberID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := clone(m)
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.members[memberID] = working
	return clone(working), nil
}

// AddPosition records a position unless an equivalent one is already held.
// It reports whether a new position was stored.
func (s *InMemory) AddPosition(_ context.Context, memberID id.MemberID, p models.Position) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[memberID]
	if !ok {
		return false, sentinel.ErrNotFound
	}
	if m.HoldsPosition(p.Kind, p.Title, p.EntityID) {
		return false, nil
	}
	working := clone(m)
	working.Positions = append(working.Positions, p)
	s.members[memberID] = working
	return true, nil
}
