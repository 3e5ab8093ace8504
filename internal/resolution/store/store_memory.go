package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"unionhub/internal/resolution/models"
	id "unionhub/pkg/domain"
	"unionhub/pkg/platform/sentinel"
)

type seatKey struct {
	committee id.CommitteeID
	member    id.MemberID
}

type ballotKey struct {
	resolution id.ResolutionID
	member     id.MemberID
}

// InMemory mirrors the Postgres constraints: one seat per member per
// committee and one vote per member per resolution.
type InMemory struct {
	mu          sync.RWMutex
	committees  map[id.CommitteeID]*models.Committee
	seats       map[seatKey]*models.CommitteeMember
	resolutions map[id.ResolutionID]*models.Resolution
	votes       map[ballotKey]*models.Vote
	appeals     []*models.Appeal
}

func NewInMemory() *InMemory {
	return &InMemory{
		committees:  make(map[id.CommitteeID]*models.Committee),
		seats:       make(map[seatKey]*models.CommitteeMember),
		resolutions: make(map[id.ResolutionID]*models.Resolution),
		votes:       make(map[ballotKey]*models.Vote),
	}
}

func cloneCommittee(c *models.Committee) *models.Committee {
	cp := *c
	cp.Members = nil
	return &cp
}

func cloneResolution(r *models.Resolution) *models.Resolution {
	cp := *r
	return &cp
}

func (s *InMemory) CreateCommittee(_ context.Context, c *models.Committee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.committees[c.ID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.committees[c.ID] = cloneCommittee(c)
	return nil
}

func (s *InMemory) FindCommittee(_ context.Context, committeeID id.CommitteeID) (*models.Committee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.committees[committeeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneCommittee(c), nil
}

func (s *InMemory) ListCommittees(_ context.Context, f CommitteeFilter) ([]*models.Committee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Committee
	for _, c := range s.committees {
		if f.Level != "" && c.Level != f.Level {
			continue
		}
		if !f.EntityID.IsNil() && c.EntityID != f.EntityID {
			continue
		}
		out = append(out, cloneCommittee(c))
	}
	slices.SortFunc(out, func(a, b *models.Committee) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (s *InMemory) ActiveMembers(_ context.Context, committeeID id.CommitteeID) ([]*models.CommitteeMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeMembers(committeeID), nil
}

func (s *InMemory) activeMembers(committeeID id.CommitteeID) []*models.CommitteeMember {
	var out []*models.CommitteeMember
	for k, m := range s.seats {
		if k.committee == committeeID && m.Active {
			cp := *m
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, func(a, b *models.CommitteeMember) int {
		if c := a.JoinedAt.Compare(b.JoinedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.MemberID.String(), b.MemberID.String())
	})
	return out
}

// SeatMember adds m, or reactivates a former seat, after check passes.
func (s *InMemory) SeatMember(_ context.Context, m *models.CommitteeMember, check SeatCheck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.committees[m.CommitteeID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if err := check(cloneCommittee(c), s.activeMembers(m.CommitteeID)); err != nil {
		return err
	}
	cp := *m
	cp.Active = true
	s.seats[seatKey{m.CommitteeID, m.MemberID}] = &cp
	return nil
}

func (s *InMemory) UnseatMember(_ context.Context, committeeID id.CommitteeID, memberID id.MemberID, check SeatCheck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.committees[committeeID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if err := check(cloneCommittee(c), s.activeMembers(committeeID)); err != nil {
		return err
	}
	seat, ok := s.seats[seatKey{committeeID, memberID}]
	if !ok {
		return sentinel.ErrNotFound
	}
	seat.Active = false
	return nil
}

func (s *InMemory) CreateResolution(_ context.Context, r *models.Resolution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.committees[r.CommitteeID]; !ok {
		return sentinel.ErrNotFound
	}
	if _, ok := s.resolutions[r.ID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.resolutions[r.ID] = cloneResolution(r)
	return nil
}

func (s *InMemory) FindResolution(_ context.Context, resolutionID id.ResolutionID) (*models.Resolution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.resolutions[resolutionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneResolution(r), nil
}

func (s *InMemory) ListResolutions(_ context.Context, committeeID id.CommitteeID) ([]*models.Resolution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Resolution
	for _, r := range s.resolutions {
		if r.CommitteeID == committeeID {
			out = append(out, cloneResolution(r))
		}
	}
	slices.SortFunc(out, func(a, b *models.Resolution) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (s *InMemory) ExecuteResolution(_ context.Context, resolutionID id.ResolutionID, validate func(*models.Resolution) error, mutate func(*models.Resolution) error) (*models.Resolution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resolutions[resolutionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := cloneResolution(r)
	if err := validate(working); err != nil {
		return nil, err
	}
	if err := mutate(working); err != nil {
		return nil, err
	}
	s.resolutions[resolutionID] = working
	return cloneResolution(working), nil
}

// DeleteResolution refuses once any vote references the resolution.
func (s *InMemory) DeleteResolution(_ context.Context, resolutionID id.ResolutionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.resolutions[resolutionID]; !ok {
		return sentinel.ErrNotFound
	}
	for k := range s.votes {
		if k.resolution == resolutionID {
			return sentinel.ErrInvalidState
		}
	}
	delete(s.resolutions, resolutionID)
	return nil
}

// CastVote stores v and bumps the matching tally in one step.
func (s *InMemory) CastVote(_ context.Context, v *models.Vote, validate func(*models.Resolution) error) (*models.Resolution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resolutions[v.ResolutionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := cloneResolution(r)
	if err := validate(working); err != nil {
		return nil, err
	}
	key := ballotKey{v.ResolutionID, v.MemberID}
	if _, ok := s.votes[key]; ok {
		return nil, sentinel.ErrAlreadyUsed
	}
	if err := working.Record(v.Choice); err != nil {
		return nil, err
	}
	cp := *v
	s.votes[key] = &cp
	working.UpdatedAt = v.CastAt
	s.resolutions[v.ResolutionID] = working
	return cloneResolution(working), nil
}

func (s *InMemory) ListVotes(_ context.Context, resolutionID id.ResolutionID) ([]*models.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Vote
	for k, v := range s.votes {
		if k.resolution == resolutionID {
			cp := *v
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, func(a, b *models.Vote) int { return a.CastAt.Compare(b.CastAt) })
	return out, nil
}

func (s *InMemory) RecordAppeal(_ context.Context, a *models.Appeal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.resolutions[a.ResolutionID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *a
	s.appeals = append(s.appeals, &cp)
	return nil
}

func (s *InMemory) HasActiveAppeal(_ context.Context, resolutionID id.ResolutionID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.appeals {
		if a.ResolutionID == resolutionID && a.Status.Active() {
			return true, nil
		}
	}
	return false, nil
}
