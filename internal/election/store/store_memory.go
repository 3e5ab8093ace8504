package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"unionhub/internal/election/models"
	id "unionhub/pkg/domain"
	"unionhub/pkg/platform/sentinel"
)

type memberKey struct {
	election id.ElectionID
	member   id.MemberID
}

// InMemory keeps every election record behind one lock. Uniqueness rules
// match the Postgres indexes.
type InMemory struct {
	mu         sync.RWMutex
	elections  map[id.ElectionID]*models.Election
	candidates map[id.CandidateID]*models.Candidate
	delegates  map[memberKey]*models.Delegate
	otps       []*models.OTP
	votes      map[id.VoteID]*models.Vote
	voteByKey  map[memberKey]id.VoteID
	results    map[id.ElectionID][]*models.Result
}

func NewInMemory() *InMemory {
	return &InMemory{
		elections:  make(map[id.ElectionID]*models.Election),
		candidates: make(map[id.CandidateID]*models.Candidate),
		delegates:  make(map[memberKey]*models.Delegate),
		votes:      make(map[id.VoteID]*models.Vote),
		voteByKey:  make(map[memberKey]id.VoteID),
		results:    make(map[id.ElectionID][]*models.Result),
	}
}

func cloneElection(e *models.Election) *models.Election {
	c := *e
	return &c
}

func cloneCandidate(c *models.Candidate) *models.Candidate {
	cp := *c
	return &cp
}

func cloneOTP(o *models.OTP) *models.OTP {
	c := *o
	c.CodeHash = slices.Clone(o.CodeHash)
	return &c
}

func cloneVote(v *models.Vote) *models.Vote {
	c := *v
	return &c
}

func cloneResult(r *models.Result) *models.Result {
	c := *r
	return &c
}

func (s *InMemory) CreateElection(_ context.Context, e *models.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.elections[e.ID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.elections[e.ID] = cloneElection(e)
	return nil
}

func (s *InMemory) FindElection(_ context.Context, electionID id.ElectionID) (*models.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.elections[electionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneElection(e), nil
}

func (s *InMemory) ListElections(_ context.Context, f ElectionFilter) ([]*models.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Election
	for _, e := range s.elections {
		if f.Level != "" && e.Level != f.Level {
			continue
		}
		if !f.EntityID.IsNil() && e.EntityID != f.EntityID {
			continue
		}
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, e.Status) {
			continue
		}
		out = append(out, cloneElection(e))
	}
	slices.SortFunc(out, func(a, b *models.Election) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (s *InMemory) ExecuteElection(_ context.Context, electionID id.ElectionID, validate func(*models.Election) error, mutate func(*models.Election)) (*models.Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.elections[electionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := cloneElection(e)
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.elections[electionID] = working
	return cloneElection(working), nil
}

func (s *InMemory) DeleteElection(_ context.Context, electionID id.ElectionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.elections[electionID]; !ok {
		return sentinel.ErrNotFound
	}
	if a := s.activity(electionID); a.Candidates > 0 || a.Votes > 0 {
		return sentinel.ErrInvalidState
	}
	delete(s.elections, electionID)
	for k := range s.delegates {
		if k.election == electionID {
			delete(s.delegates, k)
		}
	}
	s.otps = slices.DeleteFunc(s.otps, func(o *models.OTP) bool { return o.ElectionID == electionID })
	delete(s.results, electionID)
	return nil
}

func (s *InMemory) Activity(_ context.Context, electionID id.ElectionID) (Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activity(electionID), nil
}

func (s *InMemory) activity(electionID id.ElectionID) Activity {
	var a Activity
	for _, c := range s.candidates {
		if c.ElectionID == electionID {
			a.Candidates++
		}
	}
	for k := range s.voteByKey {
		if k.election == electionID {
			a.Votes++
		}
	}
	return a
}

// CreateCandidate rejects a second non-rejected candidacy for the same
// (election, member, position).
func (s *InMemory) CreateCandidate(_ context.Context, c *models.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.candidates {
		if existing.ElectionID == c.ElectionID && existing.MemberID == c.MemberID &&
			existing.PositionTitle == c.PositionTitle && existing.Status != models.CandidateRejected {
			return sentinel.ErrAlreadyUsed
		}
	}
	s.candidates[c.ID] = cloneCandidate(c)
	return nil
}

func (s *InMemory) FindCandidate(_ context.Context, candidateID id.CandidateID) (*models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.candidates[candidateID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneCandidate(c), nil
}

// ListCandidates returns the election's candidates in filing order. An empty
// status matches all.
func (s *InMemory) ListCandidates(_ context.Context, electionID id.ElectionID, status models.CandidateStatus) ([]*models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Candidate
	for _, c := range s.candidates {
		if c.ElectionID != electionID || (status != "" && c.Status != status) {
			continue
		}
		out = append(out, cloneCandidate(c))
	}
	slices.SortFunc(out, func(a, b *models.Candidate) int {
		if n := a.CreatedAt.Compare(b.CreatedAt); n != 0 {
			return n
		}
		return cmp.Compare(uuid.UUID(a.ID).String(), uuid.UUID(b.ID).String())
	})
	return out, nil
}

func (s *InMemory) ExecuteCandidate(_ context.Context, candidateID id.CandidateID, validate func(*models.Candidate) error, mutate func(*models.Candidate) error) (*models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[candidateID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := cloneCandidate(c)
	if err := validate(working); err != nil {
		return nil, err
	}
	if err := mutate(working); err != nil {
		return nil, err
	}
	s.candidates[candidateID] = working
	return cloneCandidate(working), nil
}

// AddDelegates stores the delegates not yet registered and reports how many
// were added.
func (s *InMemory) AddDelegates(_ context.Context, delegates []*models.Delegate) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, d := range delegates {
		key := memberKey{d.ElectionID, d.MemberID}
		if _, exists := s.delegates[key]; exists {
			continue
		}
		c := *d
		s.delegates[key] = &c
		added++
	}
	return added, nil
}

func (s *InMemory) ListDelegates(_ context.Context, electionID id.ElectionID) ([]*models.Delegate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Delegate
	for k, d := range s.delegates {
		if k.election == electionID {
			c := *d
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *models.Delegate) int {
		if n := a.CreatedAt.Compare(b.CreatedAt); n != 0 {
			return n
		}
		return cmp.Compare(a.MemberID.String(), b.MemberID.String())
	})
	return out, nil
}

func (s *InMemory) CountDelegates(_ context.Context, electionID id.ElectionID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for k := range s.delegates {
		if k.election == electionID {
			n++
		}
	}
	return n, nil
}

func (s *InMemory) IsDelegate(_ context.Context, electionID id.ElectionID, memberID id.MemberID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.delegates[memberKey{electionID, memberID}]
	return ok, nil
}

func (s *InMemory) CreateOTP(_ context.Context, o *models.OTP) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.otps = append(s.otps, cloneOTP(o))
	return nil
}

// latest returns the newest OTP for the member matching pred.
func (s *InMemory) latest(electionID id.ElectionID, memberID id.MemberID, pred func(*models.OTP) bool) *models.OTP {
	var found *models.OTP
	for _, o := range s.otps {
		if o.ElectionID != electionID || o.MemberID != memberID || !pred(o) {
			continue
		}
		if found == nil || !o.CreatedAt.Before(found.CreatedAt) {
			found = o
		}
	}
	return found
}

// AttemptLatestOTP applies attempt to the newest unverified OTP and keeps
// the result whatever attempt decided.
func (s *InMemory) AttemptLatestOTP(_ context.Context, electionID id.ElectionID, memberID id.MemberID, attempt func(*models.OTP)) (*models.OTP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.latest(electionID, memberID, func(o *models.OTP) bool { return !o.Verified })
	if o == nil {
		return nil, sentinel.ErrNotFound
	}
	attempt(o)
	return cloneOTP(o), nil
}

func (s *InMemory) LatestVerifiedOTP(_ context.Context, electionID id.ElectionID, memberID id.MemberID) (*models.OTP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *models.OTP
	for _, o := range s.otps {
		if o.ElectionID != electionID || o.MemberID != memberID || !o.Verified {
			continue
		}
		if found == nil || o.VerifiedAt.After(found.VerifiedAt) {
			found = o
		}
	}
	if found == nil {
		return nil, sentinel.ErrNotFound
	}
	return cloneOTP(found), nil
}

// CreateVote enforces one ballot per (election, member).
func (s *InMemory) CreateVote(_ context.Context, v *models.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := memberKey{v.ElectionID, v.MemberID}
	if _, exists := s.voteByKey[key]; exists {
		return sentinel.ErrAlreadyUsed
	}
	s.votes[v.ID] = cloneVote(v)
	s.voteByKey[key] = v.ID
	return nil
}

func (s *InMemory) FindVote(_ context.Context, voteID id.VoteID) (*models.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.votes[voteID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneVote(v), nil
}

func (s *InMemory) FindVoteByMember(_ context.Context, electionID id.ElectionID, memberID id.MemberID) (*models.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	voteID, ok := s.voteByKey[memberKey{electionID, memberID}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneVote(s.votes[voteID]), nil
}

func (s *InMemory) ListPendingVotes(_ context.Context, electionID id.ElectionID, page PendingPage) ([]*models.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Vote
	for _, v := range s.votes {
		if v.ElectionID != electionID || v.Status != models.VotePending {
			continue
		}
		if !page.AfterCastAt.IsZero() && !after(v, page.AfterCastAt, page.AfterID) {
			continue
		}
		out = append(out, cloneVote(v))
	}
	slices.SortFunc(out, compareVotes)
	if page.Limit > 0 && len(out) > page.Limit {
		out = out[:page.Limit]
	}
	return out, nil
}

func compareVotes(a, b *models.Vote) int {
	if n := a.CastAt.Compare(b.CastAt); n != 0 {
		return n
	}
	return cmp.Compare(uuid.UUID(a.ID).String(), uuid.UUID(b.ID).String())
}

func after(v *models.Vote, castAt time.Time, voteID id.VoteID) bool {
	return compareVotes(v, &models.Vote{CastAt: castAt, ID: voteID}) > 0
}

// ReviewVote changes a vote's verification status. A vote that becomes
// verified increments its candidate's tally under the same lock.
func (s *InMemory) ReviewVote(_ context.Context, voteID id.VoteID, validate func(*models.Vote) error, mutate func(*models.Vote) error) (*models.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.votes[voteID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := cloneVote(v)
	if err := validate(working); err != nil {
		return nil, err
	}
	if err := mutate(working); err != nil {
		return nil, err
	}
	if v.Status != models.VoteVerified && working.Status == models.VoteVerified {
		c, ok := s.candidates[working.CandidateID]
		if !ok {
			return nil, sentinel.ErrNotFound
		}
		updated := cloneCandidate(c)
		updated.VoteCount++
		s.candidates[c.ID] = updated
	}
	s.votes[voteID] = working
	return cloneVote(working), nil
}

func (s *InMemory) CountVerifiedVoters(_ context.Context, electionID id.ElectionID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, v := range s.votes {
		if v.ElectionID == electionID && v.Status == models.VoteVerified {
			n++
		}
	}
	return n, nil
}

// CountVerifiedVotes returns verified ballots per candidate.
func (s *InMemory) CountVerifiedVotes(_ context.Context, electionID id.ElectionID) (map[id.CandidateID]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.CandidateID]int)
	for _, v := range s.votes {
		if v.ElectionID == electionID && v.Status == models.VoteVerified {
			out[v.CandidateID]++
		}
	}
	return out, nil
}

// ReplaceResults drops any earlier tabulation for the election.
func (s *InMemory) ReplaceResults(_ context.Context, electionID id.ElectionID, results []*models.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]*models.Result, 0, len(results))
	for _, r := range results {
		stored = append(stored, cloneResult(r))
	}
	s.results[electionID] = stored
	return nil
}

func (s *InMemory) ListResults(_ context.Context, electionID id.ElectionID) ([]*models.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Result, 0, len(s.results[electionID]))
	for _, r := range s.results[electionID] {
		out = append(out, cloneResult(r))
	}
	slices.SortFunc(out, func(a, b *models.Result) int { return cmp.Compare(a.PositionTitle, b.PositionTitle) })
	return out, nil
}

// CertifyResults certifies every result row of the election in one step.
func (s *InMemory) CertifyResults(_ context.Context, electionID id.ElectionID, certifier id.MemberID, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.results[electionID]
	for _, r := range rows {
		r.Certify(certifier, now)
	}
	return len(rows), nil
}
