//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"unionhub/internal/eligibility"
	"unionhub/internal/election/models"
	"unionhub/internal/election/store"
	id "unionhub/pkg/domain"
	"unionhub/pkg/platform/sentinel"
	"unionhub/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	now      time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(),
		"election_results", "votes", "vote_otps", "delegates", "candidates", "elections"))
	s.now = time.Now().UTC().Truncate(time.Microsecond)
}

func (s *PostgresStoreSuite) election() *models.Election {
	minUnionYears := 2
	e, err := models.NewElection(id.NewElectionID(), models.Draft{
		Title:          "District council",
		Level:          id.LevelDistrict,
		EntityID:       id.EntityID(id.NewDistrictID()),
		Type:           models.TypeGeneral,
		Nomination:     models.Window{Start: s.now.Add(-48 * time.Hour), End: s.now.Add(-24 * time.Hour)},
		Voting:         models.Window{Start: s.now.Add(-time.Hour), End: s.now.Add(time.Hour)},
		VotingCriteria: &eligibility.Criteria{MinUnionYears: &minUnionYears},
	}, id.NewMemberID(), s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateElection(context.Background(), e))
	return e
}

func (s *PostgresStoreSuite) approvedCandidate(e *models.Election, title string) *models.Candidate {
	ctx := context.Background()
	c, err := models.NewCandidate(id.NewCandidateID(), e.ID, id.NewMemberID(), title, "", s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateCandidate(ctx, c))
	approved, err := s.store.ExecuteCandidate(ctx, c.ID,
		func(c *models.Candidate) error { return c.CanReview() },
		func(c *models.Candidate) error {
			c.Approve(id.NewMemberID(), s.now)
			return nil
		})
	s.Require().NoError(err)
	return approved
}

func (s *PostgresStoreSuite) vote(e *models.Election, c *models.Candidate, member id.MemberID, castAt time.Time) *models.Vote {
	v, err := models.NewVote(id.NewVoteID(), models.Ballot{
		ElectionID:  e.ID,
		MemberID:    member,
		CandidateID: c.ID,
		PhotoPath:   "2026/05/12/ballot.jpg",
	}, castAt)
	s.Require().NoError(err)
	return v
}

func (s *PostgresStoreSuite) TestElectionRoundTrip() {
	ctx := context.Background()
	e := s.election()

	got, err := s.store.FindElection(ctx, e.ID)
	s.Require().NoError(err)
	s.Equal(e.Title, got.Title)
	s.Equal(id.DistrictID(e.EntityID), got.DistrictID)
	s.Require().NotNil(got.VotingCriteria)
	s.Equal(2, *got.VotingCriteria.MinUnionYears)
	s.Nil(got.CandidacyCriteria)

	listed, err := s.store.ListElections(ctx, store.ElectionFilter{Statuses: []models.Status{models.StatusDraft}})
	s.Require().NoError(err)
	s.Len(listed, 1)

	s.Require().NoError(s.store.DeleteElection(ctx, e.ID))
	_, err = s.store.FindElection(ctx, e.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDuplicateCandidacyIgnoresRejected() {
	ctx := context.Background()
	e := s.election()
	member := id.NewMemberID()

	first, err := models.NewCandidate(id.NewCandidateID(), e.ID, member, "President", "", s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateCandidate(ctx, first))

	dup, err := models.NewCandidate(id.NewCandidateID(), e.ID, member, "President", "", s.now)
	s.Require().NoError(err)
	s.ErrorIs(s.store.CreateCandidate(ctx, dup), sentinel.ErrAlreadyUsed)

	_, err = s.store.ExecuteCandidate(ctx, first.ID,
		func(c *models.Candidate) error { return c.CanReview() },
		func(c *models.Candidate) error { return c.Reject(id.NewMemberID(), "duplicate filing", s.now) })
	s.Require().NoError(err)
	s.NoError(s.store.CreateCandidate(ctx, dup))
}

func (s *PostgresStoreSuite) TestDelegatesAreIdempotent() {
	ctx := context.Background()
	e := s.election()
	members := []id.MemberID{id.NewMemberID(), id.NewMemberID()}
	build := func() []*models.Delegate {
		out := make([]*models.Delegate, 0, len(members))
		for _, m := range members {
			out = append(out, &models.Delegate{ID: id.NewDelegateID(), ElectionID: e.ID, MemberID: m, Type: eligibility.DelegateCriteriaBased, CreatedAt: s.now})
		}
		return out
	}

	added, err := s.store.AddDelegates(ctx, build())
	s.Require().NoError(err)
	s.Equal(2, added)
	added, err = s.store.AddDelegates(ctx, build())
	s.Require().NoError(err)
	s.Zero(added)

	total, err := s.store.CountDelegates(ctx, e.ID)
	s.Require().NoError(err)
	s.Equal(2, total)
	ok, err := s.store.IsDelegate(ctx, e.ID, members[0])
	s.Require().NoError(err)
	s.True(ok)
}

func (s *PostgresStoreSuite) TestOTPAttemptsPersistOnFailure() {
	ctx := context.Background()
	e := s.election()
	member := id.NewMemberID()
	otp, err := models.NewOTP(id.NewOTPID(), e.ID, member, "482913", 5*time.Minute, bcrypt.MinCost, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateOTP(ctx, otp))

	var outcome error
	got, err := s.store.AttemptLatestOTP(ctx, e.ID, member, func(o *models.OTP) {
		outcome = o.Attempt("000000", s.now, models.MaxOTPAttempts)
	})
	s.Require().NoError(err)
	s.Error(outcome)
	s.Equal(1, got.Attempts)

	_, err = s.store.AttemptLatestOTP(ctx, e.ID, member, func(o *models.OTP) {
		outcome = o.Attempt("482913", s.now, models.MaxOTPAttempts)
	})
	s.Require().NoError(err)
	s.NoError(outcome)

	verified, err := s.store.LatestVerifiedOTP(ctx, e.ID, member)
	s.Require().NoError(err)
	s.Equal(2, verified.Attempts)
	s.True(verified.Verified)
}

func (s *PostgresStoreSuite) TestConcurrentCastsStoreOneVote() {
	ctx := context.Background()
	e := s.election()
	c := s.approvedCandidate(e, "President")
	member := id.NewMemberID()

	const workers = 10
	var wg sync.WaitGroup
	var stored, rejected atomic.Int32
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.CreateVote(ctx, s.vote(e, c, member, s.now))
			switch {
			case err == nil:
				stored.Add(1)
			case errors.Is(err, sentinel.ErrAlreadyUsed):
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()
	s.Equal(int32(1), stored.Load())
	s.Equal(int32(workers-1), rejected.Load())
}

func (s *PostgresStoreSuite) TestReviewKeepsTallyInStep() {
	ctx := context.Background()
	e := s.election()
	c := s.approvedCandidate(e, "President")

	votes := make([]*models.Vote, 0, 3)
	for i := range 3 {
		v := s.vote(e, c, id.NewMemberID(), s.now.Add(time.Duration(i)*time.Second))
		s.Require().NoError(s.store.CreateVote(ctx, v))
		votes = append(votes, v)
	}

	pending, err := s.store.ListPendingVotes(ctx, e.ID, store.PendingPage{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(pending, 2)
	s.Equal(votes[0].ID, pending[0].ID)
	next, err := s.store.ListPendingVotes(ctx, e.ID, store.PendingPage{AfterCastAt: pending[1].CastAt, AfterID: pending[1].ID, Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(next, 1)
	s.Equal(votes[2].ID, next[0].ID)

	review := func(v *models.Vote, approve bool) {
		_, err := s.store.ReviewVote(ctx, v.ID,
			func(v *models.Vote) error { return v.CanReview() },
			func(v *models.Vote) error {
				if approve {
					v.Approve(id.NewMemberID(), s.now)
					return nil
				}
				return v.Reject(id.NewMemberID(), "face not visible", s.now)
			})
		s.Require().NoError(err)
	}
	review(votes[0], true)
	review(votes[1], true)
	review(votes[2], false)

	got, err := s.store.FindCandidate(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(2, got.VoteCount)
	counts, err := s.store.CountVerifiedVotes(ctx, e.ID)
	s.Require().NoError(err)
	s.Equal(2, counts[c.ID])
	voters, err := s.store.CountVerifiedVoters(ctx, e.ID)
	s.Require().NoError(err)
	s.Equal(2, voters)
}

func (s *PostgresStoreSuite) TestResultsReplaceAndCertify() {
	ctx := context.Background()
	e := s.election()
	c := s.approvedCandidate(e, "President")

	results := models.Tabulate(e.ID, []*models.Candidate{c}, 0, s.now)
	s.Require().NoError(s.store.ReplaceResults(ctx, e.ID, results))
	s.Require().NoError(s.store.ReplaceResults(ctx, e.ID, models.Tabulate(e.ID, []*models.Candidate{c}, 0, s.now)))

	listed, err := s.store.ListResults(ctx, e.ID)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.False(listed[0].IsCertified)

	certifier := id.NewMemberID()
	n, err := s.store.CertifyResults(ctx, e.ID, certifier, s.now)
	s.Require().NoError(err)
	s.Equal(1, n)

	listed, err = s.store.ListResults(ctx, e.ID)
	s.Require().NoError(err)
	s.True(listed[0].IsCertified)
	s.Equal(certifier, listed[0].CertifiedBy)
}
