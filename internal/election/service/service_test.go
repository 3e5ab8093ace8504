package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"unionhub/internal/access"
	"unionhub/internal/eligibility"
	"unionhub/internal/election/models"
	"unionhub/internal/election/service/mocks"
	"unionhub/internal/election/store"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
	audit "unionhub/pkg/platform/audit"
	"unionhub/pkg/requestcontext"
)

var (
	beforeNominations = time.Date(2026, 4, 30, 9, 0, 0, 0, time.UTC)
	duringNominations = time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	afterNominations  = time.Date(2026, 5, 11, 9, 0, 0, 0, time.UTC)
	duringVoting      = time.Date(2026, 5, 12, 14, 0, 0, 0, time.UTC)
)

// fakeDirectory serves member snapshots from a map.
type fakeDirectory struct {
	mu      sync.Mutex
	members map[id.MemberID]eligibility.Snapshot
}

func (d *fakeDirectory) put(s eligibility.Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.members[s.MemberID] = s
}

func (d *fakeDirectory) Snapshot(_ context.Context, memberID id.MemberID) (eligibility.Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.members[memberID]
	if !ok {
		return eligibility.Snapshot{}, dErrors.New(dErrors.CodeNotFound, "member not found")
	}
	return s, nil
}

func (d *fakeDirectory) ListActive(_ context.Context, f eligibility.Filter) ([]eligibility.Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []eligibility.Snapshot
	for _, s := range d.members {
		if !s.Active {
			continue
		}
		if !f.TehsilID.IsNil() && s.TehsilID != f.TehsilID {
			continue
		}
		if !f.DistrictID.IsNil() && s.DistrictID != f.DistrictID {
			continue
		}
		if len(f.PositionKinds) > 0 && !slices.ContainsFunc(f.PositionKinds, s.Holds) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

type ElectionServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	deliverer *mocks.MockOTPDeliverer
	photos    *mocks.MockPhotoStorage
	throttle  *mocks.MockThrottle
	installer *mocks.MockLeadershipInstaller
	publisher *mocks.MockAuditPublisher
	store     *store.InMemory
	directory *fakeDirectory
	service   *Service

	eventsMu sync.Mutex
	events   []audit.Event

	photosMu      sync.Mutex
	photosPut     int
	photosDeleted []string

	tehsil   id.TehsilID
	district id.DistrictID
	ec       access.ActingContext
	admin    access.ActingContext
	alice    access.ActingContext
	bob      access.ActingContext
	carol    access.ActingContext
	dev      access.ActingContext
	outsider access.ActingContext
}

func TestElectionServiceSuite(t *testing.T) {
	suite.Run(t, new(ElectionServiceSuite))
}

func (s *ElectionServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.deliverer = mocks.NewMockOTPDeliverer(s.ctrl)
	s.photos = mocks.NewMockPhotoStorage(s.ctrl)
	s.throttle = mocks.NewMockThrottle(s.ctrl)
	s.installer = mocks.NewMockLeadershipInstaller(s.ctrl)
	s.publisher = mocks.NewMockAuditPublisher(s.ctrl)
	s.store = store.NewInMemory()
	s.directory = &fakeDirectory{members: make(map[id.MemberID]eligibility.Snapshot)}
	s.events = nil

	s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Event) error {
		s.eventsMu.Lock()
		defer s.eventsMu.Unlock()
		s.events = append(s.events, e)
		return nil
	}).AnyTimes()
	s.photosPut, s.photosDeleted = 0, nil
	s.photos.EXPECT().Put(gomock.Any(), gomock.Any(), ".jpg").DoAndReturn(func(context.Context, []byte, string) (string, error) {
		s.photosMu.Lock()
		defer s.photosMu.Unlock()
		s.photosPut++
		return fmt.Sprintf("2026/05/12/ballot-%d.jpg", s.photosPut), nil
	}).AnyTimes()
	s.photos.EXPECT().Delete(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, path string) error {
		s.photosMu.Lock()
		defer s.photosMu.Unlock()
		s.photosDeleted = append(s.photosDeleted, path)
		return nil
	}).AnyTimes()

	s.service = New(s.store, s.directory,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(s.publisher),
		WithOTPDeliverer(s.deliverer),
		WithPhotoStorage(s.photos),
		WithThrottle(s.throttle),
		WithLeadershipInstaller(s.installer),
		WithBcryptCost(bcrypt.MinCost),
	)

	s.tehsil = id.NewTehsilID()
	s.district = id.NewDistrictID()
	s.ec = access.ActingContext{
		MemberID:        id.NewMemberID(),
		Role:            access.RoleMember,
		Level:           id.LevelDistrict,
		EntityID:        id.EntityID(s.district),
		ActivePortfolio: access.PortfolioElectionCommission,
	}
	s.admin = access.ActingContext{
		MemberID: id.NewMemberID(),
		Role:     access.RoleDistrictAdmin,
		Level:    id.LevelDistrict,
		EntityID: id.EntityID(s.district),
	}
	s.alice = s.member("alice", 2020, s.tehsil)
	s.bob = s.member("bob", 2025, s.tehsil)
	s.carol = s.member("carol", 2022, s.tehsil)
	s.dev = s.member("dev", 0, s.tehsil)
	s.outsider = s.member("olga", 2010, id.NewTehsilID())
}

func (s *ElectionServiceSuite) member(name string, unionJoinYear int, tehsil id.TehsilID) access.ActingContext {
	snap := eligibility.Snapshot{
		MemberID:   id.NewMemberID(),
		Active:     true,
		Email:      name + "@example.org",
		TehsilID:   tehsil,
		DistrictID: s.district,
	}
	if unionJoinYear > 0 {
		snap.UnionJoinDate = time.Date(unionJoinYear, 1, 15, 0, 0, 0, 0, time.UTC)
	}
	s.directory.put(snap)
	return access.ActingContext{MemberID: snap.MemberID, Role: access.RoleMember, Level: id.LevelTehsil, EntityID: id.EntityID(tehsil)}
}

func (s *ElectionServiceSuite) at(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}

func (s *ElectionServiceSuite) draft() models.Draft {
	return models.Draft{
		Title:      "Tehsil executive 2026",
		Level:      id.LevelTehsil,
		EntityID:   id.EntityID(s.tehsil),
		DistrictID: s.district,
		Type:       models.TypeGeneral,
		Nomination: models.Window{
			Start: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		},
		Voting: models.Window{
			Start: time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 5, 13, 0, 0, 0, 0, time.UTC),
		},
	}
}

func (s *ElectionServiceSuite) create(d models.Draft) *models.Election {
	e, err := s.service.Create(s.at(beforeNominations), s.admin, d)
	s.Require().NoError(err)
	return e
}

func (s *ElectionServiceSuite) transition(e *models.Election, action string, at time.Time) {
	_, err := s.service.Transition(s.at(at), s.admin, e.ID, action)
	s.Require().NoError(err)
}

func (s *ElectionServiceSuite) nominate(e *models.Election, who access.ActingContext, title string, at time.Time) *models.Candidate {
	c, err := s.service.SubmitCandidacy(s.at(at), who, e.ID, Nomination{PositionTitle: title})
	s.Require().NoError(err)
	return c
}

// votingElection returns an election in voting_open with alice and bob
// approved for President and the whole tehsil on the roster.
func (s *ElectionServiceSuite) votingElection() (*models.Election, *models.Candidate, *models.Candidate) {
	e := s.create(s.draft())
	s.transition(e, "open-nominations", duringNominations)
	a := s.nominate(e, s.alice, "President", duringNominations)
	b := s.nominate(e, s.bob, "President", duringNominations.Add(time.Hour))
	for _, c := range []*models.Candidate{a, b} {
		_, err := s.service.ApproveCandidate(s.at(duringNominations), s.ec, c.ID)
		s.Require().NoError(err)
	}
	s.transition(e, "close-nominations", afterNominations)
	roster, err := s.service.BuildRoster(s.at(afterNominations), s.admin, e.ID)
	s.Require().NoError(err)
	s.Require().Equal(4, roster.Total)
	s.transition(e, "open-voting", afterNominations)
	return e, a, b
}

func (s *ElectionServiceSuite) requestCode(ctx context.Context, voter access.ActingContext, electionID id.ElectionID) string {
	var code string
	s.throttle.EXPECT().Allow(gomock.Any(), electionID.String()+":"+voter.MemberID.String(), 5, 15*time.Minute).Return(true, nil)
	s.deliverer.EXPECT().DeliverOTP(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, c string, _ time.Time) error {
			code = c
			return nil
		})
	_, err := s.service.RequestOTP(ctx, voter, electionID)
	s.Require().NoError(err)
	return code
}

func (s *ElectionServiceSuite) ballot(c *models.Candidate) CastRequest {
	return CastRequest{CandidateID: c.ID, Photo: []byte("jpeg"), PhotoExt: ".jpg", IPAddress: "10.0.0.7", Device: "Chrome on Android"}
}

func (s *ElectionServiceSuite) castBallot(ctx context.Context, voter access.ActingContext, e *models.Election, c *models.Candidate) *models.Vote {
	code := s.requestCode(ctx, voter, e.ID)
	s.Require().NoError(s.service.VerifyOTP(ctx, voter, e.ID, code))
	v, err := s.service.CastVote(ctx, voter, e.ID, s.ballot(c))
	s.Require().NoError(err)
	return v
}

func (s *ElectionServiceSuite) requireCode(err error, code dErrors.Code) {
	s.Require().Error(err)
	s.Equal(code, dErrors.CodeOf(err), err.Error())
}

func (s *ElectionServiceSuite) emitted(action audit.AuditEvent) int {
	s.eventsMu.Lock()
	defer s.eventsMu.Unlock()
	n := 0
	for _, e := range s.events {
		if e.Action == string(action) {
			n++
		}
	}
	return n
}

func (s *ElectionServiceSuite) TestCreate() {
	s.Run("starts in draft", func() {
		e := s.create(s.draft())
		s.Equal(models.StatusDraft, e.Status)
		s.Equal(s.admin.MemberID, e.CreatedBy)
		s.Equal(1, s.emitted(audit.EventElectionCreated))
	})

	s.Run("rejects voting that starts before nominations end", func() {
		d := s.draft()
		d.Voting.Start = d.Nomination.End.Add(-time.Hour)
		_, err := s.service.Create(s.at(beforeNominations), s.admin, d)
		s.requireCode(err, dErrors.CodeValidation)
	})

	s.Run("plain members cannot create elections", func() {
		_, err := s.service.Create(s.at(beforeNominations), s.alice, s.draft())
		s.requireCode(err, dErrors.CodeForbidden)
	})
}

func (s *ElectionServiceSuite) TestTransitionsFollowLifecycle() {
	e := s.create(s.draft())

	_, err := s.service.Transition(s.at(duringNominations), s.admin, e.ID, "close-nominations")
	s.requireCode(err, dErrors.CodeStateConflict)

	s.transition(e, "open-nominations", duringNominations)
	s.transition(e, "close-nominations", afterNominations)

	_, err = s.service.Transition(s.at(afterNominations), s.admin, e.ID, "open-voting")
	s.requireCode(err, dErrors.CodeStateConflict)

	_, err = s.service.Transition(s.at(afterNominations), s.admin, e.ID, "reopen")
	s.requireCode(err, dErrors.CodeValidation)

	got, err := s.service.Get(s.at(afterNominations), e.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusNominationsClosed, got.Status)
}

func (s *ElectionServiceSuite) TestUpdateAndDeleteGuards() {
	s.Run("draft elections can be edited and deleted", func() {
		e := s.create(s.draft())
		d := s.draft()
		d.Title = "Tehsil executive by-election"
		d.Type = models.TypeByElection
		updated, err := s.service.Update(s.at(beforeNominations), s.admin, e.ID, d)
		s.Require().NoError(err)
		s.Equal("Tehsil executive by-election", updated.Title)

		s.Require().NoError(s.service.Delete(s.at(beforeNominations), s.admin, e.ID))
		_, err = s.service.Get(s.at(beforeNominations), e.ID)
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("candidates block deletion", func() {
		e := s.create(s.draft())
		s.transition(e, "open-nominations", duringNominations)
		s.nominate(e, s.alice, "President", duringNominations)
		err := s.service.Delete(s.at(duringNominations), s.admin, e.ID)
		s.requireCode(err, dErrors.CodeStateConflict)
	})

	s.Run("votes block editing", func() {
		e, a, _ := s.votingElection()
		s.castBallot(s.at(duringVoting), s.carol, e, a)
		_, err := s.service.Update(s.at(duringVoting), s.admin, e.ID, s.draft())
		s.requireCode(err, dErrors.CodeStateConflict)
	})
}

func (s *ElectionServiceSuite) TestTickIsIdempotent() {
	e := s.create(s.draft())
	lagging := s.create(s.draft())

	n, err := s.service.Tick(s.at(beforeNominations))
	s.Require().NoError(err)
	s.Zero(n)

	n, err = s.service.Tick(s.at(duringNominations))
	s.Require().NoError(err)
	s.Equal(2, n)
	n, err = s.service.Tick(s.at(duringNominations))
	s.Require().NoError(err)
	s.Zero(n)

	s.Require().NoError(s.service.Delete(s.at(duringNominations), s.admin, lagging.ID))
	late := s.create(s.draft())
	n, err = s.service.Tick(s.at(afterNominations))
	s.Require().NoError(err)
	s.Equal(3, n, "one step for the open election and two for the late draft")

	for _, electionID := range []id.ElectionID{e.ID, late.ID} {
		got, err := s.service.Get(s.at(afterNominations), electionID)
		s.Require().NoError(err)
		s.Equal(models.StatusNominationsClosed, got.Status)
	}

	s.eventsMu.Lock()
	defer s.eventsMu.Unlock()
	for _, ev := range s.events {
		if ev.Action == string(audit.EventElectionTransition) {
			s.Equal("system", ev.ActorID)
		}
	}
}

func (s *ElectionServiceSuite) TestBuildRosterWithCriteria() {
	minUnionYears := 3
	d := s.draft()
	d.VotingCriteria = &eligibility.Criteria{MinUnionYears: &minUnionYears}
	e := s.create(d)

	roster, err := s.service.BuildRoster(s.at(afterNominations), s.admin, e.ID)
	s.Require().NoError(err)
	s.Equal(RosterResult{Added: 2, Total: 2}, roster)

	roster, err = s.service.BuildRoster(s.at(afterNominations), s.admin, e.ID)
	s.Require().NoError(err)
	s.Equal(RosterResult{Added: 0, Total: 2}, roster)

	snap, err := s.directory.Snapshot(context.Background(), s.dev.MemberID)
	s.Require().NoError(err)
	snap.UnionJoinDate = time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC)
	s.directory.put(snap)

	roster, err = s.service.BuildRoster(s.at(afterNominations), s.admin, e.ID)
	s.Require().NoError(err)
	s.Equal(RosterResult{Added: 1, Total: 3}, roster)

	for who, want := range map[id.MemberID]bool{
		s.alice.MemberID:    true,
		s.bob.MemberID:      false,
		s.carol.MemberID:    true,
		s.dev.MemberID:      true,
		s.outsider.MemberID: false,
	} {
		got, err := s.service.IsDelegate(s.at(afterNominations), e.ID, who)
		s.Require().NoError(err)
		s.Equal(want, got)
	}

	got, err := s.service.Get(s.at(afterNominations), e.ID)
	s.Require().NoError(err)
	s.Equal(3, got.EligibleVoterCount)
}

func (s *ElectionServiceSuite) TestSubmitCandidacy() {
	e := s.create(s.draft())

	s.Run("fails while nominations are not open", func() {
		_, err := s.service.SubmitCandidacy(s.at(duringNominations), s.alice, e.ID, Nomination{PositionTitle: "President"})
		s.requireCode(err, dErrors.CodeStateConflict)
	})

	s.transition(e, "open-nominations", duringNominations)

	s.Run("members outside the tehsil are not eligible", func() {
		_, err := s.service.SubmitCandidacy(s.at(duringNominations), s.outsider, e.ID, Nomination{PositionTitle: "President"})
		s.requireCode(err, dErrors.CodeNotEligible)
	})

	s.Run("second filing for the same position is a duplicate", func() {
		s.nominate(e, s.alice, "President", duringNominations)
		_, err := s.service.SubmitCandidacy(s.at(duringNominations), s.alice, e.ID, Nomination{PositionTitle: "President"})
		s.requireCode(err, dErrors.CodeDuplicate)
	})

	s.Run("a rejected candidacy can be filed again", func() {
		c := s.nominate(e, s.carol, "Secretary", duringNominations)
		_, err := s.service.RejectCandidate(s.at(duringNominations), s.ec, c.ID, "incomplete statement")
		s.Require().NoError(err)
		s.nominate(e, s.carol, "Secretary", duringNominations)
	})

	s.Run("filings after the window closes are refused", func() {
		_, err := s.service.SubmitCandidacy(s.at(afterNominations), s.bob, e.ID, Nomination{PositionTitle: "Treasurer"})
		s.requireCode(err, dErrors.CodeStateConflict)
	})
}

func (s *ElectionServiceSuite) TestCandidacyReview() {
	e := s.create(s.draft())
	s.transition(e, "open-nominations", duringNominations)
	c := s.nominate(e, s.alice, "President", duringNominations)

	_, err := s.service.RejectCandidate(s.at(duringNominations), s.ec, c.ID, "  ")
	s.requireCode(err, dErrors.CodeValidation)

	_, err = s.service.ApproveCandidate(s.at(duringNominations), s.admin, c.ID)
	s.requireCode(err, dErrors.CodeForbidden)

	approved, err := s.service.ApproveCandidate(s.at(duringNominations), s.ec, c.ID)
	s.Require().NoError(err)
	s.Equal(models.CandidateApproved, approved.Status)

	_, err = s.service.RejectCandidate(s.at(duringNominations), s.ec, c.ID, "late objection")
	s.requireCode(err, dErrors.CodeStateConflict)
}

func (s *ElectionServiceSuite) TestWithdrawCandidate() {
	e := s.create(s.draft())
	s.transition(e, "open-nominations", duringNominations)
	c := s.nominate(e, s.alice, "President", duringNominations)

	_, err := s.service.WithdrawCandidate(s.at(duringNominations), s.bob, c.ID)
	s.requireCode(err, dErrors.CodeForbidden)

	withdrawn, err := s.service.WithdrawCandidate(s.at(duringNominations), s.alice, c.ID)
	s.Require().NoError(err)
	s.Equal(models.CandidateRejected, withdrawn.Status)
	s.Equal(models.WithdrawnReason, withdrawn.RejectionReason)
}

func (s *ElectionServiceSuite) TestRequestOTP() {
	e, a, _ := s.votingElection()
	ctx := s.at(duringVoting)

	s.Run("non-delegates are refused", func() {
		_, err := s.service.RequestOTP(ctx, s.outsider, e.ID)
		s.requireCode(err, dErrors.CodeNotEligible)
	})

	s.Run("throttled after the request limit", func() {
		s.throttle.EXPECT().Allow(gomock.Any(), gomock.Any(), 5, 15*time.Minute).Return(false, nil)
		_, err := s.service.RequestOTP(ctx, s.dev, e.ID)
		s.requireCode(err, dErrors.CodeRateLimited)
	})

	s.Run("delivers the code to the member's email", func() {
		s.throttle.EXPECT().Allow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
		s.deliverer.EXPECT().DeliverOTP(gomock.Any(), "carol@example.org", gomock.Any(), gomock.Any()).Return(nil)
		issued, err := s.service.RequestOTP(ctx, s.carol, e.ID)
		s.Require().NoError(err)
		s.True(issued.ExpiresAt.Equal(duringVoting.Add(5*time.Minute)))
	})

	s.Run("members who already voted are refused", func() {
		s.castBallot(ctx, s.bob, e, a)
		_, err := s.service.RequestOTP(ctx, s.bob, e.ID)
		s.requireCode(err, dErrors.CodeDuplicate)
	})

	s.Run("nothing is issued outside the voting window", func() {
		_, err := s.service.RequestOTP(s.at(afterNominations), s.dev, e.ID)
		s.requireCode(err, dErrors.CodeStateConflict)
	})
}

func (s *ElectionServiceSuite) TestVerifyOTPLocksAfterThreeAttempts() {
	e, _, _ := s.votingElection()
	ctx := s.at(duringVoting)
	code := s.requestCode(ctx, s.carol, e.ID)
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	for range 3 {
		s.requireCode(s.service.VerifyOTP(ctx, s.carol, e.ID, wrong), dErrors.CodeInvalidOTP)
	}
	s.requireCode(s.service.VerifyOTP(ctx, s.carol, e.ID, code), dErrors.CodeTooManyAttempts)
	s.Equal(4, s.emitted(audit.EventOTPFailed))
}

func (s *ElectionServiceSuite) TestVerifyOTP() {
	e, _, _ := s.votingElection()
	ctx := s.at(duringVoting)

	s.Run("malformed codes are rejected before lookup", func() {
		s.requireCode(s.service.VerifyOTP(ctx, s.carol, e.ID, "12ab"), dErrors.CodeValidation)
	})

	s.Run("no pending code", func() {
		s.requireCode(s.service.VerifyOTP(ctx, s.carol, e.ID, "123456"), dErrors.CodeNotFound)
	})

	s.Run("expired codes fail", func() {
		code := s.requestCode(ctx, s.carol, e.ID)
		err := s.service.VerifyOTP(s.at(duringVoting.Add(5*time.Minute)), s.carol, e.ID, code)
		s.requireCode(err, dErrors.CodeExpired)
	})
}

func (s *ElectionServiceSuite) TestCastWindowRunsFromVerification() {
	e, a, _ := s.votingElection()
	code := s.requestCode(s.at(duringVoting), s.carol, e.ID)
	s.Require().NoError(s.service.VerifyOTP(s.at(duringVoting), s.carol, e.ID, code))

	_, err := s.service.CastVote(s.at(duringVoting.Add(10*time.Minute+time.Second)), s.carol, e.ID, s.ballot(a))
	s.requireCode(err, dErrors.CodeExpired)

	v, err := s.service.CastVote(s.at(duringVoting.Add(10*time.Minute)), s.carol, e.ID, s.ballot(a))
	s.Require().NoError(err)
	s.Equal(models.VotePending, v.Status)
	s.True(v.Intact())
	s.Equal("2026/05/12/ballot-1.jpg", v.PhotoPath)
	s.Equal("Chrome on Android", v.Device)
}

func (s *ElectionServiceSuite) TestCastVoteValidation() {
	e, a, _ := s.votingElection()
	ctx := s.at(duringVoting)

	s.Run("requires a verified code", func() {
		_, err := s.service.CastVote(ctx, s.carol, e.ID, s.ballot(a))
		s.requireCode(err, dErrors.CodeExpired)
	})

	code := s.requestCode(ctx, s.carol, e.ID)
	s.Require().NoError(s.service.VerifyOTP(ctx, s.carol, e.ID, code))

	s.Run("requires a photo", func() {
		req := s.ballot(a)
		req.Photo = nil
		_, err := s.service.CastVote(ctx, s.carol, e.ID, req)
		s.requireCode(err, dErrors.CodeValidation)
	})

	s.Run("candidate must be approved in this election", func() {
		other := s.create(s.draft())
		s.transition(other, "open-nominations", duringNominations)
		foreign := s.nominate(other, s.dev, "President", duringNominations)
		_, err := s.service.CastVote(ctx, s.carol, e.ID, s.ballot(foreign))
		s.requireCode(err, dErrors.CodeValidation)
	})
}

func (s *ElectionServiceSuite) TestConcurrentCastsRecordOneVote() {
	e, a, b := s.votingElection()
	ctx := s.at(duringVoting)
	code := s.requestCode(ctx, s.carol, e.ID)
	s.Require().NoError(s.service.VerifyOTP(ctx, s.carol, e.ID, code))

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			target := a
			if i%2 == 1 {
				target = b
			}
			_, errs[i] = s.service.CastVote(ctx, s.carol, e.ID, s.ballot(target))
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.Equal(dErrors.CodeDuplicate, dErrors.CodeOf(err))
	}
	s.Equal(1, succeeded)
	s.Equal(1, s.emitted(audit.EventVoteCast))

	stored, err := s.service.VoteStatus(ctx, s.carol, e.ID)
	s.Require().NoError(err)
	s.photosMu.Lock()
	defer s.photosMu.Unlock()
	s.Len(s.photosDeleted, s.photosPut-1, "every capture but the recorded one is removed")
	s.NotContains(s.photosDeleted, stored.PhotoPath)
}

func (s *ElectionServiceSuite) TestVerificationKeepsTallyInStep() {
	e, a, _ := s.votingElection()
	ctx := s.at(duringVoting)
	first := s.castBallot(ctx, s.carol, e, a)
	second := s.castBallot(ctx, s.dev, e, a)

	pending, err := s.service.PendingVotes(ctx, s.ec, e.ID, store.PendingPage{})
	s.Require().NoError(err)
	s.Len(pending, 2)

	_, err = s.service.ApproveVote(ctx, s.alice, first.ID)
	s.requireCode(err, dErrors.CodeForbidden)

	approved, err := s.service.ApproveVote(ctx, s.ec, first.ID)
	s.Require().NoError(err)
	s.Equal(models.VoteVerified, approved.Status)

	_, err = s.service.RejectVote(ctx, s.ec, second.ID, "")
	s.requireCode(err, dErrors.CodeValidation)
	rejected, err := s.service.RejectVote(ctx, s.ec, second.ID, "photo does not match")
	s.Require().NoError(err)
	s.Equal(models.VoteRejected, rejected.Status)

	_, err = s.service.ApproveVote(ctx, s.ec, first.ID)
	s.requireCode(err, dErrors.CodeStateConflict)

	candidate, err := s.store.FindCandidate(ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(1, candidate.VoteCount)
	counts, err := s.store.CountVerifiedVotes(ctx, e.ID)
	s.Require().NoError(err)
	s.Equal(candidate.VoteCount, counts[a.ID])

	s.Run("a rejected ballot still blocks a second cast", func() {
		_, err := s.service.RequestOTP(ctx, s.dev, e.ID)
		s.requireCode(err, dErrors.CodeDuplicate)
	})

	status, err := s.service.VoteStatus(ctx, s.dev, e.ID)
	s.Require().NoError(err)
	s.Equal(models.VoteRejected, status.Status)
}

func (s *ElectionServiceSuite) TestCalculateAndCertifyResults() {
	e, a, b := s.votingElection()
	ctx := s.at(duringVoting)
	for voter, target := range map[access.ActingContext]*models.Candidate{s.carol: a, s.dev: b} {
		v := s.castBallot(ctx, voter, e, target)
		_, err := s.service.ApproveVote(ctx, s.ec, v.ID)
		s.Require().NoError(err)
	}

	_, err := s.service.CalculateResults(ctx, s.ec, e.ID)
	s.requireCode(err, dErrors.CodeStateConflict)

	s.transition(e, "close-voting", duringVoting)
	results, err := s.service.CalculateResults(ctx, s.ec, e.ID)
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal(a.ID, results[0].WinnerCandidateID, "ties go to the earlier candidacy")
	s.Equal(1, results[0].WinnerVotes)
	s.Equal(2, results[0].TotalVotes)
	s.Equal(2, results[0].TotalVoters)
	s.InDelta(50.0, results[0].VotePercentage, 0.001)
	s.False(results[0].IsCertified)

	got, err := s.service.Get(ctx, e.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusCompleted, got.Status)

	s.installer.EXPECT().InstallLeadership(gomock.Any(), eligibility.Award{
		ElectionID: e.ID,
		MemberID:   s.alice.MemberID,
		Title:      "President",
		Level:      id.LevelTehsil,
		EntityID:   id.EntityID(s.tehsil),
	}).Return(nil)
	certified, err := s.service.CertifyResults(ctx, s.ec, e.ID)
	s.Require().NoError(err)
	s.True(certified[0].IsCertified)
	s.Equal(s.ec.MemberID, certified[0].CertifiedBy)

	_, err = s.service.CertifyResults(ctx, s.ec, e.ID)
	s.requireCode(err, dErrors.CodeStateConflict)

	stored, err := s.service.Results(ctx, e.ID)
	s.Require().NoError(err)
	s.True(stored[0].IsCertified)
}

func (s *ElectionServiceSuite) TestResultsCountOnlyVerifiedVoters() {
	e, a, b := s.votingElection()
	ctx := s.at(duringVoting)

	approved := s.castBallot(ctx, s.carol, e, a)
	_, err := s.service.ApproveVote(ctx, s.ec, approved.ID)
	s.Require().NoError(err)
	rejected := s.castBallot(ctx, s.dev, e, b)
	_, err = s.service.RejectVote(ctx, s.ec, rejected.ID, "face does not match the register")
	s.Require().NoError(err)
	s.castBallot(ctx, s.alice, e, b) // left pending

	s.transition(e, "close-voting", duringVoting)
	results, err := s.service.CalculateResults(ctx, s.ec, e.ID)
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal(a.ID, results[0].WinnerCandidateID)
	s.Equal(1, results[0].TotalVotes)
	s.Equal(1, results[0].TotalVoters)
	s.InDelta(100.0, results[0].VotePercentage, 0.001)
}

func (s *ElectionServiceSuite) TestCertifyRequiresResults() {
	e, _, _ := s.votingElection()
	_, err := s.service.CertifyResults(s.at(duringVoting), s.ec, e.ID)
	s.requireCode(err, dErrors.CodeStateConflict)
}
