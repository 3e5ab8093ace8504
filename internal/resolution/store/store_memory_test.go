package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unionhub/internal/resolution/models"
	id "unionhub/pkg/domain"
	"unionhub/pkg/platform/sentinel"
)

func fixture(t *testing.T) (*InMemory, *models.Committee, *models.Resolution) {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	s := NewInMemory()
	district := id.NewDistrictID()
	c, err := models.NewCommittee(id.NewCommitteeID(), models.CommitteeDraft{
		Name: "Grievances", Level: id.LevelDistrict, EntityID: id.EntityID(district),
		QuorumPercentage: 50, VotingThreshold: 50, MinMembers: 1, MaxMembers: 2,
	}, id.NewMemberID(), now)
	require.NoError(t, err)
	require.NoError(t, s.CreateCommittee(ctx, c))

	r, err := models.NewResolution(id.NewResolutionID(), c.ID, models.Draft{
		Title: "Adopt new bylaws", Type: models.TypePolicy, Category: "bylaws",
	}, id.NewMemberID(), now)
	require.NoError(t, err)
	require.NoError(t, s.CreateResolution(ctx, r))
	return s, c, r
}

func allowSeat(*models.Committee, []*models.CommitteeMember) error { return nil }

func TestSeatsAreReactivated(t *testing.T) {
	ctx := context.Background()
	s, c, _ := fixture(t)
	member := id.NewMemberID()

	require.NoError(t, s.SeatMember(ctx, &models.CommitteeMember{CommitteeID: c.ID, MemberID: member, Role: models.RoleMember}, allowSeat))
	require.NoError(t, s.UnseatMember(ctx, c.ID, member, allowSeat))
	active, err := s.ActiveMembers(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, s.SeatMember(ctx, &models.CommitteeMember{CommitteeID: c.ID, MemberID: member, Role: models.RoleSecretary}, allowSeat))
	active, err = s.ActiveMembers(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, models.RoleSecretary, active[0].Role)

	err = s.UnseatMember(ctx, c.ID, id.NewMemberID(), allowSeat)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestSeatCheckSeesTheRoster(t *testing.T) {
	ctx := context.Background()
	s, c, _ := fixture(t)
	check := func(c *models.Committee, active []*models.CommitteeMember) error {
		return c.CanSeat(active, id.NewMemberID(), models.RoleMember)
	}
	for range 2 {
		require.NoError(t, s.SeatMember(ctx, &models.CommitteeMember{CommitteeID: c.ID, MemberID: id.NewMemberID(), Role: models.RoleMember}, check))
	}
	err := s.SeatMember(ctx, &models.CommitteeMember{CommitteeID: c.ID, MemberID: id.NewMemberID(), Role: models.RoleMember}, check)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum size")
}

func TestCastVoteKeepsOneBallotAndTally(t *testing.T) {
	ctx := context.Background()
	s, _, r := fixture(t)
	_, err := s.ExecuteResolution(ctx, r.ID,
		func(r *models.Resolution) error { return r.CanOpenVoting() },
		func(r *models.Resolution) error {
			r.OpenVoting(time.Now())
			return nil
		})
	require.NoError(t, err)

	voter := id.NewMemberID()
	accept := func(r *models.Resolution) error { return r.CanAcceptVote() }
	got, err := s.CastVote(ctx, models.NewVote(id.NewResolutionVoteID(), r.ID, voter, models.ChoiceAgainst, time.Now()), accept)
	require.NoError(t, err)
	assert.Equal(t, 1, got.VotesAgainst)

	_, err = s.CastVote(ctx, models.NewVote(id.NewResolutionVoteID(), r.ID, voter, models.ChoiceFor, time.Now()), accept)
	assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)

	stored, err := s.FindResolution(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.VotesFor)
	assert.Equal(t, 1, stored.VotesAgainst)

	votes, err := s.ListVotes(ctx, r.ID)
	require.NoError(t, err)
	assert.Len(t, votes, 1)

	assert.ErrorIs(t, s.DeleteResolution(ctx, r.ID), sentinel.ErrInvalidState)
}

func TestCastVoteWithUnknownChoiceStoresNothing(t *testing.T) {
	ctx := context.Background()
	s, _, r := fixture(t)
	_, err := s.ExecuteResolution(ctx, r.ID,
		func(r *models.Resolution) error { return r.CanOpenVoting() },
		func(r *models.Resolution) error {
			r.OpenVoting(time.Now())
			return nil
		})
	require.NoError(t, err)

	voter := id.NewMemberID()
	accept := func(r *models.Resolution) error { return r.CanAcceptVote() }
	_, err = s.CastVote(ctx, models.NewVote(id.NewResolutionVoteID(), r.ID, voter, models.Choice("bogus"), time.Now()), accept)
	require.Error(t, err)

	votes, err := s.ListVotes(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, votes)

	// The member can still cast a real ballot afterwards.
	got, err := s.CastVote(ctx, models.NewVote(id.NewResolutionVoteID(), r.ID, voter, models.ChoiceFor, time.Now()), accept)
	require.NoError(t, err)
	assert.Equal(t, 1, got.VotesReceived())
}

func TestFailedMutationLeavesResolutionUntouched(t *testing.T) {
	ctx := context.Background()
	s, _, r := fixture(t)
	_, err := s.ExecuteResolution(ctx, r.ID,
		func(*models.Resolution) error { return nil },
		func(r *models.Resolution) error {
			r.Title = "changed"
			return sentinel.ErrInvalidState
		})
	require.ErrorIs(t, err, sentinel.ErrInvalidState)

	stored, err := s.FindResolution(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Adopt new bylaws", stored.Title)
}

func TestActiveAppeals(t *testing.T) {
	ctx := context.Background()
	s, _, r := fixture(t)

	frozen, err := s.HasActiveAppeal(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, frozen)

	require.NoError(t, s.RecordAppeal(ctx, &models.Appeal{ID: uuid.New(), ResolutionID: r.ID, Status: models.AppealDismissed, FiledAt: time.Now()}))
	frozen, err = s.HasActiveAppeal(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, frozen)

	require.NoError(t, s.RecordAppeal(ctx, &models.Appeal{ID: uuid.New(), ResolutionID: r.ID, Status: models.AppealUnderReview, FiledAt: time.Now()}))
	frozen, err = s.HasActiveAppeal(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, frozen)

	err = s.RecordAppeal(ctx, &models.Appeal{ID: uuid.New(), ResolutionID: id.NewResolutionID(), Status: models.AppealPending})
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
