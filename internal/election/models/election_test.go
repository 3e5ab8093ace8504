package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unionhub/internal/eligibility"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
)

var t0 = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

func validDraft() Draft {
	return Draft{
		Title:      "Tehsil council 2026",
		Level:      id.LevelTehsil,
		EntityID:   id.NewEntityID(),
		DistrictID: id.NewDistrictID(),
		Type:       TypeGeneral,
		Nomination: Window{Start: t0, End: t0.Add(48 * time.Hour)},
		Voting:     Window{Start: t0.Add(72 * time.Hour), End: t0.Add(96 * time.Hour)},
	}
}

func TestNewElectionValidatesWindows(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Draft)
	}{
		{"empty title", func(d *Draft) { d.Title = "  " }},
		{"bad level", func(d *Draft) { d.Level = "national" }},
		{"nomination ends before start", func(d *Draft) { d.Nomination.End = d.Nomination.Start }},
		{"voting overlaps nominations", func(d *Draft) { d.Voting.Start = d.Nomination.End.Add(-time.Minute) }},
		{"voting ends before start", func(d *Draft) { d.Voting.End = d.Voting.Start.Add(-time.Minute) }},
		{"tehsil without district", func(d *Draft) { d.DistrictID = id.DistrictID{} }},
		{"impossible criteria", func(d *Draft) {
			lo, hi := 60, 30
			d.VotingCriteria = &eligibility.Criteria{MinAge: &lo, MaxAge: &hi}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			_, err := NewElection(id.NewElectionID(), d, id.NewMemberID(), t0)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation), "got %v", err)
		})
	}

	t.Run("voting may start exactly when nominations end", func(t *testing.T) {
		d := validDraft()
		d.Voting.Start = d.Nomination.End
		e, err := NewElection(id.NewElectionID(), d, id.NewMemberID(), t0)
		require.NoError(t, err)
		assert.Equal(t, StatusDraft, e.Status)
	})

	t.Run("empty criteria are dropped", func(t *testing.T) {
		d := validDraft()
		d.VotingCriteria = &eligibility.Criteria{}
		e, err := NewElection(id.NewElectionID(), d, id.NewMemberID(), t0)
		require.NoError(t, err)
		assert.Nil(t, e.VotingCriteria)
	})
}

func TestStatusTransitionsFollowLifecycle(t *testing.T) {
	assert.True(t, StatusDraft.CanTransitionTo(StatusNominationsOpen))
	assert.True(t, StatusVotingClosed.CanTransitionTo(StatusCompleted))
	assert.False(t, StatusDraft.CanTransitionTo(StatusVotingOpen), "skipping stages")
	assert.False(t, StatusVotingOpen.CanTransitionTo(StatusNominationsOpen), "moving backwards")
	assert.False(t, StatusNominationsOpen.CanTransitionTo(StatusVotingOpen))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusDraft))
	assert.False(t, Status("bogus").CanTransitionTo(StatusDraft))
}

func TestOpenVotingNeedsApprovedCandidate(t *testing.T) {
	e, err := NewElection(id.NewElectionID(), validDraft(), id.NewMemberID(), t0)
	require.NoError(t, err)
	e.Status = StatusNominationsClosed

	err = e.CanTransition(StatusVotingOpen, 0)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	assert.NoError(t, e.CanTransition(StatusVotingOpen, 1))
}

func TestDueTransition(t *testing.T) {
	e, err := NewElection(id.NewElectionID(), validDraft(), id.NewMemberID(), t0)
	require.NoError(t, err)

	_, due := e.DueTransition(t0.Add(-time.Second))
	assert.False(t, due)

	next, due := e.DueTransition(t0)
	require.True(t, due)
	assert.Equal(t, StatusNominationsOpen, next)
	e.ApplyTransition(next, t0)

	_, due = e.DueTransition(t0.Add(47 * time.Hour))
	assert.False(t, due)

	next, due = e.DueTransition(t0.Add(48 * time.Hour))
	require.True(t, due)
	assert.Equal(t, StatusNominationsClosed, next)
	e.ApplyTransition(next, t0)

	_, due = e.DueTransition(t0.Add(80 * time.Hour))
	assert.False(t, due, "voting never opens on time alone")
}

func TestCanEdit(t *testing.T) {
	e, err := NewElection(id.NewElectionID(), validDraft(), id.NewMemberID(), t0)
	require.NoError(t, err)
	assert.NoError(t, e.CanEdit())
	e.Status = StatusNominationsOpen
	assert.NoError(t, e.CanEdit())
	e.Status = StatusNominationsClosed
	assert.Error(t, e.CanEdit())
}

func TestParseAction(t *testing.T) {
	target, err := ParseAction(" Open-Voting ")
	require.NoError(t, err)
	assert.Equal(t, StatusVotingOpen, target)

	_, err = ParseAction("complete")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestDistrictElectionScope(t *testing.T) {
	d := validDraft()
	d.Level = id.LevelDistrict
	d.DistrictID = id.DistrictID{}
	e, err := NewElection(id.NewElectionID(), d, id.NewMemberID(), t0)
	require.NoError(t, err)
	assert.Equal(t, id.DistrictID(d.EntityID), e.Scope().DistrictID)
}
