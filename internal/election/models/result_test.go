package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "unionhub/pkg/domain"
)

func approved(title string, votes int, created time.Time) *Candidate {
	return &Candidate{
		ID:            id.NewCandidateID(),
		MemberID:      id.NewMemberID(),
		PositionTitle: title,
		Status:        CandidateApproved,
		VoteCount:     votes,
		CreatedAt:     created,
	}
}

func TestTabulate(t *testing.T) {
	electionID := id.NewElectionID()
	president := approved("President", 6, t0)
	runnerUp := approved("President", 3, t0)
	secretary := approved("Secretary", 5, t0)
	rejected := approved("Secretary", 40, t0)
	rejected.Status = CandidateRejected

	results := Tabulate(electionID, []*Candidate{runnerUp, secretary, president, rejected}, 10, t0)
	require.Len(t, results, 2)

	assert.Equal(t, "President", results[0].PositionTitle)
	assert.Equal(t, president.ID, results[0].WinnerCandidateID)
	assert.Equal(t, 9, results[0].TotalVotes)
	assert.Equal(t, 10, results[0].TotalVoters)
	assert.InDelta(t, 60.0, results[0].VotePercentage, 0.001)
	assert.False(t, results[0].IsCertified)

	assert.Equal(t, "Secretary", results[1].PositionTitle)
	assert.Equal(t, secretary.ID, results[1].WinnerCandidateID)
	assert.Equal(t, 5, results[1].TotalVotes)
}

func TestTabulateTieBreak(t *testing.T) {
	t.Run("earlier candidacy wins", func(t *testing.T) {
		late := approved("President", 4, t0.Add(time.Hour))
		early := approved("President", 4, t0)
		results := Tabulate(id.NewElectionID(), []*Candidate{late, early}, 8, t0)
		require.Len(t, results, 1)
		assert.Equal(t, early.ID, results[0].WinnerCandidateID)
	})

	t.Run("same timestamp falls back to candidate id", func(t *testing.T) {
		a := approved("President", 4, t0)
		b := approved("President", 4, t0)
		a.ID = id.CandidateID(uuid.MustParse("00000000-0000-0000-0000-00000000000a"))
		b.ID = id.CandidateID(uuid.MustParse("00000000-0000-0000-0000-00000000000b"))
		for _, order := range [][]*Candidate{{a, b}, {b, a}} {
			results := Tabulate(id.NewElectionID(), order, 8, t0)
			assert.Equal(t, a.ID, results[0].WinnerCandidateID)
		}
	})
}

func TestTabulateWithoutVoters(t *testing.T) {
	results := Tabulate(id.NewElectionID(), []*Candidate{approved("President", 0, t0)}, 0, t0)
	require.Len(t, results, 1)
	assert.Zero(t, results[0].VotePercentage)
}

func TestVoteHashIsTamperEvident(t *testing.T) {
	v, err := NewVote(id.NewVoteID(), Ballot{
		ElectionID:  id.NewElectionID(),
		MemberID:    id.NewMemberID(),
		CandidateID: id.NewCandidateID(),
		PhotoPath:   "photos/a.jpg",
	}, t0)
	require.NoError(t, err)
	assert.Len(t, v.Hash, 64)
	assert.True(t, v.Intact())

	v.CandidateID = id.NewCandidateID()
	assert.False(t, v.Intact())
}

func TestVoteRequiresPhoto(t *testing.T) {
	_, err := NewVote(id.NewVoteID(), Ballot{ElectionID: id.NewElectionID()}, t0)
	assert.Error(t, err)
}
