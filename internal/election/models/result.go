package models

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	id "unionhub/pkg/domain"
)

// Result is the tabulated outcome for one position.
type Result struct {
	ID                id.ResultID    `json:"id"`
	ElectionID        id.ElectionID  `json:"election_id"`
	PositionTitle     string         `json:"position_title"`
	WinnerCandidateID id.CandidateID `json:"winner_candidate_id"`
	WinnerMemberID    id.MemberID    `json:"winner_member_id"`
	WinnerVotes       int            `json:"winner_votes"`
	TotalVotes        int            `json:"total_votes"`
	TotalVoters       int            `json:"total_voters"`
	VotePercentage    float64        `json:"vote_percentage"`
	IsCertified       bool           `json:"is_certified"`
	CertifiedBy       id.MemberID    `json:"certified_by,omitempty"`
	CertifiedAt       time.Time      `json:"certified_at,omitempty"`
	CalculatedAt      time.Time      `json:"calculated_at"`
}

// leads orders candidates by votes, then earlier candidacy, then smaller ID.
func leads(a, b *Candidate) bool {
	if a.VoteCount != b.VoteCount {
		return a.VoteCount > b.VoteCount
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return uuid.UUID(a.ID).String() < uuid.UUID(b.ID).String()
}

// Tabulate computes one result per position from the approved candidates.
// totalVoters is the percentage denominator, read as "distinct voters who cast
// any vote in the election" counting only ballots that survived verification:
// pending and rejected ballots are in neither the numerator nor the
// denominator. Results are ordered by position title.
func Tabulate(electionID id.ElectionID, approved []*Candidate, totalVoters int, now time.Time) []*Result {
	byPosition := make(map[string][]*Candidate)
	for _, c := range approved {
		if c.Status != CandidateApproved {
			continue
		}
		byPosition[c.PositionTitle] = append(byPosition[c.PositionTitle], c)
	}

	results := make([]*Result, 0, len(byPosition))
	for title, candidates := range byPosition {
		winner := candidates[0]
		total := 0
		for _, c := range candidates {
			total += c.VoteCount
			if leads(c, winner) {
				winner = c
			}
		}
		pct := 0.0
		if totalVoters > 0 {
			pct = math.Round(float64(winner.VoteCount)/float64(totalVoters)*100*100) / 100
		}
		results = append(results, &Result{
			ID:                id.NewResultID(),
			ElectionID:        electionID,
			PositionTitle:     title,
			WinnerCandidateID: winner.ID,
			WinnerMemberID:    winner.MemberID,
			WinnerVotes:       winner.VoteCount,
			TotalVotes:        total,
			TotalVoters:       totalVoters,
			VotePercentage:    pct,
			CalculatedAt:      now,
		})
	}
	slices.SortFunc(results, func(a, b *Result) int { return cmp.Compare(a.PositionTitle, b.PositionTitle) })
	return results
}

func (r *Result) Certify(certifier id.MemberID, now time.Time) {
	r.IsCertified = true
	r.CertifiedBy = certifier
	r.CertifiedAt = now
}
