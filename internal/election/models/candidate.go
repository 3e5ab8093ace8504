package models

import (
	"strings"
	"time"

	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
)

type CandidateStatus string

const (
	CandidatePending  CandidateStatus = "pending"
	CandidateApproved CandidateStatus = "approved"
	CandidateRejected CandidateStatus = "rejected"
)

// WithdrawnReason marks a candidacy rejected at the candidate's own request.
const WithdrawnReason = "withdrawn"

// Candidate is one nomination for a position in an election.
// VoteCount is changed only by vote verification.
type Candidate struct {
	ID              id.CandidateID  `json:"id"`
	ElectionID      id.ElectionID   `json:"election_id"`
	MemberID        id.MemberID     `json:"member_id"`
	PositionTitle   string          `json:"position_title"`
	Statement       string          `json:"statement,omitempty"`
	Status          CandidateStatus `json:"status"`
	VoteCount       int             `json:"vote_count"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	ReviewedBy      id.MemberID     `json:"reviewed_by,omitempty"`
	ReviewedAt      time.Time       `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func NewCandidate(candidateID id.CandidateID, electionID id.ElectionID, memberID id.MemberID, positionTitle, statement string, now time.Time) (*Candidate, error) {
	title := strings.TrimSpace(positionTitle)
	if title == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "position title cannot be empty")
	}
	return &Candidate{
		ID:            candidateID,
		ElectionID:    electionID,
		MemberID:      memberID,
		PositionTitle: title,
		Statement:     strings.TrimSpace(statement),
		Status:        CandidatePending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (c *Candidate) CanReview() error {
	if c.Status != CandidatePending {
		return dErrors.New(dErrors.CodeInvariantViolation, "candidacy is already "+string(c.Status))
	}
	return nil
}

func (c *Candidate) Approve(reviewer id.MemberID, now time.Time) {
	c.Status = CandidateApproved
	c.ReviewedBy = reviewer
	c.ReviewedAt = now
	c.UpdatedAt = now
}

// Reject requires a reason; the candidacy must have passed CanReview.
func (c *Candidate) Reject(reviewer id.MemberID, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "rejection requires a reason")
	}
	c.Status = CandidateRejected
	c.RejectionReason = reason
	c.ReviewedBy = reviewer
	c.ReviewedAt = now
	c.UpdatedAt = now
	return nil
}

// CanWithdraw allows only the nominee to pull a pending candidacy.
func (c *Candidate) CanWithdraw(memberID id.MemberID) error {
	if c.MemberID != memberID {
		return dErrors.New(dErrors.CodeForbidden, "only the nominee can withdraw a candidacy")
	}
	return c.CanReview()
}

func (c *Candidate) Withdraw(now time.Time) {
	c.Status = CandidateRejected
	c.RejectionReason = WithdrawnReason
	c.ReviewedBy = c.MemberID
	c.ReviewedAt = now
	c.UpdatedAt = now
}
