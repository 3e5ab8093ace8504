package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
)

// VerificationStatus is the review state of a cast ballot.
type VerificationStatus string

const (
	VotePending  VerificationStatus = "pending"
	VoteVerified VerificationStatus = "verified"
	VoteRejected VerificationStatus = "rejected"
)

// Vote is a member's single ballot in an election. It counts towards the
// candidate's tally only once verified.
type Vote struct {
	ID              id.VoteID          `json:"id"`
	ElectionID      id.ElectionID      `json:"election_id"`
	MemberID        id.MemberID        `json:"member_id"`
	CandidateID     id.CandidateID     `json:"candidate_id"`
	Status          VerificationStatus `json:"verification_status"`
	Hash            string             `json:"hash"`
	PhotoPath       string             `json:"photo_path"`
	IPAddress       string             `json:"ip_address,omitempty"`
	Device          string             `json:"device,omitempty"`
	CastAt          time.Time          `json:"cast_at"`
	VerifiedBy      id.MemberID        `json:"verified_by,omitempty"`
	VerifiedAt      time.Time          `json:"verified_at,omitempty"`
	RejectionReason string             `json:"rejection_reason,omitempty"`
}

// Ballot carries the inputs of a cast.
type Ballot struct {
	ElectionID  id.ElectionID
	MemberID    id.MemberID
	CandidateID id.CandidateID
	PhotoPath   string
	IPAddress   string
	Device      string
}

// ComputeHash is the tamper-evidence digest stored with each vote.
func ComputeHash(electionID id.ElectionID, memberID id.MemberID, candidateID id.CandidateID, castAt time.Time) string {
	sum := sha256.Sum256([]byte(strings.Join([]string{
		electionID.String(),
		memberID.String(),
		candidateID.String(),
		castAt.UTC().Format(time.RFC3339Nano),
	}, "|")))
	return hex.EncodeToString(sum[:])
}

func NewVote(voteID id.VoteID, b Ballot, now time.Time) (*Vote, error) {
	if strings.TrimSpace(b.PhotoPath) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "a photo capture is required")
	}
	return &Vote{
		ID:          voteID,
		ElectionID:  b.ElectionID,
		MemberID:    b.MemberID,
		CandidateID: b.CandidateID,
		Status:      VotePending,
		Hash:        ComputeHash(b.ElectionID, b.MemberID, b.CandidateID, now),
		PhotoPath:   b.PhotoPath,
		IPAddress:   b.IPAddress,
		Device:      b.Device,
		CastAt:      now,
	}, nil
}

// Intact reports whether the stored hash still matches the ballot.
func (v *Vote) Intact() bool {
	return v.Hash == ComputeHash(v.ElectionID, v.MemberID, v.CandidateID, v.CastAt)
}

func (v *Vote) CanReview() error {
	if v.Status != VotePending {
		return dErrors.New(dErrors.CodeInvariantViolation, "vote is already "+string(v.Status))
	}
	return nil
}

func (v *Vote) Approve(verifier id.MemberID, now time.Time) {
	v.Status = VoteVerified
	v.VerifiedBy = verifier
	v.VerifiedAt = now
}

func (v *Vote) Reject(verifier id.MemberID, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "rejection requires a reason")
	}
	v.Status = VoteRejected
	v.RejectionReason = reason
	v.VerifiedBy = verifier
	v.VerifiedAt = now
	return nil
}
