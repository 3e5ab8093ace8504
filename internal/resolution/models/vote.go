package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
)

type Choice string

const (
	ChoiceFor     Choice = "for"
	ChoiceAgainst Choice = "against"
	ChoiceAbstain Choice = "abstain"
)

func (c Choice) IsValid() bool {
	return c == ChoiceFor || c == ChoiceAgainst || c == ChoiceAbstain
}

func ParseChoice(s string) (Choice, error) {
	switch c := Choice(strings.ToLower(strings.TrimSpace(s))); c {
	case ChoiceFor, ChoiceAgainst, ChoiceAbstain:
		return c, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "vote must be for, against or abstain")
}

// Vote is one committee member's ballot; at most one per resolution.
type Vote struct {
	ID           id.ResolutionVoteID `json:"id"`
	ResolutionID id.ResolutionID     `json:"resolution_id"`
	MemberID     id.MemberID         `json:"member_id"`
	Choice       Choice              `json:"vote"`
	CastAt       time.Time           `json:"cast_at"`
}

func NewVote(voteID id.ResolutionVoteID, resolutionID id.ResolutionID, memberID id.MemberID, choice Choice, now time.Time) *Vote {
	return &Vote{ID: voteID, ResolutionID: resolutionID, MemberID: memberID, Choice: choice, CastAt: now}
}

type AppealStatus string

const (
	AppealPending     AppealStatus = "pending"
	AppealUnderReview AppealStatus = "under_review"
	AppealUpheld      AppealStatus = "upheld"
	AppealDismissed   AppealStatus = "dismissed"
)

// Active appeals freeze execution.
func (s AppealStatus) Active() bool { return s == AppealPending || s == AppealUnderReview }

// Appeal is filed against a decided resolution. Filing and hearing appeals
// happen elsewhere; this context only reads them.
type Appeal struct {
	ID           uuid.UUID       `json:"id"`
	ResolutionID id.ResolutionID `json:"resolution_id"`
	Status       AppealStatus    `json:"status"`
	FiledAt      time.Time       `json:"filed_at"`
}
