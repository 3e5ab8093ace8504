package models

import (
	"time"

	"unionhub/internal/eligibility"
	id "unionhub/pkg/domain"
)

// Delegate is a member registered as a voter for one election.
type Delegate struct {
	ID         id.DelegateID            `json:"id"`
	ElectionID id.ElectionID            `json:"election_id"`
	MemberID   id.MemberID              `json:"member_id"`
	Type       eligibility.DelegateType `json:"delegate_type"`
	CreatedAt  time.Time                `json:"created_at"`
}
