package handler

import (
	"time"

	"unionhub/internal/election/models"
)

// ListResponse wraps collections so the envelope can grow paging fields.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func listResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Count: len(items)}
}

// VoteReceipt is what a voter or verifier sees of a ballot. The chosen
// candidate is not echoed back.
type VoteReceipt struct {
	ID       string    `json:"id"`
	Election string    `json:"election_id"`
	Status   string    `json:"verification_status"`
	Hash     string    `json:"hash"`
	CastAt   time.Time `json:"cast_at"`
}

func toVoteReceipt(v *models.Vote) VoteReceipt {
	return VoteReceipt{
		ID:       v.ID.String(),
		Election: v.ElectionID.String(),
		Status:   string(v.Status),
		Hash:     v.Hash,
		CastAt:   v.CastAt,
	}
}

type VoteStatusResponse struct {
	HasVoted bool       `json:"has_voted"`
	Status   string     `json:"verification_status,omitempty"`
	CastAt   *time.Time `json:"cast_at,omitempty"`
}

// PendingResponse lists queued ballots with the cursor for the next page.
type PendingResponse struct {
	Items       []*models.Vote `json:"items"`
	NextCastAt  *time.Time     `json:"next_after_cast_at,omitempty"`
	NextAfterID string         `json:"next_after_id,omitempty"`
}

func toPendingResponse(votes []*models.Vote) PendingResponse {
	resp := PendingResponse{Items: votes}
	if votes == nil {
		resp.Items = []*models.Vote{}
	}
	if n := len(votes); n > 0 {
		last := votes[n-1]
		resp.NextCastAt = &last.CastAt
		resp.NextAfterID = last.ID.String()
	}
	return resp
}
