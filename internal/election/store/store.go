// Package store persists elections together with the records they own:
// candidates, delegates, OTPs, votes and results.
package store

import (
	"time"

	"unionhub/internal/election/models"
	id "unionhub/pkg/domain"
)

// ElectionFilter narrows ListElections. Zero fields match everything.
type ElectionFilter struct {
	Level    id.Level
	EntityID id.EntityID
	Statuses []models.Status
}

// Activity counts the dependent records that block edits and deletion.
type Activity struct {
	Candidates int
	Votes      int
}

// PendingPage selects the pending-vote queue in submission order, starting
// after the given cursor.
type PendingPage struct {
	AfterCastAt time.Time
	AfterID     id.VoteID
	Limit       int
}
