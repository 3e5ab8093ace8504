// Package store persists committees, their seats, resolutions and the votes
// and appeals recorded against them.
package store

import (
	"unionhub/internal/resolution/models"
	id "unionhub/pkg/domain"
)

// CommitteeFilter narrows ListCommittees. Zero fields match everything.
type CommitteeFilter struct {
	Level    id.Level
	EntityID id.EntityID
}

// SeatCheck sees the locked committee and its active roster before a seat
// changes.
type SeatCheck func(c *models.Committee, active []*models.CommitteeMember) error
