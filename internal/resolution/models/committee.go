package models

import (
	"strings"
	"time"

	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
)

// Role is a committee member's seat.
type Role string

const (
	RoleChair     Role = "chair"
	RoleSecretary Role = "secretary"
	RoleMember    Role = "member"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleChair, RoleSecretary, RoleMember:
		return true
	}
	return false
}

// Committee is the body whose active members vote on resolutions. It
// outlives the resolutions it decides.
type Committee struct {
	ID               id.CommitteeID     `json:"id"`
	Name             string             `json:"name"`
	Level            id.Level           `json:"level"`
	EntityID         id.EntityID        `json:"entity_id"`
	DistrictID       id.DistrictID      `json:"district_id,omitempty"`
	QuorumPercentage int                `json:"quorum_percentage"`
	VotingThreshold  int                `json:"voting_threshold"`
	MinMembers       int                `json:"min_members"`
	MaxMembers       int                `json:"max_members"`
	CreatedBy        id.MemberID        `json:"created_by"`
	CreatedAt        time.Time          `json:"created_at"`
	Members          []*CommitteeMember `json:"members,omitempty"`
}

// CommitteeDraft holds the caller-supplied committee fields.
type CommitteeDraft struct {
	Name             string
	Level            id.Level
	EntityID         id.EntityID
	DistrictID       id.DistrictID
	QuorumPercentage int
	VotingThreshold  int
	MinMembers       int
	MaxMembers       int
}

func (d CommitteeDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "committee name cannot be empty")
	}
	if !d.Level.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "committee level is invalid")
	}
	if d.EntityID.IsNil() {
		return dErrors.New(dErrors.CodeInvariantViolation, "committee entity is required")
	}
	if d.Level == id.LevelTehsil && d.DistrictID.IsNil() {
		return dErrors.New(dErrors.CodeInvariantViolation, "tehsil committees require the parent district")
	}
	if d.QuorumPercentage < 1 || d.QuorumPercentage > 100 {
		return dErrors.New(dErrors.CodeInvariantViolation, "quorum percentage must be between 1 and 100")
	}
	if d.VotingThreshold < 1 || d.VotingThreshold > 100 {
		return dErrors.New(dErrors.CodeInvariantViolation, "voting threshold must be between 1 and 100")
	}
	if d.MinMembers < 1 {
		return dErrors.New(dErrors.CodeInvariantViolation, "a committee needs at least one member")
	}
	if d.MaxMembers < d.MinMembers {
		return dErrors.New(dErrors.CodeInvariantViolation, "max members cannot be below min members")
	}
	return nil
}

func NewCommittee(committeeID id.CommitteeID, d CommitteeDraft, createdBy id.MemberID, now time.Time) (*Committee, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	c := &Committee{
		ID:               committeeID,
		Name:             strings.TrimSpace(d.Name),
		Level:            d.Level,
		EntityID:         d.EntityID,
		DistrictID:       d.DistrictID,
		QuorumPercentage: d.QuorumPercentage,
		VotingThreshold:  d.VotingThreshold,
		MinMembers:       d.MinMembers,
		MaxMembers:       d.MaxMembers,
		CreatedBy:        createdBy,
		CreatedAt:        now,
	}
	if d.Level == id.LevelDistrict {
		c.DistrictID = id.DistrictID(d.EntityID)
	}
	return c, nil
}

func (c *Committee) Scope() id.Scope {
	return id.Scope{Level: c.Level, EntityID: c.EntityID, DistrictID: c.DistrictID}
}

// CanSeat checks the max bound and the single-chair rule against the
// current active roster.
func (c *Committee) CanSeat(active []*CommitteeMember, memberID id.MemberID, role Role) error {
	if !role.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "committee role is invalid")
	}
	for _, m := range active {
		if m.MemberID == memberID {
			return dErrors.New(dErrors.CodeInvariantViolation, "member already sits on the committee")
		}
		if role == RoleChair && m.Role == RoleChair {
			return dErrors.New(dErrors.CodeInvariantViolation, "committee already has a chair")
		}
	}
	if len(active) >= c.MaxMembers {
		return dErrors.New(dErrors.CodeInvariantViolation, "committee is at its maximum size")
	}
	return nil
}

// CanUnseat keeps a committee that has reached its minimum from shrinking
// below it.
func (c *Committee) CanUnseat(active []*CommitteeMember, memberID id.MemberID) error {
	seated := false
	for _, m := range active {
		if m.MemberID == memberID {
			seated = true
			break
		}
	}
	if !seated {
		return dErrors.New(dErrors.CodeInvariantViolation, "member does not sit on the committee")
	}
	if len(active) <= c.MinMembers {
		return dErrors.New(dErrors.CodeInvariantViolation, "committee cannot drop below its minimum size")
	}
	return nil
}

// CanDecide requires the roster to be at least the minimum size before a
// resolution goes to a vote.
func (c *Committee) CanDecide(activeCount int) error {
	if activeCount < c.MinMembers {
		return dErrors.New(dErrors.CodeInvariantViolation, "committee is below its minimum size")
	}
	return nil
}

// QuorumRequired is ceil(active × quorum% / 100).
func (c *Committee) QuorumRequired(activeCount int) int {
	return (activeCount*c.QuorumPercentage + 99) / 100
}

// CommitteeMember is one seat. Removal deactivates rather than deletes so
// cast resolution votes keep their voter.
type CommitteeMember struct {
	CommitteeID id.CommitteeID `json:"committee_id"`
	MemberID    id.MemberID    `json:"member_id"`
	Role        Role           `json:"role"`
	Active      bool           `json:"active"`
	JoinedAt    time.Time      `json:"joined_at"`
}

// Seat finds memberID among the active members.
func Seat(active []*CommitteeMember, memberID id.MemberID) (*CommitteeMember, bool) {
	for _, m := range active {
		if m.MemberID == memberID && m.Active {
			return m, true
		}
	}
	return nil, false
}
