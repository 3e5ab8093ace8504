// Package eligibility decides who may vote in and who may stand for an election.
//
// Evaluate is a pure function over a member Snapshot and a Criteria record.
// When an election carries no criteria the legacy per-level strategies in
// strategy.go apply instead.
package eligibility

import (
	"context"
	"strings"
	"time"

	id "unionhub/pkg/domain"
)

// PositionKind classifies a leadership position a member currently holds.
type PositionKind string

const (
	PositionZonalPresident    PositionKind = "zonal_president"
	PositionDistrictPresident PositionKind = "district_president"
	PositionStatePortfolio    PositionKind = "state_portfolio"
	PositionOfficeBearer      PositionKind = "office_bearer"
)

// Position is one current leadership position.
type Position struct {
	Kind     PositionKind `json:"kind"`
	Title    string       `json:"title"`
	Level    id.Level     `json:"level"`
	EntityID id.EntityID  `json:"entity_id"`
}

// Snapshot is the read-only view of a member used for eligibility decisions.
type Snapshot struct {
	MemberID         id.MemberID
	Active           bool
	Email            string
	DateOfBirth      time.Time
	ServiceJoinYear  int
	UnionJoinDate    time.Time
	StarGrade        int
	Designation      string
	IdentityVerified bool
	TehsilID         id.TehsilID
	DistrictID       id.DistrictID
	Leadership       []Position
}

// HoldsLeadership reports whether the member currently holds any position.
func (s Snapshot) HoldsLeadership() bool { return len(s.Leadership) > 0 }

// Holds reports whether the member holds a position of the given kind.
func (s Snapshot) Holds(kind PositionKind) bool {
	for _, p := range s.Leadership {
		if p.Kind == kind {
			return true
		}
	}
	return false
}

// Age is the member's age in full years at now. A zero DateOfBirth yields -1.
func (s Snapshot) Age(now time.Time) int {
	if s.DateOfBirth.IsZero() {
		return -1
	}
	return fullYearsBetween(s.DateOfBirth, now)
}

// ServiceYears is the current year minus the service join year.
func (s Snapshot) ServiceYears(now time.Time) int {
	if s.ServiceJoinYear == 0 {
		return -1
	}
	return now.Year() - s.ServiceJoinYear
}

// UnionYears is the number of full years elapsed since the union join date.
func (s Snapshot) UnionYears(now time.Time) int {
	if s.UnionJoinDate.IsZero() {
		return -1
	}
	return fullYearsBetween(s.UnionJoinDate, now)
}

func fullYearsBetween(from, to time.Time) int {
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	return years
}

func normalizeDesignation(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Filter narrows a directory listing. Nil IDs leave that dimension open;
// PositionKinds, when set, keeps only members holding any of the kinds.
type Filter struct {
	TehsilID      id.TehsilID
	DistrictID    id.DistrictID
	PositionKinds []PositionKind
}

// Directory is the member.snapshot collaborator plus the listing the roster
// builder needs. Only active members are returned by ListActive.
type Directory interface {
	Snapshot(ctx context.Context, memberID id.MemberID) (Snapshot, error)
	ListActive(ctx context.Context, filter Filter) ([]Snapshot, error)
}

// Award is a certified election win to be installed as a current position.
type Award struct {
	ElectionID id.ElectionID
	MemberID   id.MemberID
	Title      string
	Level      id.Level
	EntityID   id.EntityID
}
