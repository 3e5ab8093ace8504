package models

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"unionhub/internal/eligibility"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
)

// Status is the membership standing of a member.
type Status string

const (
	StatusActive     Status = "active"
	StatusSuspended  Status = "suspended"
	StatusTerminated Status = "terminated"
)

// CanTransitionTo lists the legal disciplinary transitions:
// active → suspended|terminated, suspended → active|terminated,
// terminated → active (reinstatement).
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusActive:
		return target == StatusSuspended || target == StatusTerminated
	case StatusSuspended:
		return target == StatusActive || target == StatusTerminated
	case StatusTerminated:
		return target == StatusActive
	}
	return false
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusTerminated:
		return true
	}
	return false
}

// Position is a leadership position currently held by a member.
type Position struct {
	ID         uuid.UUID                `json:"id"`
	Kind       eligibility.PositionKind `json:"kind"`
	Title      string                   `json:"title"`
	Level      id.Level                 `json:"level"`
	EntityID   id.EntityID              `json:"entity_id"`
	ElectionID id.ElectionID            `json:"election_id,omitempty"`
	Since      time.Time                `json:"since"`
}

// Member is the aggregate root for a union member.
//
// Invariants:
//   - Name is non-empty and Email is a valid address
//   - Status changes only along Status.CanTransitionTo
//   - a member holds each (kind, title, entity) position at most once
type Member struct {
	ID               id.MemberID   `json:"id"`
	Name             string        `json:"name"`
	Email            string        `json:"email"`
	DateOfBirth      time.Time     `json:"date_of_birth"`
	ServiceJoinYear  int           `json:"service_join_year"`
	UnionJoinDate    time.Time     `json:"union_join_date"`
	StarGrade        int           `json:"star_grade"`
	Designation      string        `json:"designation"`
	IdentityVerified bool          `json:"identity_verified"`
	TehsilID         id.TehsilID   `json:"tehsil_id"`
	DistrictID       id.DistrictID `json:"district_id"`
	Status           Status        `json:"status"`
	Positions        []Position    `json:"positions"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// Profile carries the attributes supplied when a member is registered.
type Profile struct {
	Name             string
	Email            string
	DateOfBirth      time.Time
	ServiceJoinYear  int
	UnionJoinDate    time.Time
	StarGrade        int
	Designation      string
	IdentityVerified bool
	TehsilID         id.TehsilID
	DistrictID       id.DistrictID
}

func NewMember(memberID id.MemberID, p Profile, now time.Time) (*Member, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "member name cannot be empty")
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "member email is invalid")
	}
	if p.StarGrade < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "star grade cannot be negative")
	}
	return &Member{
		ID:               memberID,
		Name:             name,
		Email:            strings.ToLower(strings.TrimSpace(p.Email)),
		DateOfBirth:      p.DateOfBirth,
		ServiceJoinYear:  p.ServiceJoinYear,
		UnionJoinDate:    p.UnionJoinDate,
		StarGrade:        p.StarGrade,
		Designation:      strings.TrimSpace(p.Designation),
		IdentityVerified: p.IdentityVerified,
		TehsilID:         p.TehsilID,
		DistrictID:       p.DistrictID,
		Status:           StatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

func (m *Member) IsActive() bool { return m.Status == StatusActive }

// Scope is the narrowest hierarchy scope that contains the member.
func (m *Member) Scope() id.Scope {
	switch {
	case !m.TehsilID.IsNil():
		return id.TehsilScope(m.TehsilID, m.DistrictID)
	case !m.DistrictID.IsNil():
		return id.DistrictScope(m.DistrictID)
	}
	return id.Scope{Level: id.LevelState}
}

// CanChangeStatus checks that target is reachable from the current status.
func (m *Member) CanChangeStatus(target Status) error {
	if !m.Status.CanTransitionTo(target) {
		return dErrors.New(dErrors.CodeInvariantViolation,
			"member cannot move from "+string(m.Status)+" to "+string(target))
	}
	return nil
}

// ApplyStatus sets the status. Must only be called after CanChangeStatus.
func (m *Member) ApplyStatus(target Status, now time.Time) {
	m.Status = target
	m.UpdatedAt = now
}

// HoldsPosition reports whether an equivalent position is already held.
func (m *Member) HoldsPosition(kind eligibility.PositionKind, title string, entity id.EntityID) bool {
	for _, p := range m.Positions {
		if p.Kind == kind && strings.EqualFold(p.Title, title) && p.EntityID == entity {
			return true
		}
	}
	return false
}

// Snapshot projects the member onto the eligibility view.
func (m *Member) Snapshot() eligibility.Snapshot {
	positions := make([]eligibility.Position, 0, len(m.Positions))
	for _, p := range m.Positions {
		positions = append(positions, eligibility.Position{
			Kind:     p.Kind,
			Title:    p.Title,
			Level:    p.Level,
			EntityID: p.EntityID,
		})
	}
	return eligibility.Snapshot{
		MemberID:         m.ID,
		Active:           m.IsActive(),
		Email:            m.Email,
		DateOfBirth:      m.DateOfBirth,
		ServiceJoinYear:  m.ServiceJoinYear,
		UnionJoinDate:    m.UnionJoinDate,
		StarGrade:        m.StarGrade,
		Designation:      m.Designation,
		IdentityVerified: m.IdentityVerified,
		TehsilID:         m.TehsilID,
		DistrictID:       m.DistrictID,
		Leadership:       positions,
	}
}
