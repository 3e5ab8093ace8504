package models

import (
	"strings"
	"time"

	"unionhub/internal/eligibility"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
)

// Status is a stage of the election lifecycle.
type Status string

const (
	StatusDraft             Status = "draft"
	StatusNominationsOpen   Status = "nominations_open"
	StatusNominationsClosed Status = "nominations_closed"
	StatusVotingOpen        Status = "voting_open"
	StatusVotingClosed      Status = "voting_closed"
	StatusCompleted         Status = "completed"
)

var lifecycle = []Status{
	StatusDraft,
	StatusNominationsOpen,
	StatusNominationsClosed,
	StatusVotingOpen,
	StatusVotingClosed,
	StatusCompleted,
}

func (s Status) rank() int {
	for i, st := range lifecycle {
		if st == s {
			return i
		}
	}
	return -1
}

func (s Status) IsValid() bool { return s.rank() >= 0 }

// CanTransitionTo reports whether target is the single next stage.
func (s Status) CanTransitionTo(target Status) bool {
	r := s.rank()
	return r >= 0 && r+1 < len(lifecycle) && lifecycle[r+1] == target
}

func (s Status) IsTerminal() bool { return s == StatusCompleted }

// Action names the explicit transitions exposed to administrators.
type Action string

const (
	ActionOpenNominations  Action = "open-nominations"
	ActionCloseNominations Action = "close-nominations"
	ActionOpenVoting       Action = "open-voting"
	ActionCloseVoting      Action = "close-voting"
)

var actionTargets = map[Action]Status{
	ActionOpenNominations:  StatusNominationsOpen,
	ActionCloseNominations: StatusNominationsClosed,
	ActionOpenVoting:       StatusVotingOpen,
	ActionCloseVoting:      StatusVotingClosed,
}

// ParseAction maps an action name to the status it moves to.
func ParseAction(s string) (Status, error) {
	target, ok := actionTargets[Action(strings.ToLower(strings.TrimSpace(s)))]
	if !ok {
		return "", dErrors.New(dErrors.CodeValidation,
			"action must be one of open-nominations, close-nominations, open-voting, close-voting")
	}
	return target, nil
}

// Type distinguishes scheduled elections from by-elections.
type Type string

const (
	TypeGeneral    Type = "general"
	TypeByElection Type = "by_election"
)

func (t Type) IsValid() bool { return t == TypeGeneral || t == TypeByElection }

// Window is a half-open interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Election is the aggregate root of one election.
//
// Invariants:
//   - Nomination.Start < Nomination.End <= Voting.Start < Voting.End
//   - Status only advances one stage at a time along the lifecycle
type Election struct {
	ID                 id.ElectionID         `json:"id"`
	Title              string                `json:"title"`
	Level              id.Level              `json:"level"`
	EntityID           id.EntityID           `json:"entity_id"`
	DistrictID         id.DistrictID         `json:"district_id,omitempty"`
	Type               Type                  `json:"election_type"`
	Status             Status                `json:"status"`
	Nomination         Window                `json:"nomination_window"`
	Voting             Window                `json:"voting_window"`
	VotingCriteria     *eligibility.Criteria `json:"voting_eligibility_criteria,omitempty"`
	CandidacyCriteria  *eligibility.Criteria `json:"candidacy_eligibility_criteria,omitempty"`
	EligibleVoterCount int                   `json:"eligible_voter_count"`
	CreatedBy          id.MemberID           `json:"created_by"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// Draft carries the editable attributes of an election.
type Draft struct {
	Title             string
	Level             id.Level
	EntityID          id.EntityID
	DistrictID        id.DistrictID
	Type              Type
	Nomination        Window
	Voting            Window
	VotingCriteria    *eligibility.Criteria
	CandidacyCriteria *eligibility.Criteria
}

// Validate checks the draft against the window ordering and criteria bounds.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "election title cannot be empty")
	}
	if !d.Level.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "election level is invalid")
	}
	if d.EntityID.IsNil() {
		return dErrors.New(dErrors.CodeInvariantViolation, "election entity is required")
	}
	if d.Level == id.LevelTehsil && d.DistrictID.IsNil() {
		return dErrors.New(dErrors.CodeInvariantViolation, "tehsil elections require the parent district")
	}
	if !d.Type.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "election type is invalid")
	}
	if !d.Nomination.Start.Before(d.Nomination.End) {
		return dErrors.New(dErrors.CodeInvariantViolation, "nomination window must start before it ends")
	}
	if d.Voting.Start.Before(d.Nomination.End) {
		return dErrors.New(dErrors.CodeInvariantViolation, "voting must start after nominations end")
	}
	if !d.Voting.Start.Before(d.Voting.End) {
		return dErrors.New(dErrors.CodeInvariantViolation, "voting window must start before it ends")
	}
	if err := d.VotingCriteria.Validate(); err != nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "voting criteria: "+err.Error())
	}
	if err := d.CandidacyCriteria.Validate(); err != nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "candidacy criteria: "+err.Error())
	}
	return nil
}

func NewElection(electionID id.ElectionID, d Draft, createdBy id.MemberID, now time.Time) (*Election, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	e := &Election{
		ID:        electionID,
		Status:    StatusDraft,
		CreatedBy: createdBy,
		CreatedAt: now,
	}
	e.apply(d, now)
	return e, nil
}

func (e *Election) apply(d Draft, now time.Time) {
	e.Title = strings.TrimSpace(d.Title)
	e.Level = d.Level
	e.EntityID = d.EntityID
	e.DistrictID = d.DistrictID
	if d.Level == id.LevelDistrict {
		e.DistrictID = id.DistrictID(d.EntityID)
	}
	e.Type = d.Type
	e.Nomination = d.Nomination
	e.Voting = d.Voting
	e.VotingCriteria = normalizeCriteria(d.VotingCriteria)
	e.CandidacyCriteria = normalizeCriteria(d.CandidacyCriteria)
	e.UpdatedAt = now
}

func normalizeCriteria(c *eligibility.Criteria) *eligibility.Criteria {
	if c.IsEmpty() {
		return nil
	}
	return c
}

// Scope is the hierarchy scope the election belongs to.
func (e *Election) Scope() id.Scope {
	return id.Scope{Level: e.Level, EntityID: e.EntityID, DistrictID: e.DistrictID}
}

// CanEdit checks that the election is still in an editable stage.
func (e *Election) CanEdit() error {
	if e.Status != StatusDraft && e.Status != StatusNominationsOpen {
		return dErrors.New(dErrors.CodeInvariantViolation, "election can only be edited before nominations close")
	}
	return nil
}

// ApplyDraft replaces the editable attributes. The draft must already have
// passed Validate.
func (e *Election) ApplyDraft(d Draft, now time.Time) {
	e.apply(d, now)
}

// CanTransition checks an explicit transition. Opening voting additionally
// needs at least one approved candidate.
func (e *Election) CanTransition(target Status, approvedCandidates int) error {
	if !e.Status.CanTransitionTo(target) {
		return dErrors.New(dErrors.CodeInvariantViolation,
			"election cannot move from "+string(e.Status)+" to "+string(target))
	}
	if target == StatusVotingOpen && approvedCandidates == 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "voting requires at least one approved candidate")
	}
	return nil
}

func (e *Election) ApplyTransition(target Status, now time.Time) {
	e.Status = target
	e.UpdatedAt = now
}

// DueTransition returns the advisory time-based transition for now, if any.
// Only the nomination stages advance on time; everything else needs an
// explicit action.
func (e *Election) DueTransition(now time.Time) (Status, bool) {
	switch {
	case e.Status == StatusDraft && !now.Before(e.Nomination.Start):
		return StatusNominationsOpen, true
	case e.Status == StatusNominationsOpen && !now.Before(e.Nomination.End):
		return StatusNominationsClosed, true
	}
	return "", false
}

// AcceptsNominations reports whether a candidacy may be filed at now.
func (e *Election) AcceptsNominations(now time.Time) bool {
	return e.Status == StatusNominationsOpen && e.Nomination.Contains(now)
}

// AcceptsVotes reports whether a ballot may be cast at now.
func (e *Election) AcceptsVotes(now time.Time) bool {
	return e.Status == StatusVotingOpen && e.Voting.Contains(now)
}
