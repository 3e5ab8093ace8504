package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusVoting    Status = "voting"
	StatusPassed    Status = "passed"
	StatusRejected  Status = "rejected"
	StatusExecuted  Status = "executed"
	StatusCancelled Status = "cancelled"
)

type Type string

const (
	TypeDisciplinary   Type = "disciplinary"
	TypeAdministrative Type = "administrative"
	TypeFinancial      Type = "financial"
	TypePolicy         Type = "policy"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeDisciplinary, TypeAdministrative, TypeFinancial, TypePolicy:
		return true
	}
	return false
}

// Disciplinary categories. A disciplinary resolution always names its subject.
const (
	CategorySuspension    = "suspension"
	CategoryTermination   = "termination"
	CategoryReinstatement = "reinstatement"
)

func isDisciplinaryCategory(c string) bool {
	switch c {
	case CategorySuspension, CategoryTermination, CategoryReinstatement:
		return true
	}
	return false
}

type Resolution struct {
	ID              id.ResolutionID `json:"id"`
	CommitteeID     id.CommitteeID  `json:"committee_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	Type            Type            `json:"resolution_type"`
	Category        string          `json:"category"`
	SubjectMemberID id.MemberID     `json:"subject_member_id,omitempty"`
	Status          Status          `json:"status"`
	ProposedBy      id.MemberID     `json:"proposed_by"`
	VotesFor        int             `json:"votes_for"`
	VotesAgainst    int             `json:"votes_against"`
	VotesAbstain    int             `json:"votes_abstain"`
	QuorumRequired  int             `json:"quorum_required"`
	VotingOpenedAt  time.Time       `json:"voting_opened_at,omitempty"`
	VotingClosedAt  time.Time       `json:"voting_closed_at,omitempty"`
	ExecutedBy      id.MemberID     `json:"executed_by,omitempty"`
	ExecutedAt      time.Time       `json:"executed_at,omitempty"`
	ExecutionNotes  string          `json:"execution_notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Draft holds the proposer-supplied fields.
type Draft struct {
	Title           string
	Description     string
	Type            Type
	Category        string
	SubjectMemberID id.MemberID
}

func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "resolution title cannot be empty")
	}
	if !d.Type.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "resolution type is invalid")
	}
	category := strings.TrimSpace(d.Category)
	if category == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "resolution category is required")
	}
	if d.Type == TypeDisciplinary {
		if !isDisciplinaryCategory(category) {
			return dErrors.New(dErrors.CodeInvariantViolation, "disciplinary category must be suspension, termination or reinstatement")
		}
		if d.SubjectMemberID.IsNil() {
			return dErrors.New(dErrors.CodeInvariantViolation, "disciplinary resolutions must name the subject member")
		}
	}
	return nil
}

func NewResolution(resolutionID id.ResolutionID, committeeID id.CommitteeID, d Draft, proposer id.MemberID, now time.Time) (*Resolution, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	r := &Resolution{
		ID:          resolutionID,
		CommitteeID: committeeID,
		Status:      StatusDraft,
		ProposedBy:  proposer,
		CreatedAt:   now,
	}
	r.apply(d, now)
	return r, nil
}

func (r *Resolution) apply(d Draft, now time.Time) {
	r.Title = strings.TrimSpace(d.Title)
	r.Description = strings.TrimSpace(d.Description)
	r.Type = d.Type
	r.Category = strings.TrimSpace(d.Category)
	r.SubjectMemberID = d.SubjectMemberID
	r.UpdatedAt = now
}

func (r *Resolution) requireStatus(want Status, action string) error {
	if r.Status != want {
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("cannot %s a %s resolution", action, r.Status))
	}
	return nil
}

func (r *Resolution) CanEdit() error { return r.requireStatus(StatusDraft, "edit") }

// ApplyDraft replaces the proposal text. Callers validate d first.
func (r *Resolution) ApplyDraft(d Draft, now time.Time) { r.apply(d, now) }

func (r *Resolution) CanOpenVoting() error { return r.requireStatus(StatusDraft, "open voting on") }

func (r *Resolution) OpenVoting(now time.Time) {
	r.Status = StatusVoting
	r.VotingOpenedAt = now
	r.UpdatedAt = now
}

func (r *Resolution) CanAcceptVote() error { return r.requireStatus(StatusVoting, "vote on") }

// Record adds one ballot to the running tally. An unknown choice leaves the
// tally untouched.
func (r *Resolution) Record(c Choice) error {
	switch c {
	case ChoiceFor:
		r.VotesFor++
	case ChoiceAgainst:
		r.VotesAgainst++
	case ChoiceAbstain:
		r.VotesAbstain++
	default:
		return dErrors.New(dErrors.CodeValidation, "vote must be for, against or abstain")
	}
	return nil
}

func (r *Resolution) VotesReceived() int { return r.VotesFor + r.VotesAgainst + r.VotesAbstain }

// PercentageFor is votes_for over all ballots including abstentions, rounded
// to two decimals.
func (r *Resolution) PercentageFor() float64 {
	total := r.VotesReceived()
	if total == 0 {
		return 0
	}
	return math.Round(float64(r.VotesFor)/float64(total)*100*100) / 100
}

// Close decides the outcome. When quorum is not met it returns
// CodeQuorumNotMet and leaves the resolution untouched.
func (r *Resolution) Close(c *Committee, activeCount int, now time.Time) error {
	if err := r.requireStatus(StatusVoting, "close voting on"); err != nil {
		return err
	}
	required := c.QuorumRequired(activeCount)
	if received := r.VotesReceived(); received < required {
		return dErrors.New(dErrors.CodeQuorumNotMet,
			fmt.Sprintf("quorum not met: %d of %d required votes received", received, required))
	}
	r.QuorumRequired = required
	r.Status = StatusRejected
	if r.VotesReceived() > 0 && r.PercentageFor() >= float64(c.VotingThreshold) {
		r.Status = StatusPassed
	}
	r.VotingClosedAt = now
	r.UpdatedAt = now
	return nil
}

// CanExecute allows a single execution of a passed resolution.
func (r *Resolution) CanExecute() error {
	if r.Status == StatusExecuted {
		return dErrors.New(dErrors.CodeInvariantViolation, "resolution has already been executed")
	}
	return r.requireStatus(StatusPassed, "execute")
}

func (r *Resolution) Execute(executor id.MemberID, notes string, now time.Time) {
	r.Status = StatusExecuted
	r.ExecutedBy = executor
	r.ExecutionNotes = strings.TrimSpace(notes)
	r.ExecutedAt = now
	r.UpdatedAt = now
}

func (r *Resolution) CanCancel() error {
	if r.Status != StatusDraft && r.Status != StatusVoting {
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("cannot cancel a %s resolution", r.Status))
	}
	return nil
}

func (r *Resolution) Cancel(now time.Time) {
	r.Status = StatusCancelled
	r.UpdatedAt = now
}

func (r *Resolution) CanDelete() error { return r.requireStatus(StatusDraft, "delete") }

// Authorizes reports whether r permits the declared action against subject.
// It does not look at status; see CanExecute.
func (r *Resolution) Authorizes(expectedType, expectedCategory string, subject id.MemberID) error {
	if string(r.Type) != expectedType || r.Category != expectedCategory {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("resolution is a %s/%s resolution, not %s/%s", r.Type, r.Category, expectedType, expectedCategory))
	}
	if !subject.IsNil() && r.SubjectMemberID != subject {
		return dErrors.New(dErrors.CodeValidation, "resolution concerns a different member")
	}
	return nil
}
