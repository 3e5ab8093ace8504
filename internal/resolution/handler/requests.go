package handler

import (
	"strings"

	"unionhub/internal/resolution/models"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 10000
	maxNotesLength       = 2000
)

type CommitteeRequest struct {
	Name             string `json:"name"`
	Level            string `json:"level"`
	EntityID         string `json:"entity_id"`
	DistrictID       string `json:"district_id,omitempty"`
	QuorumPercentage int    `json:"quorum_percentage"`
	VotingThreshold  int    `json:"voting_threshold"`
	MinMembers       int    `json:"min_members"`
	MaxMembers       int    `json:"max_members"`

	draft models.CommitteeDraft
}

// Validate parses identifiers; numeric bounds are checked by the domain model.
func (r *CommitteeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	level, err := id.ParseLevel(r.Level)
	if err != nil {
		return err
	}
	entityID, err := id.ParseEntityID(r.EntityID)
	if err != nil {
		return err
	}
	var districtID id.DistrictID
	if strings.TrimSpace(r.DistrictID) != "" {
		if districtID, err = id.ParseDistrictID(r.DistrictID); err != nil {
			return err
		}
	}
	r.draft = models.CommitteeDraft{
		Name:             r.Name,
		Level:            level,
		EntityID:         entityID,
		DistrictID:       districtID,
		QuorumPercentage: r.QuorumPercentage,
		VotingThreshold:  r.VotingThreshold,
		MinMembers:       r.MinMembers,
		MaxMembers:       r.MaxMembers,
	}
	return nil
}

func (r *CommitteeRequest) Draft() models.CommitteeDraft { return r.draft }

type SeatRequest struct {
	MemberID string `json:"member_id"`
	Role     string `json:"role"`

	memberID id.MemberID
}

func (r *SeatRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	memberID, err := id.ParseMemberID(r.MemberID)
	if err != nil {
		return err
	}
	r.memberID = memberID
	r.Role = strings.TrimSpace(r.Role)
	if r.Role == "" {
		r.Role = string(models.RoleMember)
	}
	if !models.Role(r.Role).IsValid() {
		return dErrors.New(dErrors.CodeValidation, "role must be chair, secretary or member")
	}
	return nil
}

// ResolutionRequest is the body for proposing and editing a resolution.
type ResolutionRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	ResolutionType  string `json:"resolution_type"`
	Category        string `json:"category"`
	SubjectMemberID string `json:"subject_member_id,omitempty"`

	draft models.Draft
}

func (r *ResolutionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if len(r.Title) > maxTitleLength {
		return dErrors.New(dErrors.CodeValidation, "title must be at most 200 characters")
	}
	if len(r.Description) > maxDescriptionLength {
		return dErrors.New(dErrors.CodeValidation, "description is too long")
	}
	var subject id.MemberID
	if strings.TrimSpace(r.SubjectMemberID) != "" {
		var err error
		if subject, err = id.ParseMemberID(r.SubjectMemberID); err != nil {
			return err
		}
	}
	r.draft = models.Draft{
		Title:           r.Title,
		Description:     strings.TrimSpace(r.Description),
		Type:            models.Type(strings.TrimSpace(r.ResolutionType)),
		Category:        r.Category,
		SubjectMemberID: subject,
	}
	return nil
}

func (r *ResolutionRequest) Draft() models.Draft { return r.draft }

type VoteRequest struct {
	Vote string `json:"vote"`

	choice models.Choice
}

func (r *VoteRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	choice, err := models.ParseChoice(r.Vote)
	if err != nil {
		return err
	}
	r.choice = choice
	return nil
}

type ExecuteRequest struct {
	Notes string `json:"execution_notes,omitempty"`
}

func (r *ExecuteRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Notes) > maxNotesLength {
		return dErrors.New(dErrors.CodeValidation, "execution notes are too long")
	}
	return nil
}
