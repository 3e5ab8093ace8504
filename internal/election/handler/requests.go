package handler

import (
	"encoding/base64"
	"strings"
	"time"

	"unionhub/internal/eligibility"
	"unionhub/internal/election/models"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
)

const (
	maxTitleLength     = 200
	maxStatementLength = 5000
	maxReasonLength    = 1000
)

// ElectionRequest is the body for creating and updating an election.
type ElectionRequest struct {
	Title             string                `json:"title"`
	Level             string                `json:"level"`
	EntityID          string                `json:"entity_id"`
	DistrictID        string                `json:"district_id,omitempty"`
	ElectionType      string                `json:"election_type"`
	NominationStart   time.Time             `json:"nomination_start"`
	NominationEnd     time.Time             `json:"nomination_end"`
	VotingStart       time.Time             `json:"voting_start"`
	VotingEnd         time.Time             `json:"voting_end"`
	VotingCriteria    *eligibility.Criteria `json:"voting_eligibility_criteria,omitempty"`
	CandidacyCriteria *eligibility.Criteria `json:"candidacy_eligibility_criteria,omitempty"`

	draft models.Draft
}

// Validate implements httputil.Validatable. Window ordering is checked by the
// domain model.
func (r *ElectionRequest) Validate() error {
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
	electionType := models.Type(strings.TrimSpace(r.ElectionType))
	if electionType == "" {
		electionType = models.TypeGeneral
	}
	for _, t := range []time.Time{r.NominationStart, r.NominationEnd, r.VotingStart, r.VotingEnd} {
		if t.IsZero() {
			return dErrors.New(dErrors.CodeValidation, "nomination and voting windows are required")
		}
	}
	r.draft = models.Draft{
		Title:             r.Title,
		Level:             level,
		EntityID:          entityID,
		DistrictID:        districtID,
		Type:              electionType,
		Nomination:        models.Window{Start: r.NominationStart.UTC(), End: r.NominationEnd.UTC()},
		Voting:            models.Window{Start: r.VotingStart.UTC(), End: r.VotingEnd.UTC()},
		VotingCriteria:    r.VotingCriteria,
		CandidacyCriteria: r.CandidacyCriteria,
	}
	return nil
}

func (r *ElectionRequest) Draft() models.Draft { return r.draft }

// CandidacyRequest is a member's own nomination.
type CandidacyRequest struct {
	PositionTitle string `json:"position_title"`
	Statement     string `json:"statement"`
}

func (r *CandidacyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.PositionTitle = strings.TrimSpace(r.PositionTitle)
	r.Statement = strings.TrimSpace(r.Statement)
	if r.PositionTitle == "" {
		return dErrors.New(dErrors.CodeValidation, "position_title is required")
	}
	if len(r.PositionTitle) > maxTitleLength {
		return dErrors.New(dErrors.CodeValidation, "position_title must be at most 200 characters")
	}
	if len(r.Statement) > maxStatementLength {
		return dErrors.New(dErrors.CodeValidation, "statement must be at most 5000 characters")
	}
	return nil
}

// ReasonRequest carries the reason for a rejection.
type ReasonRequest struct {
	Reason string `json:"reason"`
}

func (r *ReasonRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		return dErrors.New(dErrors.CodeValidation, "reason is required")
	}
	if len(r.Reason) > maxReasonLength {
		return dErrors.New(dErrors.CodeValidation, "reason must be at most 1000 characters")
	}
	return nil
}

type VerifyOTPRequest struct {
	Code string `json:"code"`
}

func (r *VerifyOTPRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Code = strings.TrimSpace(r.Code)
	if r.Code == "" {
		return dErrors.New(dErrors.CodeValidation, "code is required")
	}
	return nil
}

// CastVoteRequest is the JSON form of a ballot. Photo is base64 encoded;
// clients that can upload files use the multipart form instead.
type CastVoteRequest struct {
	CandidateID string `json:"candidate_id"`
	Photo       string `json:"photo"`

	parsedCandidateID id.CandidateID
	photo             []byte
}

func (r *CastVoteRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	candidateID, err := id.ParseCandidateID(strings.TrimSpace(r.CandidateID))
	if err != nil {
		return err
	}
	r.parsedCandidateID = candidateID
	raw := strings.TrimSpace(r.Photo)
	if i := strings.Index(raw, ","); strings.HasPrefix(raw, "data:") && i > 0 {
		raw = raw[i+1:]
	}
	if raw == "" {
		return dErrors.New(dErrors.CodeValidation, "a photo capture is required")
	}
	photo, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "photo must be base64 encoded")
	}
	r.photo = photo
	return nil
}
