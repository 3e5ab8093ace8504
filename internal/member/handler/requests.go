package handler

import (
	"strings"

	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
)

// DisciplinaryRequest is the body for the suspend, terminate and reinstate endpoints.
type DisciplinaryRequest struct {
	ResolutionID string `json:"resolution_id"`
	Notes        string `json:"notes"`

	parsedResolutionID id.ResolutionID
}

// Validate implements httputil.Validatable.
func (r *DisciplinaryRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Notes) > 2000 {
		return dErrors.New(dErrors.CodeValidation, "notes must be at most 2000 characters")
	}
	r.ResolutionID = strings.TrimSpace(r.ResolutionID)
	if r.ResolutionID == "" {
		return dErrors.New(dErrors.CodeValidation, "resolution_id is required")
	}
	resolutionID, err := id.ParseResolutionID(r.ResolutionID)
	if err != nil {
		return err
	}
	r.parsedResolutionID = resolutionID
	r.Notes = strings.TrimSpace(r.Notes)
	return nil
}

func (r *DisciplinaryRequest) ParsedResolutionID() id.ResolutionID {
	return r.parsedResolutionID
}
