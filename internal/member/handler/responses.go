package handler

import (
	"time"

	"unionhub/internal/member/models"
)

// MemberResponse is the public view of a member after a status change.
type MemberResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Status    string            `json:"status"`
	Positions []models.Position `json:"positions"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func toMemberResponse(m *models.Member) MemberResponse {
	positions := m.Positions
	if positions == nil {
		positions = []models.Position{}
	}
	return MemberResponse{
		ID:        m.ID.String(),
		Name:      m.Name,
		Status:    string(m.Status),
		Positions: positions,
		UpdatedAt: m.UpdatedAt,
	}
}
