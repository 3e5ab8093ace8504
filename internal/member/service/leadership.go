package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"unionhub/internal/eligibility"
	"unionhub/internal/member/models"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
	audit "unionhub/pkg/platform/audit"
	"unionhub/pkg/requestcontext"
)

// positionKind maps an election win to the kind of position it confers.
// Presidents of tehsil and district elections become zonal and district
// presidents; every state-level office is a state portfolio.
func positionKind(level id.Level, title string) eligibility.PositionKind {
	president := strings.EqualFold(strings.TrimSpace(title), "president")
	switch {
	case level == id.LevelState:
		return eligibility.PositionStatePortfolio
	case president && level == id.LevelTehsil:
		return eligibility.PositionZonalPresident
	case president && level == id.LevelDistrict:
		return eligibility.PositionDistrictPresident
	}
	return eligibility.PositionOfficeBearer
}

// InstallLeadership records a certified winner's new position. Installing the
// same award twice is a no-op.
func (s *Service) InstallLeadership(ctx context.Context, award eligibility.Award) error {
	pos := models.Position{
		ID:         uuid.New(),
		Kind:       positionKind(award.Level, award.Title),
		Title:      strings.TrimSpace(award.Title),
		Level:      award.Level,
		EntityID:   award.EntityID,
		ElectionID: award.ElectionID,
		Since:      requestcontext.Now(ctx),
	}
	added, err := s.store.AddPosition(ctx, award.MemberID, pos)
	if err != nil {
		return wrapMemberErr(err)
	}
	if !added {
		return nil
	}
	if err := s.emit(ctx, audit.Event{
		MemberID: award.MemberID,
		Subject:  "election:" + award.ElectionID.String(),
		Action:   string(audit.EventLeadershipInstalled),
		Decision: string(pos.Kind),
		ActorID:  "system",
	}, "member_id", award.MemberID, "kind", pos.Kind, "title", pos.Title); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to audit leadership installation")
	}
	return nil
}
