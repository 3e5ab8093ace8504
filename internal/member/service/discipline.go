package service

import (
	"context"
	"strings"

	"unionhub/internal/access"
	"unionhub/internal/member/models"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
	audit "unionhub/pkg/platform/audit"
	"unionhub/pkg/requestcontext"
)

const (
	resolutionTypeDisciplinary = "disciplinary"

	CategorySuspension    = "suspension"
	CategoryTermination   = "termination"
	CategoryReinstatement = "reinstatement"
)

// DisciplinaryRequest names the resolution authorizing the action.
type DisciplinaryRequest struct {
	ResolutionID id.ResolutionID
	Notes        string
}

func (s *Service) Suspend(ctx context.Context, actor access.ActingContext, memberID id.MemberID, req DisciplinaryRequest) (*models.Member, error) {
	return s.applyDisciplinary(ctx, actor, memberID, req, CategorySuspension, models.StatusSuspended)
}

func (s *Service) Terminate(ctx context.Context, actor access.ActingContext, memberID id.MemberID, req DisciplinaryRequest) (*models.Member, error) {
	return s.applyDisciplinary(ctx, actor, memberID, req, CategoryTermination, models.StatusTerminated)
}

func (s *Service) Reinstate(ctx context.Context, actor access.ActingContext, memberID id.MemberID, req DisciplinaryRequest) (*models.Member, error) {
	return s.applyDisciplinary(ctx, actor, memberID, req, CategoryReinstatement, models.StatusActive)
}

// applyDisciplinary validates the resolution, changes the member's status and
// consumes the resolution in one transaction.
func (s *Service) applyDisciplinary(
	ctx context.Context,
	actor access.ActingContext,
	memberID id.MemberID,
	req DisciplinaryRequest,
	category string,
	target models.Status,
) (*models.Member, error) {
	if s.gate == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "resolution gate not configured")
	}
	if req.ResolutionID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "resolution_id is required")
	}
	current, err := s.Get(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, access.PermMemberDiscipline, current.Scope()); err != nil {
		return nil, err
	}

	var updated *models.Member
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.gate.ValidateForExecution(txCtx, req.ResolutionID, resolutionTypeDisciplinary, category, memberID); err != nil {
			return err
		}
		now := requestcontext.Now(txCtx)
		m, err := s.store.Execute(txCtx, memberID,
			func(m *models.Member) error { return m.CanChangeStatus(target) },
			func(m *models.Member) { m.ApplyStatus(target, now) },
		)
		if err != nil {
			return wrapMemberErr(err)
		}
		notes := strings.TrimSpace(req.Notes)
		if notes == "" {
			notes = category + " of member " + memberID.String()
		}
		if err := s.gate.Execute(txCtx, actor, req.ResolutionID, notes); err != nil {
			return err
		}
		if err := s.emit(txCtx, audit.Event{
			MemberID: memberID,
			Subject:  "resolution:" + req.ResolutionID.String(),
			Action:   string(audit.EventMemberStatusChanged),
			Decision: string(target),
			Reason:   category,
			ActorID:  actor.ActorLabel(),
		}, "member_id", memberID, "status", target, "resolution_id", req.ResolutionID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to audit status change")
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
