package service

import (
	"context"

	"unionhub/internal/access"
	"unionhub/internal/resolution/models"
	"unionhub/internal/resolution/store"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
	audit "unionhub/pkg/platform/audit"
	"unionhub/pkg/requestcontext"
)

func committeeScope(d models.CommitteeDraft) id.Scope {
	scope := id.Scope{Level: d.Level, EntityID: d.EntityID, DistrictID: d.DistrictID}
	if d.Level == id.LevelDistrict {
		scope.DistrictID = id.DistrictID(d.EntityID)
	}
	return scope
}

func (s *Service) CreateCommittee(ctx context.Context, actor access.ActingContext, d models.CommitteeDraft) (*models.Committee, error) {
	if err := d.Validate(); err != nil {
		return nil, toValidation(err)
	}
	if err := s.authz.Authorize(ctx, actor, access.PermCommitteeManage, committeeScope(d)); err != nil {
		return nil, err
	}
	c, err := models.NewCommittee(id.NewCommitteeID(), d, actor.MemberID, requestcontext.Now(ctx))
	if err != nil {
		return nil, toValidation(err)
	}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.CreateCommittee(txCtx, c); err != nil {
			return wrapStoreErr(err, "committee")
		}
		return s.emit(txCtx, audit.Event{
			Subject: "committee:" + c.ID.String(),
			Action:  string(audit.EventCommitteeCreated),
			ActorID: actor.ActorLabel(),
		}, "committee_id", c.ID, "level", c.Level, "entity_id", c.EntityID)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetCommittee returns the committee with its active roster.
func (s *Service) GetCommittee(ctx context.Context, committeeID id.CommitteeID) (*models.Committee, error) {
	c, err := s.committee(ctx, committeeID)
	if err != nil {
		return nil, err
	}
	members, err := s.store.ActiveMembers(ctx, committeeID)
	if err != nil {
		return nil, wrapStoreErr(err, "committee")
	}
	c.Members = members
	return c, nil
}

func (s *Service) ListCommittees(ctx context.Context, filter store.CommitteeFilter) ([]*models.Committee, error) {
	committees, err := s.store.ListCommittees(ctx, filter)
	if err != nil {
		return nil, wrapStoreErr(err, "committee")
	}
	return committees, nil
}

// AddCommitteeMember seats an active member. Bounds and the single-chair rule
// are checked against the locked roster.
func (s *Service) AddCommitteeMember(ctx context.Context, actor access.ActingContext, committeeID id.CommitteeID, memberID id.MemberID, role models.Role) (*models.CommitteeMember, error) {
	if !role.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "role must be chair, secretary or member")
	}
	c, err := s.committee(ctx, committeeID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, access.PermCommitteeManage, c.Scope()); err != nil {
		return nil, err
	}
	if s.directory != nil {
		snap, err := s.directory.Snapshot(ctx, memberID)
		if err != nil {
			return nil, err
		}
		if !snap.Active {
			return nil, dErrors.New(dErrors.CodeNotEligible, "only active members can sit on a committee")
		}
	}

	seat := &models.CommitteeMember{
		CommitteeID: committeeID,
		MemberID:    memberID,
		Role:        role,
		Active:      true,
		JoinedAt:    requestcontext.Now(ctx),
	}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.SeatMember(txCtx, seat, func(c *models.Committee, active []*models.CommitteeMember) error {
			return c.CanSeat(active, memberID, role)
		}); err != nil {
			return wrapStoreErr(err, "committee")
		}
		return s.emit(txCtx, audit.Event{
			MemberID: memberID,
			Subject:  "committee:" + committeeID.String(),
			Action:   string(audit.EventCommitteeMemberAdded),
			Decision: string(role),
			ActorID:  actor.ActorLabel(),
		}, "committee_id", committeeID, "member_id", memberID, "role", role)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncSeatChange("added")
	return seat, nil
}

func (s *Service) RemoveCommitteeMember(ctx context.Context, actor access.ActingContext, committeeID id.CommitteeID, memberID id.MemberID) error {
	c, err := s.committee(ctx, committeeID)
	if err != nil {
		return err
	}
	if err := s.authz.Authorize(ctx, actor, access.PermCommitteeManage, c.Scope()); err != nil {
		return err
	}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.UnseatMember(txCtx, committeeID, memberID, func(c *models.Committee, active []*models.CommitteeMember) error {
			return c.CanUnseat(active, memberID)
		}); err != nil {
			return wrapStoreErr(err, "committee member")
		}
		return s.emit(txCtx, audit.Event{
			MemberID: memberID,
			Subject:  "committee:" + committeeID.String(),
			Action:   string(audit.EventCommitteeMemberRemoved),
			ActorID:  actor.ActorLabel(),
		}, "committee_id", committeeID, "member_id", memberID)
	})
	if err != nil {
		return err
	}
	s.metrics.IncSeatChange("removed")
	return nil
}
