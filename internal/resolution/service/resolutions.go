package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"unionhub/internal/access"
	"unionhub/internal/resolution/models"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
	audit "unionhub/pkg/platform/audit"
	"unionhub/pkg/requestcontext"
)

// steer allows the proposer, the sitting chair, or a holder of the
// resolution override to drive a resolution through its lifecycle.
func (s *Service) steer(ctx context.Context, actor access.ActingContext, r *models.Resolution, action string) (*models.Committee, error) {
	if err := requireMember(actor); err != nil {
		return nil, err
	}
	c, err := s.committee(ctx, r.CommitteeID)
	if err != nil {
		return nil, err
	}
	if actor.MemberID == r.ProposedBy {
		return c, nil
	}
	active, err := s.store.ActiveMembers(ctx, c.ID)
	if err != nil {
		return nil, wrapStoreErr(err, "committee")
	}
	if seat, ok := models.Seat(active, actor.MemberID); ok && seat.Role == models.RoleChair {
		return c, nil
	}
	if s.authz.Authorize(ctx, actor, access.PermResolutionOverride, c.Scope()) == nil {
		return c, nil
	}
	return nil, dErrors.New(dErrors.CodeForbidden, "only the proposer or the committee chair may "+action+" this resolution")
}

// CreateResolution files a draft. The proposer must sit on the committee or
// manage committees in its scope.
func (s *Service) CreateResolution(ctx context.Context, actor access.ActingContext, committeeID id.CommitteeID, d models.Draft) (*models.Resolution, error) {
	if err := requireMember(actor); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, toValidation(err)
	}
	c, err := s.committee(ctx, committeeID)
	if err != nil {
		return nil, err
	}
	active, err := s.store.ActiveMembers(ctx, committeeID)
	if err != nil {
		return nil, wrapStoreErr(err, "committee")
	}
	if _, seated := models.Seat(active, actor.MemberID); !seated {
		if err := s.authz.Authorize(ctx, actor, access.PermCommitteeManage, c.Scope()); err != nil {
			return nil, dErrors.New(dErrors.CodeForbidden, "only committee members may propose resolutions")
		}
	}
	r, err := models.NewResolution(id.NewResolutionID(), committeeID, d, actor.MemberID, requestcontext.Now(ctx))
	if err != nil {
		return nil, toValidation(err)
	}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.CreateResolution(txCtx, r); err != nil {
			return wrapStoreErr(err, "resolution")
		}
		return s.emit(txCtx, audit.Event{
			MemberID: r.SubjectMemberID,
			Subject:  "resolution:" + r.ID.String(),
			Action:   string(audit.EventResolutionCreated),
			Decision: string(r.Type),
			Reason:   r.Category,
			ActorID:  actor.ActorLabel(),
		}, "resolution_id", r.ID, "committee_id", committeeID, "type", r.Type, "category", r.Category)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) GetResolution(ctx context.Context, resolutionID id.ResolutionID) (*models.Resolution, error) {
	return s.resolution(ctx, resolutionID)
}

func (s *Service) ListResolutions(ctx context.Context, committeeID id.CommitteeID) ([]*models.Resolution, error) {
	if _, err := s.committee(ctx, committeeID); err != nil {
		return nil, err
	}
	out, err := s.store.ListResolutions(ctx, committeeID)
	if err != nil {
		return nil, wrapStoreErr(err, "resolution")
	}
	return out, nil
}

func (s *Service) ListVotes(ctx context.Context, resolutionID id.ResolutionID) ([]*models.Vote, error) {
	if _, err := s.resolution(ctx, resolutionID); err != nil {
		return nil, err
	}
	votes, err := s.store.ListVotes(ctx, resolutionID)
	if err != nil {
		return nil, wrapStoreErr(err, "resolution")
	}
	return votes, nil
}

func (s *Service) UpdateResolution(ctx context.Context, actor access.ActingContext, resolutionID id.ResolutionID, d models.Draft) (*models.Resolution, error) {
	if err := d.Validate(); err != nil {
		return nil, toValidation(err)
	}
	current, err := s.resolution(ctx, resolutionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.steer(ctx, actor, current, "edit"); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	var updated *models.Resolution
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		r, err := s.store.ExecuteResolution(txCtx, resolutionID,
			func(r *models.Resolution) error { return r.CanEdit() },
			func(r *models.Resolution) error {
				r.ApplyDraft(d, now)
				return nil
			})
		if err != nil {
			return wrapStoreErr(err, "resolution")
		}
		updated = r
		return s.emit(txCtx, audit.Event{
			Subject: "resolution:" + r.ID.String(),
			Action:  string(audit.EventResolutionUpdated),
			ActorID: actor.ActorLabel(),
		}, "resolution_id", r.ID)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteResolution removes a draft. It is refused, not cascaded, once votes
// exist.
func (s *Service) DeleteResolution(ctx context.Context, actor access.ActingContext, resolutionID id.ResolutionID) error {
	r, err := s.resolution(ctx, resolutionID)
	if err != nil {
		return err
	}
	if _, err := s.steer(ctx, actor, r, "delete"); err != nil {
		return err
	}
	if err := r.CanDelete(); err != nil {
		return wrapStoreErr(err, "resolution")
	}
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.DeleteResolution(txCtx, resolutionID); err != nil {
			if isInvalidState(err) {
				return dErrors.New(dErrors.CodeStateConflict, "resolution has votes and cannot be deleted")
			}
			return wrapStoreErr(err, "resolution")
		}
		return s.emit(txCtx, audit.Event{
			Subject: "resolution:" + resolutionID.String(),
			Action:  string(audit.EventResolutionDeleted),
			ActorID: actor.ActorLabel(),
		}, "resolution_id", resolutionID)
	})
}

// OpenVoting moves a draft to voting. The committee must be at least its
// minimum size.
func (s *Service) OpenVoting(ctx context.Context, actor access.ActingContext, resolutionID id.ResolutionID) (*models.Resolution, error) {
	current, err := s.resolution(ctx, resolutionID)
	if err != nil {
		return nil, err
	}
	c, err := s.steer(ctx, actor, current, "open voting on")
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	var opened *models.Resolution
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		active, err := s.store.ActiveMembers(txCtx, c.ID)
		if err != nil {
			return wrapStoreErr(err, "committee")
		}
		r, err := s.store.ExecuteResolution(txCtx, resolutionID,
			func(r *models.Resolution) error {
				if err := r.CanOpenVoting(); err != nil {
					return err
				}
				return c.CanDecide(len(active))
			},
			func(r *models.Resolution) error {
				r.OpenVoting(now)
				return nil
			})
		if err != nil {
			return wrapStoreErr(err, "resolution")
		}
		opened = r
		return s.emit(txCtx, audit.Event{
			Subject: "resolution:" + r.ID.String(),
			Action:  string(audit.EventResolutionVotingOpened),
			ActorID: actor.ActorLabel(),
		}, "resolution_id", r.ID, "active_members", len(active))
	})
	if err != nil {
		return nil, err
	}
	return opened, nil
}

// CastVote records one active committee member's ballot and updates the
// tally in the same step.
func (s *Service) CastVote(ctx context.Context, actor access.ActingContext, resolutionID id.ResolutionID, choice models.Choice) (*models.Resolution, error) {
	if err := requireMember(actor); err != nil {
		return nil, err
	}
	if !choice.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "vote must be for, against or abstain")
	}
	current, err := s.resolution(ctx, resolutionID)
	if err != nil {
		return nil, err
	}
	vote := models.NewVote(id.NewResolutionVoteID(), resolutionID, actor.MemberID, choice, requestcontext.Now(ctx))
	var tallied *models.Resolution
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		active, err := s.store.ActiveMembers(txCtx, current.CommitteeID)
		if err != nil {
			return wrapStoreErr(err, "committee")
		}
		if _, seated := models.Seat(active, actor.MemberID); !seated {
			return dErrors.New(dErrors.CodeNotEligible, "only active committee members may vote")
		}
		r, err := s.store.CastVote(txCtx, vote, func(r *models.Resolution) error { return r.CanAcceptVote() })
		if err != nil {
			if isAlreadyUsed(err) {
				return dErrors.New(dErrors.CodeDuplicate, "member has already voted on this resolution")
			}
			return wrapStoreErr(err, "resolution")
		}
		tallied = r
		return s.emit(txCtx, audit.Event{
			MemberID: actor.MemberID,
			Subject:  "resolution:" + r.ID.String(),
			Action:   string(audit.EventResolutionVoteCast),
			Decision: string(choice),
			ActorID:  actor.ActorLabel(),
		}, "resolution_id", r.ID, "vote_id", vote.ID)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncVoteCast(string(choice))
	return tallied, nil
}

// CloseVoting applies the quorum and threshold. Without quorum it fails with
// CodeQuorumNotMet and the resolution stays in voting.
func (s *Service) CloseVoting(ctx context.Context, actor access.ActingContext, resolutionID id.ResolutionID) (_ *models.Resolution, err error) {
	ctx, span := s.startSpan(ctx, "resolution.close_voting", attribute.String("resolution_id", resolutionID.String()))
	defer func() { endSpan(span, err) }()

	current, err := s.resolution(ctx, resolutionID)
	if err != nil {
		return nil, err
	}
	c, err := s.steer(ctx, actor, current, "close voting on")
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	var closed *models.Resolution
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		active, err := s.store.ActiveMembers(txCtx, c.ID)
		if err != nil {
			return wrapStoreErr(err, "committee")
		}
		r, err := s.store.ExecuteResolution(txCtx, resolutionID,
			func(r *models.Resolution) error { return r.CanAcceptVote() },
			func(r *models.Resolution) error { return r.Close(c, len(active), now) })
		if err != nil {
			return wrapStoreErr(err, "resolution")
		}
		closed = r
		return s.emit(txCtx, audit.Event{
			MemberID: r.SubjectMemberID,
			Subject:  "resolution:" + r.ID.String(),
			Action:   string(audit.EventResolutionClosed),
			Decision: string(r.Status),
			Reason:   fmt.Sprintf("%.2f%% for, threshold %d%%", r.PercentageFor(), c.VotingThreshold),
			ActorID:  actor.ActorLabel(),
		}, "resolution_id", r.ID, "status", r.Status, "votes_for", r.VotesFor,
			"votes_against", r.VotesAgainst, "votes_abstain", r.VotesAbstain, "quorum_required", r.QuorumRequired)
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeQuorumNotMet) {
			s.metrics.IncClosure("quorum_not_met")
		}
		return nil, err
	}
	span.SetAttributes(attribute.String("status", string(closed.Status)))
	s.metrics.IncClosure(string(closed.Status))
	return closed, nil
}

// Cancel withdraws a draft or a resolution still in voting.
func (s *Service) Cancel(ctx context.Context, actor access.ActingContext, resolutionID id.ResolutionID) (*models.Resolution, error) {
	current, err := s.resolution(ctx, resolutionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.steer(ctx, actor, current, "cancel"); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	var cancelled *models.Resolution
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		r, err := s.store.ExecuteResolution(txCtx, resolutionID,
			func(r *models.Resolution) error { return r.CanCancel() },
			func(r *models.Resolution) error {
				r.Cancel(now)
				return nil
			})
		if err != nil {
			return wrapStoreErr(err, "resolution")
		}
		cancelled = r
		return s.emit(txCtx, audit.Event{
			Subject: "resolution:" + r.ID.String(),
			Action:  string(audit.EventResolutionCancelled),
			ActorID: actor.ActorLabel(),
		}, "resolution_id", r.ID)
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// Execute stamps a passed resolution as acted upon. Disciplinary resolutions
// are executed through the member service instead, which changes the
// member's standing in the same transaction.
func (s *Service) Execute(ctx context.Context, actor access.ActingContext, resolutionID id.ResolutionID, notes string) (*models.Resolution, error) {
	current, err := s.resolution(ctx, resolutionID)
	if err != nil {
		return nil, err
	}
	if current.Type == models.TypeDisciplinary {
		return nil, dErrors.New(dErrors.CodeStateConflict, "disciplinary resolutions are executed by the member action they authorize")
	}
	if _, err := s.steer(ctx, actor, current, "execute"); err != nil {
		return nil, err
	}
	return s.execute(ctx, actor, resolutionID, notes)
}

func (s *Service) execute(ctx context.Context, actor access.ActingContext, resolutionID id.ResolutionID, notes string) (_ *models.Resolution, err error) {
	ctx, span := s.startSpan(ctx, "resolution.execute", attribute.String("resolution_id", resolutionID.String()))
	defer func() { endSpan(span, err) }()

	now := requestcontext.Now(ctx)
	var executed *models.Resolution
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checkAppeal(txCtx, resolutionID); err != nil {
			return err
		}
		r, err := s.store.ExecuteResolution(txCtx, resolutionID,
			func(r *models.Resolution) error { return r.CanExecute() },
			func(r *models.Resolution) error {
				r.Execute(actor.MemberID, notes, now)
				return nil
			})
		if err != nil {
			return wrapStoreErr(err, "resolution")
		}
		executed = r
		return s.emit(txCtx, audit.Event{
			MemberID: r.SubjectMemberID,
			Subject:  "resolution:" + r.ID.String(),
			Action:   string(audit.EventResolutionExecuted),
			Decision: string(r.Type),
			Reason:   r.Category,
			ActorID:  actor.ActorLabel(),
		}, "resolution_id", r.ID, "type", r.Type, "category", r.Category)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncExecution(string(executed.Type), executed.Category)
	return executed, nil
}

func (s *Service) checkAppeal(ctx context.Context, resolutionID id.ResolutionID) error {
	if s.appeals == nil {
		return nil
	}
	frozen, err := s.appeals.HasActiveAppeal(ctx, resolutionID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check appeals")
	}
	if frozen {
		return dErrors.New(dErrors.CodeStateConflict, "resolution is frozen by an active appeal")
	}
	return nil
}
