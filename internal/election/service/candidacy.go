package service

import (
	"context"
	"strings"
	"time"

	"unionhub/internal/access"
	"unionhub/internal/eligibility"
	"unionhub/internal/election/models"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
	audit "unionhub/pkg/platform/audit"
	"unionhub/pkg/requestcontext"
)

// Nomination is a member's own candidacy filing.
type Nomination struct {
	PositionTitle string
	Statement     string
}

// SubmitCandidacy files the acting member as a candidate. The election must
// be accepting nominations and the member must pass the candidacy rules.
func (s *Service) SubmitCandidacy(ctx context.Context, actor access.ActingContext, electionID id.ElectionID, n Nomination) (*models.Candidate, error) {
	if actor.IsAnonymous() || actor.IsSystem() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "a member identity is required")
	}
	if strings.TrimSpace(n.PositionTitle) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "position_title is required")
	}
	e, err := s.election(ctx, electionID)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	if !e.AcceptsNominations(now) {
		return nil, dErrors.New(dErrors.CodeStateConflict, "nominations are not open")
	}

	snapshot, err := s.directory.Snapshot(ctx, actor.MemberID)
	if err != nil {
		return nil, err
	}
	verdict := eligibility.CandidacyFor(e.CandidacyCriteria).Check(snapshot, e.Scope(), now)
	if !verdict.Eligible {
		return nil, dErrors.New(dErrors.CodeNotEligible, "not eligible to stand: "+strings.Join(verdict.Reasons, "; "))
	}

	c, err := models.NewCandidate(id.NewCandidateID(), e.ID, actor.MemberID, n.PositionTitle, n.Statement, now)
	if err != nil {
		return nil, toValidation(err)
	}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.CreateCandidate(txCtx, c); err != nil {
			return wrapStoreErr(err, "candidacy")
		}
		return s.emit(txCtx, audit.Event{
			MemberID: actor.MemberID,
			Subject:  "election:" + e.ID.String(),
			Action:   string(audit.EventCandidacySubmitted),
			ActorID:  actor.ActorLabel(),
		}, "election_id", e.ID, "candidate_id", c.ID, "position", c.PositionTitle)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ListCandidates(ctx context.Context, electionID id.ElectionID, status models.CandidateStatus) ([]*models.Candidate, error) {
	if _, err := s.election(ctx, electionID); err != nil {
		return nil, err
	}
	candidates, err := s.store.ListCandidates(ctx, electionID, status)
	if err != nil {
		return nil, wrapStoreErr(err, "candidate")
	}
	return candidates, nil
}

func (s *Service) ApproveCandidate(ctx context.Context, actor access.ActingContext, candidateID id.CandidateID) (*models.Candidate, error) {
	return s.reviewCandidate(ctx, actor, candidateID, audit.EventCandidacyApproved, "",
		func(c *models.Candidate, now time.Time) error {
			c.Approve(actor.MemberID, now)
			return nil
		})
}

func (s *Service) RejectCandidate(ctx context.Context, actor access.ActingContext, candidateID id.CandidateID, reason string) (*models.Candidate, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "a rejection reason is required")
	}
	return s.reviewCandidate(ctx, actor, candidateID, audit.EventCandidacyRejected, reason,
		func(c *models.Candidate, now time.Time) error {
			return c.Reject(actor.MemberID, reason, now)
		})
}

func (s *Service) reviewCandidate(
	ctx context.Context,
	actor access.ActingContext,
	candidateID id.CandidateID,
	event audit.AuditEvent,
	reason string,
	decide func(*models.Candidate, time.Time) error,
) (*models.Candidate, error) {
	current, err := s.store.FindCandidate(ctx, candidateID)
	if err != nil {
		return nil, wrapStoreErr(err, "candidate")
	}
	e, err := s.election(ctx, current.ElectionID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, access.PermCandidacyReview, e.Scope()); err != nil {
		return nil, err
	}

	var updated *models.Candidate
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		now := requestcontext.Now(txCtx)
		updated, err = s.store.ExecuteCandidate(txCtx, candidateID,
			func(c *models.Candidate) error { return c.CanReview() },
			func(c *models.Candidate) error { return decide(c, now) },
		)
		if err != nil {
			return wrapStoreErr(err, "candidate")
		}
		return s.emit(txCtx, audit.Event{
			MemberID: updated.MemberID,
			Subject:  "election:" + e.ID.String(),
			Action:   string(event),
			Decision: string(updated.Status),
			Reason:   reason,
			ActorID:  actor.ActorLabel(),
		}, "election_id", e.ID, "candidate_id", candidateID)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// WithdrawCandidate lets the nominee pull a pending candidacy.
func (s *Service) WithdrawCandidate(ctx context.Context, actor access.ActingContext, candidateID id.CandidateID) (*models.Candidate, error) {
	if actor.IsAnonymous() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "a member identity is required")
	}
	var updated *models.Candidate
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		now := requestcontext.Now(txCtx)
		var err error
		updated, err = s.store.ExecuteCandidate(txCtx, candidateID,
			func(c *models.Candidate) error { return c.CanWithdraw(actor.MemberID) },
			func(c *models.Candidate) error {
				c.Withdraw(now)
				return nil
			},
		)
		if err != nil {
			return wrapStoreErr(err, "candidate")
		}
		return s.emit(txCtx, audit.Event{
			MemberID: actor.MemberID,
			Subject:  "election:" + updated.ElectionID.String(),
			Action:   string(audit.EventCandidacyWithdrawn),
			ActorID:  actor.ActorLabel(),
		}, "election_id", updated.ElectionID, "candidate_id", candidateID)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
