package service

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"unionhub/internal/access"
	"unionhub/internal/election/models"
	"unionhub/internal/election/store"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
	audit "unionhub/pkg/platform/audit"
	"unionhub/pkg/requestcontext"
)

// PendingVotes lists ballots awaiting verification in submission order.
func (s *Service) PendingVotes(ctx context.Context, actor access.ActingContext, electionID id.ElectionID, page store.PendingPage) ([]*models.Vote, error) {
	e, err := s.election(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, access.PermVoteVerify, e.Scope()); err != nil {
		return nil, err
	}
	if page.Limit <= 0 || page.Limit > s.workflow.PendingPageSize {
		page.Limit = s.workflow.PendingPageSize
	}
	votes, err := s.store.ListPendingVotes(ctx, electionID, page)
	if err != nil {
		return nil, wrapStoreErr(err, "vote")
	}
	return votes, nil
}

// ApproveVote verifies a pending ballot and increments the chosen
// candidate's tally in the same transaction.
func (s *Service) ApproveVote(ctx context.Context, actor access.ActingContext, voteID id.VoteID) (*models.Vote, error) {
	return s.reviewVote(ctx, actor, voteID, audit.EventVoteVerified, "",
		func(v *models.Vote, now time.Time) error {
			v.Approve(actor.MemberID, now)
			return nil
		})
}

// RejectVote discards a pending ballot. The tally is untouched.
func (s *Service) RejectVote(ctx context.Context, actor access.ActingContext, voteID id.VoteID, reason string) (*models.Vote, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "a rejection reason is required")
	}
	return s.reviewVote(ctx, actor, voteID, audit.EventVoteRejected, reason,
		func(v *models.Vote, now time.Time) error {
			return v.Reject(actor.MemberID, reason, now)
		})
}

func (s *Service) reviewVote(
	ctx context.Context,
	actor access.ActingContext,
	voteID id.VoteID,
	event audit.AuditEvent,
	reason string,
	decide func(*models.Vote, time.Time) error,
) (updated *models.Vote, err error) {
	ctx, span := s.startSpan(ctx, "election.review_vote",
		attribute.String("vote_id", voteID.String()), attribute.String("event", string(event)))
	defer func() { endSpan(span, err) }()

	current, err := s.store.FindVote(ctx, voteID)
	if err != nil {
		return nil, wrapStoreErr(err, "vote")
	}
	e, err := s.election(ctx, current.ElectionID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, access.PermVoteVerify, e.Scope()); err != nil {
		return nil, err
	}
	if e.Status == models.StatusCompleted {
		return nil, dErrors.New(dErrors.CodeStateConflict, "results are already calculated")
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		now := requestcontext.Now(txCtx)
		var err error
		updated, err = s.store.ReviewVote(txCtx, voteID,
			func(v *models.Vote) error {
				if err := v.CanReview(); err != nil {
					return err
				}
				if !v.Intact() {
					return dErrors.New(dErrors.CodeInvariantViolation, "vote record failed its integrity check")
				}
				return nil
			},
			func(v *models.Vote) error { return decide(v, now) },
		)
		if err != nil {
			return wrapStoreErr(err, "vote")
		}
		return s.emit(txCtx, audit.Event{
			MemberID: updated.MemberID,
			Subject:  "election:" + e.ID.String(),
			Action:   string(event),
			Decision: string(updated.Status),
			Reason:   reason,
			ActorID:  actor.ActorLabel(),
		}, "election_id", e.ID, "vote_id", voteID)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncVoteReview(string(updated.Status))
	return updated, nil
}
