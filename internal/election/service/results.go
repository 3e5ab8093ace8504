package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"unionhub/internal/access"
	"unionhub/internal/eligibility"
	"unionhub/internal/election/models"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
	audit "unionhub/pkg/platform/audit"
	"unionhub/pkg/requestcontext"
)

// CalculateResults tabulates a closed election and completes it. Prior
// results are replaced.
func (s *Service) CalculateResults(ctx context.Context, actor access.ActingContext, electionID id.ElectionID) (results []*models.Result, err error) {
	ctx, span := s.startSpan(ctx, "election.calculate_results", attribute.String("election_id", electionID.String()))
	defer func() { endSpan(span, err) }()

	e, err := s.election(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, access.PermResultsManage, e.Scope()); err != nil {
		return nil, err
	}

	start := time.Now()
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		now := requestcontext.Now(txCtx)
		approved, err := s.store.ListCandidates(txCtx, electionID, models.CandidateApproved)
		if err != nil {
			return wrapStoreErr(err, "candidate")
		}
		counts, err := s.store.CountVerifiedVotes(txCtx, electionID)
		if err != nil {
			return wrapStoreErr(err, "vote")
		}
		for _, c := range approved {
			if counts[c.ID] != c.VoteCount {
				return dErrors.New(dErrors.CodeInternal,
					fmt.Sprintf("tally mismatch for candidate %s: %d recorded, %d verified", c.ID, c.VoteCount, counts[c.ID]))
			}
		}
		voters, err := s.store.CountVerifiedVoters(txCtx, electionID)
		if err != nil {
			return wrapStoreErr(err, "vote")
		}

		if _, err := s.store.ExecuteElection(txCtx, electionID,
			func(e *models.Election) error {
				if e.Status != models.StatusVotingClosed {
					return dErrors.New(dErrors.CodeInvariantViolation, "results can only be calculated once voting has closed")
				}
				return e.CanTransition(models.StatusCompleted, len(approved))
			},
			func(e *models.Election) { e.ApplyTransition(models.StatusCompleted, now) },
		); err != nil {
			return wrapStoreErr(err, "election")
		}
		results = models.Tabulate(electionID, approved, voters, now)
		if err := s.store.ReplaceResults(txCtx, electionID, results); err != nil {
			return wrapStoreErr(err, "result")
		}
		return s.emit(txCtx, audit.Event{
			Subject:  "election:" + electionID.String(),
			Action:   string(audit.EventResultsCalculated),
			Decision: string(models.StatusCompleted),
			ActorID:  actor.ActorLabel(),
		}, "election_id", electionID, "positions", len(results), "voters", voters)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveTabulate(time.Since(start))
	s.metrics.IncTransition(string(models.StatusCompleted), "action")
	return results, nil
}

// CertifyResults certifies every result of the election at once and hands
// each winner to the leadership installer.
func (s *Service) CertifyResults(ctx context.Context, actor access.ActingContext, electionID id.ElectionID) (certified []*models.Result, err error) {
	ctx, span := s.startSpan(ctx, "election.certify_results", attribute.String("election_id", electionID.String()))
	defer func() { endSpan(span, err) }()

	e, err := s.election(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, access.PermResultsManage, e.Scope()); err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		results, err := s.store.ListResults(txCtx, electionID)
		if err != nil {
			return wrapStoreErr(err, "result")
		}
		if len(results) == 0 {
			return dErrors.New(dErrors.CodeStateConflict, "results have not been calculated")
		}
		for _, r := range results {
			if r.IsCertified {
				return dErrors.New(dErrors.CodeStateConflict, "results are already certified")
			}
		}
		now := requestcontext.Now(txCtx)
		if _, err := s.store.CertifyResults(txCtx, electionID, actor.MemberID, now); err != nil {
			return wrapStoreErr(err, "result")
		}
		for _, r := range results {
			r.Certify(actor.MemberID, now)
			if r.WinnerMemberID.IsNil() || s.installer == nil {
				continue
			}
			if err := s.installer.InstallLeadership(txCtx, eligibility.Award{
				ElectionID: electionID,
				MemberID:   r.WinnerMemberID,
				Title:      r.PositionTitle,
				Level:      e.Level,
				EntityID:   e.EntityID,
			}); err != nil {
				return err
			}
		}
		certified = results
		return s.emit(txCtx, audit.Event{
			Subject:  "election:" + electionID.String(),
			Action:   string(audit.EventResultsCertified),
			Decision: "certified",
			ActorID:  actor.ActorLabel(),
		}, "election_id", electionID, "positions", len(results))
	})
	if err != nil {
		return nil, err
	}
	return certified, nil
}

// Results returns the election's results ordered by position.
func (s *Service) Results(ctx context.Context, electionID id.ElectionID) ([]*models.Result, error) {
	if _, err := s.election(ctx, electionID); err != nil {
		return nil, err
	}
	results, err := s.store.ListResults(ctx, electionID)
	if err != nil {
		return nil, wrapStoreErr(err, "result")
	}
	return results, nil
}
