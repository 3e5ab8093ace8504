package service

import (
	"context"

	"unionhub/internal/access"
	"unionhub/internal/eligibility"
	"unionhub/internal/election/models"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
	audit "unionhub/pkg/platform/audit"
	"unionhub/pkg/requestcontext"
)

// RosterResult reports a roster build. Added counts delegates new to this
// run; Total is the roster size afterwards.
type RosterResult struct {
	Added int `json:"added"`
	Total int `json:"total"`
}

// BuildRoster materializes the delegates of an election from its voting
// criteria, or from the per-level rule when it has none. Re-running it only
// adds members that became eligible since the last run.
func (s *Service) BuildRoster(ctx context.Context, actor access.ActingContext, electionID id.ElectionID) (RosterResult, error) {
	e, err := s.election(ctx, electionID)
	if err != nil {
		return RosterResult{}, err
	}
	if err := s.authz.Authorize(ctx, actor, access.PermElectionManage, e.Scope()); err != nil {
		return RosterResult{}, err
	}
	if e.Status == models.StatusVotingClosed || e.Status.IsTerminal() {
		return RosterResult{}, dErrors.New(dErrors.CodeStateConflict, "roster cannot change after voting closes")
	}

	now := requestcontext.Now(ctx)
	voters, err := eligibility.VotersFor(e.VotingCriteria).Voters(ctx, s.directory, e.Scope(), now)
	if err != nil {
		return RosterResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve eligible voters")
	}
	delegates := make([]*models.Delegate, 0, len(voters))
	for _, v := range voters {
		delegates = append(delegates, &models.Delegate{
			ID:         id.NewDelegateID(),
			ElectionID: e.ID,
			MemberID:   v.MemberID,
			Type:       v.Type,
			CreatedAt:  now,
		})
	}

	var result RosterResult
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		added, err := s.store.AddDelegates(txCtx, delegates)
		if err != nil {
			return wrapStoreErr(err, "delegate")
		}
		total, err := s.store.CountDelegates(txCtx, e.ID)
		if err != nil {
			return wrapStoreErr(err, "delegate")
		}
		if _, err := s.store.ExecuteElection(txCtx, e.ID,
			func(*models.Election) error { return nil },
			func(e *models.Election) {
				e.EligibleVoterCount = total
				e.UpdatedAt = now
			},
		); err != nil {
			return wrapStoreErr(err, "election")
		}
		result = RosterResult{Added: added, Total: total}
		return s.emit(txCtx, audit.Event{
			Subject: "election:" + e.ID.String(),
			Action:  string(audit.EventRosterBuilt),
			ActorID: actor.ActorLabel(),
		}, "election_id", e.ID, "added", added, "total", total)
	})
	if err != nil {
		return RosterResult{}, err
	}
	s.metrics.AddRoster(result.Added)
	return result, nil
}

func (s *Service) ListDelegates(ctx context.Context, electionID id.ElectionID) ([]*models.Delegate, error) {
	if _, err := s.election(ctx, electionID); err != nil {
		return nil, err
	}
	delegates, err := s.store.ListDelegates(ctx, electionID)
	if err != nil {
		return nil, wrapStoreErr(err, "delegate")
	}
	return delegates, nil
}

func (s *Service) IsDelegate(ctx context.Context, electionID id.ElectionID, memberID id.MemberID) (bool, error) {
	ok, err := s.store.IsDelegate(ctx, electionID, memberID)
	if err != nil {
		return false, wrapStoreErr(err, "delegate")
	}
	return ok, nil
}
