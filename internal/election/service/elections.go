package service

import (
	"context"
	"errors"
	"time"

	"unionhub/internal/access"
	"unionhub/internal/election/models"
	"unionhub/internal/election/store"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
	audit "unionhub/pkg/platform/audit"
	"unionhub/pkg/platform/sentinel"
	"unionhub/pkg/requestcontext"
)

// Create opens a new election in draft.
func (s *Service) Create(ctx context.Context, actor access.ActingContext, d models.Draft) (*models.Election, error) {
	if err := d.Validate(); err != nil {
		return nil, toValidation(err)
	}
	if err := s.authz.Authorize(ctx, actor, access.PermElectionManage, draftScope(d)); err != nil {
		return nil, err
	}
	e, err := models.NewElection(id.NewElectionID(), d, actor.MemberID, requestcontext.Now(ctx))
	if err != nil {
		return nil, toValidation(err)
	}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.CreateElection(txCtx, e); err != nil {
			return wrapStoreErr(err, "election")
		}
		return s.emit(txCtx, audit.Event{
			Subject: "election:" + e.ID.String(),
			Action:  string(audit.EventElectionCreated),
			ActorID: actor.ActorLabel(),
		}, "election_id", e.ID, "level", e.Level, "entity_id", e.EntityID)
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) Get(ctx context.Context, electionID id.ElectionID) (*models.Election, error) {
	return s.election(ctx, electionID)
}

func (s *Service) List(ctx context.Context, filter store.ElectionFilter) ([]*models.Election, error) {
	elections, err := s.store.ListElections(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list elections")
	}
	return elections, nil
}

// Update replaces the editable attributes. Only draft and nominations_open
// elections without votes can be edited.
func (s *Service) Update(ctx context.Context, actor access.ActingContext, electionID id.ElectionID, d models.Draft) (*models.Election, error) {
	if err := d.Validate(); err != nil {
		return nil, toValidation(err)
	}
	current, err := s.election(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, access.PermElectionManage, current.Scope()); err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, access.PermElectionManage, draftScope(d)); err != nil {
		return nil, err
	}

	var updated *models.Election
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		activity, err := s.store.Activity(txCtx, electionID)
		if err != nil {
			return wrapStoreErr(err, "election")
		}
		if activity.Votes > 0 {
			return dErrors.New(dErrors.CodeStateConflict, "election cannot be edited once votes exist")
		}
		now := requestcontext.Now(txCtx)
		updated, err = s.store.ExecuteElection(txCtx, electionID,
			func(e *models.Election) error { return e.CanEdit() },
			func(e *models.Election) { e.ApplyDraft(d, now) },
		)
		if err != nil {
			return wrapStoreErr(err, "election")
		}
		return s.emit(txCtx, audit.Event{
			Subject: "election:" + electionID.String(),
			Action:  string(audit.EventElectionUpdated),
			ActorID: actor.ActorLabel(),
		}, "election_id", electionID)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an election that has neither candidates nor votes.
func (s *Service) Delete(ctx context.Context, actor access.ActingContext, electionID id.ElectionID) error {
	current, err := s.election(ctx, electionID)
	if err != nil {
		return err
	}
	if err := s.authz.Authorize(ctx, actor, access.PermElectionManage, current.Scope()); err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.DeleteElection(txCtx, electionID); err != nil {
			if errors.Is(err, sentinel.ErrInvalidState) {
				return dErrors.New(dErrors.CodeStateConflict, "election with candidates or votes cannot be deleted")
			}
			return wrapStoreErr(err, "election")
		}
		return s.emit(txCtx, audit.Event{
			Subject: "election:" + electionID.String(),
			Action:  string(audit.EventElectionDeleted),
			ActorID: actor.ActorLabel(),
		}, "election_id", electionID)
	})
}

// Transition applies an explicit lifecycle action such as "open-voting".
func (s *Service) Transition(ctx context.Context, actor access.ActingContext, electionID id.ElectionID, action string) (*models.Election, error) {
	target, err := models.ParseAction(action)
	if err != nil {
		return nil, err
	}
	current, err := s.election(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, access.PermElectionManage, current.Scope()); err != nil {
		return nil, err
	}

	var updated *models.Election
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		approved := 0
		if target == models.StatusVotingOpen {
			candidates, err := s.store.ListCandidates(txCtx, electionID, models.CandidateApproved)
			if err != nil {
				return wrapStoreErr(err, "candidate")
			}
			approved = len(candidates)
		}
		now := requestcontext.Now(txCtx)
		var from models.Status
		updated, err = s.store.ExecuteElection(txCtx, electionID,
			func(e *models.Election) error {
				from = e.Status
				return e.CanTransition(target, approved)
			},
			func(e *models.Election) { e.ApplyTransition(target, now) },
		)
		if err != nil {
			return wrapStoreErr(err, "election")
		}
		return s.emit(txCtx, audit.Event{
			Subject:  "election:" + electionID.String(),
			Action:   string(audit.EventElectionTransition),
			Decision: string(target),
			ActorID:  actor.ActorLabel(),
		}, "election_id", electionID, "from", from, "to", target, "trigger", "action")
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncTransition(string(target), "action")
	return updated, nil
}

var errNotDue = errors.New("no transition due")

// maxTickSteps bounds how far one tick moves an election: draft can reach
// nominations_closed when both nomination boundaries have passed.
const maxTickSteps = 2

// Tick applies the advisory time-based transitions to every election that
// has one due. It is idempotent and returns how many transitions it made.
func (s *Service) Tick(ctx context.Context) (int, error) {
	elections, err := s.store.ListElections(ctx, store.ElectionFilter{
		Statuses: []models.Status{models.StatusDraft, models.StatusNominationsOpen},
	})
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list elections for tick")
	}
	now := requestcontext.Now(ctx)
	applied := 0
	for _, e := range elections {
		for range maxTickSteps {
			moved, err := s.tickOne(ctx, e.ID, now)
			if err != nil {
				return applied, err
			}
			if !moved {
				break
			}
			applied++
		}
	}
	return applied, nil
}

func (s *Service) tickOne(ctx context.Context, electionID id.ElectionID, now time.Time) (bool, error) {
	var target models.Status
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var from models.Status
		_, err := s.store.ExecuteElection(txCtx, electionID,
			func(e *models.Election) error {
				next, due := e.DueTransition(now)
				if !due {
					return errNotDue
				}
				from, target = e.Status, next
				return nil
			},
			func(e *models.Election) { e.ApplyTransition(target, now) },
		)
		if err != nil {
			return err
		}
		return s.emit(txCtx, audit.Event{
			Subject:  "election:" + electionID.String(),
			Action:   string(audit.EventElectionTransition),
			Decision: string(target),
			ActorID:  access.System.ActorLabel(),
		}, "election_id", electionID, "from", from, "to", target, "trigger", "tick")
	})
	switch {
	case errors.Is(err, errNotDue), errors.Is(err, sentinel.ErrNotFound):
		return false, nil
	case err != nil:
		return false, wrapStoreErr(err, "election")
	}
	s.metrics.IncTransition(string(target), "tick")
	return true, nil
}

func draftScope(d models.Draft) id.Scope {
	scope := id.Scope{Level: d.Level, EntityID: d.EntityID, DistrictID: d.DistrictID}
	if d.Level == id.LevelDistrict {
		scope.DistrictID = id.DistrictID(d.EntityID)
	}
	return scope
}

func toValidation(err error) error {
	if de, ok := dErrors.As(err); ok && de.Code == dErrors.CodeInvariantViolation {
		return dErrors.New(dErrors.CodeValidation, de.Message)
	}
	return err
}
