package service

import (
	"context"

	"unionhub/internal/access"
	id "unionhub/pkg/domain"
)

// ValidateForExecution is the resolution-required precondition. It passes
// only for a passed, unexecuted, unfrozen resolution whose type and category
// match the caller's declared intent and whose subject is the given member.
func (s *Service) ValidateForExecution(ctx context.Context, resolutionID id.ResolutionID, expectedType, expectedCategory string, subject id.MemberID) error {
	r, err := s.resolution(ctx, resolutionID)
	if err != nil {
		return err
	}
	if err := r.Authorizes(expectedType, expectedCategory, subject); err != nil {
		return err
	}
	if err := r.CanExecute(); err != nil {
		return wrapStoreErr(err, "resolution")
	}
	return s.checkAppeal(ctx, resolutionID)
}

// Guard adapts the service to callers that consume a resolution as the
// authority for their own action.
type Guard struct {
	svc *Service
}

func NewGuard(svc *Service) *Guard {
	return &Guard{svc: svc}
}

func (g *Guard) ValidateForExecution(ctx context.Context, resolutionID id.ResolutionID, expectedType, expectedCategory string, subject id.MemberID) error {
	return g.svc.ValidateForExecution(ctx, resolutionID, expectedType, expectedCategory, subject)
}

// Execute consumes the resolution. The caller has already authorized its own
// action and validated the resolution in the same transaction.
func (g *Guard) Execute(ctx context.Context, actor access.ActingContext, resolutionID id.ResolutionID, notes string) error {
	_, err := g.svc.execute(ctx, actor, resolutionID, notes)
	return err
}
