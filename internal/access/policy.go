package access

import (
	"context"

	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
)

// Permission names an action guarded by the Authorizer.
type Permission string

const (
	PermElectionManage     Permission = "election.manage"
	PermCandidacyReview    Permission = "candidacy.review"
	PermVoteVerify         Permission = "vote.verify"
	PermResultsManage      Permission = "results.manage"
	PermCommitteeManage    Permission = "committee.manage"
	PermResolutionOverride Permission = "resolution.override"
	PermMemberDiscipline   Permission = "member.discipline"
)

// Authorizer is the opaque authorize(actor, permission, scope) capability.
// It returns nil to allow and a CodeForbidden error to deny.
type Authorizer interface {
	Authorize(ctx context.Context, actor ActingContext, perm Permission, scope id.Scope) error
}

// HierarchyPolicy is the default Authorizer.
//
//   - super_admin and the system actor may do anything
//   - EC permissions require the election_commission portfolio over the scope
//   - election management is also open to admins covering the scope
//   - committee management and member discipline are open to admins covering the scope
//   - the resolution override is reserved for state-level administrators
type HierarchyPolicy struct{}

func NewHierarchyPolicy() *HierarchyPolicy { return &HierarchyPolicy{} }

func (p *HierarchyPolicy) Authorize(_ context.Context, actor ActingContext, perm Permission, scope id.Scope) error {
	if actor.IsSuperAdmin() || actor.IsSystem() {
		return nil
	}
	allowed := false
	switch perm {
	case PermCandidacyReview, PermVoteVerify, PermResultsManage:
		allowed = actor.IsElectionCommission() && Covers(actor, scope)
	case PermElectionManage:
		allowed = (actor.IsElectionCommission() || isAdmin(actor.Role)) && Covers(actor, scope)
	case PermCommitteeManage, PermMemberDiscipline:
		allowed = isAdmin(actor.Role) && Covers(actor, scope)
	case PermResolutionOverride:
		allowed = actor.Role == RoleStateAdmin
	}
	if !allowed {
		return dErrors.New(dErrors.CodeForbidden, "not permitted: "+string(perm))
	}
	return nil
}

func isAdmin(r Role) bool {
	switch r {
	case RoleStateAdmin, RoleDistrictAdmin, RoleTehsilAdmin:
		return true
	}
	return false
}

// Covers reports whether the actor's own level and entity contain scope.
func Covers(actor ActingContext, scope id.Scope) bool {
	switch actor.Level {
	case id.LevelState:
		return true
	case id.LevelDistrict:
		switch scope.Level {
		case id.LevelDistrict:
			return scope.EntityID == actor.EntityID
		case id.LevelTehsil:
			return id.EntityID(scope.DistrictID) == actor.EntityID
		}
	case id.LevelTehsil:
		return scope.Level == id.LevelTehsil && scope.EntityID == actor.EntityID
	}
	return false
}
