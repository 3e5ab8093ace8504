// Package access models who is acting and what they may do.
//
// Workflow services never read the caller's identity from ambient session
// state. Handlers resolve an ActingContext from the bearer token and pass it
// explicitly into every service call, and services ask an Authorizer whether
// that actor holds a permission over a hierarchical scope.
package access

import (
	"context"

	id "unionhub/pkg/domain"
)

// Role is the administrative role carried in the caller's token.
type Role string

const (
	RoleSuperAdmin    Role = "super_admin"
	RoleStateAdmin    Role = "state_admin"
	RoleDistrictAdmin Role = "district_admin"
	RoleTehsilAdmin   Role = "tehsil_admin"
	RoleMember        Role = "member"
	// RoleSystem is used for scheduler-driven actions such as ticks.
	RoleSystem Role = "system"
)

// Portfolio is the office the actor is currently acting under.
type Portfolio string

const (
	PortfolioNone               Portfolio = ""
	PortfolioElectionCommission Portfolio = "election_commission"
	PortfolioPresident          Portfolio = "president"
	PortfolioGeneralSecretary   Portfolio = "general_secretary"
)

// ActingContext identifies the caller of a workflow operation.
type ActingContext struct {
	MemberID        id.MemberID
	Role            Role
	Level           id.Level
	EntityID        id.EntityID
	ActivePortfolio Portfolio
}

// System is the actor used by the tick command and other unattended jobs.
var System = ActingContext{Role: RoleSystem, Level: id.LevelState}

func (a ActingContext) IsSystem() bool { return a.Role == RoleSystem }

func (a ActingContext) IsSuperAdmin() bool { return a.Role == RoleSuperAdmin }

// IsElectionCommission reports whether the actor is acting under the EC portfolio.
func (a ActingContext) IsElectionCommission() bool {
	return a.ActivePortfolio == PortfolioElectionCommission
}

// IsAnonymous reports whether no member identity is attached.
func (a ActingContext) IsAnonymous() bool {
	return a.MemberID.IsNil() && !a.IsSystem()
}

// ActorLabel renders the actor for audit records.
func (a ActingContext) ActorLabel() string {
	if a.IsSystem() {
		return string(RoleSystem)
	}
	return a.MemberID.String()
}

type actorKey struct{}

// WithActor stores the resolved actor on the request context. Only the HTTP
// layer reads it back; services receive the actor as an argument.
func WithActor(ctx context.Context, actor ActingContext) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor stored by the auth middleware.
func ActorFrom(ctx context.Context) (ActingContext, bool) {
	a, ok := ctx.Value(actorKey{}).(ActingContext)
	return a, ok
}
