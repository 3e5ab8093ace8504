package testutil

import (
	"net/http"
	"time"

	"unionhub/internal/access"
	id "unionhub/pkg/domain"
	"unionhub/pkg/requestcontext"
)

// WithActor attaches an already-resolved actor, which is what
// access.RequireActor does for a valid bearer token.
func WithActor(req *http.Request, actor access.ActingContext) *http.Request {
	return req.WithContext(access.WithActor(req.Context(), actor))
}

// AtTime pins the request clock.
func AtTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}

// StateAdmin returns a state-level administrator.
func StateAdmin() access.ActingContext {
	return access.ActingContext{MemberID: id.NewMemberID(), Role: access.RoleStateAdmin, Level: id.LevelState}
}

// DistrictAdmin returns an administrator of the given district.
func DistrictAdmin(district id.DistrictID) access.ActingContext {
	return access.ActingContext{
		MemberID: id.NewMemberID(),
		Role:     access.RoleDistrictAdmin,
		Level:    id.LevelDistrict,
		EntityID: id.EntityID(district),
	}
}

// Member returns a plain member acting at the given level.
func Member(level id.Level, entity id.EntityID) access.ActingContext {
	return access.ActingContext{MemberID: id.NewMemberID(), Role: access.RoleMember, Level: level, EntityID: entity}
}
