package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
)

func TestHierarchyPolicy(t *testing.T) {
	ctx := context.Background()
	policy := NewHierarchyPolicy()

	district := id.NewDistrictID()
	otherDistrict := id.NewDistrictID()
	tehsil := id.NewTehsilID()
	tehsilScope := id.TehsilScope(tehsil, district)

	districtEC := ActingContext{
		MemberID:        id.NewMemberID(),
		Role:            RoleMember,
		Level:           id.LevelDistrict,
		EntityID:        id.EntityID(district),
		ActivePortfolio: PortfolioElectionCommission,
	}
	districtAdmin := ActingContext{
		MemberID: id.NewMemberID(),
		Role:     RoleDistrictAdmin,
		Level:    id.LevelDistrict,
		EntityID: id.EntityID(district),
	}
	tehsilAdmin := ActingContext{
		MemberID: id.NewMemberID(),
		Role:     RoleTehsilAdmin,
		Level:    id.LevelTehsil,
		EntityID: id.EntityID(tehsil),
	}
	plainMember := ActingContext{MemberID: id.NewMemberID(), Role: RoleMember, Level: id.LevelTehsil, EntityID: id.EntityID(tehsil)}
	superAdmin := ActingContext{MemberID: id.NewMemberID(), Role: RoleSuperAdmin, Level: id.LevelState}
	stateAdmin := ActingContext{MemberID: id.NewMemberID(), Role: RoleStateAdmin, Level: id.LevelState}

	tests := []struct {
		name  string
		actor ActingContext
		perm  Permission
		scope id.Scope
		allow bool
	}{
		{"super admin verifies votes anywhere", superAdmin, PermVoteVerify, tehsilScope, true},
		{"system actor manages elections", System, PermElectionManage, tehsilScope, true},
		{"district EC reviews tehsil candidacy", districtEC, PermCandidacyReview, tehsilScope, true},
		{"district EC outside its district", districtEC, PermCandidacyReview, id.DistrictScope(otherDistrict), false},
		{"district admin without EC portfolio cannot verify votes", districtAdmin, PermVoteVerify, tehsilScope, false},
		{"district admin manages tehsil election", districtAdmin, PermElectionManage, tehsilScope, true},
		{"tehsil admin cannot manage district election", tehsilAdmin, PermElectionManage, id.DistrictScope(district), false},
		{"plain member cannot manage committees", plainMember, PermCommitteeManage, tehsilScope, false},
		{"state admin overrides resolutions", stateAdmin, PermResolutionOverride, tehsilScope, true},
		{"district admin cannot override resolutions", districtAdmin, PermResolutionOverride, tehsilScope, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Authorize(ctx, tt.actor, tt.perm, tt.scope)
			if tt.allow {
				assert.NoError(t, err)
				return
			}
			assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
		})
	}
}
