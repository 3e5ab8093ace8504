package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
)

func intPtr(v int) *int { return &v }

var evalNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func baseSnapshot() Snapshot {
	return Snapshot{
		MemberID:         id.NewMemberID(),
		Active:           true,
		DateOfBirth:      time.Date(1980, time.June, 1, 0, 0, 0, 0, time.UTC),
		ServiceJoinYear:  2010,
		UnionJoinDate:    time.Date(2015, time.January, 10, 0, 0, 0, 0, time.UTC),
		StarGrade:        3,
		Designation:      "Inspector",
		IdentityVerified: true,
		TehsilID:         id.NewTehsilID(),
		DistrictID:       id.NewDistrictID(),
	}
}

func TestSnapshotDerivedFields(t *testing.T) {
	s := baseSnapshot()
	assert.Equal(t, 45, s.Age(evalNow), "birthday in June has not passed in March")
	assert.Equal(t, 16, s.ServiceYears(evalNow))
	assert.Equal(t, 11, s.UnionYears(evalNow))

	s.DateOfBirth = time.Time{}
	assert.Equal(t, -1, s.Age(evalNow))
}

func TestEvaluate(t *testing.T) {
	s := baseSnapshot()

	tests := []struct {
		name     string
		criteria *Criteria
		mutate   func(*Snapshot)
		eligible bool
	}{
		{"nil criteria admits everyone", nil, nil, true},
		{"empty criteria admits everyone", &Criteria{}, nil, true},
		{"min age met", &Criteria{MinAge: intPtr(45)}, nil, true},
		{"min age not met", &Criteria{MinAge: intPtr(46)}, nil, false},
		{"max age exceeded", &Criteria{MaxAge: intPtr(40)}, nil, false},
		{"unknown date of birth fails max age", &Criteria{MaxAge: intPtr(60)}, func(s *Snapshot) { s.DateOfBirth = time.Time{} }, false},
		{"service years met", &Criteria{MinServiceYears: intPtr(16)}, nil, true},
		{"service years not met", &Criteria{MinServiceYears: intPtr(17)}, nil, false},
		{"star grade within bounds", &Criteria{MinStarGrade: intPtr(2), MaxStarGrade: intPtr(4)}, nil, true},
		{"star grade above max", &Criteria{MaxStarGrade: intPtr(2)}, nil, false},
		{"required designation matches case-insensitively", &Criteria{RequiredDesignations: []string{" inspector "}}, nil, true},
		{"required designation missing", &Criteria{RequiredDesignations: []string{"clerk"}}, nil, false},
		{"excluded designation", &Criteria{ExcludedDesignations: []string{"INSPECTOR"}}, nil, false},
		{"leadership required but absent", &Criteria{RequireLeadership: true}, nil, false},
		{"leadership required and held", &Criteria{RequireLeadership: true}, func(s *Snapshot) {
			s.Leadership = []Position{{Kind: PositionOfficeBearer, Title: "Treasurer"}}
		}, true},
		{"identity verification required", &Criteria{RequireIdentityVerified: true}, func(s *Snapshot) { s.IdentityVerified = false }, false},
		{"tehsil allow-list", &Criteria{AllowedTehsils: []id.TehsilID{s.TehsilID}}, nil, true},
		{"tehsil not in allow-list", &Criteria{AllowedTehsils: []id.TehsilID{id.NewTehsilID()}}, nil, false},
		{"district not in allow-list", &Criteria{AllowedDistricts: []id.DistrictID{id.NewDistrictID()}}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := s
			if tt.mutate != nil {
				tt.mutate(&snap)
			}
			verdict := Evaluate(tt.criteria, snap, evalNow)
			assert.Equal(t, tt.eligible, verdict.Eligible, "reasons: %v", verdict.Reasons)
			if !tt.eligible {
				assert.NotEmpty(t, verdict.Reasons)
			}
		})
	}
}

func TestEvaluate_CollectsEveryFailure(t *testing.T) {
	verdict := Evaluate(&Criteria{MinAge: intPtr(70), MinUnionYears: intPtr(30)}, baseSnapshot(), evalNow)
	require.False(t, verdict.Eligible)
	assert.Len(t, verdict.Reasons, 2)
}

func TestCriteriaValidate(t *testing.T) {
	assert.NoError(t, (*Criteria)(nil).Validate())
	assert.NoError(t, (&Criteria{MinAge: intPtr(18), MaxAge: intPtr(65)}).Validate())

	err := (&Criteria{MinAge: intPtr(65), MaxAge: intPtr(18)}).Validate()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	err = (&Criteria{MinStarGrade: intPtr(-1)}).Validate()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
