package eligibility

import (
	"fmt"
	"slices"
	"time"

	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
)

// Criteria is a structured rule set. Every nil or empty field is an absent
// constraint and always passes.
type Criteria struct {
	MinAge                  *int            `json:"min_age,omitempty"`
	MaxAge                  *int            `json:"max_age,omitempty"`
	MinServiceYears         *int            `json:"min_service_years,omitempty"`
	MinUnionYears           *int            `json:"min_union_years,omitempty"`
	MinStarGrade            *int            `json:"min_star_grade,omitempty"`
	MaxStarGrade            *int            `json:"max_star_grade,omitempty"`
	RequiredDesignations    []string        `json:"required_designations,omitempty"`
	ExcludedDesignations    []string        `json:"excluded_designations,omitempty"`
	RequireLeadership       bool            `json:"require_leadership,omitempty"`
	RequireIdentityVerified bool            `json:"require_identity_verified,omitempty"`
	AllowedTehsils          []id.TehsilID   `json:"allowed_tehsils,omitempty"`
	AllowedDistricts        []id.DistrictID `json:"allowed_districts,omitempty"`
}

// IsEmpty reports whether no constraint is configured.
func (c *Criteria) IsEmpty() bool {
	if c == nil {
		return true
	}
	return c.MinAge == nil && c.MaxAge == nil && c.MinServiceYears == nil && c.MinUnionYears == nil &&
		c.MinStarGrade == nil && c.MaxStarGrade == nil &&
		len(c.RequiredDesignations) == 0 && len(c.ExcludedDesignations) == 0 &&
		!c.RequireLeadership && !c.RequireIdentityVerified &&
		len(c.AllowedTehsils) == 0 && len(c.AllowedDistricts) == 0
}

// Validate rejects bounds that can never be satisfied.
func (c *Criteria) Validate() error {
	if c == nil {
		return nil
	}
	bounds := []struct {
		name string
		v    *int
	}{
		{"min_age", c.MinAge}, {"max_age", c.MaxAge}, {"min_service_years", c.MinServiceYears},
		{"min_union_years", c.MinUnionYears}, {"min_star_grade", c.MinStarGrade}, {"max_star_grade", c.MaxStarGrade},
	}
	for _, b := range bounds {
		if b.v != nil && *b.v < 0 {
			return dErrors.New(dErrors.CodeValidation, b.name+" cannot be negative")
		}
	}
	if c.MinAge != nil && c.MaxAge != nil && *c.MinAge > *c.MaxAge {
		return dErrors.New(dErrors.CodeValidation, "min_age cannot exceed max_age")
	}
	if c.MinStarGrade != nil && c.MaxStarGrade != nil && *c.MinStarGrade > *c.MaxStarGrade {
		return dErrors.New(dErrors.CodeValidation, "min_star_grade cannot exceed max_star_grade")
	}
	return nil
}

// Verdict is the outcome of Evaluate. Reasons lists every failed constraint.
type Verdict struct {
	Eligible bool
	Reasons  []string
}

// Evaluate applies criteria to the snapshot as a pure AND over present
// constraints. Nil or empty criteria admit every member.
func Evaluate(c *Criteria, s Snapshot, now time.Time) Verdict {
	if c.IsEmpty() {
		return Verdict{Eligible: true}
	}
	var reasons []string
	fail := func(format string, args ...any) {
		reasons = append(reasons, fmt.Sprintf(format, args...))
	}

	if c.MinAge != nil || c.MaxAge != nil {
		age := s.Age(now)
		if c.MinAge != nil && age < *c.MinAge {
			fail("age below minimum %d", *c.MinAge)
		}
		if c.MaxAge != nil && (age < 0 || age > *c.MaxAge) {
			fail("age above maximum %d", *c.MaxAge)
		}
	}
	if c.MinServiceYears != nil && s.ServiceYears(now) < *c.MinServiceYears {
		fail("service years below minimum %d", *c.MinServiceYears)
	}
	if c.MinUnionYears != nil && s.UnionYears(now) < *c.MinUnionYears {
		fail("union years below minimum %d", *c.MinUnionYears)
	}
	if c.MinStarGrade != nil && s.StarGrade < *c.MinStarGrade {
		fail("star grade below minimum %d", *c.MinStarGrade)
	}
	if c.MaxStarGrade != nil && s.StarGrade > *c.MaxStarGrade {
		fail("star grade above maximum %d", *c.MaxStarGrade)
	}
	designation := normalizeDesignation(s.Designation)
	if len(c.RequiredDesignations) > 0 && !containsDesignation(c.RequiredDesignations, designation) {
		fail("designation not in required set")
	}
	if len(c.ExcludedDesignations) > 0 && containsDesignation(c.ExcludedDesignations, designation) {
		fail("designation is excluded")
	}
	if c.RequireLeadership && !s.HoldsLeadership() {
		fail("must hold a leadership position")
	}
	if c.RequireIdentityVerified && !s.IdentityVerified {
		fail("identity not verified")
	}
	if len(c.AllowedTehsils) > 0 && !slices.Contains(c.AllowedTehsils, s.TehsilID) {
		fail("tehsil not allowed")
	}
	if len(c.AllowedDistricts) > 0 && !slices.Contains(c.AllowedDistricts, s.DistrictID) {
		fail("district not allowed")
	}
	return Verdict{Eligible: len(reasons) == 0, Reasons: reasons}
}

func containsDesignation(set []string, designation string) bool {
	return slices.ContainsFunc(set, func(d string) bool {
		return normalizeDesignation(d) == designation
	})
}
