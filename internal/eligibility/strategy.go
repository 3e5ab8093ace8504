package eligibility

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	id "unionhub/pkg/domain"
)

// DelegateType records which strategy admitted a delegate.
type DelegateType string

const (
	DelegateCriteriaBased DelegateType = "criteria_based"
	DelegateTehsilMember  DelegateType = "tehsil_member"
	DelegateZonalHead     DelegateType = "zonal_president"
	DelegateStateCouncil  DelegateType = "state_council"
)

// Candidate is a member admitted to the roster together with the reason.
type Candidate struct {
	MemberID id.MemberID
	Type     DelegateType
}

// VoterStrategy materializes the voters of an election scope.
type VoterStrategy interface {
	Voters(ctx context.Context, dir Directory, scope id.Scope, now time.Time) ([]Candidate, error)
}

// CandidacyStrategy decides whether a member may stand in an election scope.
type CandidacyStrategy interface {
	Check(s Snapshot, scope id.Scope, now time.Time) Verdict
}

// VotersFor selects the criteria strategy when criteria are configured and
// the legacy hierarchical rule otherwise.
func VotersFor(c *Criteria) VoterStrategy {
	if c.IsEmpty() {
		return legacyVoters{}
	}
	return criteriaVoters{criteria: c}
}

// CandidacyFor mirrors VotersFor for candidacy checks.
func CandidacyFor(c *Criteria) CandidacyStrategy {
	if c.IsEmpty() {
		return legacyCandidacy{}
	}
	return criteriaCandidacy{criteria: c}
}

// ScopeFilter restricts a directory listing to the members inside scope.
func ScopeFilter(scope id.Scope) Filter {
	switch scope.Level {
	case id.LevelTehsil:
		return Filter{TehsilID: id.TehsilID(scope.EntityID)}
	case id.LevelDistrict:
		return Filter{DistrictID: id.DistrictID(scope.EntityID)}
	}
	return Filter{}
}

// InScope reports whether the snapshot's location falls inside scope.
func InScope(s Snapshot, scope id.Scope) bool {
	switch scope.Level {
	case id.LevelTehsil:
		return id.EntityID(s.TehsilID) == scope.EntityID
	case id.LevelDistrict:
		return id.EntityID(s.DistrictID) == scope.EntityID
	}
	return true
}

type criteriaVoters struct {
	criteria *Criteria
}

func (v criteriaVoters) Voters(ctx context.Context, dir Directory, scope id.Scope, now time.Time) ([]Candidate, error) {
	members, err := dir.ListActive(ctx, ScopeFilter(scope))
	if err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(members))
	for _, m := range members {
		if Evaluate(v.criteria, m, now).Eligible {
			out = append(out, Candidate{MemberID: m.MemberID, Type: DelegateCriteriaBased})
		}
	}
	return out, nil
}

type criteriaCandidacy struct {
	criteria *Criteria
}

func (c criteriaCandidacy) Check(s Snapshot, _ id.Scope, now time.Time) Verdict {
	if !s.Active {
		return Verdict{Reasons: []string{"member is not active"}}
	}
	return Evaluate(c.criteria, s, now)
}

type legacyVoters struct{}

func (legacyVoters) Voters(ctx context.Context, dir Directory, scope id.Scope, _ time.Time) ([]Candidate, error) {
	switch scope.Level {
	case id.LevelTehsil:
		members, err := dir.ListActive(ctx, Filter{TehsilID: id.TehsilID(scope.EntityID)})
		if err != nil {
			return nil, err
		}
		return tag(members, DelegateTehsilMember), nil
	case id.LevelDistrict:
		members, err := dir.ListActive(ctx, Filter{
			DistrictID:    id.DistrictID(scope.EntityID),
			PositionKinds: []PositionKind{PositionZonalPresident},
		})
		if err != nil {
			return nil, err
		}
		return tag(members, DelegateZonalHead), nil
	default:
		return stateCouncil(ctx, dir)
	}
}

// stateCouncil unions zonal presidents, district presidents and every
// portfolio holder, state portfolios and office bearers at any level alike.
// The lookups run in parallel.
func stateCouncil(ctx context.Context, dir Directory) ([]Candidate, error) {
	kinds := []PositionKind{PositionZonalPresident, PositionDistrictPresident, PositionStatePortfolio, PositionOfficeBearer}
	results := make([][]Snapshot, len(kinds))

	g, ctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			members, err := dir.ListActive(ctx, Filter{PositionKinds: []PositionKind{kind}})
			if err != nil {
				return err
			}
			results[i] = members
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[id.MemberID]struct{})
	var out []Candidate
	for _, members := range results {
		for _, m := range members {
			if _, dup := seen[m.MemberID]; dup {
				continue
			}
			seen[m.MemberID] = struct{}{}
			out = append(out, Candidate{MemberID: m.MemberID, Type: DelegateStateCouncil})
		}
	}
	return out, nil
}

func tag(members []Snapshot, t DelegateType) []Candidate {
	out := make([]Candidate, 0, len(members))
	for _, m := range members {
		out = append(out, Candidate{MemberID: m.MemberID, Type: t})
	}
	return out
}

type legacyCandidacy struct{}

// Check applies the fixed rule: a tehsil member for tehsil elections, a
// zonal president of the district for district elections and a district
// president for state elections.
func (legacyCandidacy) Check(s Snapshot, scope id.Scope, _ time.Time) Verdict {
	if !s.Active {
		return Verdict{Reasons: []string{"member is not active"}}
	}
	switch scope.Level {
	case id.LevelTehsil:
		if id.EntityID(s.TehsilID) != scope.EntityID {
			return Verdict{Reasons: []string{"not a member of this tehsil"}}
		}
	case id.LevelDistrict:
		if id.EntityID(s.DistrictID) != scope.EntityID || !s.Holds(PositionZonalPresident) {
			return Verdict{Reasons: []string{"not a current zonal president in this district"}}
		}
	default:
		if !s.Holds(PositionDistrictPresident) {
			return Verdict{Reasons: []string{"not a current district president"}}
		}
	}
	return Verdict{Eligible: true}
}
