package domain

import (
	"strings"

	dErrors "unionhub/pkg/domain-errors"
)

// Level is a tier of the organization hierarchy: state > district > tehsil.
type Level string

const (
	LevelTehsil   Level = "tehsil"
	LevelDistrict Level = "district"
	LevelState    Level = "state"
)

// ParseLevel validates a level from untrusted input.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if !l.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "level must be one of tehsil, district, state")
	}
	return l, nil
}

func (l Level) IsValid() bool {
	switch l {
	case LevelTehsil, LevelDistrict, LevelState:
		return true
	}
	return false
}

// Rank orders levels; a higher rank covers lower ones.
func (l Level) Rank() int {
	switch l {
	case LevelState:
		return 3
	case LevelDistrict:
		return 2
	case LevelTehsil:
		return 1
	}
	return 0
}

// Scope locates an entity in the hierarchy. DistrictID is the parent district
// for tehsil scopes and equals EntityID for district scopes.
type Scope struct {
	Level      Level
	EntityID   EntityID
	DistrictID DistrictID
}

// TehsilScope builds the scope of a tehsil inside its district.
func TehsilScope(tehsil TehsilID, district DistrictID) Scope {
	return Scope{Level: LevelTehsil, EntityID: EntityID(tehsil), DistrictID: district}
}

// DistrictScope builds the scope of a district.
func DistrictScope(district DistrictID) Scope {
	return Scope{Level: LevelDistrict, EntityID: EntityID(district), DistrictID: district}
}

// StateScope builds the scope of the state entity.
func StateScope(state EntityID) Scope {
	return Scope{Level: LevelState, EntityID: state}
}
