package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unionhub/internal/eligibility"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
)

func TestNewMember(t *testing.T) {
	now := time.Now()

	m, err := NewMember(id.NewMemberID(), Profile{Name: " Asha ", Email: "Asha@Example.org"}, now)
	require.NoError(t, err)
	assert.Equal(t, "Asha", m.Name)
	assert.Equal(t, "asha@example.org", m.Email)
	assert.Equal(t, StatusActive, m.Status)

	_, err = NewMember(id.NewMemberID(), Profile{Name: "", Email: "a@b.org"}, now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = NewMember(id.NewMemberID(), Profile{Name: "Asha", Email: "nope"}, now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusActive, StatusSuspended, true},
		{StatusActive, StatusTerminated, true},
		{StatusActive, StatusActive, false},
		{StatusSuspended, StatusActive, true},
		{StatusSuspended, StatusTerminated, true},
		{StatusTerminated, StatusActive, true},
		{StatusTerminated, StatusSuspended, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			m := &Member{Status: tt.from}
			err := m.CanChangeStatus(tt.to)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSnapshot(t *testing.T) {
	tehsil, district := id.NewTehsilID(), id.NewDistrictID()
	m := &Member{
		ID:         id.NewMemberID(),
		Status:     StatusSuspended,
		TehsilID:   tehsil,
		DistrictID: district,
		Positions:  []Position{{Kind: eligibility.PositionZonalPresident, Title: "President"}},
	}
	snap := m.Snapshot()
	assert.False(t, snap.Active)
	assert.True(t, snap.Holds(eligibility.PositionZonalPresident))
	assert.Equal(t, id.TehsilScope(tehsil, district), m.Scope())
}
