package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
)

var tokens = NewTokenService("test-signing-key", "test-issuer", "test-audience")

func testActor() ActingContext {
	return ActingContext{
		MemberID:        id.NewMemberID(),
		Role:            RoleDistrictAdmin,
		Level:           id.LevelDistrict,
		EntityID:        id.NewEntityID(),
		ActivePortfolio: PortfolioElectionCommission,
	}
}

func Test_IssueAndResolve(t *testing.T) {
	actor := testActor()
	token, err := tokens.Issue(actor, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := tokens.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, actor, got)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := tokens.ValidateToken("invalid-token-string")
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, err := tokens.Issue(testActor(), -time.Hour)
	require.NoError(t, err)

	_, err = tokens.ValidateToken(token)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "token has expired"))
}

func Test_ValidateToken_WrongAudience(t *testing.T) {
	other := NewTokenService("test-signing-key", "test-issuer", "someone-else")
	token, err := other.Issue(testActor(), time.Hour)
	require.NoError(t, err)

	_, err = tokens.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_Resolve_RejectsUnknownRole(t *testing.T) {
	actor := testActor()
	actor.Role = RoleSystem
	token, err := tokens.Issue(actor, time.Hour)
	require.NoError(t, err)

	_, err = tokens.Resolve(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
