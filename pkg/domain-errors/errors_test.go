package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("matches wrapped domain error", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", New(CodeQuorumNotMet, "quorum not met"))
		assert.True(t, HasCode(err, CodeQuorumNotMet))
		assert.False(t, HasCode(err, CodeNotFound))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		err := errors.New("boom")
		assert.False(t, HasCode(err, CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(err))
	})

	t.Run("wrap keeps the cause reachable", func(t *testing.T) {
		cause := errors.New("db down")
		err := Wrap(cause, CodeInternal, "failed to load election")
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "failed to load election: db down", err.Error())
	})

	t.Run("wrap of nil is nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "unused"))
	})
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:      http.StatusBadRequest,
		CodeNotEligible:     http.StatusForbidden,
		CodeDuplicate:       http.StatusConflict,
		CodeStateConflict:   http.StatusConflict,
		CodeQuorumNotMet:    http.StatusConflict,
		CodeExpired:         http.StatusGone,
		CodeTooManyAttempts: http.StatusTooManyRequests,
		CodeNotFound:        http.StatusNotFound,
		CodeInternal:        http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, ToHTTPStatus(code), "code %s", code)
	}
}
