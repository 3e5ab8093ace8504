package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// outcome is one call to the primary backend: true for success.
type outcome bool

const (
	ok   outcome = true
	fail outcome = false
)

func replay(b *Breaker, outcomes ...outcome) {
	for _, o := range outcomes {
		if o {
			b.RecordSuccess()
		} else {
			b.RecordFailure()
		}
	}
}

func TestBreakerScenarios(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		outcomes []outcome
		wantOpen bool
	}{
		{name: "starts closed", wantOpen: false},
		{name: "defaults open on the fifth straight failure", outcomes: []outcome{fail, fail, fail, fail, fail}, wantOpen: true},
		{name: "defaults stay closed at four failures", outcomes: []outcome{fail, fail, fail, fail}, wantOpen: false},
		{
			name:     "a success between failures restarts the count",
			opts:     []Option{WithFailureThreshold(3)},
			outcomes: []outcome{fail, fail, ok, fail, fail},
			wantOpen: false,
		},
		{
			name:     "open until enough consecutive successes",
			opts:     []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			outcomes: []outcome{fail, ok},
			wantOpen: true,
		},
		{
			name:     "closes after the success threshold",
			opts:     []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			outcomes: []outcome{fail, ok, ok},
			wantOpen: false,
		},
		{
			name:     "a failure while recovering restarts the success count",
			opts:     []Option{WithFailureThreshold(1), WithSuccessThreshold(3)},
			outcomes: []outcome{fail, ok, ok, fail, ok, ok},
			wantOpen: true,
		},
		{
			name:     "non-positive thresholds keep the defaults",
			opts:     []Option{WithFailureThreshold(0), WithSuccessThreshold(-1)},
			outcomes: []outcome{fail, fail, fail, fail},
			wantOpen: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("otp-throttle", tt.opts...)
			replay(b, tt.outcomes...)
			assert.Equal(t, tt.wantOpen, b.IsOpen())
		})
	}
}

func TestBreakerReportsTransitions(t *testing.T) {
	b := New("otp-throttle", WithFailureThreshold(2), WithSuccessThreshold(1))
	assert.Equal(t, "otp-throttle", b.Name())
	assert.Equal(t, "closed", b.State().String())

	useFallback, change := b.RecordFailure()
	assert.False(t, useFallback, "below threshold the primary answer still stands")
	assert.Equal(t, StateChange{}, change)

	useFallback, change = b.RecordFailure()
	require.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.Equal(t, "open", b.State().String())

	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback)
	assert.Equal(t, StateChange{}, change, "already open")

	usePrimary, change := b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerReset(t *testing.T) {
	b := New("otp-throttle", WithFailureThreshold(1), WithSuccessThreshold(5))
	replay(b, fail)
	require.True(t, b.IsOpen())

	b.Reset()
	assert.False(t, b.IsOpen())

	// Counters are cleared too: one failure reopens, one success is not enough.
	replay(b, fail, ok)
	assert.True(t, b.IsOpen())
}
