package compliance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "unionhub/pkg/domain"
	audit "unionhub/pkg/platform/audit"
	"unionhub/pkg/platform/audit/store/memory"
)

type failingStore struct{}

func (failingStore) Append(context.Context, audit.Event) error { return errors.New("disk full") }

func TestPublisher_Emit(t *testing.T) {
	ctx := context.Background()

	t.Run("persists with derived category and timestamp", func(t *testing.T) {
		store := memory.NewInMemoryStore()
		pub := New(store)
		memberID := id.NewMemberID()

		err := pub.Emit(ctx, audit.Event{MemberID: memberID, Action: string(audit.EventVoteCast)})
		require.NoError(t, err)

		events, err := store.ListByMember(ctx, memberID)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.CategoryCompliance, events[0].Category)
		assert.False(t, events[0].Timestamp.IsZero())
	})

	t.Run("unknown actions are operational", func(t *testing.T) {
		store := memory.NewInMemoryStore()
		require.NoError(t, New(store).Emit(ctx, audit.Event{Action: "election_viewed"}))
		events, err := store.ListRecent(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, audit.CategoryOperations, events[0].Category)
	})

	t.Run("requires action", func(t *testing.T) {
		assert.Error(t, New(memory.NewInMemoryStore()).Emit(ctx, audit.Event{}))
	})

	t.Run("fails closed when the store fails", func(t *testing.T) {
		err := New(failingStore{}).Emit(ctx, audit.Event{Action: string(audit.EventVoteVerified)})
		assert.ErrorContains(t, err, "audit persistence failed")
	})
}
