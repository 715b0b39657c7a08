// Package conversationtest holds the behaviour shared by every
// domain.ConversationStore implementation.
package conversationtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiact/internal/domain"
)

// Run exercises a fresh store from newStore for each subtest.
func Run(t *testing.T, newStore func(t *testing.T) domain.ConversationStore) {
	t.Run("history keeps insertion order", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.AppendMessage(ctx, "s1", domain.RoleUser, "Is a CV screener high risk?"))
		require.NoError(t, s.AppendMessage(ctx, "s1", domain.RoleAssistant, "Yes, Annex III point 4."))
		require.NoError(t, s.AppendMessage(ctx, "s2", domain.RoleUser, "other"))

		h, err := s.History(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, h, 2)
		assert.Equal(t, domain.RoleUser, h[0].Role)
		assert.Equal(t, "Is a CV screener high risk?", h[0].Content)
		assert.Equal(t, domain.RoleAssistant, h[1].Role)
		assert.False(t, h[0].Timestamp.IsZero())
		assert.False(t, h[1].Timestamp.Before(h[0].Timestamp))
	})

	t.Run("unknown session has empty history", func(t *testing.T) {
		h, err := newStore(t).History(context.Background(), "missing")
		require.NoError(t, err)
		assert.Empty(t, h)
	})

	t.Run("sessions are listed sorted", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		for _, id := range []string{"b", "a", "b"} {
			require.NoError(t, s.AppendMessage(ctx, id, domain.RoleUser, "hi"))
		}
		ids, err := s.Sessions(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, ids)
	})

	t.Run("delete reports whether the session existed", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.AppendMessage(ctx, "s1", domain.RoleUser, "hi"))

		ok, err := s.Delete(ctx, "s1")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.Delete(ctx, "s1")
		require.NoError(t, err)
		assert.False(t, ok)

		h, err := s.History(ctx, "s1")
		require.NoError(t, err)
		assert.Empty(t, h)
		ids, err := s.Sessions(ctx)
		require.NoError(t, err)
		assert.NotContains(t, ids, "s1")
	})
}
