package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpryor812/shopify-aloha/internal/models"
)

func TestStartSessionSeedsWelcome(t *testing.T) {
	s := NewSessionService()

	welcome := s.StartSession(context.Background(), "sess-1")

	assert.False(t, welcome.IsUser)
	assert.Equal(t, WelcomeMessage, welcome.Text)

	history := s.Get("sess-1")
	require.Len(t, history, 1)
	assert.Equal(t, WelcomeMessage, history[0].Text)
}

func TestStartSessionResetsExisting(t *testing.T) {
	s := NewSessionService()
	ctx := context.Background()

	s.StartSession(ctx, "sess-1")
	s.Append("sess-1", models.NewUserMessage("hello"))
	s.Append("sess-1", models.NewAssistantMessage("hi!"))
	require.Len(t, s.Get("sess-1"), 3)

	s.StartSession(ctx, "sess-1")
	history := s.Get("sess-1")
	require.Len(t, history, 1)
	assert.Equal(t, WelcomeMessage, history[0].Text)
}

func TestSessionsAreIsolated(t *testing.T) {
	s := NewSessionService()
	ctx := context.Background()

	s.StartSession(ctx, "a")
	s.StartSession(ctx, "b")
	s.Append("a", models.NewUserMessage("only in a"))

	assert.Len(t, s.Get("a"), 2)
	assert.Len(t, s.Get("b"), 1)
}

func TestAppendCreatesSessionImplicitly(t *testing.T) {
	s := NewSessionService()

	s.Append("fresh", models.NewUserMessage("hello"))

	history := s.Get("fresh")
	require.Len(t, history, 1)
	assert.True(t, history[0].IsUser)
	assert.Equal(t, "hello", history[0].Text)
}

func TestAppendPreservesOrder(t *testing.T) {
	s := NewSessionService()

	s.Append("sess", models.NewUserMessage("first"))
	s.Append("sess", models.NewAssistantMessage("second"))
	s.Append("sess", models.NewUserMessage("third"))

	history := s.Get("sess")
	require.Len(t, history, 3)
	assert.Equal(t, "first", history[0].Text)
	assert.Equal(t, "second", history[1].Text)
	assert.Equal(t, "third", history[2].Text)
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewSessionService()
	s.Append("sess", models.NewUserMessage("original"))

	history := s.Get("sess")
	history[0].Text = "mutated"

	assert.Equal(t, "original", s.Get("sess")[0].Text)
}

func TestClearRemovesSession(t *testing.T) {
	s := NewSessionService()
	ctx := context.Background()

	s.StartSession(ctx, "sess")
	assert.Equal(t, 1, s.Count())

	s.Clear(ctx, "sess")
	assert.Empty(t, s.Get("sess"))
	assert.Equal(t, 0, s.Count())

	// Clearing an unknown session is a no-op.
	s.Clear(ctx, "never-existed")
}
