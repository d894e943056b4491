package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCurrentSessionWithoutOpenSession(t *testing.T) {
	f := newFixture(t)
	uid := f.register(t, "a@example.com", false)

	_, err := f.sessions.CurrentSession(context.Background(), uid)
	assert.ErrorIs(t, err, ErrNoOpenSession)
	_, err = f.sessions.UpdateCurrentSession(context.Background(), uid, SessionUpdate{Notes: ptr("x")})
	assert.ErrorIs(t, err, ErrNoOpenSession)
}

func TestUpdateCurrentSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "a@example.com", false)
	_, err := f.climbs.LogClimb(ctx, uid, boulder("V1", 1, true))
	require.NoError(t, err)

	view, err := f.sessions.UpdateCurrentSession(ctx, uid, SessionUpdate{SessionName: ptr("  Evening  "), Intensity: ptr(7)})
	require.NoError(t, err)
	assert.Equal(t, "Evening", view.SessionName)
	assert.Equal(t, 7, view.Intensity)
	assert.False(t, view.Completed)

	// Unset fields keep their values.
	view, err = f.sessions.UpdateCurrentSession(ctx, uid, SessionUpdate{Notes: ptr("crimpy")})
	require.NoError(t, err)
	assert.Equal(t, "Evening", view.SessionName)
	assert.Equal(t, 7, view.Intensity)
	assert.Equal(t, "crimpy", view.Notes)

	for _, bad := range []int{-1, 11} {
		_, err = f.sessions.UpdateCurrentSession(ctx, uid, SessionUpdate{Intensity: ptr(bad)})
		assert.ErrorIs(t, err, ErrInvalidIntensity)
	}
}

func TestCompleteSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "a@example.com", false)
	_, err := f.climbs.LogClimb(ctx, uid, boulder("V4", 2, true))
	require.NoError(t, err)

	view, err := f.sessions.UpdateCurrentSession(ctx, uid, SessionUpdate{Intensity: ptr(10), Completed: ptr(true)})
	require.NoError(t, err)
	assert.True(t, view.Completed)
	assert.NotNil(t, view.CompletedAt)
	assert.Equal(t, 1, view.SessionStats.TotalSends)
	require.NotNil(t, view.HighestBoulderDisplay)
	assert.Equal(t, "V4", *view.HighestBoulderDisplay)

	_, err = f.sessions.CurrentSession(ctx, uid)
	assert.ErrorIs(t, err, ErrNoOpenSession)
	_, err = f.sessions.UpdateCurrentSession(ctx, uid, SessionUpdate{Notes: ptr("late")})
	assert.ErrorIs(t, err, ErrNoOpenSession)

	detail, err := f.sessions.SessionDetail(ctx, uid, view.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Climbs, 1)
}

func TestListSessionsNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "a@example.com", false)

	first, err := f.climbs.LogClimb(ctx, uid, boulder("V1", 1, true))
	require.NoError(t, err)
	_, err = f.sessions.UpdateCurrentSession(ctx, uid, SessionUpdate{Completed: ptr(true)})
	require.NoError(t, err)
	second, err := f.climbs.LogClimb(ctx, uid, boulder("V2", 1, true))
	require.NoError(t, err)

	sessions, err := f.sessions.ListSessions(ctx, uid)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second.SessionID, sessions[0].ID)
	assert.Equal(t, first.SessionID, sessions[1].ID)
	assert.False(t, sessions[0].Completed)
	assert.True(t, sessions[1].Completed)
}

func TestSessionDetailAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "a@example.com", false)
	other := f.register(t, "b@example.com", false)
	c, err := f.climbs.LogClimb(ctx, owner, boulder("V1", 1, true))
	require.NoError(t, err)

	_, err = f.sessions.SessionDetail(ctx, other, c.SessionID)
	assert.ErrorIs(t, err, ErrSessionAccessDenied)
	_, err = f.sessions.SessionDetail(ctx, owner, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
