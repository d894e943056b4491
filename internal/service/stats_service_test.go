package service

import (
	"climblog/climbing-app/internal/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "a@example.com", true)

	log := func(in LogClimbInput) {
		t.Helper()
		_, err := f.climbs.LogClimb(ctx, uid, in)
		require.NoError(t, err)
	}
	log(boulder("6b", 2, true)) // V6
	_, err := f.sessions.UpdateCurrentSession(ctx, uid, SessionUpdate{Completed: ptr(true)})
	require.NoError(t, err)
	log(boulder("7a", 5, false)) // V8, not sent
	log(LogClimbInput{Type: domain.ClimbTypeTopRope, Style: domain.ClimbStyleSlab, Grade: "6b+", Attempts: 1, Send: true})
	log(LogClimbInput{Type: domain.ClimbTypeLead, Style: domain.ClimbStyleSlab, Grade: "6a", Attempts: 1, Send: true})

	st, err := f.stats.UserStats(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 4, st.TotalClimbs)
	assert.Equal(t, 3, st.TotalSends)
	assert.Equal(t, 2, st.Sessions)

	require.NotNil(t, st.Hardest.Boulder)
	assert.Equal(t, "V6", st.Hardest.Boulder.Grade)
	assert.Equal(t, "6b", st.Hardest.Boulder.DisplayGrade)

	require.NotNil(t, st.Hardest.Route)
	assert.Equal(t, "5.10c", st.Hardest.Route.Grade)
	assert.Equal(t, domain.ClimbTypeTopRope, st.Hardest.Route.Type)
	assert.Equal(t, "6b+", st.Hardest.Route.DisplayGrade)

	assert.Equal(t, []domain.TypeStyleCount{
		{Type: domain.ClimbTypeBoulder, Style: domain.ClimbStyleOverhang, Count: 2},
		{Type: domain.ClimbTypeTopRope, Style: domain.ClimbStyleSlab, Count: 1},
		{Type: domain.ClimbTypeLead, Style: domain.ClimbStyleSlab, Count: 1},
	}, st.Breakdown)
}

func TestUserStatsEmpty(t *testing.T) {
	f := newFixture(t)
	uid := f.register(t, "a@example.com", false)

	st, err := f.stats.UserStats(context.Background(), uid)
	require.NoError(t, err)
	assert.Nil(t, st.Hardest.Boulder)
	assert.Nil(t, st.Hardest.Route)
	assert.Empty(t, st.Breakdown)
	assert.Zero(t, st.Sessions)
}
